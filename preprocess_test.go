package edusolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercase and stop words",
			text: "What is the Pythagorean theorem?",
			want: []string{"pythagorean", "theorem"},
		},
		{
			name: "digits and punctuation stripped",
			text: "Solve 2x + 3 = 7 for x!",
			want: []string{"solve", "x", "x"},
		},
		{
			name: "urls removed",
			text: "Visit https://example.com/page for details",
			want: []string{"visit", "detail"},
		},
		{
			name: "emails removed",
			text: "Contact teacher@school.edu tomorrow",
			want: []string{"contact", "tomorrow"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "only stop words",
			text: "what is this",
			want: nil,
		},
		{
			name: "plural reduced",
			text: "plants and cells",
			want: []string{"plant", "cell"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.text))
		})
	}
}

func TestLemmatize(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"studies", "study"},
		{"classes", "class"},
		{"explained", "explain"},
		{"plants", "plant"},
		{"boss", "boss"}, // double-s words keep their suffix
		{"gas", "gas"},   // too short to strip
		{"light", "light"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, lemmatize(tt.word))
		})
	}
}

func TestProcessedText(t *testing.T) {
	assert.Equal(t, "solve quadratic equation", ProcessedText([]string{"solve", "quadratic", "equation"}))
	assert.Equal(t, "", ProcessedText(nil))
}
