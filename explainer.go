package edusolve

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Explainer produces a formatted explanation for a classified question
type Explainer interface {
	GetExplanation(ctx context.Context, question string, subject Subject, difficulty Difficulty) (*Explanation, error)
}

// GroqExplainer calls Groq's OpenAI-compatible chat completion API
type GroqExplainer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewGroqExplainer creates an explainer against the configured Groq endpoint
func NewGroqExplainer(cfg Config) *GroqExplainer {
	clientConfig := openai.DefaultConfig(cfg.GroqAPIKey)
	clientConfig.BaseURL = cfg.GroqBaseURL

	return &GroqExplainer{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.GroqModel,
		maxTokens:   cfg.GroqMaxTokens,
		temperature: cfg.GroqTemperature,
	}
}

// GetExplanation sends the question with its classification context and
// returns the generated explanation plus usage metadata
func (g *GroqExplainer) GetExplanation(ctx context.Context, question string, subject Subject, difficulty Difficulty) (*Explanation, error) {
	prompt := g.buildPrompt(question, subject, difficulty)

	if logger := GetGlobalLLMLogger(); logger != nil {
		logger.LogRequest("Explainer", prompt)
	}

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a concise tutor. Give brief, clear answers in simple language. Focus on key points only. Do not use markdown like ** or ##. Write in plain text.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   g.maxTokens,
			Temperature: g.temperature,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get explanation: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from model %s", g.model)
	}

	explanation := &Explanation{
		Text:       resp.Choices[0].Message.Content,
		ModelUsed:  g.model,
		TokensUsed: resp.Usage.TotalTokens,
	}

	if logger := GetGlobalLLMLogger(); logger != nil {
		logger.LogResponse("Explainer", explanation.Text)
	}

	VerboseLog("explanation generated for %s/%s question (%d tokens)",
		subject, difficulty, explanation.TokensUsed)
	return explanation, nil
}

func (g *GroqExplainer) buildPrompt(question string, subject Subject, difficulty Difficulty) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Question: %s\n\n", question))
	sb.WriteString(fmt.Sprintf("Subject: %s, difficulty: %s\n\n", subject, difficulty))
	sb.WriteString("Provide a brief, clear explanation in this format:\n\n")
	sb.WriteString("What is [topic]?\n")
	sb.WriteString("[Answer in 2-3 sentences]\n\n")
	sb.WriteString("Key Points:\n")
	sb.WriteString("1. [First key point]\n")
	sb.WriteString("2. [Second key point]\n")
	sb.WriteString("3. [Third key point]\n\n")
	sb.WriteString("Example:\n")
	sb.WriteString("[Simple example if needed]\n\n")
	sb.WriteString("Keep it concise and educational.")

	return sb.String()
}
