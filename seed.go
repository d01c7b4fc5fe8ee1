package edusolve

import "time"

// Built-in starter corpus. Used when no training data has been collected yet
// so the classifiers have something to answer with from the first request.

type seedEntry struct {
	text       string
	subject    Subject
	difficulty Difficulty
}

var seedEntries = []seedEntry{
	{"How do I solve a quadratic equation using the quadratic formula?", SubjectMathematics, DifficultyMedium},
	{"What is the derivative of x squared?", SubjectMathematics, DifficultyMedium},
	{"Explain the Pythagorean theorem", SubjectMathematics, DifficultyEasy},
	{"How to find the area of a circle?", SubjectMathematics, DifficultyEasy},
	{"What is integration in calculus?", SubjectMathematics, DifficultyMedium},
	{"Prove the theorem about eigenvalues of a symmetric matrix", SubjectMathematics, DifficultyHard},

	{"What is Newton's second law of motion?", SubjectPhysics, DifficultyEasy},
	{"Explain the relationship between velocity and acceleration", SubjectPhysics, DifficultyEasy},
	{"What is kinetic energy and how is it calculated?", SubjectPhysics, DifficultyMedium},
	{"Explain electromagnetic waves and their properties", SubjectPhysics, DifficultyMedium},
	{"Derive the Schrodinger equation for a particle in a box", SubjectPhysics, DifficultyHard},
	{"What is momentum conservation in collisions?", SubjectPhysics, DifficultyMedium},

	{"What is an atom made of?", SubjectChemistry, DifficultyEasy},
	{"Explain how chemical bonds form between elements", SubjectChemistry, DifficultyMedium},
	{"What is the periodic table and how is it organized?", SubjectChemistry, DifficultyEasy},
	{"Balance this chemical reaction and explain oxidation states", SubjectChemistry, DifficultyMedium},
	{"Explain reaction kinetics and equilibrium constants", SubjectChemistry, DifficultyHard},

	{"What is photosynthesis and why do plants need light?", SubjectBiology, DifficultyEasy},
	{"Explain how the cell and mitochondria produce energy", SubjectBiology, DifficultyMedium},
	{"What is DNA and how do genes encode proteins?", SubjectBiology, DifficultyMedium},
	{"Explain evolution by natural selection", SubjectBiology, DifficultyMedium},
	{"How do bacteria develop antibiotic resistance?", SubjectBiology, DifficultyHard},

	{"What is a metaphor in literature?", SubjectEnglish, DifficultyEasy},
	{"Analyze the main themes in this Shakespeare sonnet", SubjectEnglish, DifficultyHard},
	{"How do I structure an essay with a strong thesis?", SubjectEnglish, DifficultyMedium},
	{"What is the difference between a novel and a short story?", SubjectEnglish, DifficultyEasy},
	{"Explain the grammar rules for past perfect tense", SubjectEnglish, DifficultyMedium},

	{"When did the Roman Empire fall?", SubjectHistory, DifficultyEasy},
	{"What caused the French Revolution?", SubjectHistory, DifficultyMedium},
	{"Explain the major events of the ancient Egyptian civilization", SubjectHistory, DifficultyMedium},
	{"Analyze the political causes of the First World War", SubjectHistory, DifficultyHard},
	{"Who was the first president of the United States?", SubjectHistory, DifficultyEasy},

	{"What is the capital of France?", SubjectGeography, DifficultyEasy},
	{"Name the largest ocean and the longest river", SubjectGeography, DifficultyEasy},
	{"Explain how mountain ranges affect regional climate", SubjectGeography, DifficultyMedium},
	{"Compare the climate zones across the continents", SubjectGeography, DifficultyHard},
	{"How do you read coordinates on a map?", SubjectGeography, DifficultyEasy},
}

// DefaultSeedCorpus returns the starter samples with normalized tokens
func DefaultSeedCorpus() []TrainingSample {
	now := time.Now()
	samples := make([]TrainingSample, 0, len(seedEntries))
	for _, entry := range seedEntries {
		samples = append(samples, TrainingSample{
			Text:       entry.text,
			Tokens:     Normalize(entry.text),
			Subject:    entry.subject,
			Difficulty: entry.difficulty,
			CreatedAt:  now,
		})
	}
	return samples
}
