package edusolve

// Administrative corpus cleanup. Record never drops samples (the corpus must
// grow by exactly one per valid call), so duplicate removal only runs from
// the seeding CLI and maintenance paths.

// DedupSamples removes exact duplicates from a labeled sample set, keeping
// the first occurrence. Two samples are duplicates when their normalized
// token sequences and both labels match.
func DedupSamples(samples []TrainingSample) []TrainingSample {
	seen := make(map[string]bool, len(samples))
	cleaned := make([]TrainingSample, 0, len(samples))

	for _, sample := range samples {
		tokens := sample.Tokens
		if tokens == nil {
			tokens = Normalize(sample.Text)
		}
		key := string(sample.Subject) + "\x00" + string(sample.Difficulty) + "\x00" + ProcessedText(tokens)
		if seen[key] {
			VerboseLog("dropping duplicate sample: %.50s", sample.Text)
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, sample)
	}

	return cleaned
}
