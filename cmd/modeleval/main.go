package main

import (
	"flag"
	"fmt"
	"log"

	edusolve "github.com/subhampadhi33537-collab/EduSolve-Ai"
)

// modeleval measures classification accuracy over the stored corpus with
// leave-one-out cross validation: each sample is classified by a model
// trained on every other sample.

func main() {
	var (
		dbPath  = flag.String("db", edusolve.DefaultDBPath, "Path to the SQLite database")
		verbose = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	edusolve.SetVerbose(*verbose)

	store, err := edusolve.OpenStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	corpus, err := store.LoadCorpus()
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	if len(corpus) < 2 {
		log.Fatalf("Need at least 2 stored samples to evaluate, have %d (run trainseed first)", len(corpus))
	}

	log.Printf("Evaluating over %d samples", len(corpus))

	subjectHits := make(map[edusolve.Subject]int)
	subjectTotals := make(map[edusolve.Subject]int)
	difficultyHits := make(map[edusolve.Difficulty]int)
	difficultyTotals := make(map[edusolve.Difficulty]int)
	var subjectCorrect, difficultyCorrect int

	rest := make([]edusolve.TrainingSample, 0, len(corpus)-1)
	for i, held := range corpus {
		rest = rest[:0]
		rest = append(rest, corpus[:i]...)
		rest = append(rest, corpus[i+1:]...)

		classifier := edusolve.NewClassifier(edusolve.ClassifierConfig{})
		classifier.SeedCorpus(rest)
		if err := classifier.ForceRetrain(); err != nil {
			log.Fatalf("Failed to train fold %d: %v", i, err)
		}

		subjectTotals[held.Subject]++
		difficultyTotals[held.Difficulty]++

		if result, err := classifier.ClassifySubject(held.Text); err == nil &&
			result.Label == string(held.Subject) {
			subjectCorrect++
			subjectHits[held.Subject]++
		}
		if result, err := classifier.ClassifyDifficulty(held.Text); err == nil &&
			result.Label == string(held.Difficulty) {
			difficultyCorrect++
			difficultyHits[held.Difficulty]++
		}
	}

	total := len(corpus)
	fmt.Printf("Subject accuracy:    %d/%d (%.1f%%)\n",
		subjectCorrect, total, 100*float64(subjectCorrect)/float64(total))
	for _, subject := range edusolve.Subjects {
		if subjectTotals[subject] == 0 {
			continue
		}
		fmt.Printf("  %-12s %d/%d\n", subject, subjectHits[subject], subjectTotals[subject])
	}

	fmt.Printf("Difficulty accuracy: %d/%d (%.1f%%)\n",
		difficultyCorrect, total, 100*float64(difficultyCorrect)/float64(total))
	for _, difficulty := range edusolve.Difficulties {
		if difficultyTotals[difficulty] == 0 {
			continue
		}
		fmt.Printf("  %-12s %d/%d\n", difficulty, difficultyHits[difficulty], difficultyTotals[difficulty])
	}
}
