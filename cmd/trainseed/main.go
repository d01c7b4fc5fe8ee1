package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	edusolve "github.com/subhampadhi33537-collab/EduSolve-Ai"
)

// trainseed imports labeled questions into the training corpus and rebuilds
// the classification models. With no -input file it installs the built-in
// starter samples.

type inputSample struct {
	Text       string `json:"text"`
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
}

func main() {
	var (
		dbPath    = flag.String("db", edusolve.DefaultDBPath, "Path to the SQLite database")
		inputFile = flag.String("input", "", "JSON file of labeled samples (default: built-in starter corpus)")
		dedup     = flag.Bool("dedup", true, "Drop duplicate samples before training")
		replace   = flag.Bool("replace", false, "Replace the stored corpus instead of appending")
		verbose   = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	edusolve.SetVerbose(*verbose)

	store, err := edusolve.OpenStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if err := store.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	var incoming []edusolve.TrainingSample
	if *inputFile != "" {
		incoming, err = loadSamples(*inputFile)
		if err != nil {
			log.Fatalf("Failed to load samples from %s: %v", *inputFile, err)
		}
		log.Printf("Loaded %d samples from %s", len(incoming), *inputFile)
	} else {
		incoming = edusolve.DefaultSeedCorpus()
		log.Printf("Using %d built-in starter samples", len(incoming))
	}

	existing, err := store.LoadCorpus()
	if err != nil {
		log.Fatalf("Failed to load stored corpus: %v", err)
	}

	var corpus []edusolve.TrainingSample
	if *replace {
		corpus = incoming
	} else {
		corpus = append(existing, incoming...)
	}

	if *dedup {
		before := len(corpus)
		corpus = edusolve.DedupSamples(corpus)
		if dropped := before - len(corpus); dropped > 0 {
			log.Printf("Dropped %d duplicate samples", dropped)
		}
	}

	if err := store.ReplaceCorpus(corpus); err != nil {
		log.Fatalf("Failed to persist corpus: %v", err)
	}

	classifier := edusolve.NewClassifier(edusolve.ClassifierConfig{})
	classifier.SeedCorpus(corpus)
	if err := classifier.ForceRetrain(); err != nil {
		log.Fatalf("Failed to train models: %v", err)
	}

	snap := classifier.Snapshot()
	if err := store.SaveModelSnapshot(snap); err != nil {
		log.Fatalf("Failed to persist model snapshot: %v", err)
	}

	fmt.Printf("Trained over %d samples (%d vocabulary terms)\n", snap.CorpusSize, len(snap.Vocab))
	printDistribution(corpus)
}

func loadSamples(path string) ([]edusolve.TrainingSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []inputSample
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid sample file: %w", err)
	}

	now := time.Now()
	samples := make([]edusolve.TrainingSample, 0, len(raw))
	for i, in := range raw {
		subject, err := edusolve.ParseSubject(in.Subject)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		difficulty, err := edusolve.ParseDifficulty(in.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		samples = append(samples, edusolve.TrainingSample{
			Text:       in.Text,
			Tokens:     edusolve.Normalize(in.Text),
			Subject:    subject,
			Difficulty: difficulty,
			CreatedAt:  now,
		})
	}
	return samples, nil
}

func printDistribution(corpus []edusolve.TrainingSample) {
	subjects := make(map[edusolve.Subject]int)
	difficulties := make(map[edusolve.Difficulty]int)
	for _, sample := range corpus {
		subjects[sample.Subject]++
		difficulties[sample.Difficulty]++
	}

	fmt.Println("Subjects:")
	for _, subject := range edusolve.Subjects {
		fmt.Printf("  %-12s %d\n", subject, subjects[subject])
	}
	fmt.Println("Difficulties:")
	for _, difficulty := range edusolve.Difficulties {
		fmt.Printf("  %-12s %d\n", difficulty, difficulties[difficulty])
	}
}
