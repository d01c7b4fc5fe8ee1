package main

import (
	"log"
	"net/http"
	"os"

	edusolve "github.com/subhampadhi33537-collab/EduSolve-Ai"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; the environment may already be populated
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	edusolve.SetVerbose(os.Getenv("VERBOSE") == "true")

	cfg := edusolve.LoadConfig()
	if err := cfg.ValidateForServing(); err != nil {
		log.Fatal(err)
	}

	store, err := edusolve.OpenStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if err := store.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	llmLogger, err := edusolve.NewLLMLogger(cfg.LogDir)
	if err != nil {
		log.Printf("Failed to create LLM audit log, continuing without: %v", err)
	} else {
		edusolve.SetGlobalLLMLogger(llmLogger)
		defer llmLogger.Close()
	}

	classifier := edusolve.NewClassifier(cfg.ClassifierConfig())

	// Restore the stored corpus and the last trained snapshot so
	// classification quality survives restarts.
	corpus, err := store.LoadCorpus()
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}
	if len(corpus) == 0 {
		log.Printf("No stored corpus, seeding starter samples")
		corpus = edusolve.DefaultSeedCorpus()
		for _, sample := range corpus {
			if err := store.SaveTrainingSample(sample); err != nil {
				log.Fatalf("Failed to seed training sample: %v", err)
			}
		}
	}
	classifier.SeedCorpus(corpus)

	snapshot, err := store.LoadLatestModelSnapshot()
	if err != nil {
		log.Fatalf("Failed to load model snapshot: %v", err)
	}
	if snapshot != nil {
		classifier.RestoreSnapshot(snapshot)
		log.Printf("Restored model snapshot built %s over %d samples",
			snapshot.BuiltAt.Format("2006-01-02 15:04:05"), snapshot.CorpusSize)
	} else {
		if err := classifier.ForceRetrain(); err != nil {
			log.Fatalf("Failed to train initial model: %v", err)
		}
		if err := store.SaveModelSnapshot(classifier.Snapshot()); err != nil {
			log.Printf("Failed to persist initial snapshot: %v", err)
		}
		log.Printf("Trained initial model over %d samples", len(corpus))
	}

	retrainer := edusolve.NewRetrainWorker(classifier, store)
	retrainer.Start()
	defer retrainer.Stop()

	explainer := edusolve.NewGroqExplainer(cfg)
	service := edusolve.NewService(cfg, classifier, explainer, store, retrainer)

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))

	server := NewServer(service, sessionStore)
	server.Routes(http.DefaultServeMux)

	log.Printf("Starting server on port %s (model: %s)", cfg.Port, cfg.GroqModel)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, nil))
}
