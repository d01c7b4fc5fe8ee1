package edusolve

import "sync"

// RetrainWorker runs retraining off the request-handling path. Correctness
// never depends on it: model swap-in is atomic either way, the worker only
// keeps rebuild latency out of ask responses.
type RetrainWorker struct {
	classifier *Classifier
	store      *Store

	notify chan struct{}
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewRetrainWorker creates a worker bound to the classifier and store
func NewRetrainWorker(classifier *Classifier, store *Store) *RetrainWorker {
	return &RetrainWorker{
		classifier: classifier,
		store:      store,
		notify:     make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}
}

// Start launches the background loop
func (w *RetrainWorker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Notify signals that new samples were recorded. Non-blocking; a pending
// signal already covers any number of recordings.
func (w *RetrainWorker) Notify() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// Stop shuts the worker down and waits for a retraining pass in flight
func (w *RetrainWorker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

func (w *RetrainWorker) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case <-w.notify:
			retrained, err := w.classifier.MaybeRetrain()
			if err != nil {
				// Previous model stays in service; samples are not lost and
				// the next accumulation will retry.
				VerboseLog("background retraining failed: %v", err)
				continue
			}
			if !retrained {
				continue
			}
			if w.store != nil {
				if err := w.store.SaveModelSnapshot(w.classifier.Snapshot()); err != nil {
					VerboseLog("failed to persist model snapshot: %v", err)
				}
			}
		}
	}
}
