package impact

import (
	"log"
	"sync"
	"time"

	"github.com/khanglvm/dev-advisor/internal/storage"
)

const (
	// journalQueueSize is the buffer size for the event queue.
	// If full, events are dropped (non-blocking).
	journalQueueSize = 1000

	// batchFlushSize is the number of events that triggers an immediate flush.
	batchFlushSize = 10

	// flushInterval is how often pending events are written.
	flushInterval = 50 * time.Millisecond
)

// batchRecorder is implemented by stores that can write several events in
// one transaction.
type batchRecorder interface {
	RecordActivityBatch(events []storage.ActivityEvent) error
}

// Journal persists impact events in the background with non-blocking writes.
type Journal struct {
	storage  storage.Storage
	queue    chan Event
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	enabled  bool
	mu       sync.RWMutex
}

// NewJournal creates a journal writing to s and starts its flush loop.
func NewJournal(s storage.Storage) *Journal {
	j := &Journal{
		storage:  s,
		queue:    make(chan Event, journalQueueSize),
		stopChan: make(chan struct{}),
		enabled:  true,
	}

	if err := j.storage.Init(); err != nil {
		log.Printf("Warning: impact journal storage initialization failed: %v", err)
		j.enabled = false
	}

	j.wg.Add(1)
	go j.processEvents()

	return j
}

// Track queues an event (non-blocking). If the queue is full the event is
// dropped and a warning is logged.
func (j *Journal) Track(ev Event) {
	if !j.isEnabled() {
		return
	}

	select {
	case j.queue <- ev:
	default:
		log.Printf("Warning: impact journal queue full, dropping %s event", ev.ToStorage().Kind)
	}
}

// Stop flushes queued events and shuts down the flush loop.
func (j *Journal) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
		j.wg.Wait()
	})
}

// Disable makes Track ignore events.
func (j *Journal) Disable() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.enabled = false
}

// Enable turns tracking back on.
func (j *Journal) Enable() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.enabled = true
}

// IsEnabled returns whether tracking is enabled.
func (j *Journal) IsEnabled() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.enabled
}

func (j *Journal) isEnabled() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.enabled && j.storage != nil
}

// QueueSize returns the number of events waiting to be flushed.
func (j *Journal) QueueSize() int {
	return len(j.queue)
}

func (j *Journal) processEvents() {
	defer j.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, batchFlushSize)

	for {
		select {
		case ev := <-j.queue:
			batch = append(batch, ev)
			if len(batch) >= batchFlushSize {
				j.flush(batch)
				batch = make([]Event, 0, batchFlushSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				j.flush(batch)
				batch = make([]Event, 0, batchFlushSize)
			}

		case <-j.stopChan:
			for {
				select {
				case ev := <-j.queue:
					batch = append(batch, ev)
					if len(batch) >= batchFlushSize {
						j.flush(batch)
						batch = make([]Event, 0, batchFlushSize)
					}
				default:
					j.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events to storage in order.
func (j *Journal) flush(events []Event) {
	if len(events) == 0 {
		return
	}

	rows := make([]storage.ActivityEvent, len(events))
	for i, ev := range events {
		rows[i] = ev.ToStorage()
	}

	if b, ok := j.storage.(batchRecorder); ok {
		if err := b.RecordActivityBatch(rows); err != nil {
			log.Printf("Warning: failed to record impact events: %v", err)
		}
		return
	}

	for _, row := range rows {
		if err := j.storage.RecordActivity(row); err != nil {
			log.Printf("Warning: failed to record impact event: %v", err)
		}
	}
}
