package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/exes/food-network/internal/api/metrics"
	"github.com/exes/food-network/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrClosed is returned by Enqueue once the dispatcher stopped taking events.
var ErrClosed = errors.New("telemetry dispatcher closed")

// Dispatcher routes machine heartbeats to a fixed set of workers using
// consistent hashing on the machine ID, guaranteeing per-machine ordering.
type Dispatcher struct {
	workers []chan ports.TelemetryEventInput
	service ports.TelemetryService
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.TelemetryService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.TelemetryEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.TelemetryEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is handed to every Process call.
// Workers run until Close and return once their buffer is drained; Wait
// blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close stops accepting heartbeats. Events already queued are still
// processed. It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// Enqueue sends a heartbeat to the worker responsible for its machine. It
// blocks while that worker's buffer is full, until ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, event ports.TelemetryEventInput) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	idx := d.shardIndex(event.MachineID)
	select {
	case d.workers[idx] <- event:
		metrics.TelemetryQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a machine ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(machineID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(machineID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.TelemetryEventInput) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for event := range ch {
		metrics.TelemetryQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		if err := d.service.Process(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("machine_id", event.MachineID).
				Int("worker_id", id).
				Msg("heartbeat processing failed")
		}
	}
}
