package application

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/ahrav/go-taskgraph/internal/domain"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

// TaskOption configures a Task at construction time.
type TaskOption func(t *Task)

// WithMetrics attaches a metrics collector recording per-turn latency,
// compute counts, and sink depths.
func WithMetrics(m ports.MetricsCollector) TaskOption {
	return func(t *Task) { t.metrics = m }
}

// WithIterationLimit caps the number of scheduler turns a single Plan call
// may run. Zero or negative means unlimited; the run then ends when no
// stage is eligible or the context is cancelled.
func WithIterationLimit(n int) TaskOption {
	return func(t *Task) { t.maxIterations = n }
}

// WithPacing throttles scheduler turns to the given rate. Pacing happens
// between turns on the scheduler goroutine, never inside a stage's
// Compute.
func WithPacing(limit rate.Limit, burst int) TaskOption {
	return func(t *Task) { t.limiter = rate.NewLimiter(limit, burst) }
}

// WithInspector attaches a diagnostic stream to the whole tree, switching
// every stage to failure retention.
func WithInspector(insp ports.Inspector) TaskOption {
	return func(t *Task) { t.inspector = insp }
}

// Task wraps the root container of a stage tree with the scheduler loop
// that drives it. A single logical scheduler goroutine runs the entire
// tree cooperatively: exactly one stage's Compute runs to completion per
// turn, and its effects are fully visible before the next stage is
// evaluated. No locking exists inside the kernel because there is exactly
// one mutator goroutine.
type Task struct {
	name string
	root ports.Container

	// startSink and endSink collect the states pushed out of the tree's
	// boundary stages: endSink receives forward output (completed plan
	// frontiers), startSink receives backward output.
	startSink *domain.Interface
	endSink   *domain.Interface

	metrics       ports.MetricsCollector
	limiter       *rate.Limiter
	inspector     ports.Inspector
	maxIterations int

	iterations  int
	initialized bool
}

// NewTask creates a task around the given root container and wires the
// container's outward-facing pushes into the task's sink interfaces.
func NewTask(name string, root ports.Container, opts ...TaskOption) *Task {
	t := &Task{
		name:      name,
		root:      root,
		startSink: domain.NewInterface(domain.Backward),
		endSink:   domain.NewInterface(domain.Forward),
	}
	root.SetPush(domain.Forward, t.endSink)
	root.SetPush(domain.Backward, t.startSink)

	for _, opt := range opts {
		opt(t)
	}
	if t.inspector != nil {
		root.SetInspector(t.inspector)
	}
	return t
}

// Name returns the task's identifier.
func (t *Task) Name() string { return t.name }

// Root returns the root container of the stage tree.
func (t *Task) Root() ports.Container { return t.root }

// Init wires and validates the tree. A configuration error is surfaced as
// a structured report and leaves the tree inert: Plan refuses to schedule
// until Init succeeds.
func (t *Task) Init() error {
	if err := t.root.Wire(); err != nil {
		return fmt.Errorf("wiring task %q: %w", t.name, err)
	}
	if err := t.root.ValidateConnectivity(); err != nil {
		return fmt.Errorf("validating task %q: %w", t.name, err)
	}
	t.initialized = true
	return nil
}

// Plan drives the scheduler loop: each turn it asks the tree whether any
// stage is eligible and, if so, runs exactly one stage's Compute to
// completion. The loop ends when no stage is eligible (the tree is done,
// not an error), the iteration budget is exhausted, or ctx is cancelled.
func (t *Task) Plan(ctx context.Context) error {
	if !t.initialized {
		if err := t.Init(); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if t.maxIterations > 0 && t.iterations >= t.maxIterations {
			return nil
		}
		if !t.root.CanCompute() {
			return nil
		}
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		start := time.Now()
		err := t.root.Compute()
		t.iterations++
		t.recordTurn(time.Since(start), err)

		if err != nil {
			return fmt.Errorf("task %q: compute turn %d: %w", t.name, t.iterations, err)
		}
	}
}

// recordTurn emits the per-turn observability stream when a collector is
// attached.
func (t *Task) recordTurn(elapsed time.Duration, err error) {
	if t.metrics == nil {
		return
	}
	labels := map[string]string{"task": t.name}
	t.metrics.RecordLatency("compute", elapsed, labels)

	status := "ok"
	if err != nil {
		status = "error"
	}
	t.metrics.RecordCounter("scheduler_turns_total", 1, map[string]string{"task": t.name, "status": status})
	t.metrics.RecordGauge("task_end_states", float64(t.endSink.Len()), labels)
	t.metrics.RecordGauge("task_start_states", float64(t.startSink.Len()), labels)
}

// Iterations returns the number of scheduler turns run so far.
func (t *Task) Iterations() int { return t.iterations }

// EndStates returns the states the tree pushed out of its forward
// boundary, cheapest first. For a chain ending in a sink these are the
// completed plan frontiers.
func (t *Task) EndStates() []*domain.InterfaceState { return t.endSink.States() }

// StartStates returns the states the tree pushed out of its backward
// boundary, cheapest first.
func (t *Task) StartStates() []*domain.InterfaceState { return t.startSink.States() }

// Solutions collects every accepted solution in the tree, walking
// containers recursively.
func (t *Task) Solutions() []*domain.Solution {
	return collectSolutions(t.root)
}

func collectSolutions(s ports.Stage) []*domain.Solution {
	out := s.Solutions()
	if c, ok := s.(ports.Container); ok {
		for _, child := range c.Children() {
			out = append(out, collectSolutions(child)...)
		}
	}
	return out
}
