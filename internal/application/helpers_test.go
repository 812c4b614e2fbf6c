package application

import (
	"fmt"
	"time"

	"github.com/ahrav/go-taskgraph/internal/domain"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

// listSource emits a fixed list of derivations, one per Produce call.
type listSource struct {
	items []ports.Derivation
	next  int
	err   error
}

func (s *listSource) CanProduce() bool { return s.next < len(s.items) }

func (s *listSource) Produce() (ports.Derivation, error) {
	if s.err != nil {
		return ports.Derivation{}, s.err
	}
	if s.next >= len(s.items) {
		return ports.Derivation{}, fmt.Errorf("source exhausted")
	}
	d := s.items[s.next]
	s.next++
	return d, nil
}

// costSeeds builds a source emitting one integer payload per cost value,
// each at the matching absolute cost.
func costSeeds(costs ...int) *listSource {
	src := &listSource{}
	for _, c := range costs {
		src.items = append(src.items, ports.Derivation{
			Payload: c,
			Cost:    domain.Cost(c),
			Comment: fmt.Sprintf("seed %d", c),
		})
	}
	return src
}

type propagatorFunc func(payload any, dir domain.Direction) ([]ports.Derivation, error)

func (f propagatorFunc) Propagate(payload any, dir domain.Direction) ([]ports.Derivation, error) {
	return f(payload, dir)
}

// incrementPropagator derives payload+1 at cost 1 and rejects any payload
// at or above the bound as a dead branch.
func incrementPropagator(rejectAt int) propagatorFunc {
	return func(payload any, _ domain.Direction) ([]ports.Derivation, error) {
		n, ok := payload.(int)
		if !ok {
			return nil, fmt.Errorf("unexpected payload %T", payload)
		}
		if n >= rejectAt {
			return []ports.Derivation{{
				Cost:    domain.Failure(),
				Comment: fmt.Sprintf("%d is out of bounds", n),
			}}, nil
		}
		return []ports.Derivation{{
			Payload: n + 1,
			Cost:    1,
			Comment: fmt.Sprintf("%d -> %d", n, n+1),
		}}, nil
	}
}

type bridgerFunc func(start, end any) (domain.Cost, string, error)

func (f bridgerFunc) Bridge(start, end any) (domain.Cost, string, error) {
	return f(start, end)
}

type monitorSourceFunc func(s *domain.Solution) ([]ports.Derivation, error)

func (f monitorSourceFunc) Derive(s *domain.Solution) ([]ports.Derivation, error) {
	return f(s)
}

// recordingInspector captures the kernel's diagnostic stream.
type recordingInspector struct {
	accepted []*domain.Solution
	failed   []*domain.Solution
}

func (r *recordingInspector) SolutionAccepted(s *domain.Solution) { r.accepted = append(r.accepted, s) }
func (r *recordingInspector) FailureRecorded(s *domain.Solution)  { r.failed = append(r.failed, s) }

var _ ports.MetricsCollector = (*recordingMetrics)(nil)

// recordingMetrics captures emitted metrics by name.
type recordingMetrics struct {
	latencies  []string
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string]float64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string]float64),
	}
}

func (r *recordingMetrics) RecordLatency(operation string, _ time.Duration, _ map[string]string) {
	r.latencies = append(r.latencies, operation)
}

func (r *recordingMetrics) RecordCounter(metric string, value float64, _ map[string]string) {
	r.counters[metric] += value
}

func (r *recordingMetrics) RecordGauge(metric string, value float64, _ map[string]string) {
	r.gauges[metric] = value
}

func (r *recordingMetrics) RecordHistogram(metric string, value float64, _ map[string]string) {
	r.histograms[metric] = value
}
