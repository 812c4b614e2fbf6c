package application

import (
	"fmt"

	"github.com/ahrav/go-taskgraph/internal/domain"
	"github.com/ahrav/go-taskgraph/internal/ports"
)

// Compile-time checks that the generator kinds satisfy the stage contract.
var (
	_ ports.Stage = (*Generator)(nil)
	_ ports.Stage = (*MonitoringGenerator)(nil)
)

// Generator originates candidate states with no upstream input, spawning
// each fresh state into both the forward and backward directions at once.
type Generator struct {
	*stageCore

	source ports.StateSource
}

// NewGenerator creates a generator backed by the given candidate source.
func NewGenerator(name string, source ports.StateSource) *Generator {
	return &Generator{stageCore: newStageCore(name), source: source}
}

// RequiredInterface declares that a generator writes both directions and
// consumes nothing.
func (g *Generator) RequiredInterface() ports.InterfaceFlags {
	return ports.GeneratesBothWays
}

// ValidateConnectivity reports a configuration error if no neighbor is
// wired to receive the spawned states.
func (g *Generator) ValidateConnectivity() error {
	return g.validateRequired(g.RequiredInterface())
}

// CanCompute reports whether the source still has candidates to originate.
// Once it permanently returns false the generator is exhausted, which the
// scheduler treats as "done", not an error.
func (g *Generator) CanCompute() bool { return g.source.CanProduce() }

// Compute invents one new state and spawns it into both directions.
// Source errors and failure-costed candidates become failure records and
// terminate only this attempt.
func (g *Generator) Compute() error {
	d, err := g.source.Produce()
	if err != nil {
		g.spawnDerivation(ports.Derivation{Cost: domain.Failure(), Comment: err.Error()})
		return nil
	}
	g.spawnDerivation(d)
	return nil
}

// spawnDerivation turns a produced candidate into a spawned state plus its
// solution record.
func (g *Generator) spawnDerivation(d ports.Derivation) {
	state := domain.NewInterfaceState(d.Payload, d.Cost)
	g.spawn(state, domain.NewSolution(d.Cost, d.Comment))
}

// MonitoringGenerator is a generator that re-triggers when a separately
// designated stage elsewhere in the tree accepts a new solution. It is the
// one place push-driven triggering overlays the otherwise pull-driven
// model: the solution callback only queues the monitored solution, and the
// actual spawning still happens inside Compute on the scheduler turn.
type MonitoringGenerator struct {
	*stageCore

	source    ports.MonitorSource
	monitored ports.Stage

	// pending holds monitored solutions not yet turned into candidates.
	pending []*domain.Solution

	// unsubscribe removes the registered callback; nil while detached.
	unsubscribe func()
}

// NewMonitoringGenerator creates a monitoring generator subscribed to the
// monitored stage. Subscription is established immediately and can be
// toggled with Subscribe and Unsubscribe.
func NewMonitoringGenerator(name string, monitored ports.Stage, source ports.MonitorSource) *MonitoringGenerator {
	m := &MonitoringGenerator{
		stageCore: newStageCore(name),
		source:    source,
		monitored: monitored,
	}
	m.Subscribe()
	return m
}

// Subscribe registers the solution callback on the monitored stage.
// Subscribing while already subscribed is a no-op, keeping the
// registration symmetric and free of dangling callback entries.
func (m *MonitoringGenerator) Subscribe() {
	if m.unsubscribe != nil || m.monitored == nil {
		return
	}
	m.unsubscribe = m.monitored.AddSolutionCallback(m.onNewSolution)
}

// Unsubscribe removes the solution callback. Unsubscribing while not
// subscribed is a no-op.
func (m *MonitoringGenerator) Unsubscribe() {
	if m.unsubscribe == nil {
		return
	}
	m.unsubscribe()
	m.unsubscribe = nil
}

// Subscribed reports whether the callback is currently registered.
func (m *MonitoringGenerator) Subscribed() bool { return m.unsubscribe != nil }

// onNewSolution runs on the scheduler goroutine whenever the monitored
// stage accepts a solution. It only queues the trigger; spawning happens
// on this stage's own Compute turn.
func (m *MonitoringGenerator) onNewSolution(s *domain.Solution) {
	m.pending = append(m.pending, s)
}

// RequiredInterface declares that a monitoring generator writes both
// directions and consumes nothing.
func (m *MonitoringGenerator) RequiredInterface() ports.InterfaceFlags {
	return ports.GeneratesBothWays
}

// ValidateConnectivity reports a configuration error if no monitored
// stage is set or no neighbor is wired to receive the spawned states.
func (m *MonitoringGenerator) ValidateConnectivity() error {
	if m.monitored == nil {
		report := domain.NewConnectivityError(m.name)
		report.Add("no monitored stage configured")
		return report
	}
	return m.validateRequired(m.RequiredInterface())
}

// CanCompute reports whether any monitored solution awaits processing.
func (m *MonitoringGenerator) CanCompute() bool { return len(m.pending) > 0 }

// Compute takes the oldest pending solution and spawns the candidates the
// source derives from it.
func (m *MonitoringGenerator) Compute() error {
	if len(m.pending) == 0 {
		return domain.ErrNotComputable
	}
	trigger := m.pending[0]
	m.pending = m.pending[1:]

	derivations, err := m.source.Derive(trigger)
	if err != nil {
		sol := domain.NewFailure(fmt.Sprintf("derive from %s: %v", trigger.ID(), err))
		m.storeSolution(sol)
		return nil
	}
	for _, d := range derivations {
		state := domain.NewInterfaceState(d.Payload, d.Cost)
		m.spawn(state, domain.NewSolution(d.Cost, d.Comment))
	}
	return nil
}
