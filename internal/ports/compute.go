package ports

import "github.com/ahrav/go-taskgraph/internal/domain"

// Derivation is one candidate result returned by a domain computation:
// a derived payload, the incremental cost of reaching it, and a diagnostic
// comment. A failure cost marks a dead branch; the kernel records it as a
// failure and never propagates it further.
type Derivation struct {
	// Payload is the derived planning state, opaque to the kernel.
	Payload any

	// Cost is the incremental cost of this derivation. domain.Failure()
	// marks the derivation as failed.
	Cost domain.Cost

	// Comment is a human-readable diagnostic attached to the resulting
	// solution record.
	Comment string
}

// Failed reports whether the derivation marks a dead branch.
func (d Derivation) Failed() bool { return d.Cost.IsFailure() }

// StateSource originates candidate states for a generator stage.
// Implementations must be side-effect-free with respect to kernel
// structures: they only return data, the kernel performs the push.
type StateSource interface {
	// CanProduce reports whether the source still has candidates to
	// originate. Once it permanently returns false the generator is
	// exhausted, which the scheduler treats as "done", not an error.
	CanProduce() bool

	// Produce invents the next candidate. The derivation's cost is the
	// absolute starting cost of the new state. Errors are recorded as
	// failures and terminate only this attempt.
	Produce() (Derivation, error)
}

// Propagator derives successor states for a propagating stage.
type Propagator interface {
	// Propagate receives one pulled payload and the direction of travel,
	// returning a finite ordered sequence of derivations. An empty result
	// means the branch ends here without an explicit failure. Derivations
	// with failure cost are dropped from propagation and recorded as
	// failed attempts.
	Propagate(payload any, dir domain.Direction) ([]Derivation, error)
}

// Bridger attempts to link a start-side state and an end-side state into
// one continuous solution for a connecting stage.
type Bridger interface {
	// Bridge receives the two frontier payloads and returns the cost of
	// linking them plus a diagnostic comment. A failure cost (or error)
	// rejects the pair; a rejected pair is never re-attempted.
	Bridge(start, end any) (domain.Cost, string, error)
}

// MonitorSource derives fresh candidates from solutions accepted by a
// monitored stage elsewhere in the tree. It backs the monitoring
// generator, the one push-driven overlay on the otherwise pull-driven
// scheduling model.
type MonitorSource interface {
	// Derive turns one monitored solution into zero or more spawn
	// candidates. Each derivation's cost is the absolute starting cost of
	// the new state.
	Derive(s *domain.Solution) ([]Derivation, error)
}
