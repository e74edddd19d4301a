package job

import "fmt"

// State represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Pending   (retry with backoff)
//	Processing -> Dead      (retry budget exhausted)
//	Dead       -> Pending   (explicit DLQ requeue)
//
// Failed is reserved for status reporting compatibility and is never
// produced by the engine.
type State string

const (
	// Pending indicates that the job is available for claiming.
	// A Pending job may have a future NextRunAt, delaying execution.
	Pending State = "pending"

	// Processing indicates that the job has been claimed and is currently
	// owned by a worker. While in this state, LockedBy and LockedAt are set.
	Processing State = "processing"

	// Completed indicates a successful run. The job will not be executed
	// again unless explicitly re-enqueued.
	Completed State = "completed"

	// Failed is a reserved label present in status output for
	// compatibility. The engine never transitions a job into this state.
	Failed State = "failed"

	// Dead indicates that the job has permanently failed and was parked
	// in the dead-letter queue. It is not retried unless requeued.
	Dead State = "dead"
)

// States lists all known states in reporting order.
var States = []State{Pending, Processing, Completed, Failed, Dead}

// ParseState converts a string representation into a State value.
//
// Recognized values are:
//
//	"pending"
//	"processing"
//	"completed"
//	"failed"
//	"dead"
//
// An error is returned for unrecognized strings.
func ParseState(s string) (State, error) {
	switch State(s) {
	case Pending, Processing, Completed, Failed, Dead:
		return State(s), nil
	default:
		return "", fmt.Errorf("unknown state: %s", s)
	}
}

// Terminal reports whether the state is final for the engine.
// Terminal jobs hold no locks and are never claimed.
func (s State) Terminal() bool {
	return s == Completed || s == Dead
}

// String returns the canonical string representation of the state.
func (s State) String() string {
	return string(s)
}
