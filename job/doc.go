// Package job defines the stateful representation of a shell command
// within the queuectl lifecycle.
//
// A Job carries the command line to execute together with delivery and
// scheduling metadata: its state-machine position, attempt counter,
// retry budget, priority, timeout and lock information. These fields
// are maintained by the store and the worker logic.
//
// Job values are typically returned by store reads and claim
// operations and passed back to the store for state transitions
// (Complete, Fail). They reflect the authoritative state
// persisted by the queue database at the time of the call.
//
// DeadLetter is the permanent-failure companion record, and Descriptor
// is the enqueue-time payload accepted from the CLI and external
// producers.
package job
