package job

// Job represents a unit of scheduled shell work managed by the queue
// storage.
//
// All timestamp fields hold canonical UTC stamps in the
// "YYYY-MM-DDTHH:MM:SSZ" format; lexical comparison of two stamps is
// equivalent to chronological comparison. An empty string stands for
// a NULL timestamp.
//
// CreatedAt records when the job was initially enqueued.
// UpdatedAt records the last state transition or modification.
//
// Attempts counts completed execution attempts, success or failure.
// MaxRetries bounds the number of additional retries after the first
// attempt; once Attempts exceeds it the job moves to the DLQ.
// RunAt is the earliest real time the job may first run; empty means
// immediately. NextRunAt is the earliest time the current pending
// attempt is eligible for claiming and is maintained by the retry
// policy.
//
// LockedBy and LockedAt identify the owning worker while the job is
// Processing and are empty otherwise.
//
// Job instances should be treated as snapshots of storage state.
// Mutating fields directly does not change the underlying queue state;
// transitions must be performed through the store.
type Job struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	State   State  `json:"state"`

	Attempts       int `json:"attempts"`
	MaxRetries     int `json:"max_retries"`
	TimeoutSeconds int `json:"timeout_seconds"`
	Priority       int `json:"priority"`

	RunAt     string `json:"run_at,omitempty"`
	NextRunAt string `json:"next_run_at"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	LockedBy string `json:"locked_by,omitempty"`
	LockedAt string `json:"locked_at,omitempty"`
}

// EffectiveTimeout resolves the per-attempt timeout in seconds against
// the engine default. Zero means no timeout at all.
func (j *Job) EffectiveTimeout(defaultSeconds int) int {
	if j.TimeoutSeconds > 0 {
		return j.TimeoutSeconds
	}
	return defaultSeconds
}

// DeadLetter is the permanent-failure record kept for a job whose retry
// budget is exhausted. The id matches the jobs row; requeueing deletes
// the DeadLetter and resets the job.
type DeadLetter struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	Attempts   int    `json:"attempts"`
	MaxRetries int    `json:"max_retries"`
	FailedAt   string `json:"failed_at"`
	LastError  string `json:"last_error"`
}

// Descriptor is the caller-facing enqueue payload.
//
// ID and Command are required. MaxRetries is a pointer so that an
// omitted field can fall back to the configured default while an
// explicit zero remains meaningful. State and Attempts are accepted
// for compatibility with externally produced payloads but are
// normalized by the upsert: an enqueued job always lands pending with
// zero attempts.
type Descriptor struct {
	ID             string `json:"id"`
	Command        string `json:"command"`
	State          string `json:"state,omitempty"`
	Attempts       int    `json:"attempts,omitempty"`
	MaxRetries     *int   `json:"max_retries,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	Priority       int    `json:"priority,omitempty"`
	RunAt          string `json:"run_at,omitempty"`
}
