package store

import (
	"database/sql"

	"github.com/uptrace/bun"

	"github.com/romanqed/queuectl/job"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`
	ID            string `bun:"id,pk"`

	Command string    `bun:"command,notnull"`
	State   job.State `bun:"state,notnull,default:'pending'"`

	Attempts       int `bun:"attempts,notnull,default:0"`
	MaxRetries     int `bun:"max_retries,notnull"`
	TimeoutSeconds int `bun:"timeout_seconds,default:0"`
	Priority       int `bun:"priority,default:0"`

	RunAt     sql.NullString `bun:"run_at"`
	CreatedAt string         `bun:"created_at,notnull"`
	UpdatedAt string         `bun:"updated_at,notnull"`
	NextRunAt string         `bun:"next_run_at,notnull"`

	LockedBy sql.NullString `bun:"locked_by"`
	LockedAt sql.NullString `bun:"locked_at"`
}

func (jm *jobModel) toJob() *job.Job {
	return &job.Job{
		ID:             jm.ID,
		Command:        jm.Command,
		State:          jm.State,
		Attempts:       jm.Attempts,
		MaxRetries:     jm.MaxRetries,
		TimeoutSeconds: jm.TimeoutSeconds,
		Priority:       jm.Priority,
		RunAt:          jm.RunAt.String,
		CreatedAt:      jm.CreatedAt,
		UpdatedAt:      jm.UpdatedAt,
		NextRunAt:      jm.NextRunAt,
		LockedBy:       jm.LockedBy.String,
		LockedAt:       jm.LockedAt.String,
	}
}

type dlqModel struct {
	bun.BaseModel `bun:"table:dlq"`
	ID            string `bun:"id,pk"`

	Command    string `bun:"command,notnull"`
	Attempts   int    `bun:"attempts,notnull"`
	MaxRetries int    `bun:"max_retries,notnull"`
	FailedAt   string `bun:"failed_at,notnull"`
	LastError  string `bun:"last_error"`
}

func (dm *dlqModel) toDeadLetter() *job.DeadLetter {
	return &job.DeadLetter{
		ID:         dm.ID,
		Command:    dm.Command,
		Attempts:   dm.Attempts,
		MaxRetries: dm.MaxRetries,
		FailedAt:   dm.FailedAt,
		LastError:  dm.LastError,
	}
}

type configModel struct {
	bun.BaseModel `bun:"table:config"`
	Key           string `bun:"key,pk"`
	Value         string `bun:"value,notnull"`
}

type workerModel struct {
	bun.BaseModel `bun:"table:workers"`
	WorkerID      string `bun:"worker_id,pk"`
	StartedAt     string `bun:"started_at,notnull"`
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
