package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
)

// Recognized configuration keys.
const (
	KeyBackoffBase       = "backoff_base"
	KeyDefaultMaxRetries = "default_max_retries"
	KeyPollInterval      = "poll_interval_seconds"
	KeyShutdownFlag      = "shutdown_flag"
	KeyJobTimeout        = "job_timeout_seconds"
	KeyLogDir            = "log_dir"
)

var configDefaults = map[string]string{
	KeyBackoffBase:       "2",
	KeyDefaultMaxRetries: "3",
	KeyPollInterval:      "1",
	KeyShutdownFlag:      "0",
	KeyJobTimeout:        "0",
	KeyLogDir:            "logs",
}

// ConfigGet returns the persisted value for key, falling back to the
// built-in default when the row is absent. Unknown keys yield an empty
// string.
func (s *Store) ConfigGet(ctx context.Context, key string) (string, error) {
	var row configModel
	err := s.db.NewSelect().
		Model(&row).
		Where("key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return configDefaults[key], nil
		}
		return "", err
	}
	return row.Value, nil
}

// ConfigInt reads key and parses it as an integer. A missing or
// unparseable value falls back to the built-in default.
func (s *Store) ConfigInt(ctx context.Context, key string) (int, error) {
	raw, err := s.ConfigGet(ctx, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		n, _ = strconv.Atoi(configDefaults[key])
	}
	return n, nil
}

// ConfigSet upserts a configuration value.
func (s *Store) ConfigSet(ctx context.Context, key, value string) error {
	_, err := s.db.NewInsert().
		Model(&configModel{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}
