package ingest

import "time"

type Config struct {
	// The number of tasks which may be processed concurrently. Each
	// worker holds a single task for the duration of it's download.
	DownloadWorkers int `yaml:"download_workers" env:"DOWNLOAD_WORKERS" env-default:"4"`

	// Sleeping workers are woken on this interval to check the queue for
	// work submitted by other processes (e.g. the CLI or the scheduler).
	PollInterval time.Duration `yaml:"poll_interval" env:"WORKER_POLL_INTERVAL" env-default:"5s"`

	// The delay before a task is re-submitted when processing failed due
	// to an infrastructure error (e.g. the database being unavailable).
	RecoveryDelay time.Duration `yaml:"recovery_delay" env:"WORKER_RECOVERY_DELAY" env-default:"30s"`

	RetryCap         int `yaml:"retry_cap" env:"RETRY_CAP" env-default:"3"`
	RetryBaseSeconds int `yaml:"retry_base_seconds" env:"RETRY_BASE_SECONDS" env-default:"60"`
}

func (config Config) RetryPolicy() RetryPolicy {
	return RetryPolicy{
		Cap:       config.RetryCap,
		BaseDelay: time.Duration(config.RetryBaseSeconds) * time.Second,
	}
}
