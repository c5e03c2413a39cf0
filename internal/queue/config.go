package queue

import "time"

type Config struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`

	StreamKey     string `yaml:"stream" env:"REDIS_STREAM" env-default:"cadence:downloads"`
	Group         string `yaml:"group" env:"REDIS_GROUP" env-default:"cadence-workers"`
	ScheduledZSet string `yaml:"scheduled_set" env:"REDIS_SCHEDULED_SET" env-default:"cadence:downloads:scheduled"`

	// How long a claim will block waiting for a new task to arrive.
	ClaimBlock time.Duration `yaml:"claim_block" env:"REDIS_CLAIM_BLOCK" env-default:"2s"`

	// How often the scheduler moves due (delayed) tasks in to the stream.
	SchedulerInterval time.Duration `yaml:"scheduler_interval" env:"SCHEDULER_INTERVAL" env-default:"1s"`
}
