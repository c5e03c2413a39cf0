package internal

import (
	"fmt"
	"path/filepath"

	"github.com/hbomb79/Cadence/internal/api"
	"github.com/hbomb79/Cadence/internal/database"
	"github.com/hbomb79/Cadence/internal/download"
	"github.com/hbomb79/Cadence/internal/ingest"
	"github.com/hbomb79/Cadence/internal/queue"
	"github.com/hbomb79/Cadence/internal/source"
	"github.com/hbomb79/Cadence/internal/storage"
	"github.com/hbomb79/Cadence/internal/sweep"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
)

// CadenceConfig is the struct used to contain the various user config
// supplied by file and/or environment variables.
type CadenceConfig struct {
	Database    database.DatabaseConfig `yaml:"database" env-required:"true"`
	Queue       queue.Config            `yaml:"queue"`
	Downloader  download.Config         `yaml:"downloader"`
	Source      source.Config           `yaml:"source"`
	Storage     storage.Config          `yaml:"storage"`
	Concurrency ingest.Config           `yaml:"concurrency"`
	Sweeper     sweep.Config            `yaml:"sweeper"`
	Api         api.Config              `yaml:"api"`
	Services    ServiceConfig           `yaml:"docker_services"`

	// DataDir holds the state of the embedded docker services.
	DataDir  string `yaml:"data_dir" env:"CADENCE_DATA_DIR" env-default:"~/.cadence"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// ServiceConfig is used to enable the internal initialisation of supporting
// services for Cadence. By default these are disabled, and the database and
// Redis server are expected to be provisioned externally.
type ServiceConfig struct {
	EnablePostgres bool `yaml:"enable_postgres" env:"SERVICE_ENABLE_POSTGRES" env-default:"false"`
	EnableRedis    bool `yaml:"enable_redis" env:"SERVICE_ENABLE_REDIS" env-default:"false"`
}

// LoadConfig reads the YAML config file at the path provided, with any
// environment variables overriding the values found in the file. If no
// path is given, the config is read from the environment alone.
func LoadConfig(configPath string) (*CadenceConfig, error) {
	var config CadenceConfig
	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, &config); err != nil {
			return nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
		}
	} else if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
	}

	if err := config.expandPaths(); err != nil {
		return nil, err
	}

	return &config, nil
}

// expandPaths resolves any leading '~' in the filesystem paths of
// the config to the users home directory.
func (config *CadenceConfig) expandPaths() error {
	for _, path := range []*string{&config.DataDir, &config.Storage.RootPath, &config.Downloader.TempDir} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return fmt.Errorf("failed to expand path %q: %w", *path, err)
		}

		*path = filepath.Clean(expanded)
	}

	return nil
}
