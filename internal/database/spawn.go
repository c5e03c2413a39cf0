package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/go-connections/nat"
	"github.com/hbomb79/Cadence/pkg/docker"
)

const postgresImage = "postgres:14.1-alpine"

// SpawnDockerDatabase starts a Postgres container matching the connection
// details of the config provided. The database files are persisted
// beneath the data directory.
func SpawnDockerDatabase(ctx context.Context, manager docker.Manager, config DatabaseConfig, dataDir string, onCrash func(error)) error {
	dbDataPath := filepath.Join(dataDir, "postgres")
	if err := os.MkdirAll(dbDataPath, 0o700); err != nil {
		return fmt.Errorf("failed to create database data directory %s: %w", dbDataPath, err)
	}

	containerConfig := &container.Config{
		Image: postgresImage,
		Env: []string{
			fmt.Sprintf("POSTGRES_PASSWORD=%s", config.Password),
			fmt.Sprintf("POSTGRES_USER=%s", config.User),
			fmt.Sprintf("POSTGRES_DB=%s", config.Name),
		},
		ExposedPorts: nat.PortSet{"5432/tcp": struct{}{}},
	}
	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			"5432/tcp": []nat.PortBinding{{HostIP: config.Host, HostPort: config.Port}},
		},
		Mounts: []mount.Mount{
			{Type: mount.TypeBind, Source: dbDataPath, Target: "/var/lib/postgresql/data"},
		},
	}

	return manager.SpawnContainer(ctx, docker.NewContainer("cadence-db", postgresImage, containerConfig, hostConfig), onCrash)
}
