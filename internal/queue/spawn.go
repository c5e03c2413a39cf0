package queue

import (
	"context"
	"fmt"
	"net"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/hbomb79/Cadence/pkg/docker"
)

const redisImage = "redis:7-alpine"

// SpawnDockerRedis starts a Redis container listening on the address in
// the config provided. Append-only persistence is enabled so queued tasks
// survive a restart of the container.
func SpawnDockerRedis(ctx context.Context, manager docker.Manager, config Config, onCrash func(error)) error {
	host, port, err := net.SplitHostPort(config.Addr)
	if err != nil {
		return fmt.Errorf("invalid redis address %q: %w", config.Addr, err)
	}

	cmd := []string{"redis-server", "--appendonly", "yes"}
	if config.Password != "" {
		cmd = append(cmd, "--requirepass", config.Password)
	}

	containerConfig := &container.Config{
		Image:        redisImage,
		Cmd:          cmd,
		ExposedPorts: nat.PortSet{"6379/tcp": struct{}{}},
	}
	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			"6379/tcp": []nat.PortBinding{{HostIP: host, HostPort: port}},
		},
	}

	return manager.SpawnContainer(ctx, docker.NewContainer("cadence-redis", redisImage, containerConfig, hostConfig), onCrash)
}
