package docker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/docker/docker/client"
	"github.com/hbomb79/Cadence/pkg/logger"
)

var dockerLogger = logger.Get("Docker")

// The docker package spawns the supporting services Cadence depends on (the
// Postgres database and Redis server) as local docker containers, for
// development setups where they are not provisioned externally.

type Manager interface {
	SpawnContainer(ctx context.Context, container *Container, onCrash func(error)) error
	Shutdown(timeout time.Duration)
}

type manager struct {
	sync.Mutex
	containers map[string]*Container
	cli        client.APIClient
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewManager connects to the docker daemon described by the environment
// (DOCKER_HOST et al).
func NewManager() (*manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to docker daemon: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &manager{
		containers: make(map[string]*Container),
		cli:        cli,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// SpawnContainer starts the container and blocks until it's UP. If the
// container later crashes the callback provided is executed.
func (docker *manager) SpawnContainer(ctx context.Context, container *Container, onCrash func(error)) error {
	docker.Lock()
	if _, ok := docker.containers[container.Label()]; ok {
		docker.Unlock()
		return fmt.Errorf("cannot spawn container %s as label is already in use", container)
	}
	docker.containers[container.Label()] = container
	docker.Unlock()

	if err := container.Start(docker.ctx, docker.cli); err != nil {
		_ = container.Close(docker.ctx, docker.cli, time.Second*10)
		return err
	}

	dockerLogger.Emit(logger.INFO, "Waiting for container %s to come UP\n", container)
	if _, err := container.WaitFor(ctx, UP); err != nil {
		return err
	}

	docker.wg.Add(1)
	go func() {
		defer docker.wg.Done()
		status, err := container.WaitFor(docker.ctx, CRASHED, DEAD)
		if err == nil && status == CRASHED && onCrash != nil {
			onCrash(fmt.Errorf("container %s has crashed", container))
		}
	}()

	dockerLogger.Emit(logger.SUCCESS, "Container %s is UP!\n", container)
	return nil
}

// Shutdown closes every container spawned by this manager.
func (docker *manager) Shutdown(timeout time.Duration) {
	docker.Lock()
	containers := make([]*Container, 0, len(docker.containers))
	for _, c := range docker.containers {
		containers = append(containers, c)
	}
	docker.Unlock()

	for _, c := range containers {
		dockerLogger.Emit(logger.STOP, "Closing container %s...\n", c)
		if err := c.Close(context.Background(), docker.cli, timeout); err != nil {
			dockerLogger.Emit(logger.ERROR, "Failed to close container %s: %v\n", c, err)
		}
	}

	docker.cancel()
	docker.wg.Wait()
}
