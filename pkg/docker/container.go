package docker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	dCont "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/hbomb79/Cadence/pkg/logger"
)

type ContainerStatus int

const (
	// Container struct instance has just been created
	INIT ContainerStatus = iota

	// Container image has been pulled to local docker daemon, but the container has not yet been created
	PULLED

	// Container has been created from a previously PULLED image
	CREATED

	// Container is UP and working normally
	UP

	// Container has CRASHED
	CRASHED

	// Container is being closed intentionally, next status should always be DOWN
	CLOSING

	// Container is DOWN (intentionally closed)
	DOWN

	// Container has been removed
	DEAD
)

// PullEvent is a single entry of the JSON stream returned by the
// docker daemon while pulling an image.
type PullEvent struct {
	Status   string `json:"status"`
	Error    string `json:"error"`
	Progress string `json:"progress"`
}

func (e ContainerStatus) String() string {
	if e < INIT || e > DEAD {
		return "UNKNOWN"
	}

	return []string{"INIT", "PULLED", "CREATED", "UP", "CRASHED", "CLOSING", "DOWN", "DEAD"}[e]
}

// Container is a single docker container managed by Cadence, such
// as the embedded Postgres database or Redis server.
type Container struct {
	sync.Mutex
	label       string
	imageID     string
	containerID string
	status      ContainerStatus
	changed     chan struct{}
	conf        *dCont.Config
	hostConf    *dCont.HostConfig
}

// NewContainer creates a new Container. The container is started via
// a Manager (see Manager.SpawnContainer).
func NewContainer(label string, image string, conf *dCont.Config, hostConf *dCont.HostConfig) *Container {
	return &Container{
		label:    label,
		imageID:  image,
		status:   INIT,
		changed:  make(chan struct{}),
		conf:     conf,
		hostConf: hostConf,
	}
}

// Start pulls the containers image and creates and starts the container.
// Monitoring of the container occurs asynchronously, so a container which
// crashes after starting successfully will not cause an error here.
func (c *Container) Start(ctx context.Context, cli client.APIClient) error {
	if status := c.Status(); status != INIT {
		return fmt.Errorf("cannot start container %s as status %s is invalid", c, status)
	}

	out, err := cli.ImagePull(ctx, c.imageID, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %v for container %s: %w", c.imageID, c, err)
	}
	defer out.Close()

	if err := c.consumePullEvents(out); err != nil {
		return err
	}
	c.setStatus(PULLED)

	resp, err := cli.ContainerCreate(ctx, c.conf, c.hostConf, nil, nil, c.label)
	if err != nil {
		return fmt.Errorf("failed to create container for %s: %w", c, err)
	}
	c.Lock()
	c.containerID = resp.ID
	c.Unlock()
	c.setStatus(CREATED)

	if err := cli.ContainerStart(ctx, resp.ID, dCont.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container for %s: %w", c, err)
	}
	c.setStatus(UP)

	go c.monitor(ctx, cli)
	return nil
}

// Close stops (if running) and removes the container.
func (c *Container) Close(ctx context.Context, cli client.APIClient, timeout time.Duration) error {
	status := c.Status()
	if status == DEAD {
		return nil
	}

	if status == CREATED || status == UP || status == CRASHED {
		c.setStatus(CLOSING)
		timeoutSeconds := int(timeout.Seconds())
		if err := cli.ContainerStop(ctx, c.ID(), dCont.StopOptions{Timeout: &timeoutSeconds}); err != nil {
			return fmt.Errorf("failed to stop container %s: %w", c, err)
		}
		c.setStatus(DOWN)
	}

	if c.ID() != "" {
		if err := cli.ContainerRemove(ctx, c.ID(), dCont.RemoveOptions{}); err != nil {
			return fmt.Errorf("failed to remove container %s: %w", c, err)
		}
	}

	c.setStatus(DEAD)
	return nil
}

// WaitFor blocks until the container reaches one of the statuses provided,
// the container is removed, or the context is cancelled.
func (c *Container) WaitFor(ctx context.Context, statuses ...ContainerStatus) (ContainerStatus, error) {
	for {
		c.Lock()
		status, changed := c.status, c.changed
		c.Unlock()

		for _, s := range statuses {
			if s == status {
				return s, nil
			}
		}
		if status == DEAD {
			return DEAD, fmt.Errorf("wait on container %s aborted as container is DEAD", c)
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return status, ctx.Err()
		}
	}
}

func (c *Container) ID() string {
	c.Lock()
	defer c.Unlock()
	return c.containerID
}

func (c *Container) Label() string {
	return c.label
}

func (c *Container) Status() ContainerStatus {
	c.Lock()
	defer c.Unlock()
	return c.status
}

func (c *Container) String() string {
	id := c.ID()
	if id == "" {
		return fmt.Sprintf("%v[...]", c.label)
	}

	return fmt.Sprintf("%v[%v]", c.label, id[:min(10, len(id))])
}

// setStatus updates the containers status and wakes any goroutines
// waiting on a status change. A DEAD container never changes status.
func (c *Container) setStatus(status ContainerStatus) {
	c.Lock()
	if c.status == DEAD {
		c.Unlock()
		return
	}

	c.status = status
	close(c.changed)
	c.changed = make(chan struct{})
	c.Unlock()

	dockerLogger.Emit(logger.INFO, "Container %s - Status change: %s\n", c, status)
}

func (c *Container) consumePullEvents(stream io.Reader) error {
	decoder := json.NewDecoder(stream)
	for {
		var event PullEvent
		if err := decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("failed to read image pull output for %s: %w", c, err)
		}

		if event.Error != "" {
			return fmt.Errorf("image pull for %s failed: %s", c, event.Error)
		}
		c.logPullEvent(event)
	}
}

func (c *Container) logPullEvent(event PullEvent) {
	if event.Progress != "" {
		dockerLogger.Emit(logger.VERBOSE, "%s: %s %s\n", c, event.Status, event.Progress)
	} else if event.Status != "" {
		dockerLogger.Emit(logger.DEBUG, "%s: %s\n", c, event.Status)
	}
}

// monitor follows the containers logs until the log stream ends. If the
// stream ends while the container is not being closed, it has crashed.
func (c *Container) monitor(ctx context.Context, cli client.APIClient) {
	reader, err := cli.ContainerLogs(ctx, c.ID(), dCont.LogsOptions{ShowStdout: true, ShowStderr: true, Follow: true})
	if err != nil {
		c.setStatus(CRASHED)
		return
	}
	defer reader.Close()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if c.Status() != UP {
			break
		}

		dockerLogger.Emit(logger.VERBOSE, "%s: %s\n", c, scanner.Bytes())
	}

	if c.Status() == UP {
		c.setStatus(CRASHED)
	}
}
