package internal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/api"
	"github.com/hbomb79/Cadence/internal/catalog"
	"github.com/hbomb79/Cadence/internal/database"
	"github.com/hbomb79/Cadence/internal/download"
	"github.com/hbomb79/Cadence/internal/event"
	"github.com/hbomb79/Cadence/internal/ingest"
	"github.com/hbomb79/Cadence/internal/media"
	"github.com/hbomb79/Cadence/internal/queue"
	"github.com/hbomb79/Cadence/internal/source"
	"github.com/hbomb79/Cadence/internal/storage"
	"github.com/hbomb79/Cadence/internal/sweep"
	"github.com/hbomb79/Cadence/internal/task"
	"github.com/hbomb79/Cadence/pkg/docker"
	"github.com/hbomb79/Cadence/pkg/logger"
)

var (
	log = logger.Get("Core")

	ErrNotConnected = errors.New("cadence has not been connected, call Connect first")
)

const dockerShutdownTimeout = time.Second * 10

type (
	RunnableService interface {
		Run(context.Context) error
	}

	IngestService interface {
		RunnableService
		Enqueue(ctx context.Context, taskID uuid.UUID) error
	}

	RestGateway interface {
		RunnableService
		broadcaster
	}
)

// Cadence represents the top-level object for the server, and is responsible
// for initialising embedded support services, stores, queues, services and
// event handling.
type cadenceImpl struct {
	config          CadenceConfig
	eventBus        event.EventCoordinator
	dockerManager   docker.Manager
	db              database.Manager
	data            *dataOrchestrator
	queue           *queue.Queue
	restGateway     RestGateway
	activityService *activityService

	ingestService IngestService
	sweeper       *sweep.Sweeper

	connected    bool
	crashHandler func(string, error)
}

func New(config CadenceConfig) *cadenceImpl {
	log.Emit(logger.DEBUG, "Bootstrapping Cadence services using config: %#v\n", config)
	db := database.New()
	cadence := &cadenceImpl{
		config:   config,
		eventBus: event.New(),
		db:       db,
		data:     newDataOrchestrator(db),
		queue:    queue.New(queue.NewClient(config.Queue), config.Queue),
		crashHandler: func(label string, err error) {
			log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		},
	}

	gateway := api.NewRestGateway(&config.Api, cadence)
	cadence.restGateway = gateway
	cadence.activityService = newActivityService(gateway, cadence.eventBus)

	return cadence
}

// Connect brings up the embedded docker services (if enabled), connects
// to (and migrates) the database, prepares the Redis queue and then
// constructs the ingest pipeline. It must be called before any of the
// task or catalog methods are used.
func (cadence *cadenceImpl) Connect(ctx context.Context) error {
	if cadence.connected {
		return nil
	}

	log.Emit(logger.NEW, "Initialising Docker services...\n")
	if err := cadence.initialiseDockerServices(ctx); err != nil {
		return err
	}

	log.Emit(logger.NEW, "Connecting to database...\n")
	if err := cadence.db.Connect(cadence.config.Database); err != nil {
		return err
	}

	log.Emit(logger.NEW, "Connecting to Redis queue...\n")
	if err := cadence.queue.Init(ctx); err != nil {
		return err
	}

	if err := cadence.initialiseServices(); err != nil {
		return err
	}

	cadence.connected = true
	return nil
}

// Run will start all of Cadence by connecting and then spawning the services.
//
// This function will not return until Cadence is stopped.
// To stop Cadence, the provided context must be cancelled. Errors from which Cadence cannot recover
// will also cause Cadence to stop.
func (cadence *cadenceImpl) Run(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	cadence.crashHandler = func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		cancel()
	}

	if err := cadence.Connect(ctx); err != nil {
		return err
	}
	defer cadence.Close()

	wg := &sync.WaitGroup{}
	cadence.spawnAsyncService(ctx, wg, cadence.activityService, "activity-service")
	cadence.spawnAsyncService(ctx, wg, cadence.ingestService, "ingest-service")
	cadence.spawnAsyncService(ctx, wg, cadence.queue.RunScheduler, "queue-scheduler")
	cadence.spawnAsyncService(ctx, wg, cadence.sweeper, "sweeper")
	cadence.spawnAsyncService(ctx, wg, cadence.restGateway, "rest-gateway")
	log.Emit(logger.SUCCESS, "Cadence services spawned!\n")

	wg.Wait()
	return nil
}

// Close releases the database and Redis connections, and stops any
// embedded docker services.
func (cadence *cadenceImpl) Close() {
	if err := cadence.db.Close(); err != nil {
		log.Emit(logger.WARNING, "Failed to close database connection: %v\n", err)
	}
	if err := cadence.queue.Close(); err != nil {
		log.Emit(logger.WARNING, "Failed to close Redis connection: %v\n", err)
	}
	if cadence.dockerManager != nil {
		cadence.dockerManager.Shutdown(dockerShutdownTimeout)
	}

	cadence.connected = false
}

// EnqueueDownload validates the output format requested (falling back to
// the default for the URL's platform), creates the task and submits it to
// the download queue.
func (cadence *cadenceImpl) EnqueueDownload(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	if !cadence.connected {
		return nil, ErrNotConnected
	}

	if req.OutputFormat == "" {
		req.OutputFormat = task.Format(source.DefaultFormat(req.URL))
	}
	format, err := task.ParseFormat(string(req.OutputFormat))
	if err != nil {
		return nil, err
	}
	req.OutputFormat = format

	created, err := cadence.data.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := cadence.ingestService.Enqueue(ctx, created.ID); err != nil {
		return nil, fmt.Errorf("task %s was created but could not be queued: %w", created.ID, err)
	}

	log.Emit(logger.NEW, "Enqueued download %s for %s\n", created.ID, created.URL)
	cadence.eventBus.Dispatch(event.TASK_UPDATE, created.ID)
	return created, nil
}

func (cadence *cadenceImpl) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	if !cadence.connected {
		return nil, ErrNotConnected
	}

	return cadence.data.GetTask(ctx, id)
}

func (cadence *cadenceImpl) ListTasks(ctx context.Context, filter task.ListFilter) ([]*task.Task, error) {
	if !cadence.connected {
		return nil, ErrNotConnected
	}

	return cadence.data.ListTasks(ctx, filter)
}

func (cadence *cadenceImpl) GetTrack(ctx context.Context, id uuid.UUID) (*catalog.Track, error) {
	if !cadence.connected {
		return nil, ErrNotConnected
	}

	return cadence.data.GetTrack(ctx, id)
}

// SweepOnce performs a single pass of the failed task sweeper.
func (cadence *cadenceImpl) SweepOnce(ctx context.Context) (sweep.Result, error) {
	if !cadence.connected {
		return sweep.Result{}, ErrNotConnected
	}

	return cadence.sweeper.SweepOnce(ctx)
}

// spawnAsyncService will run the provided function/service as it's own
// go-routine, ensuring that the Cadence service waitgroup is updated correctly
func (cadence *cadenceImpl) spawnAsyncService(ctx context.Context, wg *sync.WaitGroup, service any, serviceLabel string) {
	var run func(context.Context) error
	switch s := service.(type) {
	case RunnableService:
		run = s.Run
	case func(context.Context) error:
		run = s
	default:
		panic(fmt.Sprintf("service %s (%T) is not runnable", serviceLabel, service))
	}

	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(wg *sync.WaitGroup, label string, crash func(string, error)) {
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		defer wg.Done()
		if err := run(ctx); err != nil {
			crash(label, err)
		}
	}(wg, serviceLabel, cadence.crashHandler)
}

// initialiseDockerServices will initialise the supporting services
// for Cadence (Postgres, Redis) which have been enabled
func (cadence *cadenceImpl) initialiseDockerServices(ctx context.Context) error {
	services := cadence.config.Services
	if !services.EnablePostgres && !services.EnableRedis {
		return nil
	}

	manager, err := docker.NewManager()
	if err != nil {
		return err
	}
	cadence.dockerManager = manager

	if services.EnablePostgres {
		log.Emit(logger.INFO, "Initialising embedded database...\n")
		if err := database.SpawnDockerDatabase(
			ctx,
			manager,
			cadence.config.Database,
			filepath.Join(cadence.config.DataDir, "docker"),
			func(err error) { cadence.crashHandler("docker-postgres", err) },
		); err != nil {
			return err
		}
	}

	if services.EnableRedis {
		log.Emit(logger.INFO, "Initialising embedded Redis server...\n")
		if err := queue.SpawnDockerRedis(
			ctx,
			manager,
			cadence.config.Queue,
			func(err error) { cadence.crashHandler("docker-redis", err) },
		); err != nil {
			return err
		}
	}

	return nil
}

// initialiseServices constructs the ingest pipeline. The catalog writer
// binds to the database handle, so this must follow a successful connection.
func (cadence *cadenceImpl) initialiseServices() error {
	config := cadence.config
	converter := download.NewFfmpegConverter(config.Downloader.FFmpeg)
	downloader := download.New(config.Downloader, download.NewYtdlp(config.Downloader.YtdlpBinPath), converter)
	writer := catalog.NewWriter(cadence.db.GetSqlxDb(), storage.NewLocalStore(config.Storage))
	orchestrator := ingest.NewOrchestrator(
		cadence.data,
		source.New(config.Source, downloader),
		downloader,
		media.NewExtractor(converter),
		writer,
		cadence.eventBus,
		config.Concurrency.RetryPolicy(),
	)

	serv, err := ingest.New(config.Concurrency, cadence.queue, orchestrator)
	if err != nil {
		return fmt.Errorf("failed to construct ingest service: %w", err)
	}
	cadence.ingestService = serv
	cadence.sweeper = sweep.New(config.Sweeper, config.Concurrency.RetryCap, cadence.data, serv)

	return nil
}
