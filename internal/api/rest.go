package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Cadence/internal/api/downloads"
	"github.com/hbomb79/Cadence/internal/api/tracks"
	"github.com/hbomb79/Cadence/internal/http/websocket"
	"github.com/hbomb79/Cadence/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var log = logger.Get("API")

type (
	Config struct {
		HostAddr string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:8080"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// Service represents a union of all the controller service requirements
	Service interface {
		downloads.Service
		tracks.Service
	}

	// The RestGateway is a thin-wrapper around the Echo HTTP router. It's sole responsibility
	// is to create the routes Cadence exposes, and to manage the activity web socket.
	RestGateway struct {
		*broadcaster
		config              *Config
		ec                  *echo.Echo
		socket              *websocket.SocketHub
		downloadsController controller
		tracksController    controller
	}
)

// NewRestGateway constructs the Echo router and populates it with all the
// routes defined by the controllers.
func NewRestGateway(config *Config, service Service) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true

	socket := websocket.New()
	validate := validator.New()
	gateway := &RestGateway{
		broadcaster:         newBroadcaster(socket, service),
		config:              config,
		ec:                  ec,
		socket:              socket,
		downloadsController: downloads.New(validate, service),
		tracksController:    tracks.New(service),
	}

	ec.Use(middleware.Recover())
	ec.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Emit(logger.DEBUG, "%s %s -> %d\n", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	ec.Pre(middleware.AddTrailingSlash())

	ec.GET("/api/cadence/v1/activity/ws/", func(ec echo.Context) error {
		gateway.socket.UpgradeToSocket(ec.Response(), ec.Request())
		return nil
	})

	gateway.downloadsController.SetRoutes(ec.Group("/api/cadence/v1/downloads"))
	gateway.tracksController.SetRoutes(ec.Group("/api/cadence/v1/tracks"))

	return gateway
}

func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	// Start echo router
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Emit(logger.INFO, "Listening on %s\n", gateway.config.HostAddr)
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxCancel(err)
		}
	}()

	// Start thread to listen for context cancellation
	go func(ec *echo.Echo) {
		<-ctx.Done()
		ec.Close()
	}(gateway.ec)

	// Start websocket
	wg.Add(1)
	go func() {
		defer wg.Done()
		gateway.socket.Start(ctx)
	}()

	wg.Wait()

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}

// ServeHTTP allows the gateway to be mounted by a httptest server.
func (gateway *RestGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gateway.ec.ServeHTTP(w, r)
}
