package source

import (
	"context"
	"fmt"

	"github.com/hbomb79/Cadence/pkg/logger"
	"golang.org/x/time/rate"
)

var log = logger.Get("Resolver")

type (
	// ProbeResult is the basic information a metadata-only probe of a
	// URL must be able to extract for the URL to be considered downloadable.
	ProbeResult struct {
		Title           string
		DurationSeconds int
	}

	// Prober performs a metadata-only lookup of the URL provided. No
	// media payload is downloaded.
	Prober interface {
		Probe(ctx context.Context, url string) (*ProbeResult, error)
	}

	Config struct {
		// The longest media (in seconds) that will be accepted for
		// download. Longer media is rejected before any download begins.
		MaxDurationSeconds int `yaml:"max_duration_seconds" env:"MAX_DURATION_SECONDS" env-default:"3600"`

		// Probes are rate limited to avoid the upstream platforms
		// throttling the host.
		ProbeRatePerSecond float64 `yaml:"probe_rate_per_second" env:"PROBE_RATE_PER_SECOND" env-default:"2"`
		ProbeBurst         int     `yaml:"probe_burst" env:"PROBE_BURST" env-default:"4"`
	}

	Resolver struct {
		config  Config
		prober  Prober
		limiter *rate.Limiter
	}
)

func New(config Config, prober Prober) *Resolver {
	limit := rate.Inf
	if config.ProbeRatePerSecond > 0 {
		limit = rate.Limit(config.ProbeRatePerSecond)
	}

	return &Resolver{
		config:  config,
		prober:  prober,
		limiter: rate.NewLimiter(limit, max(1, config.ProbeBurst)),
	}
}

// Identify classifies the URL by platform.
func (resolver *Resolver) Identify(url string) Platform {
	return Identify(url)
}

// Validate checks that the URL provided can be downloaded, without downloading it. If the
// URL is not valid, false is returned alongside a human readable reason.
func (resolver *Resolver) Validate(ctx context.Context, url string) (bool, string) {
	platform := Identify(url)
	if platform == Unknown {
		return false, "Unsupported platform or URL"
	}

	if err := resolver.limiter.Wait(ctx); err != nil {
		return false, fmt.Sprintf("Validation aborted: %s", err)
	}

	log.Emit(logger.DEBUG, "Probing %s URL %s\n", platform, url)
	info, err := resolver.prober.Probe(ctx, url)
	if err != nil {
		return false, fmt.Sprintf("Could not extract media info: %s", err)
	}
	if info == nil || info.Title == "" || info.DurationSeconds <= 0 {
		return false, "Could not extract basic media info (title/duration)"
	}

	if ceiling := resolver.config.MaxDurationSeconds; ceiling > 0 && info.DurationSeconds > ceiling {
		return false, fmt.Sprintf("Media too long (%ds exceeds maximum of %ds)", info.DurationSeconds, ceiling)
	}

	return true, ""
}
