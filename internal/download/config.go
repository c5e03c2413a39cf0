package download

import (
	"time"

	"github.com/hbomb79/Cadence/internal/ffmpeg"
)

type Config struct {
	YtdlpBinPath string `yaml:"ytdlp_bin" env:"YTDLP_PATH" env-default:"yt-dlp"`

	// Each download is performed inside it's own sub-directory of TempDir,
	// named after the task being processed.
	TempDir string `yaml:"temp_dir" env:"DOWNLOAD_TEMP_DIR" env-default:"/tmp/cadence/downloads"`

	// Timeout applied to direct-audio HTTP requests. Zero disables the timeout.
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"DOWNLOAD_HTTP_TIMEOUT" env-default:"30m"`

	FFmpeg ffmpeg.Config `yaml:"ffmpeg"`
}
