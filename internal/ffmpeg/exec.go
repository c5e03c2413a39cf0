package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"github.com/floostack/transcoder/ffmpeg"
	"github.com/hbomb79/Cadence/pkg/logger"
)

var log = logger.Get("FFmpeg")

type Config struct {
	FfmpegBinPath  string `yaml:"ffmpeg_bin" env:"FFMPEG_PATH" env-default:"ffmpeg"`
	FfprobeBinPath string `yaml:"ffprobe_bin" env:"FFPROBE_PATH" env-default:"ffprobe"`
}

// AudioOptions describes the audio-only conversion performed by a TranscodeCommand.
type AudioOptions struct {
	Format  string
	Codec   string
	Bitrate string
}

type Progress struct {
	CurrentTime    string
	CurrentBitrate string
	Progress       float64
	Speed          string
}

type TranscodeCommand struct {
	inputPath      string
	outputPath     string
	config         Config
	runningCommand *exec.Cmd
}

func NewCmd(input string, output string, config Config) *TranscodeCommand {
	return &TranscodeCommand{inputPath: input, outputPath: output, config: config}
}

// Run converts the input in to the output using the audio options provided,
// blocking until ffmpeg exits or the context is cancelled. Progress updates
// from ffmpeg are delivered to the handler as they arrive.
func (cmd *TranscodeCommand) Run(ctx context.Context, opts AudioOptions, updateHandler func(*Progress)) error {
	overwrite, skipVideo := true, true
	ffmpegOpts := &ffmpeg.Options{
		OutputFormat: &opts.Format,
		Overwrite:    &overwrite,
		SkipVideo:    &skipVideo,
	}
	if opts.Codec != "" {
		ffmpegOpts.AudioCodec = &opts.Codec
	}
	if opts.Bitrate != "" {
		ffmpegOpts.AudioBitrate = &opts.Bitrate
	}

	transcoder := ffmpeg.
		New(&ffmpeg.Config{
			ProgressEnabled: true,
			FfmpegBinPath:   cmd.config.FfmpegBinPath,
			FfprobeBinPath:  cmd.config.FfprobeBinPath,
		}).
		Input(cmd.inputPath).
		Output(cmd.outputPath).
		WithContext(&ctx)

	if err := os.MkdirAll(filepath.Dir(cmd.outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	progressChannel, err := transcoder.Start(ffmpegOpts)
	if err != nil {
		return parseFfmpegError(err)
	}

	cmd.runningCommand = transcoder.GetRunningCmdInstance()
	log.Emit(logger.DEBUG, "Started %s\n", cmd)

	for prog := range progressChannel {
		if updateHandler == nil {
			continue
		}

		updateHandler(&Progress{
			CurrentTime:    prog.GetCurrentTime(),
			CurrentBitrate: prog.GetCurrentBitrate(),
			Progress:       prog.GetProgress(),
			Speed:          prog.GetSpeed(),
		})
	}

	log.Emit(logger.DEBUG, "FFmpeg command has closed progress channel\n")
	if ctx.Err() != nil {
		cmd.removeOutput()
		return ctx.Err()
	}

	// The progress channel is closed once ffmpeg has been waited on, so the
	// process state is available here.
	if state := cmd.runningCommand.ProcessState; state != nil && !state.Success() {
		cmd.removeOutput()
		return fmt.Errorf("ffmpeg exited with code %d while writing %s", state.ExitCode(), cmd.outputPath)
	}

	if _, err := os.Stat(cmd.outputPath); err != nil {
		return fmt.Errorf("ffmpeg exited without producing output %s: %w", cmd.outputPath, err)
	}

	return nil
}

// removeOutput deletes whatever ffmpeg managed to write before it stopped.
func (cmd *TranscodeCommand) removeOutput() {
	if err := os.Remove(cmd.outputPath); err != nil && !os.IsNotExist(err) {
		log.Emit(logger.WARNING, "Failed to remove incomplete output %s: %v\n", cmd.outputPath, err)
	}
}

func (cmd *TranscodeCommand) InputPath() string  { return cmd.inputPath }
func (cmd *TranscodeCommand) OutputPath() string { return cmd.outputPath }

func (cmd *TranscodeCommand) String() string {
	pid := -1
	if cmd.runningCommand != nil && cmd.runningCommand.Process != nil {
		pid = cmd.runningCommand.Process.Pid
	}

	return fmt.Sprintf("{ffmpeg pid=%d | in_path=%s | out_path=%s}", pid, cmd.inputPath, cmd.outputPath)
}

var messageMatcher = regexp.MustCompile(`(?s)message: ({.*})`)

// parseFfmpegError picks the relevant message out of the (very large) error
// output produced by ffmpeg. The message is a JSON document embedded in the
// error text; if it cannot be found the original error is returned.
func parseFfmpegError(err error) error {
	groups := messageMatcher.FindStringSubmatch(err.Error())
	if len(groups) < 2 {
		return err
	}

	var out struct {
		Error struct {
			String string `json:"string"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal([]byte(groups[1]), &out); jsonErr != nil || out.Error.String == "" {
		return errors.New(groups[1])
	}

	return errors.New(out.Error.String)
}
