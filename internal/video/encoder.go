package video

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"os"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const (
	DefaultDuration = 10
	DefaultFPS      = 30
	Codec           = "libx264"
)

type Options struct {
	Duration   int
	FPS        int
	Background color.Color
}

func (o Options) Validate() error {
	if o.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", o.Duration)
	}
	if o.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", o.FPS)
	}
	return nil
}

type Encoder struct {
	logger *log.Logger
}

func NewEncoder(logger *log.Logger) *Encoder {
	if logger == nil {
		logger = log.Default()
	}
	return &Encoder{logger: logger}
}

// Encode holds the still at imagePath for opts.Duration seconds and writes a
// silent H.264 video to videoPath, replacing any existing file. Cancelling
// ctx kills ffmpeg and removes the partial output.
func (e *Encoder) Encode(ctx context.Context, imagePath, videoPath string, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(imagePath); err != nil {
		return fmt.Errorf("input image %s: %w", imagePath, err)
	}

	e.logger.Printf("Encoding %s (%ds @ %d fps)", videoPath, opts.Duration, opts.FPS)

	cmd := ffmpeg.Input(imagePath, inputArgs(opts)).
		Output(videoPath, outputArgs(opts)).
		OverWriteOutput().
		Compile()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg failed to start: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ffmpeg failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		_ = os.Remove(videoPath)
		return ctx.Err()
	}
}

func inputArgs(opts Options) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"loop":      1,
		"framerate": opts.FPS,
	}
}

func outputArgs(opts Options) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"t":       opts.Duration,
		"r":       opts.FPS,
		"c:v":     Codec,
		"pix_fmt": "yuv420p",
		"vf":      evenPadFilter(opts.Background),
		"an":      "",
	}
}

// evenPadFilter grows odd dimensions by one pixel, which yuv420p requires,
// filling the new edge with the background color.
func evenPadFilter(bg color.Color) string {
	if bg == nil {
		bg = color.Black
	}
	r, g, b, _ := bg.RGBA()
	return fmt.Sprintf("pad=ceil(iw/2)*2:ceil(ih/2)*2:color=0x%02x%02x%02x", r>>8, g>>8, b>>8)
}
