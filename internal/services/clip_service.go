package services

import (
	"context"
	"errors"
	"fmt"
	img "image"
	"log"
	"path/filepath"
	"strings"
	"time"

	"textclip/internal/bot"
	"textclip/internal/config"
	"textclip/internal/files"
	"textclip/internal/image"
	"textclip/internal/video"
)

// iPhone 15 screen, portrait.
const (
	CanvasWidth  = 1179
	CanvasHeight = 2556
)

const (
	ImageFile     = "figure.png"
	VideoFile     = "video.mp4"
	ThumbnailFile = "thumbnail.png"
)

var ErrEmptyText = errors.New("no text provided")

type Renderer interface {
	Render(text string, width, height int, style image.Style) (img.Image, *image.Layout, error)
}

type Encoder interface {
	Encode(ctx context.Context, imagePath, videoPath string, opts video.Options) error
}

type Request struct {
	Text           string
	OutputDir      string
	Duration       int
	FPS            int
	Style          config.Style
	ThumbnailWidth int
}

// OutputBundle lists the files written for one run. ThumbnailPath is empty
// when no thumbnail was requested.
type OutputBundle struct {
	Dir           string
	ImagePath     string
	VideoPath     string
	ThumbnailPath string
}

type ClipService struct {
	renderer  Renderer
	processor *image.Processor
	encoder   Encoder
	publisher bot.Publisher
	logger    *log.Logger
	now       func() time.Time
}

// NewClipService wires the pipeline. publisher may be nil to keep results local.
func NewClipService(
	renderer Renderer,
	processor *image.Processor,
	encoder Encoder,
	publisher bot.Publisher,
	logger *log.Logger,
) *ClipService {
	if logger == nil {
		logger = log.Default()
	}
	if processor == nil {
		processor = &image.Processor{}
	}
	return &ClipService{
		renderer:  renderer,
		processor: processor,
		encoder:   encoder,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate renders req.Text into a fresh run directory under req.OutputDir
// and encodes the video from the saved image.
func (s *ClipService) Generate(ctx context.Context, req Request) (*OutputBundle, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	videoOpts := video.Options{
		Duration:   req.Duration,
		FPS:        req.FPS,
		Background: req.Style.Background,
	}
	if err := videoOpts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := files.AllocateRunDir(req.OutputDir, s.now())
	if err != nil {
		return nil, fmt.Errorf("allocate output dir: %w", err)
	}
	out := &OutputBundle{
		Dir:       dir,
		ImagePath: filepath.Join(dir, ImageFile),
		VideoPath: filepath.Join(dir, VideoFile),
	}

	figure, layout, err := s.renderer.Render(text, CanvasWidth, CanvasHeight, image.Style{
		FontSize:   req.Style.FontSize,
		FontColor:  req.Style.FontColor,
		Background: req.Style.Background,
	})
	if err != nil {
		return nil, fmt.Errorf("text render: %w", err)
	}
	if !layout.Fits {
		s.logger.Printf("[WARN]: text overflows the padded area even at %dpx", layout.FontSize)
	}
	s.logger.Printf("Rendered %d line(s) at %dpx", len(layout.Lines), layout.FontSize)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := files.SavePNG(out.ImagePath, figure); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	if req.ThumbnailWidth > 0 {
		out.ThumbnailPath = filepath.Join(dir, ThumbnailFile)
		thumb := s.processor.Thumbnail(figure, req.ThumbnailWidth)
		if err := files.SavePNG(out.ThumbnailPath, thumb); err != nil {
			return nil, fmt.Errorf("save thumbnail: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.encoder.Encode(ctx, out.ImagePath, out.VideoPath, videoOpts); err != nil {
		return nil, fmt.Errorf("encode video: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, out.VideoPath, text); err != nil {
			return out, fmt.Errorf("publish: %w", err)
		}
	}

	return out, nil
}
