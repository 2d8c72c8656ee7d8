package services

import (
	"context"
	"errors"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"textclip/internal/config"
	"textclip/internal/files"
	"textclip/internal/image"
	"textclip/internal/video"
)

type fakeEncoder struct {
	calls []video.Options
	err   error
}

func (e *fakeEncoder) Encode(_ context.Context, imagePath, videoPath string, opts video.Options) error {
	e.calls = append(e.calls, opts)
	if e.err != nil {
		return e.err
	}
	if _, err := os.Stat(imagePath); err != nil {
		return err
	}
	return os.WriteFile(videoPath, []byte("mp4"), 0o644)
}

type fakePublisher struct {
	paths    []string
	captions []string
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, filePath, caption string) error {
	p.paths = append(p.paths, filePath)
	p.captions = append(p.captions, caption)
	return p.err
}

func newService(enc *fakeEncoder, pub *fakePublisher) *ClipService {
	renderer := image.NewTextRenderer(files.BuiltinFont(), image.DefaultPadding)
	var s *ClipService
	if pub == nil {
		s = NewClipService(renderer, nil, enc, nil, log.New(io.Discard, "", 0))
	} else {
		s = NewClipService(renderer, nil, enc, pub, log.New(io.Discard, "", 0))
	}
	s.now = func() time.Time { return time.Date(2024, time.June, 1, 9, 0, 0, 0, time.Local) }
	return s
}

func defaultRequest(t *testing.T, text string) Request {
	t.Helper()
	style, err := config.Default().Style()
	if err != nil {
		t.Fatal(err)
	}
	return Request{
		Text:      text,
		OutputDir: filepath.Join(t.TempDir(), "outputs"),
		Duration:  video.DefaultDuration,
		FPS:       video.DefaultFPS,
		Style:     style,
	}
}

func TestGenerateWritesBundle(t *testing.T) {
	enc := &fakeEncoder{}
	s := newService(enc, nil)
	req := defaultRequest(t, "  Hello World  ")
	req.ThumbnailWidth = 200

	out, err := s.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if out.Dir != filepath.Join(req.OutputDir, "2024-06-01") {
		t.Errorf("Dir = %s", out.Dir)
	}
	if out.ImagePath != filepath.Join(out.Dir, ImageFile) || out.VideoPath != filepath.Join(out.Dir, VideoFile) {
		t.Errorf("unexpected paths %+v", out)
	}

	f, err := os.Open(out.ImagePath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode figure: %v", err)
	}
	if cfg.Width != CanvasWidth || cfg.Height != CanvasHeight {
		t.Errorf("figure is %dx%d, want %dx%d", cfg.Width, cfg.Height, CanvasWidth, CanvasHeight)
	}

	if _, err := os.Stat(out.VideoPath); err != nil {
		t.Errorf("video missing: %v", err)
	}
	if _, err := os.Stat(out.ThumbnailPath); err != nil {
		t.Errorf("thumbnail missing: %v", err)
	}

	if len(enc.calls) != 1 {
		t.Fatalf("encoder called %d times", len(enc.calls))
	}
	got := enc.calls[0]
	if got.Duration != 10 || got.FPS != 30 {
		t.Errorf("encoder options = %+v", got)
	}
	if got.Background != (color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 255}) {
		t.Errorf("encoder background = %v", got.Background)
	}
}

func TestGenerateTwiceSameDay(t *testing.T) {
	s := newService(&fakeEncoder{}, nil)
	req := defaultRequest(t, "Test")

	first, err := s.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(first.Dir) != "2024-06-01" || filepath.Base(second.Dir) != "2024-06-01_2" {
		t.Errorf("dirs = %s, %s", first.Dir, second.Dir)
	}
	if first.ThumbnailPath != "" {
		t.Errorf("thumbnail written without being requested: %s", first.ThumbnailPath)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	enc := &fakeEncoder{}
	s := newService(enc, nil)

	req := defaultRequest(t, " \n\t ")
	if _, err := s.Generate(context.Background(), req); !errors.Is(err, ErrEmptyText) {
		t.Errorf("empty text error = %v, want ErrEmptyText", err)
	}

	req = defaultRequest(t, "ok")
	req.FPS = 0
	if _, err := s.Generate(context.Background(), req); err == nil {
		t.Error("expected error for zero fps")
	}
	if _, err := os.Stat(req.OutputDir); !errors.Is(err, os.ErrNotExist) {
		t.Error("output directory created for an invalid request")
	}
	if len(enc.calls) != 0 {
		t.Errorf("encoder called %d times", len(enc.calls))
	}
}

func TestGenerateEncoderFailure(t *testing.T) {
	s := newService(&fakeEncoder{err: errors.New("boom")}, nil)
	_, err := s.Generate(context.Background(), defaultRequest(t, "Test"))
	if err == nil {
		t.Fatal("expected encoder error")
	}
}

func TestGeneratePublishes(t *testing.T) {
	pub := &fakePublisher{}
	s := newService(&fakeEncoder{}, pub)

	out, err := s.Generate(context.Background(), defaultRequest(t, "ship it"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(pub.paths) != 1 || pub.paths[0] != out.VideoPath || pub.captions[0] != "ship it" {
		t.Errorf("published %v %v", pub.paths, pub.captions)
	}
}

func TestGeneratePublishFailureKeepsOutputs(t *testing.T) {
	pub := &fakePublisher{err: errors.New("offline")}
	s := newService(&fakeEncoder{}, pub)

	out, err := s.Generate(context.Background(), defaultRequest(t, "ship it"))
	if err == nil {
		t.Fatal("expected publish error")
	}
	if out == nil {
		t.Fatal("bundle should be returned alongside a publish error")
	}
	if _, err := os.Stat(out.VideoPath); err != nil {
		t.Errorf("video missing after publish failure: %v", err)
	}
}

func TestGenerateStopsWhenCancelled(t *testing.T) {
	enc := &fakeEncoder{}
	s := newService(enc, nil)
	req := defaultRequest(t, "never rendered")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := s.Generate(ctx, req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Generate error = %v, want context.Canceled", err)
	}
	if out != nil {
		t.Errorf("bundle returned for a cancelled run: %+v", out)
	}
	if len(enc.calls) != 0 {
		t.Errorf("encoder called %d times", len(enc.calls))
	}
	if _, err := os.Stat(req.OutputDir); !errors.Is(err, os.ErrNotExist) {
		t.Error("output directory created for a cancelled run")
	}
}
