// Package mobile exposes clip generation through a gomobile-friendly API:
// plain strings in, plain strings out.
package mobile

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"textclip/internal/config"
	"textclip/internal/files"
	"textclip/internal/image"
	"textclip/internal/services"
	"textclip/internal/video"
)

type Generator struct {
	mu      sync.Mutex
	encoder services.Encoder
}

func NewGenerator() *Generator {
	return &Generator{encoder: video.NewEncoder(log.Default())}
}

// Generate renders text with the config at configPath into a new run
// directory under outputDir. It returns the image and video paths separated
// by a newline, or a string starting with "Error:".
func (g *Generator) Generate(text, configPath, outputDir string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	logger := log.Default()

	cfg, err := config.Load(configPath, logger)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	style, err := cfg.Style()
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	font := files.NewFontLoader(logger, cfg.FontFile, files.SystemFontCandidates...).Load()
	service := services.NewClipService(
		image.NewTextRenderer(font, cfg.Padding),
		&image.Processor{},
		g.encoder,
		nil,
		logger,
	)

	out, err := service.Generate(context.Background(), services.Request{
		Text:           text,
		OutputDir:      outputDir,
		Duration:       video.DefaultDuration,
		FPS:            video.DefaultFPS,
		Style:          style,
		ThumbnailWidth: cfg.ThumbnailWidth,
	})
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return strings.Join([]string{out.ImagePath, out.VideoPath}, "\n")
}
