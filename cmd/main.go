// Command textclip renders text onto a phone-sized image and wraps it into
// a short silent video.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"textclip/internal/bot"
	"textclip/internal/config"
	"textclip/internal/files"
	"textclip/internal/image"
	"textclip/internal/services"
	"textclip/internal/video"
)

var newEncoder = func(logger *log.Logger) services.Encoder {
	return video.NewEncoder(logger)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		outputDir  string
		duration   int
		fps        int
		configPath string
	)

	flags := pflag.NewFlagSet("textclip", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&outputDir, "output", "outputs", "Base output directory")
	flags.IntVar(&duration, "duration", video.DefaultDuration, "Video duration in seconds")
	flags.IntVar(&fps, "fps", video.DefaultFPS, "Frames per second")
	flags.StringVar(&configPath, "config", "config.yaml", "Path to YAML config file")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: textclip [TEXT...] [--output DIR] [--duration N] [--fps N] [--config PATH]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger := log.New(stderr, "", log.LstdFlags)

	text, err := readText(flags.Args(), stdin, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(stderr, "No text provided.")
		return 1
	}

	// Installed after the prompt so an interrupt while typing still kills
	// the process the default way.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	style, err := cfg.Style()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	font := files.NewFontLoader(logger, cfg.FontFile, files.SystemFontCandidates...).Load()
	logger.Printf("Using font %s", font.Name)

	var publisher bot.Publisher
	if cfg.Telegram.Enabled() {
		tb, err := bot.NewTelegramBot(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger, bot.DefaultMaxVideoSize)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		publisher = tb
	}

	service := services.NewClipService(
		image.NewTextRenderer(font, cfg.Padding),
		&image.Processor{},
		newEncoder(logger),
		publisher,
		logger,
	)

	out, err := service.Generate(ctx, services.Request{
		Text:           text,
		OutputDir:      outputDir,
		Duration:       duration,
		FPS:            fps,
		Style:          style,
		ThumbnailWidth: cfg.ThumbnailWidth,
	})
	if out != nil {
		fmt.Fprintf(stdout, "Saved image to: %s\n", out.ImagePath)
		fmt.Fprintf(stdout, "Saved video to: %s\n", out.VideoPath)
		if out.ThumbnailPath != "" {
			fmt.Fprintf(stdout, "Saved thumbnail to: %s\n", out.ThumbnailPath)
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// readText joins positional words, or prompts for a single line when there
// are none.
func readText(args []string, stdin io.Reader, stdout io.Writer) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	fmt.Fprint(stdout, "Enter the sentence(s) to render: ")
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}
