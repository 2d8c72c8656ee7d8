package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("config file not found")

// Load reads the YAML document at path on top of the defaults. Keys missing
// from the document, or an empty document, keep their default values.
func Load(path string, logger *log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.FontFile = getEnv(logger, "TEXTCLIP_FONT_FILE", cfg.FontFile, parseString)
	cfg.Telegram.BotToken = getEnv(logger, "TOKEN", cfg.Telegram.BotToken, parseString)
	cfg.Telegram.ChatID = getEnv(logger, "TEXTCLIP_CHAT_ID", cfg.Telegram.ChatID, parseInt)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive, got %d", c.FontSize)
	}
	if c.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %d", c.Padding)
	}
	if c.ThumbnailWidth < 0 {
		return fmt.Errorf("thumbnail_width must not be negative, got %d", c.ThumbnailWidth)
	}
	if _, err := ParseColor(c.FontColor); err != nil {
		return fmt.Errorf("font_color: %w", err)
	}
	if _, err := ParseColor(c.BackgroundColor); err != nil {
		return fmt.Errorf("background_color: %w", err)
	}
	return nil
}

// Style resolves the configured color strings.
func (c *Config) Style() (Style, error) {
	fg, err := ParseColor(c.FontColor)
	if err != nil {
		return Style{}, fmt.Errorf("font_color: %w", err)
	}
	bg, err := ParseColor(c.BackgroundColor)
	if err != nil {
		return Style{}, fmt.Errorf("background_color: %w", err)
	}
	return Style{
		FontSize:   c.FontSize,
		FontColor:  fg,
		Background: bg,
	}, nil
}

func getEnv[T any](logger *log.Logger, key string, defaultValue T, parser func(string) (T, error)) T {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	parsed, err := parser(val)
	if err != nil {
		logger.Printf("[WARN]: invalid value for %s (%s). Using default: %v\n", key, val, defaultValue)
		return defaultValue
	}

	return parsed
}

func parseString(val string) (string, error) {
	return val, nil
}

func parseInt(val string) (int64, error) {
	return strconv.ParseInt(val, 10, 64)
}
