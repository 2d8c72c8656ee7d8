package config

import "image/color"

const (
	DefaultFontSize        = 96
	DefaultFontColor       = "#f8fafc"
	DefaultBackgroundColor = "#111827"
	DefaultPadding         = 140
)

type Config struct {
	FontSize        int            `yaml:"font_size"`
	FontColor       string         `yaml:"font_color"`
	BackgroundColor string         `yaml:"background_color"`
	FontFile        string         `yaml:"font_file"`
	Padding         int            `yaml:"padding"`
	ThumbnailWidth  int            `yaml:"thumbnail_width"`
	Telegram        TelegramConfig `yaml:"telegram"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// Enabled reports whether both a token and a destination chat are set.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

// Style is the resolved drawing style derived from a Config.
type Style struct {
	FontSize   int
	FontColor  color.RGBA
	Background color.RGBA
}

func Default() *Config {
	return &Config{
		FontSize:        DefaultFontSize,
		FontColor:       DefaultFontColor,
		BackgroundColor: DefaultBackgroundColor,
		Padding:         DefaultPadding,
	}
}
