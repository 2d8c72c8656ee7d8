package files

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// SystemFontCandidates are tried in order when no font file is configured.
var SystemFontCandidates = []string{
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Arial.ttf",
	"/System/Library/Fonts/Supplemental/Helvetica.ttf",
	"DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
}

const BuiltinFontName = "Go Regular (built-in)"

type Font struct {
	Name string
	otf  *opentype.Font
}

// Face returns a face whose em size is size pixels.
func (f *Font) Face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("font %s at size %.0f: %w", f.Name, size, err)
	}
	return face, nil
}

type FontLoader struct {
	candidates []string
	logger     *log.Logger
}

// NewFontLoader tries preferred first (when set), then the candidates.
func NewFontLoader(logger *log.Logger, preferred string, candidates ...string) *FontLoader {
	if logger == nil {
		logger = log.Default()
	}
	var list []string
	if preferred != "" {
		list = append(list, preferred)
	}
	list = append(list, candidates...)
	return &FontLoader{candidates: list, logger: logger}
}

// Load returns the first candidate that can be read and parsed. When none
// can, it falls back to the built-in font and never fails.
func (l *FontLoader) Load() *Font {
	for _, path := range l.candidates {
		f, err := openFont(path)
		if err != nil {
			continue
		}
		return f
	}
	l.logger.Printf("[WARN]: no usable font among %d candidates, using %s\n", len(l.candidates), BuiltinFontName)
	return BuiltinFont()
}

func openFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &Font{Name: filepath.Base(path), otf: otf}, nil
}

func BuiltinFont() *Font {
	otf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("embedded font is corrupt: %v", err))
	}
	return &Font{Name: BuiltinFontName, otf: otf}
}
