package image

import (
	"fmt"
	img "image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultPadding = 140
	MinFontSize    = 36
	FontSizeStep   = 4

	// probeText gives the line box height: ascender-to-descender ink of a
	// capital and a descending lowercase letter.
	probeText    = "Ag"
	spacingRatio = 0.35
)

type FaceSource interface {
	Face(size float64) (font.Face, error)
}

type Style struct {
	FontSize   int
	FontColor  color.Color
	Background color.Color
}

type Layout struct {
	Lines       []string
	FontSize    int
	LineHeight  int
	Spacing     int
	TotalHeight int

	// MaxLineWidth is the advance width of the widest line, rounded up.
	MaxLineWidth int
	// Fits is false when even the smallest candidate size overflowed the
	// padded box and the layout was accepted anyway.
	Fits bool

	face   font.Face
	top    fixed.Int26_6
	widths []fixed.Int26_6
}

// Placement is where one line lands on the canvas. Y is the top of the line
// box and Baseline the y coordinate glyphs are drawn on.
type Placement struct {
	Text     string
	X        float64
	Y        float64
	Baseline float64
	Width    float64
}

type TextRenderer struct {
	Fonts   FaceSource
	Padding int
}

func NewTextRenderer(fonts FaceSource, padding int) *TextRenderer {
	return &TextRenderer{Fonts: fonts, Padding: padding}
}

// Fit picks the largest candidate font size, stepping down from
// startSize by FontSizeStep, whose greedy wrapping of text fits inside the
// canvas minus padding on every side. When nothing down to MinFontSize fits,
// the smallest candidate is returned with Fits set to false. A start size
// below MinFontSize is tried as the only candidate.
func (tr *TextRenderer) Fit(text string, width, height, startSize int) (*Layout, error) {
	maxWidth := width - 2*tr.Padding
	maxHeight := height - 2*tr.Padding

	size := startSize
	for {
		layout, err := tr.layoutAt(text, size, maxWidth)
		if err != nil {
			return nil, err
		}

		layout.Fits = layout.TotalHeight <= maxHeight && layout.MaxLineWidth <= maxWidth
		if layout.Fits || size-FontSizeStep < MinFontSize {
			return layout, nil
		}
		_ = layout.face.Close()
		size -= FontSizeStep
	}
}

func (tr *TextRenderer) layoutAt(text string, size, maxWidth int) (*Layout, error) {
	face, err := tr.Fonts.Face(float64(size))
	if err != nil {
		return nil, fmt.Errorf("load face: %w", err)
	}

	lines := wrapText(text, face, fixed.I(maxWidth))

	bounds, _ := font.BoundString(face, probeText)
	lineHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()
	spacing := int(float64(lineHeight) * spacingRatio)

	widths := make([]fixed.Int26_6, len(lines))
	var widest fixed.Int26_6
	for i, line := range lines {
		widths[i] = font.MeasureString(face, line)
		widest = max(widest, widths[i])
	}

	return &Layout{
		Lines:        lines,
		FontSize:     size,
		LineHeight:   lineHeight,
		Spacing:      spacing,
		TotalHeight:  lineHeight*len(lines) + spacing*(len(lines)-1),
		MaxLineWidth: widest.Ceil(),
		face:         face,
		top:          bounds.Min.Y,
		widths:       widths,
	}, nil
}

// wrapText breaks text on whitespace, filling each line with words while its
// width stays within maxWidth. Words are never split, so a word wider than
// maxWidth sits alone on an overflowing line.
func wrapText(text string, face font.Face, maxWidth fixed.Int26_6) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// Place centers each line horizontally and the block as a whole vertically.
func (l *Layout) Place(width, height int) []Placement {
	startY := (height - l.TotalHeight) / 2

	out := make([]Placement, len(l.Lines))
	for i, line := range l.Lines {
		lw := fix(l.widths[i])
		y := float64(startY + i*(l.LineHeight+l.Spacing))
		out[i] = Placement{
			Text:     line,
			X:        math.Floor((float64(width) - lw) / 2),
			Y:        y,
			Baseline: y - fix(l.top),
			Width:    lw,
		}
	}
	return out
}

// Close releases the face held by the layout.
func (l *Layout) Close() error {
	if l.face == nil {
		return nil
	}
	return l.face.Close()
}

// Render draws text onto a new opaque canvas filled with the background.
func (tr *TextRenderer) Render(text string, width, height int, style Style) (img.Image, *Layout, error) {
	if width <= 0 || height <= 0 {
		return nil, nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	layout, err := tr.Fit(text, width, height, style.FontSize)
	if err != nil {
		return nil, nil, err
	}
	defer layout.Close()

	dc := gg.NewContext(width, height)
	dc.SetColor(opaque(style.Background))
	dc.Clear()

	dc.SetFontFace(layout.face)
	dc.SetColor(opaque(style.FontColor))
	for _, p := range layout.Place(width, height) {
		dc.DrawString(p.Text, p.X, p.Baseline)
	}

	return dc.Image(), layout, nil
}

func opaque(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: 0xffff}
}

func fix(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
