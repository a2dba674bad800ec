package layout

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/weft/pkg/style"
)

// Font describes the face used to measure a run of text.
type Font struct {
	Family string
	Size   float64
	Weight style.FontWeight
}

// TextMeasurer reports the size of laid-out text. Shaping and wrapping are
// up to the implementation.
type TextMeasurer interface {
	Measure(text string, f Font) Size
}

// BasicMeasurer measures text with a fixed bitmap face scaled to the
// requested size. It ignores the family, and bold text is widened by one
// scaled pixel per glyph.
type BasicMeasurer struct {
	face font.Face
	base float64
}

// NewBasicMeasurer returns a measurer backed by basicfont.Face7x13.
func NewBasicMeasurer() *BasicMeasurer {
	return &BasicMeasurer{face: basicfont.Face7x13, base: 13}
}

// Measure returns the size of text, one line per '\n'.
func (m *BasicMeasurer) Measure(text string, f Font) Size {
	if text == "" {
		return Size{}
	}
	scale := 1.0
	if f.Size > 0 {
		scale = f.Size / m.base
	}
	lines := strings.Split(text, "\n")
	var widest fixed.Int26_6
	widestRunes := 0
	for _, line := range lines {
		if adv := font.MeasureString(m.face, line); adv > widest {
			widest = adv
			widestRunes = utf8.RuneCountInString(line)
		}
	}
	width := float64(widest) / 64
	if f.Weight >= 600 {
		width += float64(widestRunes)
	}
	lineHeight := float64(m.face.Metrics().Height) / 64
	return Size{Width: width * scale, Height: lineHeight * float64(len(lines)) * scale}
}
