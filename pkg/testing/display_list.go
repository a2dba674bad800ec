package testing

import (
	"math"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/ui"
)

// PaintOp is one entity as the paint walk saw it, back to front.
type PaintOp struct {
	Node       string     `json:"node"`
	Box        [4]float64 `json:"box"`
	Background string     `json:"background,omitempty"`
	Border     string     `json:"border,omitempty"`
	Color      string     `json:"color,omitempty"`
	Opacity    float64    `json:"opacity,omitempty"`
	Text       string     `json:"text,omitempty"`
}

// capturePaint records the paint walk. names maps entities to their
// snapshot node ids.
func capturePaint(cx *ui.Context, names map[entity.Entity]string) []PaintOp {
	var ops []PaintOp
	cx.Paint(func(e entity.Entity, s style.Resolved, box layout.Rect) {
		op := PaintOp{Node: names[e], Box: serializeRect(box)}
		if alpha(s.Background) != 0 {
			op.Background = s.Background.String()
		}
		if s.BorderWidth > 0 && alpha(s.Border) != 0 {
			op.Border = s.Border.String()
		}
		if s.Text != "" {
			op.Text = s.Text
			op.Color = s.Foreground.String()
		}
		if s.Opacity < 1 {
			op.Opacity = round2(s.Opacity)
		}
		ops = append(ops, op)
	})
	return ops
}

func alpha(c style.Color) uint8 {
	_, _, _, a := c.Channels()
	return a
}

func serializeRect(r layout.Rect) [4]float64 {
	return [4]float64{round2(r.Left), round2(r.Top), round2(r.Width()), round2(r.Height())}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
