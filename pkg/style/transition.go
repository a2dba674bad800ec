package style

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-drift/weft/pkg/animation"
)

// Transition animates changes of one property on an entity.
type Transition struct {
	Property string
	Duration time.Duration
	Delay    time.Duration
	Easing   string
}

// ParseTransitions parses "prop duration [easing] [delay], ...".
func ParseTransitions(s string) ([]Transition, error) {
	var out []Transition
	for _, part := range splitTopLevel(s, ',') {
		fields := strings.Fields(part)
		if len(fields) < 2 {
			return nil, fmt.Errorf("transition %q needs a property and a duration", strings.TrimSpace(part))
		}
		d, err := time.ParseDuration(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid transition duration %q", fields[1])
		}
		tr := Transition{Property: strings.ToLower(fields[0]), Duration: d, Easing: "linear"}
		rest := fields[2:]
		if len(rest) > 0 {
			if _, err := animation.ParseEasing(rest[0]); err == nil {
				tr.Easing = rest[0]
				rest = rest[1:]
			}
		}
		if len(rest) > 0 {
			if tr.Delay, err = time.ParseDuration(rest[0]); err != nil {
				return nil, fmt.Errorf("invalid transition delay %q", rest[0])
			}
			rest = rest[1:]
		}
		if len(rest) > 0 {
			return nil, fmt.Errorf("unexpected %q in transition", strings.Join(rest, " "))
		}
		out = append(out, tr)
	}
	return out, nil
}
