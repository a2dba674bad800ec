package event

import "github.com/go-drift/weft/pkg/layout"

// Button identifies a pointer button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Key names a keyboard key. Printable keys use their character.
type Key string

const (
	KeyTab        Key = "Tab"
	KeyEnter      Key = "Enter"
	KeyEscape     Key = "Escape"
	KeySpace      Key = "Space"
	KeyBackspace  Key = "Backspace"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Messages produced from raw input.
type (
	PointerMoved struct {
		Pointer  int64
		Position layout.Offset
		Delta    layout.Offset
	}
	PointerPressed struct {
		Pointer  int64
		Position layout.Offset
		Button   Button
	}
	PointerReleased struct {
		Pointer  int64
		Position layout.Offset
		Button   Button
	}
	// PointerCanceled is sent to the captured entity when the platform
	// aborts a pointer sequence.
	PointerCanceled struct {
		Pointer int64
	}
	// Clicked is sent when a press and release land on the same entity.
	Clicked struct {
		Position layout.Offset
		Button   Button
	}
	PointerEntered struct{}
	PointerLeft    struct{}
	WheelScrolled  struct {
		Position layout.Offset
		DX, DY   float64
	}
	KeyPressed struct {
		Key       Key
		Modifiers Modifiers
		Repeat    bool
	}
	KeyReleased struct {
		Key       Key
		Modifiers Modifiers
	}
	TextInput struct {
		Text string
	}
	FocusGained struct{}
	FocusLost   struct{}
)
