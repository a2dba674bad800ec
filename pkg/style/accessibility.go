package style

// Role is the accessibility role of an entity.
type Role uint8

const (
	RoleNone Role = iota
	RoleGeneric
	RoleButton
	RoleCheckBox
	RoleLabel
	RoleHeading
	RoleLink
	RoleImage
	RoleList
	RoleListItem
	RoleSlider
	RoleTextInput
	RoleGroup
	RoleWindow
	RoleDialog
)

var roleNames = map[string]Role{
	"none": RoleNone, "generic": RoleGeneric, "button": RoleButton,
	"checkbox": RoleCheckBox, "label": RoleLabel, "heading": RoleHeading,
	"link": RoleLink, "image": RoleImage, "list": RoleList,
	"listitem": RoleListItem, "slider": RoleSlider, "textbox": RoleTextInput,
	"group": RoleGroup, "window": RoleWindow, "dialog": RoleDialog,
}

var roleStrings = [...]string{
	RoleNone: "none", RoleGeneric: "generic", RoleButton: "button",
	RoleCheckBox: "checkbox", RoleLabel: "label", RoleHeading: "heading",
	RoleLink: "link", RoleImage: "image", RoleList: "list",
	RoleListItem: "listitem", RoleSlider: "slider", RoleTextInput: "textbox",
	RoleGroup: "group", RoleWindow: "window", RoleDialog: "dialog",
}

func (r Role) String() string {
	if int(r) < len(roleStrings) {
		return roleStrings[r]
	}
	return "none"
}

// Live is the politeness level of a live region.
type Live uint8

const (
	LiveOff Live = iota
	LivePolite
	LiveAssertive
)

func (l Live) String() string {
	switch l {
	case LivePolite:
		return "polite"
	case LiveAssertive:
		return "assertive"
	default:
		return "off"
	}
}

// DefaultActionVerb names the action assistive technology performs on activation.
type DefaultActionVerb uint8

const (
	ActionNone DefaultActionVerb = iota
	ActionClick
	ActionFocus
	ActionCheck
	ActionUncheck
	ActionOpen
	ActionSelect
)

func (v DefaultActionVerb) String() string {
	switch v {
	case ActionClick:
		return "click"
	case ActionFocus:
		return "focus"
	case ActionCheck:
		return "check"
	case ActionUncheck:
		return "uncheck"
	case ActionOpen:
		return "open"
	case ActionSelect:
		return "select"
	default:
		return "none"
	}
}

var (
	parseRole = parseEnum(roleNames)
	parseLive = parseEnum(map[string]Live{
		"off": LiveOff, "polite": LivePolite, "assertive": LiveAssertive,
	})
	parseActionVerb = parseEnum(map[string]DefaultActionVerb{
		"none": ActionNone, "click": ActionClick, "focus": ActionFocus,
		"check": ActionCheck, "uncheck": ActionUncheck, "open": ActionOpen,
		"select": ActionSelect,
	})
)
