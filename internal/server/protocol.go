package server

// Command types sent by the page.
const (
	CmdResize    = "resize"
	CmdClick     = "click"
	CmdLabel     = "label"
	CmdMeasure   = "measure"
	CmdExplode   = "explode"
	CmdImplode   = "implode"
	CmdToggle    = "toggle"
	CmdExitFocus = "exit_focus"
	CmdZoom      = "zoom"
	CmdOrbit     = "orbit"
	CmdWheel     = "wheel"

	// CmdReload is sent by the server, never by a page.
	CmdReload = "reload"
)

// Event types sent by the server besides CmdReload.
const (
	EventFrame = "frame"
	EventError = "error"
)

// Command is one inbound message. Fields not used by a type stay zero.
type Command struct {
	Type string `json:"type"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	X  float32 `json:"x,omitempty"`
	Y  float32 `json:"y,omitempty"`
	DX float32 `json:"dx,omitempty"`
	DY float32 `json:"dy,omitempty"`

	// ID is a label's part ID.
	ID string `json:"id,omitempty"`
	// LabelWidth and LabelHeight carry a measured label size.
	LabelWidth  float32 `json:"label_width,omitempty"`
	LabelHeight float32 `json:"label_height,omitempty"`

	Sign  int     `json:"sign,omitempty"`
	Delta float32 `json:"delta,omitempty"`
}
