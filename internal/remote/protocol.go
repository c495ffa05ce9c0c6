// Package remote carries touch and key input from the browser to the mappers.
package remote

// Rect is a normalized rectangle sent by the client UI.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Message is a control websocket payload. Pointer coordinates are normalized
// to the client's surface; the server scales them by the reported surface size.
type Message struct {
	T       string  `json:"t"`
	ID      int     `json:"id,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	W       float64 `json:"w,omitempty"`
	H       float64 `json:"h,omitempty"`
	Key     string  `json:"key,omitempty"`
	Down    bool    `json:"down,omitempty"`
	Video   string  `json:"video,omitempty"`
	Control string  `json:"control,omitempty"`
	Rect    *Rect   `json:"rect,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
	Visible *bool   `json:"visible,omitempty"`
}
