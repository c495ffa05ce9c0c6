// Package signaling negotiates the WebRTC session carrying the game view.
package signaling

import "github.com/pion/webrtc/v3"

// Message is a websocket signaling payload. Server-sent "ready" and "restart"
// messages carry the active pipeline mode so the viewer only negotiates when
// the WebRTC path is actually live.
type Message struct {
	T         string                   `json:"t"`
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
	Mode      string                   `json:"mode,omitempty"`
}
