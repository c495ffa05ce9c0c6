package signaling

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/MartinZikmund/UnoDoom/internal/session"
)

// TestMessage_OfferDecode verifies the viewer's offer payload decodes.
func TestMessage_OfferDecode(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"offer","sdp":"v=0\r\no=- 0 0 IN IP4 0.0.0.0"}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != "offer" || !strings.HasPrefix(msg.SDP, "v=0") {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestMessage_ICEDecode verifies a trickled candidate decodes into the pion type.
func TestMessage_ICEDecode(t *testing.T) {
	var msg Message
	payload := `{"t":"ice","candidate":{"candidate":"candidate:1 1 UDP 2122252543 192.0.2.3 54400 typ host"}}`
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != "ice" || msg.Candidate == nil || msg.Candidate.Candidate == "" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestMessage_RestartCarriesMode verifies the restart payload tells the viewer
// which pipeline is live and omits unused negotiation fields.
func TestMessage_RestartCarriesMode(t *testing.T) {
	raw, err := json.Marshal(Message{T: "restart", Mode: session.VideoWebRTC})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if got := string(raw); got != `{"t":"restart","mode":"webrtc"}` {
		t.Fatalf("unexpected payload: %s", got)
	}
}

// TestServer_ModeReportsPipeline verifies server-sent messages reflect the
// session's current video mode.
func TestServer_ModeReportsPipeline(t *testing.T) {
	sess := session.New("pw")
	s := NewServer(nil, ViewerReplace, sess.IsAuthenticated, sess.VideoMode)

	if got := s.mode(); got != session.VideoMJPEG {
		t.Fatalf("expected initial mode %q, got %q", session.VideoMJPEG, got)
	}
	sess.SetVideoMode(session.VideoWebRTC)
	if got := s.mode(); got != session.VideoWebRTC {
		t.Fatalf("expected mode %q, got %q", session.VideoWebRTC, got)
	}
}
