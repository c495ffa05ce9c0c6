package remote

import (
	"testing"

	"github.com/MartinZikmund/UnoDoom/internal/doom"
	"github.com/MartinZikmund/UnoDoom/internal/layout"
	"github.com/MartinZikmund/UnoDoom/internal/overlay"
	"github.com/MartinZikmund/UnoDoom/internal/session"
	"github.com/MartinZikmund/UnoDoom/internal/testutil"
)

// newTestServer wires a server over a measured layout and a fake sink.
func newTestServer(t *testing.T) (*Server, *overlay.Mapper, *testutil.FakeKeySink, *session.Session) {
	t.Helper()
	sink := &testutil.FakeKeySink{}
	lay := layout.New(layout.DefaultParams())
	mapper := overlay.NewMapper(lay, sink, &testutil.FixedTicker{Current: 1})
	sess := session.New("pw")
	srv := NewServer(sess, mapper, lay, sink, &testutil.FixedTicker{Current: 1}, nil, nil)
	return srv, mapper, sink, sess
}

// TestHandleMessage_SurfaceThenPointer verifies pointer coordinates scale by
// the reported surface size.
func TestHandleMessage_SurfaceThenPointer(t *testing.T) {
	srv, mapper, sink, _ := newTestServer(t)

	if err := srv.handleMessage(Message{T: "surface", W: 800, H: 600}); err != nil {
		t.Fatalf("surface: %v", err)
	}
	// Fire button sits above the look stick in the bottom-right corner.
	if err := srv.handleMessage(Message{T: "down", ID: 1, X: 760.0 / 800, Y: 360.0 / 600}); err != nil {
		t.Fatalf("down: %v", err)
	}
	if sink.CountFor(doom.KeyDown, doom.KeyFire) != 1 {
		t.Fatalf("expected fire press, got %#v", sink.Events)
	}
	if err := srv.handleMessage(Message{T: "up", ID: 1}); err != nil {
		t.Fatalf("up: %v", err)
	}
	if sink.CountFor(doom.KeyUp, doom.KeyFire) != 1 {
		t.Fatalf("expected fire release, got %#v", sink.Events)
	}
	if mapper.FirePressed() {
		t.Fatal("expected fire no longer held")
	}
}

// TestHandleMessage_PointerDroppedWithoutSurface verifies pointers before the
// first surface report are ignored.
func TestHandleMessage_PointerDroppedWithoutSurface(t *testing.T) {
	srv, _, sink, _ := newTestServer(t)
	if err := srv.handleMessage(Message{T: "down", ID: 1, X: 0.95, Y: 0.6}); err != nil {
		t.Fatalf("down: %v", err)
	}
	if len(sink.Events) != 0 {
		t.Fatalf("expected no events, got %#v", sink.Events)
	}
}

// TestHandleMessage_InputDisabledBlocksDownNotUp verifies disabling input does
// not strand held controls.
func TestHandleMessage_InputDisabledBlocksDownNotUp(t *testing.T) {
	srv, mapper, sink, sess := newTestServer(t)
	_ = srv.handleMessage(Message{T: "surface", W: 800, H: 600})
	_ = srv.handleMessage(Message{T: "down", ID: 1, X: 760.0 / 800, Y: 360.0 / 600})

	enabled := false
	_ = srv.handleMessage(Message{T: "inputEnabled", Enabled: &enabled})
	if sess.InputEnabled() {
		t.Fatal("expected input disabled")
	}
	// Disabling released the held fire button.
	if sink.CountFor(doom.KeyUp, doom.KeyFire) != 1 {
		t.Fatalf("expected release on disable, got %#v", sink.Events)
	}
	// New contacts are refused while disabled.
	_ = srv.handleMessage(Message{T: "down", ID: 2, X: 760.0 / 800, Y: 360.0 / 600})
	if mapper.FirePressed() {
		t.Fatal("expected no claim while disabled")
	}
}

// TestHandleMessage_KeyPassthrough verifies named key transitions reach the sink.
func TestHandleMessage_KeyPassthrough(t *testing.T) {
	srv, _, sink, _ := newTestServer(t)
	_ = srv.handleMessage(Message{T: "key", Key: "fire", Down: true})
	_ = srv.handleMessage(Message{T: "key", Key: "fire", Down: false})
	_ = srv.handleMessage(Message{T: "key", Key: "bogus", Down: true})

	if sink.CountFor(doom.KeyDown, doom.KeyFire) != 1 || sink.CountFor(doom.KeyUp, doom.KeyFire) != 1 {
		t.Fatalf("unexpected key events %#v", sink.Events)
	}
	if len(sink.Events) != 2 {
		t.Fatalf("expected unknown names dropped, got %#v", sink.Events)
	}
}

// TestHandleMessage_LayoutOverridePersists verifies overrides reach the layout
// and the save hook.
func TestHandleMessage_LayoutOverridePersists(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	saved := 0
	srv.saveLayout = func(map[layout.Control]layout.NormRect) error {
		saved++
		return nil
	}

	msg := Message{T: "layout", Control: "fire", Rect: &Rect{X: 0.1, Y: 0.2, W: 0.1, H: 0.1}}
	if err := srv.handleMessage(msg); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if saved != 1 {
		t.Fatalf("expected one save, got %d", saved)
	}
	if _, ok := srv.lay.Overrides()[layout.ControlFire]; !ok {
		t.Fatal("expected fire override recorded")
	}
}

// TestHandleMessage_SetVideoNotifies verifies pipeline notification on video switch.
func TestHandleMessage_SetVideoNotifies(t *testing.T) {
	srv, _, _, sess := newTestServer(t)
	var reasons []string
	srv.onPipelineChange = func(reason string) { reasons = append(reasons, reason) }

	_ = srv.handleMessage(Message{T: "setVideo", Video: session.VideoWebRTC})
	if sess.VideoMode() != session.VideoWebRTC {
		t.Fatalf("expected webrtc mode, got %s", sess.VideoMode())
	}
	if len(reasons) != 1 || reasons[0] != "video" {
		t.Fatalf("unexpected notifications %v", reasons)
	}
}
