package session

import "testing"

// TestAuthenticate_Success verifies successful authentication.
func TestAuthenticate_Success(t *testing.T) {
	s := New("secret")
	if !s.Authenticate("secret") {
		t.Fatalf("expected authentication to succeed")
	}
	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated state")
	}
}

// TestAuthenticate_Fail verifies failed authentication.
func TestAuthenticate_Fail(t *testing.T) {
	s := New("secret")
	if s.Authenticate("nope") {
		t.Fatalf("expected authentication to fail")
	}
	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated state")
	}
}

// TestLogout verifies logout clears auth state.
func TestLogout(t *testing.T) {
	s := New("secret")
	s.Authenticate("secret")
	s.Logout()
	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated state")
	}
}

// TestInputEnabled_Toggle verifies input enabled toggle.
func TestInputEnabled_Toggle(t *testing.T) {
	s := New("secret")
	s.SetInputEnabled(false)
	if s.InputEnabled() {
		t.Fatalf("expected input disabled")
	}
	s.SetInputEnabled(true)
	if !s.InputEnabled() {
		t.Fatalf("expected input enabled")
	}
}

// TestOverlayVisible_Toggle verifies overlay visibility toggle.
func TestOverlayVisible_Toggle(t *testing.T) {
	s := New("secret")
	if !s.OverlayVisible() {
		t.Fatalf("expected overlay visible by default")
	}
	s.SetOverlayVisible(false)
	if s.OverlayVisible() {
		t.Fatalf("expected overlay hidden")
	}
}

// TestWeapon_RejectsOutOfRange verifies the status slot stays in 1..7.
func TestWeapon_RejectsOutOfRange(t *testing.T) {
	s := New("secret")
	s.SetWeapon(5)
	s.SetWeapon(0)
	s.SetWeapon(8)
	if s.Weapon() != 5 {
		t.Fatalf("expected weapon 5 to survive bad updates, got %d", s.Weapon())
	}
}

// TestSnapshot verifies snapshot content.
func TestSnapshot(t *testing.T) {
	s := New("secret")
	s.Authenticate("secret")
	s.SetInputEnabled(false)
	s.SetOverlayVisible(false)
	s.SetVideoMode(VideoWebRTC)
	s.SetWeapon(3)
	s.SetRunToggled(true)
	snap := s.Snapshot()
	if !snap.Authenticated || snap.InputEnabled || snap.OverlayVisible {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.VideoMode != VideoWebRTC || snap.Weapon != 3 || !snap.RunToggled {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
