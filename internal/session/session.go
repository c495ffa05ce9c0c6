// Package session holds runtime state for the active remote player.
package session

import "sync"

// VideoWebRTC runs the RTP pipeline for WebRTC video.
const VideoWebRTC = "webrtc"

// VideoMJPEG runs the MJPEG fallback pipeline only.
const VideoMJPEG = "mjpeg"

// Snapshot represents a read-only view of the current session state.
type Snapshot struct {
	Authenticated  bool
	InputEnabled   bool
	OverlayVisible bool
	VideoMode      string
	Weapon         int
	RunToggled     bool
}

// Session holds runtime state for the active remote player.
type Session struct {
	mu             sync.RWMutex
	password       string
	authenticated  bool
	inputEnabled   bool
	overlayVisible bool
	videoMode      string
	weapon         int
	runToggled     bool
}

// New returns an initialized session with the given password.
func New(password string) *Session {
	return &Session{
		password:       password,
		inputEnabled:   true,
		overlayVisible: true,
		videoMode:      VideoMJPEG,
		weapon:         1,
	}
}

// Authenticate validates the password and marks the session as authenticated.
func (s *Session) Authenticate(pass string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pass != "" && pass == s.password {
		s.authenticated = true
		return true
	}
	s.authenticated = false
	return false
}

// Logout clears authentication state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}

// IsAuthenticated reports whether the session is authenticated.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SetInputEnabled toggles whether touch input is forwarded to the game.
func (s *Session) SetInputEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputEnabled = enabled
}

// InputEnabled reports whether touch input is forwarded to the game.
func (s *Session) InputEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputEnabled
}

// SetOverlayVisible toggles the touch control overlay.
func (s *Session) SetOverlayVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlayVisible = visible
}

// OverlayVisible reports whether the touch control overlay is shown.
func (s *Session) OverlayVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlayVisible
}

// SetVideoMode sets which video pipeline the server should run.
func (s *Session) SetVideoMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case VideoMJPEG:
		s.videoMode = VideoMJPEG
	default:
		s.videoMode = VideoWebRTC
	}
}

// VideoMode returns the active video pipeline mode.
func (s *Session) VideoMode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.videoMode == "" {
		return VideoMJPEG
	}
	return s.videoMode
}

// SetWeapon records the overlay's current weapon slot for the status API.
func (s *Session) SetWeapon(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot >= 1 && slot <= 7 {
		s.weapon = slot
	}
}

// Weapon returns the last recorded weapon slot.
func (s *Session) Weapon() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weapon
}

// SetRunToggled records the overlay's run toggle for the status API.
func (s *Session) SetRunToggled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runToggled = on
}

// RunToggled returns the last recorded run toggle state.
func (s *Session) RunToggled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runToggled
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Authenticated:  s.authenticated,
		InputEnabled:   s.inputEnabled,
		OverlayVisible: s.overlayVisible,
		VideoMode:      s.videoMode,
		Weapon:         s.weapon,
		RunToggled:     s.runToggled,
	}
}
