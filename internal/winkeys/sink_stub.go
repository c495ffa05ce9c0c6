//go:build !windows

package winkeys

import "github.com/MartinZikmund/UnoDoom/internal/doom"

// Sink is a placeholder for non-Windows builds.
type Sink struct{}

// New returns ErrUnsupported on non-Windows platforms.
func New() (*Sink, error) {
	return nil, ErrUnsupported
}

// SetKeyStatus does nothing on non-Windows platforms.
func (s *Sink) SetKeyStatus(kind doom.EventKind, key doom.Key, tic uint32) {}
