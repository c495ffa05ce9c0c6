// Package winkeys injects game key events into the local engine window
// through the WinAPI, for running the mappers against a native port.
package winkeys

import "errors"

// ErrUnsupported indicates WinAPI key injection is not available.
var ErrUnsupported = errors.New("winkeys is only supported on Windows")
