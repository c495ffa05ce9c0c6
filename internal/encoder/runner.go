package encoder

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"sync"
)

// Runner manages the ffmpeg encode process lifecycle. One process runs per
// frame size; the app restarts the runner when the game resolution changes.
type Runner struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	waitCh chan error
	w, h   int
}

// NewRunner returns a new Runner instance.
func NewRunner() *Runner {
	return &Runner{}
}

// Start launches ffmpeg for the given frame size and returns the RTP port
// and a stop function.
func (r *Runner) Start(w, h int, opts Options) (int, func() error, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startLocked(w, h, opts)
}

// Restart stops the current process and starts a new one.
func (r *Runner) Restart(w, h int, opts Options) (int, func() error, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.stopLocked(); err != nil {
		return 0, nil, err
	}
	return r.startLocked(w, h, opts)
}

// Stop terminates any running ffmpeg process.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopLocked()
}

// WriteFrame feeds one raw RGBA frame to the encoder. Frames of the wrong
// size are rejected so a resolution change cannot desynchronize the stream.
func (r *Runner) WriteFrame(rgba []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stdin == nil {
		return errors.New("encoder not running")
	}
	if want := r.w * r.h * 4; len(rgba) != want {
		return fmt.Errorf("frame size %d, want %d", len(rgba), want)
	}
	_, err := r.stdin.Write(rgba)
	return err
}

// FrameSize returns the frame dimensions the running encoder expects.
func (r *Runner) FrameSize() (w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w, r.h
}

// startLocked starts ffmpeg while holding the runner lock.
func (r *Runner) startLocked(w, h int, opts Options) (int, func() error, error) {
	if opts.FFmpegPath == "" {
		return 0, nil, errors.New("FFmpegPath is required")
	}
	if w <= 0 || h <= 0 {
		return 0, nil, fmt.Errorf("invalid frame size %dx%d", w, h)
	}
	if opts.FPS <= 0 {
		opts.FPS = 35
	}
	if opts.BitrateKbps <= 0 {
		opts.BitrateKbps = 4000
	}

	port, err := allocatePort()
	if err != nil {
		return 0, nil, err
	}

	cmd := exec.Command(opts.FFmpegPath, BuildEncodeArgs(w, h, opts, port)...)
	cmd.Stderr = os.Stderr
	configureCmd(cmd)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return 0, nil, err
	}
	if err := cmd.Start(); err != nil {
		return 0, nil, err
	}

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	r.cmd = cmd
	r.stdin = stdin
	r.waitCh = waitCh
	r.w, r.h = w, h
	stop := func() error {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.stopLocked()
	}
	return port, stop, nil
}

// stopLocked stops the current ffmpeg process without acquiring the lock.
func (r *Runner) stopLocked() error {
	if r.cmd == nil || r.cmd.Process == nil {
		return nil
	}
	if r.stdin != nil {
		_ = r.stdin.Close()
		r.stdin = nil
	}
	if err := r.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	if r.waitCh != nil {
		<-r.waitCh
	}
	r.cmd = nil
	r.waitCh = nil
	r.w, r.h = 0, 0
	return nil
}

// allocatePort reserves a local UDP port and returns it.
func allocatePort() (int, error) {
	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return 0, err
	}
	port := conn.LocalAddr().(*net.UDPAddr).Port
	if err := conn.Close(); err != nil {
		return 0, err
	}
	return port, nil
}
