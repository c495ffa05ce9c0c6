// Package app wires HTTP, websockets, and the video pipeline together.
package app

import (
	"errors"
	"log"
	"sync"

	"github.com/MartinZikmund/UnoDoom/internal/config"
	"github.com/MartinZikmund/UnoDoom/internal/doom"
	"github.com/MartinZikmund/UnoDoom/internal/encoder"
	"github.com/MartinZikmund/UnoDoom/internal/layout"
	"github.com/MartinZikmund/UnoDoom/internal/mjpeg"
	"github.com/MartinZikmund/UnoDoom/internal/overlay"
	"github.com/MartinZikmund/UnoDoom/internal/remote"
	"github.com/MartinZikmund/UnoDoom/internal/session"
	"github.com/MartinZikmund/UnoDoom/internal/signaling"
	"github.com/MartinZikmund/UnoDoom/internal/video"
)

// App coordinates the HTTP API, websocket servers, and the video pipeline.
type App struct {
	// mu guards the last seen frame size and the runtime-tunable MJPEG
	// fields of cfg; everything else in cfg is read-only after New.
	mu        sync.Mutex
	cfg       config.Config
	session   *session.Session
	lay       *layout.Layout
	overlay   *overlay.Mapper
	runner    *encoder.Runner
	publisher *video.Publisher
	signaling *signaling.Server
	control   *remote.Server
	preview   *mjpeg.Stream

	defaultMJPEG mjpegDefaults

	frameW, frameH int
}

// mjpegDefaults captures the startup MJPEG tuning so /api/config can reset it.
type mjpegDefaults struct {
	intervalMs int
	quality    int
}

// New creates a new application with its dependencies wired.
func New(cfg config.Config, sess *session.Session, lay *layout.Layout, mapper *overlay.Mapper, sink doom.KeySink, tics doom.Ticker, runner *encoder.Runner, publisher *video.Publisher, preview *mjpeg.Stream, policy signaling.ViewerPolicy) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if lay == nil || mapper == nil {
		return nil, errors.New("layout and overlay mapper are required")
	}
	if runner == nil {
		return nil, errors.New("encoder runner is required")
	}
	if publisher == nil {
		return nil, errors.New("video publisher is required")
	}

	a := &App{
		cfg:       cfg,
		session:   sess,
		lay:       lay,
		overlay:   mapper,
		runner:    runner,
		publisher: publisher,
		preview:   preview,
		defaultMJPEG: mjpegDefaults{
			intervalMs: cfg.MJPEGIntervalMs,
			quality:    cfg.MJPEGQuality,
		},
	}

	a.signaling = signaling.NewServer(publisher, policy, sess.IsAuthenticated, sess.VideoMode)
	a.control = remote.NewServer(sess, mapper, lay, sink, tics, func(reason string) {
		if err := a.RestartPipeline(reason); err != nil {
			log.Printf("pipeline restart (%s): %v", reason, err)
		}
	}, func(overrides map[layout.Control]layout.NormRect) error {
		return layout.Save(cfg.LayoutPath, overrides)
	})

	mapper.OnHide(func() {
		sess.SetOverlayVisible(!sess.OverlayVisible())
	})
	mapper.OnWeapon(sess.SetWeapon)
	mapper.OnRunToggle(sess.SetRunToggled)

	return a, nil
}

// Start loads persisted layout overrides.
func (a *App) Start() error {
	overrides, err := layout.Load(a.cfg.LayoutPath)
	if err != nil {
		return err
	}
	for c, r := range overrides {
		a.lay.SetOverride(c, r)
	}
	return nil
}

// Stop tears down the video pipeline.
func (a *App) Stop() {
	a.publisher.StopForwarding()
	a.publisher.ClosePeer()
	if err := a.runner.Stop(); err != nil {
		log.Printf("encoder stop: %v", err)
	}
}

// PublishFrame accepts one rendered RGBA frame from the engine and feeds the
// active video pipeline. The encoder restarts when the frame size changes.
func (a *App) PublishFrame(rgba []byte, w, h int) {
	if a.cfg.MJPEGEnabled && a.preview != nil {
		a.mu.Lock()
		quality := a.cfg.MJPEGQuality
		a.mu.Unlock()
		a.preview.Publish(mjpeg.EncodeRGBAToJPEG(rgba, w, h, quality))
	}

	if a.session.VideoMode() != session.VideoWebRTC {
		return
	}

	a.mu.Lock()
	sizeChanged := w != a.frameW || h != a.frameH
	a.frameW, a.frameH = w, h
	a.mu.Unlock()

	if sizeChanged {
		if err := a.restartEncoder(w, h); err != nil {
			log.Printf("encoder restart %dx%d: %v", w, h, err)
			return
		}
	}
	if err := a.runner.WriteFrame(rgba); err != nil {
		log.Printf("encoder frame: %v", err)
	}
}

// RestartPipeline rebuilds the encode/forward chain for the current mode.
func (a *App) RestartPipeline(reason string) error {
	log.Printf("pipeline restart: %s", reason)
	a.publisher.StopForwarding()
	if err := a.runner.Stop(); err != nil {
		return err
	}

	if a.session.VideoMode() != session.VideoWebRTC {
		a.signaling.NotifyRestart()
		return nil
	}

	a.mu.Lock()
	w, h := a.frameW, a.frameH
	a.mu.Unlock()
	if w == 0 || h == 0 {
		// No frame seen yet; the first PublishFrame starts the encoder.
		return nil
	}
	return a.restartEncoder(w, h)
}

// restartEncoder relaunches ffmpeg for the given frame size and rewires RTP
// forwarding into the WebRTC track.
func (a *App) restartEncoder(w, h int) error {
	opts := encoder.Options{
		FFmpegPath:  a.cfg.FFmpegPath,
		FPS:         a.cfg.FPS,
		BitrateKbps: a.cfg.BitrateKbps,
	}
	port, _, err := a.runner.Restart(w, h, opts)
	if err != nil {
		return err
	}
	if err := a.publisher.AttachRTP(port); err != nil {
		return err
	}
	if _, err := a.publisher.Track(); err != nil {
		return err
	}
	if err := a.publisher.StartForwarding(); err != nil {
		return err
	}
	a.signaling.NotifyRestart()
	return nil
}

// Signaling returns the signaling websocket handler.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Control returns the control websocket handler.
func (a *App) Control() *remote.Server {
	return a.control
}

// PreviewStream returns the MJPEG fallback stream, if enabled.
func (a *App) PreviewStream() *mjpeg.Stream {
	return a.preview
}
