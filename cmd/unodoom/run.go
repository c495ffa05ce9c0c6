// Package main starts the UnoDoom remote play server.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/MartinZikmund/UnoDoom/internal/app"
	"github.com/MartinZikmund/UnoDoom/internal/config"
	"github.com/MartinZikmund/UnoDoom/internal/doom"
	"github.com/MartinZikmund/UnoDoom/internal/encoder"
	"github.com/MartinZikmund/UnoDoom/internal/gamepad"
	"github.com/MartinZikmund/UnoDoom/internal/layout"
	"github.com/MartinZikmund/UnoDoom/internal/mjpeg"
	"github.com/MartinZikmund/UnoDoom/internal/overlay"
	"github.com/MartinZikmund/UnoDoom/internal/sdlpad"
	"github.com/MartinZikmund/UnoDoom/internal/session"
	"github.com/MartinZikmund/UnoDoom/internal/signaling"
	"github.com/MartinZikmund/UnoDoom/internal/video"
	"github.com/MartinZikmund/UnoDoom/internal/winkeys"
)

// run wires the application and blocks until shutdown.
func run(debug, demo bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	video.SetDebugLogging(debug)
	if debug {
		log.Printf("debug: enabled")
	}
	logStartup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := session.New(cfg.UIPassword)
	lay := layout.New(layout.DefaultParams())

	start := time.Now()
	tics := doom.TickerFunc(func() uint32 {
		return uint32(time.Since(start) * doom.TicRate / time.Second)
	})

	var sink doom.KeySink
	if ks, kerr := winkeys.New(); kerr == nil {
		sink = ks
	} else if errors.Is(kerr, winkeys.ErrUnsupported) {
		log.Printf("key injection: unavailable on this platform, logging key events")
		sink = doom.LogSink{}
	} else {
		return kerr
	}

	mapper := overlay.NewMapper(lay, sink, tics)
	mapper.SetDeadzone(cfg.OverlayDeadzone)

	bindings, err := config.LoadBindings(cfg.BindingsPath)
	if err != nil {
		return err
	}

	if cfg.GamepadEnabled {
		source := sdlpad.NewSource()
		pad := gamepad.NewMapper(source, sink, tics, doom.NeverInMenu, bindings)
		poller := gamepad.NewPoller(pad)
		poller.SetInterval(time.Duration(cfg.GamepadPollMs) * time.Millisecond)
		go func() {
			if err := source.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("gamepad: %v", err)
			}
		}()
		go poller.Run(ctx)
	} else {
		log.Printf("gamepad: disabled")
	}

	runner := encoder.NewRunner()
	publisher, err := video.NewPublisher()
	if err != nil {
		return err
	}

	var preview *mjpeg.Stream
	if cfg.MJPEGEnabled {
		preview = mjpeg.NewStream(time.Duration(cfg.MJPEGIntervalMs) * time.Millisecond)
	}

	appInstance, err := app.New(cfg, sess, lay, mapper, sink, tics, runner, publisher, preview, signaling.ViewerReplace)
	if err != nil {
		return err
	}
	if err := appInstance.Start(); err != nil {
		return err
	}
	defer appInstance.Stop()

	if demo {
		go runDemoFrames(ctx, appInstance, cfg.FPS)
	}

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// runDemoFrames feeds a moving test pattern so the video pipeline can be
// exercised without an attached engine.
func runDemoFrames(ctx context.Context, a *app.App, fps int) {
	const w, h = 640, 400
	frame := make([]byte, w*h*4)
	t := time.NewTicker(time.Second / time.Duration(fps))
	defer t.Stop()
	var phase int
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					i := (y*w + x) * 4
					frame[i] = byte(x + phase)
					frame[i+1] = byte(y)
					frame[i+2] = byte(x ^ y)
					frame[i+3] = 0xff
				}
			}
			phase += 4
			a.PublishFrame(frame, w, h)
		}
	}
}

// logFatal prints and exits for startup failures.
func logFatal(err error) {
	log.Printf("fatal: %v", err)
	os.Exit(1)
}

// logStartup prints startup checks and connection info.
func logStartup(cfg config.Config) {
	log.Printf("UnoDoom starting")
	logEnvStatus(cfg)
	logFFmpegStatus(cfg.FFmpegPath)
	logListenStatus(cfg.ListenAddr)
}

// logEnvStatus reports whether a .env file was found and required values are set.
func logEnvStatus(cfg config.Config) {
	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		log.Printf("env check: ok (%s)", envPath)
	} else {
		log.Printf("env check: missing (%s)", envPath)
	}
	if strings.TrimSpace(os.Getenv("UI_PASSWORD")) == "" {
		log.Printf("env UI_PASSWORD: from .env")
	} else {
		log.Printf("env UI_PASSWORD: set")
	}
}

// logFFmpegStatus reports whether the ffmpeg binary is discoverable.
func logFFmpegStatus(path string) {
	resolved := path
	ok := false
	note := ""

	if filepath.IsAbs(path) {
		info, err := os.Stat(path)
		switch {
		case err == nil && !info.IsDir():
			ok = true
		case err != nil:
			note = err.Error()
		default:
			note = "path is a directory"
		}
	} else {
		found, err := exec.LookPath(path)
		switch {
		case err == nil:
			ok = true
			resolved = found
		case errors.Is(err, exec.ErrDot):
			note = "found relative to current dir; use absolute path"
		default:
			note = err.Error()
		}
	}

	if ok {
		log.Printf("ffmpeg check: ok (%s)", resolved)
		return
	}
	if note != "" {
		log.Printf("ffmpeg check: missing (%s)", note)
		return
	}
	log.Printf("ffmpeg check: missing")
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string) {
	log.Printf("listen addr: %s", addr)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Printf("local url: http://%s", net.JoinHostPort(host, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
