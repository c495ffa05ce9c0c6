package app

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/MartinZikmund/UnoDoom/internal/web"
)

// RegisterRoutes wires API and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		staticDir = filepath.Join("internal", "web", "static")
	}

	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.Handle("/ws/signal", a.Signaling())
	mux.Handle("/ws/control", a.Control())
	mux.HandleFunc("/favicon.ico", handleFavicon)
	if stream := a.PreviewStream(); stream != nil {
		mux.HandleFunc("/mjpeg/view", stream.Handler)
	}

	mux.Handle("/", staticFileServer(staticDir))
}

type loginRequest struct {
	Password string `json:"password"`
}

type stateResponse struct {
	InputEnabled   bool   `json:"inputEnabled"`
	OverlayVisible bool   `json:"overlayVisible"`
	VideoMode      string `json:"videoMode"`
	Weapon         int    `json:"weapon"`
	RunToggled     bool   `json:"run"`
	Authenticated  bool   `json:"authenticated"`
}

// handleLogin authenticates the session.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !a.session.Authenticate(req.Password) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// handleLogout clears authentication state.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.session.Logout()
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// handleState returns current session and overlay state.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	snap := a.session.Snapshot()
	resp := stateResponse{
		InputEnabled:   snap.InputEnabled,
		OverlayVisible: snap.OverlayVisible,
		VideoMode:      snap.VideoMode,
		Weapon:         snap.Weapon,
		RunToggled:     snap.RunToggled,
		Authenticated:  snap.Authenticated,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

type configRequest struct {
	MJPEGIntervalMs *int `json:"mjpegIntervalMs,omitempty"`
	MJPEGQuality    *int `json:"mjpegQuality,omitempty"`
	Reset           bool `json:"reset,omitempty"`
}

type configResponse struct {
	Applied         bool `json:"applied"`
	MJPEGIntervalMs int  `json:"mjpegIntervalMs"`
	MJPEGQuality    int  `json:"mjpegQuality"`
}

// handleConfig adjusts MJPEG tuning at runtime or resets it to the startup
// values.
func (a *App) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	interval := a.cfg.MJPEGIntervalMs
	quality := a.cfg.MJPEGQuality
	a.mu.Unlock()
	if req.Reset {
		interval = a.defaultMJPEG.intervalMs
		quality = a.defaultMJPEG.quality
	} else {
		if req.MJPEGIntervalMs != nil {
			interval = *req.MJPEGIntervalMs
		}
		if req.MJPEGQuality != nil {
			quality = *req.MJPEGQuality
		}
	}
	if interval < 16 || interval > 10000 {
		http.Error(w, "mjpegIntervalMs out of range", http.StatusBadRequest)
		return
	}
	if quality <= 0 || quality > 100 {
		http.Error(w, "mjpegQuality out of range", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	a.cfg.MJPEGIntervalMs = interval
	a.cfg.MJPEGQuality = quality
	a.mu.Unlock()
	if a.preview != nil {
		a.preview.SetMinInterval(time.Duration(interval) * time.Millisecond)
	}
	_ = json.NewEncoder(w).Encode(configResponse{
		Applied:         true,
		MJPEGIntervalMs: interval,
		MJPEGQuality:    quality,
	})
}

// requireAuth returns false and writes an error if the session is not authenticated.
func (a *App) requireAuth(w http.ResponseWriter) bool {
	if !a.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// staticFileServer returns a handler for static assets, preferring disk then embed.
func staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		log.Printf("static assets unavailable: %v", err)
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(embedded))
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
