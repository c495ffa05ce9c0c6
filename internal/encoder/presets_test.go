package encoder

import (
	"strings"
	"testing"
)

// TestBuildEncodeArgs verifies the rawvideo input and RTP output shape.
func TestBuildEncodeArgs(t *testing.T) {
	args := BuildEncodeArgs(320, 200, Options{FPS: 35, BitrateKbps: 4000}, 5004)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-f rawvideo",
		"-pix_fmt rgba",
		"-video_size 320x200",
		"-framerate 35",
		"-i -",
		"-vcodec libx264",
		"-tune zerolatency",
		"-b:v 4000k",
		"rtp://127.0.0.1:5004?pkt_size=1200",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args: %s", want, joined)
		}
	}
}

// TestBuildEncodeArgs_KeyintFloor verifies the keyframe interval floor.
func TestBuildEncodeArgs_KeyintFloor(t *testing.T) {
	args := BuildEncodeArgs(320, 200, Options{FPS: 5, BitrateKbps: 1000}, 5004)
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-g 15") {
		t.Fatalf("expected keyint floor of 15, got %s", joined)
	}
}

// TestWriteFrame_RejectsWhenStopped verifies writes fail cleanly when idle.
func TestWriteFrame_RejectsWhenStopped(t *testing.T) {
	r := NewRunner()
	if err := r.WriteFrame(make([]byte, 16)); err == nil {
		t.Fatal("expected error writing to stopped encoder")
	}
}
