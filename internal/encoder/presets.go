// Package encoder runs ffmpeg to turn raw game framebuffers into an RTP
// H.264 stream for the WebRTC publisher.
package encoder

import "fmt"

// Options describes ffmpeg runtime parameters.
type Options struct {
	FFmpegPath  string
	FPS         int
	BitrateKbps int
}

// BuildEncodeArgs returns ffmpeg args reading raw RGBA frames on stdin and
// emitting RTP H.264 on a local port.
func BuildEncodeArgs(w, h int, opts Options, port int) []string {
	input := []string{
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", w, h),
		"-framerate", fmt.Sprintf("%d", opts.FPS),
		"-i", "-",
	}
	return append(input, buildOutputArgs(opts, port)...)
}

// buildOutputArgs builds the encode/output arguments.
func buildOutputArgs(opts Options, port int) []string {
	// Keep keyframes frequent to help decoders recover quickly after
	// pipeline restarts.
	keyint := opts.FPS
	if keyint <= 0 {
		keyint = 35
	}
	if keyint < 15 {
		keyint = 15
	}
	return []string{
		"-an",
		"-vcodec", "libx264",
		"-preset", "ultrafast",
		"-tune", "zerolatency",
		"-profile:v", "baseline",
		"-g", fmt.Sprintf("%d", keyint),
		"-keyint_min", fmt.Sprintf("%d", keyint),
		"-bf", "0",
		"-x264-params", "scenecut=0:repeat-headers=1",
		"-pix_fmt", "yuv420p",
		"-b:v", fmt.Sprintf("%dk", opts.BitrateKbps),
		"-payload_type", "96",
		"-f", "rtp",
		fmt.Sprintf("rtp://127.0.0.1:%d?pkt_size=1200", port),
	}
}
