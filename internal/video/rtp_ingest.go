package video

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v3"
)

type rtpListener struct {
	mu      sync.Mutex
	conn    *net.UDPConn
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	params  rtpWriteParams
	// rw is owned by the publisher and shared across listener generations.
	rw *rtpRewriter
}

// newRTPListener binds a UDP port for RTP ingestion, continuing the given
// rewriter's timeline.
func newRTPListener(port int, rw *rtpRewriter) (*rtpListener, error) {
	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}
	return &rtpListener{conn: conn, rw: rw}, nil
}

// start begins forwarding RTP packets into the provided track, applying the
// given header overrides to every packet.
func (l *rtpListener) start(track *webrtc.TrackLocalStaticRTP, params rtpWriteParams) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return fmt.Errorf("rtp listener not initialized")
	}
	if l.running {
		return nil
	}
	l.params = params
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.running = true
	go l.loop(track)
	return nil
}

// stop cancels the forward loop.
func (l *rtpListener) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.running = false
}

// close stops forwarding and closes the UDP socket.
func (l *rtpListener) close() {
	l.stop()
	if l.conn != nil {
		_ = l.conn.Close()
		l.conn = nil
	}
}

// loop reads RTP packets, rewrites their headers onto a continuous timeline,
// and forwards them to the track.
func (l *rtpListener) loop(track *webrtc.TrackLocalStaticRTP) {
	buf := make([]byte, 1600)
	for {
		select {
		case <-l.ctx.Done():
			return
		default:
		}

		n, _, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		var pkt rtp.Packet
		if err := pkt.Unmarshal(buf[:n]); err != nil {
			continue
		}
		l.rw.Apply(&pkt, l.params)
		if debugRTPEnabled() {
			log.Printf("rtp: seq=%d ts=%d len=%d", pkt.SequenceNumber, pkt.Timestamp, n)
		}
		_ = track.WriteRTP(&pkt)
	}
}

// rtpWriteParams carries optional header overrides for outgoing packets.
type rtpWriteParams struct {
	payloadType uint8
	ssrc        uint32
}

const (
	// Clamp timestamp discontinuities to half a second of 90kHz clock.
	maxTimestampDelta = 90000 / 2
	// Nominal per-frame advance used when a discontinuity is detected.
	nominalFrameDelta = 90000 / 35
)

// rtpRewriter maps incoming RTP headers onto a continuous outgoing timeline
// so an encoder restart does not break the receiver's jitter buffer.
// Packets sharing an input timestamp stay grouped on one output timestamp.
type rtpRewriter struct {
	started  bool
	lastInTS uint32
	outTS    uint32
	outSeq   uint16
}

// Apply rewrites one packet's sequence number and timestamp in place.
func (rw *rtpRewriter) Apply(p *rtp.Packet, params rtpWriteParams) {
	if !rw.started {
		rw.started = true
		rw.outSeq = p.SequenceNumber
		rw.outTS = p.Timestamp
		rw.lastInTS = p.Timestamp
	} else {
		rw.outSeq++
		if p.Timestamp != rw.lastInTS {
			delta := p.Timestamp - rw.lastInTS
			if delta > maxTimestampDelta {
				// Unsigned wrap from a backwards jump: advance one frame.
				delta = nominalFrameDelta
			}
			rw.outTS += delta
			rw.lastInTS = p.Timestamp
		}
	}
	p.SequenceNumber = rw.outSeq
	p.Timestamp = rw.outTS
	if params.payloadType != 0 {
		p.PayloadType = params.payloadType
	}
	if params.ssrc != 0 {
		p.SSRC = params.ssrc
	}
}
