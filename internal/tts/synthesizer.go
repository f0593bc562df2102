package tts

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Clip is one synthesized utterance: 16-bit PCM samples at SampleRate.
type Clip struct {
	Samples    []int16
	SampleRate int
}

// Synthesizer turns text into audio. The websocket implementation below
// mirrors the reference TTS provider's wire shape (binary audio frames,
// "EOS"/"ERR:" text sentinels) against the configured TTS endpoint instead
// of a single fixed vendor.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Clip, error)
}

// WebsocketSynthesizer talks to a remote TTS endpoint over a persistent
// websocket connection, opened lazily and reused across calls.
type WebsocketSynthesizer struct {
	endpoint   string
	sampleRate int

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebsocketSynthesizer binds a synthesizer to a ws(s):// endpoint. The
// server is expected to stream PCM16 audio at sampleRate.
func NewWebsocketSynthesizer(endpoint string, sampleRate int) *WebsocketSynthesizer {
	return &WebsocketSynthesizer{endpoint: endpoint, sampleRate: sampleRate}
}

func (s *WebsocketSynthesizer) getConn(ctx context.Context) (*websocket.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn, nil
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("tts: parse endpoint: %w", err)
	}
	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("tts: dial: %w", err)
	}

	s.conn = conn
	return conn, nil
}

// Synthesize sends text and accumulates binary audio frames until the
// server sends the "EOS" sentinel, or returns an error on "ERR:" prefixed
// messages.
func (s *WebsocketSynthesizer) Synthesize(ctx context.Context, text string) (Clip, error) {
	conn, err := s.getConn(ctx)
	if err != nil {
		return Clip{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req := map[string]any{"text": text}
	if err := wsjson.Write(ctx, conn, req); err != nil {
		s.conn = nil
		conn.Close(websocket.StatusAbnormalClosure, "write failed")
		return Clip{}, fmt.Errorf("tts: send request: %w", err)
	}

	var raw []byte
	for {
		messageType, payload, err := conn.Read(ctx)
		if err != nil {
			s.conn = nil
			conn.Close(websocket.StatusAbnormalClosure, "read failed")
			return Clip{}, fmt.Errorf("tts: read: %w", err)
		}

		switch messageType {
		case websocket.MessageBinary:
			raw = append(raw, payload...)
		case websocket.MessageText:
			msg := string(payload)
			switch {
			case msg == "EOS":
				return Clip{Samples: bytesToInt16(raw), SampleRate: s.sampleRate}, nil
			case len(msg) >= 4 && msg[:4] == "ERR:":
				return Clip{}, fmt.Errorf("tts: server error: %s", msg)
			}
		}
	}
}

// Close releases the underlying connection, if any.
func (s *WebsocketSynthesizer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		err := s.conn.Close(websocket.StatusNormalClosure, "")
		s.conn = nil
		return err
	}
	return nil
}

func bytesToInt16(b []byte) []int16 {
	n := len(b) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(b[i*2]) | int16(b[i*2+1])<<8
	}
	return out
}
