// Package stt implements the streaming speech-to-text client: a websocket
// session that forwards raw PCM frames upstream and emits delta transcripts
// downstream, filtering known dataset-bias boilerplate.
package stt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coder/websocket"

	"github.com/sprach-assistent/voxd/internal/applog"
	"github.com/sprach-assistent/voxd/internal/audiodevice"
)

// transcriptMessage is the server's wire shape: {"text": "...full transcript..."}.
// Other fields and non-JSON messages are ignored.
type transcriptMessage struct {
	Text string `json:"text"`
}

// Client streams audio to a remote STT endpoint and yields delta
// transcripts (the new suffix since the last emitted text).
type Client struct {
	endpoint string
	log      applog.Logger
}

// New builds a client bound to a websocket endpoint (ws:// or wss://).
func New(endpoint string, log applog.Logger) *Client {
	if log == nil {
		log = applog.NoOpLogger{}
	}
	return &Client{endpoint: endpoint, log: log}
}

// TranscribeStream opens the session, forwards frames from audio until it
// is closed or ctx is cancelled, and sends delta transcripts on the
// returned channel. onOpen is invoked once the socket is connected; onClose
// is invoked exactly once, regardless of which side ended the stream.
func (c *Client) TranscribeStream(ctx context.Context, audio <-chan audiodevice.AudioFrame, onOpen, onClose func()) <-chan string {
	out := make(chan string, 16)

	go func() {
		defer close(out)

		conn, _, err := websocket.Dial(ctx, c.endpoint, nil)
		if err != nil {
			c.log.Error("stt: dial failed", "err", err)
			if onClose != nil {
				onClose()
			}
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		if onOpen != nil {
			onOpen()
		}

		closedOnce := make(chan struct{})
		closeOnce := func() {
			select {
			case <-closedOnce:
			default:
				close(closedOnce)
				if onClose != nil {
					onClose()
				}
			}
		}
		defer closeOnce()

		readErrCh := make(chan error, 1)
		go c.forwardAudio(ctx, conn, audio, readErrCh)

		var prior string
		for {
			_, payload, err := conn.Read(ctx)
			if err != nil {
				return
			}

			var msg transcriptMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				continue // non-JSON messages are ignored
			}

			delta, next, ok := nextDelta(prior, msg.Text)
			prior = next
			if ok {
				select {
				case out <- delta:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// forwardAudio writes binary PCM frames from audio until it closes, ctx is
// cancelled, or a write fails.
func (c *Client) forwardAudio(ctx context.Context, conn *websocket.Conn, audio <-chan audiodevice.AudioFrame, errCh chan<- error) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-audio:
			if !ok {
				return
			}
			buf := make([]byte, len(frame.Samples)*2)
			for i, s := range frame.Samples {
				binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
			}
			if err := conn.Write(ctx, websocket.MessageBinary, buf); err != nil {
				select {
				case errCh <- fmt.Errorf("stt: write frame: %w", err):
				default:
				}
				return
			}
		}
	}
}

// nextDelta computes the emission for one server message: rawText is bias
// filtered and compared against prior. If the filtered text strictly
// extends prior, the new suffix is returned with ok=true; otherwise ok is
// false and next carries the updated baseline (no emission).
func nextDelta(prior, rawText string) (delta, next string, ok bool) {
	filtered := stripBias(rawText)
	if len(filtered) > len(prior) && strings.HasPrefix(filtered, prior) {
		return filtered[len(prior):], filtered, true
	}
	return "", filtered, false
}
