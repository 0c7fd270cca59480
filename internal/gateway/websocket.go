package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cnslab/cipherform-go"
	"github.com/cnslab/cipherform-go/algorithm"
)

const (
	defaultPongWait = 60 * time.Second
	writeWait       = 10 * time.Second
)

// Frame types exchanged on /ws.
const (
	FrameSet     = "set"
	FrameSubmit  = "submit"
	FrameState   = "state"
	FrameDisplay = "display"
	FrameError   = "error"
)

// Editable fields of a set frame.
const (
	FieldMessage   = "message"
	FieldKey       = "key"
	FieldAlgorithm = "algorithm"
	FieldOperation = "operation"
)

// ClientFrame is a frame sent by the browser.
type ClientFrame struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// ServerFrame is a frame sent to the browser.
type ServerFrame struct {
	Type      string              `json:"type"`
	State     *algorithm.State    `json:"state,omitempty"`
	KeyHint   string              `json:"key_hint,omitempty"`
	KeySynced bool                `json:"key_synced,omitempty"`
	Check     *algorithm.Outcome  `json:"check,omitempty"`
	Display   *cipherform.Display `json:"display,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// handleWebSocket runs one form session per connection. Frames are handled
// in order, so a submit always sees every edit sent before it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	session := s.client.NewSession()
	logger := s.logger.With(zap.String("remote", r.RemoteAddr))
	logger.Debug("websocket session opened")

	pongWait := s.pongWait
	pingPeriod := (pongWait * 9) / 10
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	if err := writeFrame(conn, stateFrame(session, false)); err != nil {
		return
	}

	for {
		// Pongs are only processed while reading, so a long submit must
		// not eat into the next frame's deadline.
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var frame ClientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			logger.Debug("websocket session closed")
			return
		}

		reply := s.handleFrame(ctx, session, &frame)
		if err := writeFrame(conn, reply); err != nil {
			logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

func (s *Server) handleFrame(ctx context.Context, session *cipherform.Session, frame *ClientFrame) ServerFrame {
	switch frame.Type {
	case FrameSet:
		synced, err := applyEdit(session, frame.Field, frame.Value)
		if err != nil {
			return ServerFrame{Type: FrameError, Error: err.Error()}
		}
		return stateFrame(session, synced)

	case FrameSubmit:
		res, err := session.Submit(ctx)
		display := session.Display()
		out := ServerFrame{Type: FrameDisplay, Display: &display}
		if err == nil {
			out.RequestID = res.RequestID
		} else if !errors.Is(err, cipherform.ErrValidation) {
			s.logger.Debug("websocket submission failed", zap.Error(err))
		}
		return out

	default:
		return ServerFrame{Type: FrameError, Error: fmt.Sprintf("unknown frame type %q", frame.Type)}
	}
}

// applyEdit applies one field edit and reports whether the key was
// resynchronized.
func applyEdit(session *cipherform.Session, field, value string) (bool, error) {
	switch field {
	case FieldMessage:
		return session.SetMessage(value), nil
	case FieldKey:
		session.SetKey(value)
		return false, nil
	case FieldAlgorithm:
		name, err := algorithm.Parse(value)
		if err != nil {
			return false, err
		}
		return session.SetAlgorithm(name), nil
	case FieldOperation:
		op, err := algorithm.ParseOperation(value)
		if err != nil {
			return false, err
		}
		return session.SetOperation(op), nil
	default:
		return false, fmt.Errorf("unknown field %q", field)
	}
}

func stateFrame(session *cipherform.Session, synced bool) ServerFrame {
	st := session.State()
	check := session.Check()
	return ServerFrame{
		Type:      FrameState,
		State:     &st,
		KeyHint:   session.KeyHint(),
		KeySynced: synced,
		Check:     &check,
	}
}

func writeFrame(conn *websocket.Conn, frame ServerFrame) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(frame)
}
