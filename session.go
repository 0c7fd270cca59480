package cipherform

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cnslab/cipherform-go/algorithm"
)

// Display is what a front end should currently show: at most one of Result
// and Error is non-empty.
type Display struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Session owns one editable request. Message edits keep an OTP encryption
// key as long as the message, and only the most recent submission may
// change the Display.
type Session struct {
	client *Client
	sync   *algorithm.Synchronizer

	mu      sync.Mutex
	state   algorithm.State
	seq     uint64
	display Display
}

// State returns a copy of the current request.
func (s *Session) State() algorithm.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Display returns the current display.
func (s *Session) Display() Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

// SetMessage updates the message and resynchronizes an OTP encryption key.
// It reports whether the key changed.
func (s *Session) SetMessage(msg string) bool {
	return s.edit(func(st *algorithm.State) bool {
		return s.sync.SetMessage(st, msg)
	})
}

// SetKey replaces the key exactly as typed.
func (s *Session) SetKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Key = key
}

// SetAlgorithm switches the algorithm. It reports whether the key changed.
func (s *Session) SetAlgorithm(name algorithm.Name) bool {
	return s.edit(func(st *algorithm.State) bool {
		return s.sync.SetAlgorithm(st, name)
	})
}

// SetOperation switches the operation. It reports whether the key changed.
func (s *Session) SetOperation(op algorithm.Operation) bool {
	return s.edit(func(st *algorithm.State) bool {
		return s.sync.SetOperation(st, op)
	})
}

func (s *Session) edit(fn func(*algorithm.State) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state.KeyLen()
	changed := fn(&s.state)
	if changed {
		direction := "extend"
		if s.state.KeyLen() < before {
			direction = "truncate"
		}
		s.client.metrics.ObserveKeySync(direction)
	}
	return changed
}

// KeyHint returns the placeholder text for the key input.
func (s *Session) KeyHint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return algorithm.KeyHint(&s.state)
}

// Check validates the current request without submitting it.
func (s *Session) Check() algorithm.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return algorithm.Check(&s.state)
}

// Submit sends a snapshot of the current request. Submissions may overlap;
// when a newer one is started before this one returns, this one's outcome
// is dropped and ErrSuperseded is returned instead.
//
// Validation failures, backend errors and transport errors all replace the
// Display with their reason; a success replaces it with the result text.
func (s *Session) Submit(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	st := s.state
	s.mu.Unlock()

	res, err := s.client.Submit(ctx, &st)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.client.metrics.ObserveSuperseded(string(st.Algorithm), string(st.Operation))
		s.client.logger.Debug("submission superseded",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.seq),
		)
		return nil, fmt.Errorf("%w: submission %d", ErrSuperseded, seq)
	}

	if err != nil {
		s.display = Display{Error: ReasonOf(err)}
		return nil, err
	}
	s.display = Display{Result: res.Text}
	return res, nil
}
