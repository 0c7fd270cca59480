package algorithm

import "fmt"

// Payload is the normalized body sent to the cipher backend. Key is nil for
// algorithms whose keys live on the backend, and is then omitted from JSON.
type Payload struct {
	Message   string  `json:"message"`
	Algorithm Name    `json:"algorithm"`
	Key       *string `json:"key,omitempty"`
}

// BuildPayload validates st and returns the payload for it. The key is
// included for every algorithm that requires one; for RSA it is dropped
// regardless of what the key field holds.
func BuildPayload(st *State) (*Payload, error) {
	if err := Validate(st); err != nil {
		return nil, err
	}
	spec, err := Lookup(st.Algorithm)
	if err != nil {
		return nil, err //coverage:ignore
	}

	p := &Payload{
		Message:   st.Message,
		Algorithm: spec.Name,
	}
	if spec.RequiresKey {
		key := st.Key
		p.Key = &key
	}
	return p, nil
}

// HasKey reports whether the payload carries a key.
func (p *Payload) HasKey() bool {
	return p.Key != nil
}

// Fields returns the payload as a flat mapping of field name to value.
func (p *Payload) Fields() map[string]string {
	m := map[string]string{
		"message":   p.Message,
		"algorithm": string(p.Algorithm),
	}
	if p.Key != nil {
		m["key"] = *p.Key
	}
	return m
}

// Path returns the backend path for op.
func Path(op Operation) (string, error) {
	if !op.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, string(op))
	}
	return "/" + string(op), nil
}
