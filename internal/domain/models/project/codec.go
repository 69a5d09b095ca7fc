package project

import (
	"encoding/json"
	"fmt"

	"assistant/internal/domain"
)

// Envelope is the tagged wire form of a Change.
type Envelope struct {
	Kind   ChangeKind      `json:"Kind"`
	Change json.RawMessage `json:"Change"`
}

// DecodeFunc turns the payload of an envelope into a Change.
type DecodeFunc[M any, I Item] func(data json.RawMessage) (Change[M, I], error)

// ChangeCodec encodes changes into envelopes and decodes them back using a
// per-kind decoder table. Domains with extra variants register them.
type ChangeCodec[M any, I Item] struct {
	decoders map[ChangeKind]DecodeFunc[M, I]
}

// NewChangeCodec returns a codec that understands the generic variants.
func NewChangeCodec[M any, I Item]() *ChangeCodec[M, I] {
	c := &ChangeCodec[M, I]{decoders: make(map[ChangeKind]DecodeFunc[M, I])}
	c.Register(KindAddition, DecodeAs[Addition[M, I], M, I])
	c.Register(KindRemoval, DecodeAs[Removal[M, I], M, I])
	c.Register(KindReordering, DecodeAs[Reordering[M, I], M, I])
	return c
}

// Register adds or replaces the decoder for kind.
func (c *ChangeCodec[M, I]) Register(kind ChangeKind, fn DecodeFunc[M, I]) {
	c.decoders[kind] = fn
}

// DecodeAs unmarshals data into a fresh T and returns it as a Change.
// *T must implement Change[M, I].
func DecodeAs[T any, M any, I Item](data json.RawMessage) (Change[M, I], error) {
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	change, ok := any(v).(Change[M, I])
	if !ok {
		return nil, fmt.Errorf("%T is not a change", v)
	}
	return change, nil
}

// Encode wraps a change into its envelope.
func (c *ChangeCodec[M, I]) Encode(change Change[M, I]) (Envelope, error) {
	data, err := json.Marshal(change)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s change: %w", change.Kind(), err)
	}
	return Envelope{Kind: change.Kind(), Change: data}, nil
}

// EncodeAll wraps every change, preserving order.
func (c *ChangeCodec[M, I]) EncodeAll(changes []Change[M, I]) ([]Envelope, error) {
	out := make([]Envelope, 0, len(changes))
	for _, change := range changes {
		env, err := c.Encode(change)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

// Decode resolves an envelope. Unknown kinds and malformed payloads are
// validation failures.
func (c *ChangeCodec[M, I]) Decode(env Envelope) (Change[M, I], error) {
	fn, ok := c.decoders[env.Kind]
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown change kind %q", env.Kind)}
	}
	change, err := fn(env.Change)
	if err == nil {
		if v, ok := change.(interface{ Validate() error }); ok {
			err = v.Validate()
		}
	}
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid %s change: %v", env.Kind, err)}
	}
	return change, nil
}

// DecodeAll resolves envelopes in order and fails on the first bad one.
func (c *ChangeCodec[M, I]) DecodeAll(envs []Envelope) ([]Change[M, I], error) {
	out := make([]Change[M, I], 0, len(envs))
	for i, env := range envs {
		change, err := c.Decode(env)
		if err != nil {
			return nil, fmt.Errorf("change %d: %w", i+1, err)
		}
		out = append(out, change)
	}
	return out, nil
}
