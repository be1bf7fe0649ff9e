package google

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/googlelogin/pkg/base64url"
)

// State is the payload carried through Google in the OAuth state parameter.
type State struct {
	Nonce      string `json:"nonce"`
	Provider   string `json:"provider"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// Encode serializes the state as base64url JSON.
func (s State) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return base64url.Encode(b), nil
}

// DecodeState parses a state parameter produced by Encode.
func DecodeState(raw string) (State, error) {
	if raw == "" {
		return State{}, ErrInvalidState
	}
	b, err := base64url.Decode(raw)
	if err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if s == (State{}) {
		return State{}, ErrInvalidState
	}
	return s, nil
}
