package session

import (
	"context"

	"consultly/models"
)

// SignalingState is the call state as reported by the real-time backend.
// The backend may re-announce a state (reconnects do), so observers must be
// idempotent.
type SignalingState string

const (
	SignalingIdle   SignalingState = "idle"
	SignalingJoined SignalingState = "joined"
	SignalingLeft   SignalingState = "left"
)

// JoinOptions controls how a call is entered.
type JoinOptions struct {
	// Create makes join succeed even when the call resource does not exist
	// yet (first participant creates it).
	Create bool
}

// Call is one session resource on the real-time backend, named by booking id
// within a namespace.
type Call interface {
	Join(ctx context.Context, opts JoinOptions) error
	Leave(ctx context.Context) error

	StartRecording(ctx context.Context) error
	StopRecording(ctx context.Context) error
	StartTranscription(ctx context.Context) error
	StopTranscription(ctx context.Context) error

	QueryRecordings(ctx context.Context) ([]models.ArtifactRef, error)
	QueryTranscriptions(ctx context.Context) ([]models.ArtifactRef, error)

	// State returns the last known signaling state.
	State() SignalingState
	// Subscribe registers a signaling-state observer and returns its
	// unsubscribe function. The observer may be invoked more than once for
	// the same state.
	Subscribe(fn func(SignalingState)) (unsubscribe func())
}

// Backend hands out call resources. The concrete implementation lives in the
// realtime package; tests use in-package fakes.
type Backend interface {
	Call(namespace, id string) (Call, error)
}
