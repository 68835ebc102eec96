package realtime

import (
	"encoding/json"

	"consultly/models"
	"consultly/services/session"
)

// messageType tags every frame on the signaling connection.
type messageType string

const (
	messageTypeAuth    messageType = "auth"
	messageTypeCommand messageType = "command"
	messageTypeReply   messageType = "reply"
	messageTypeEvent   messageType = "event"
)

// Call actions understood by the backend.
const (
	actionJoin                = "join"
	actionLeave               = "leave"
	actionStartRecording      = "start_recording"
	actionStopRecording       = "stop_recording"
	actionStartTranscription  = "start_transcription"
	actionStopTranscription   = "stop_transcription"
	actionQueryRecordings     = "query_recordings"
	actionQueryTranscriptions = "query_transcriptions"
)

// envelope is the common frame for all signaling traffic. Commands carry a
// message id; replies point back at it via reply_to. Events carry the call
// key and the new signaling state.
type envelope struct {
	Type      messageType     `json:"type"`
	MessageID string          `json:"message_id,omitempty"`
	ReplyTo   string          `json:"reply_to,omitempty"`
	Call      string          `json:"call,omitempty"`
	Action    string          `json:"action,omitempty"`
	State     string          `json:"state,omitempty"`
	Error     string          `json:"error,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type authPayload struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
}

type joinPayload struct {
	Create bool `json:"create"`
}

// artifactListPayload is the reply body of the two query actions.
type artifactListPayload struct {
	Recordings     []models.ArtifactRef `json:"recordings,omitempty"`
	Transcriptions []models.ArtifactRef `json:"transcriptions,omitempty"`
}

// Wire state names for signaling events.
const (
	wireStateJoined = "joined"
	wireStateLeft   = "left"
)

func signalingFromWire(state string) session.SignalingState {
	switch state {
	case wireStateJoined:
		return session.SignalingJoined
	case wireStateLeft:
		return session.SignalingLeft
	default:
		return session.SignalingIdle
	}
}
