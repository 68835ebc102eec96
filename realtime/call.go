package realtime

import (
	"context"
	"encoding/json"
	"log"

	"consultly/models"
	"consultly/services/session"
)

// call is one session resource handle bound to the shared client.
type call struct {
	client *Client
	key    string
}

func (cl *call) command(ctx context.Context, action string, payload any) (envelope, error) {
	env := envelope{
		Type:   messageTypeCommand,
		Call:   cl.key,
		Action: action,
	}
	if payload != nil {
		env.Payload = mustMarshal(payload)
	}
	return cl.client.request(ctx, env)
}

func (cl *call) Join(ctx context.Context, opts session.JoinOptions) error {
	if _, err := cl.command(ctx, actionJoin, joinPayload{Create: opts.Create}); err != nil {
		return err
	}
	cl.client.setCallState(cl.key, session.SignalingJoined)
	return nil
}

func (cl *call) Leave(ctx context.Context) error {
	if _, err := cl.command(ctx, actionLeave, nil); err != nil {
		return err
	}
	cl.client.setCallState(cl.key, session.SignalingLeft)
	return nil
}

func (cl *call) StartRecording(ctx context.Context) error {
	_, err := cl.command(ctx, actionStartRecording, nil)
	return err
}

func (cl *call) StopRecording(ctx context.Context) error {
	_, err := cl.command(ctx, actionStopRecording, nil)
	return err
}

func (cl *call) StartTranscription(ctx context.Context) error {
	_, err := cl.command(ctx, actionStartTranscription, nil)
	return err
}

func (cl *call) StopTranscription(ctx context.Context) error {
	_, err := cl.command(ctx, actionStopTranscription, nil)
	return err
}

func (cl *call) QueryRecordings(ctx context.Context) ([]models.ArtifactRef, error) {
	reply, err := cl.command(ctx, actionQueryRecordings, nil)
	if err != nil {
		return nil, err
	}
	list, err := decodeArtifactList(reply.Payload)
	if err != nil {
		return nil, err
	}
	return list.Recordings, nil
}

func (cl *call) QueryTranscriptions(ctx context.Context) ([]models.ArtifactRef, error) {
	reply, err := cl.command(ctx, actionQueryTranscriptions, nil)
	if err != nil {
		return nil, err
	}
	list, err := decodeArtifactList(reply.Payload)
	if err != nil {
		return nil, err
	}
	return list.Transcriptions, nil
}

func (cl *call) State() session.SignalingState {
	return cl.client.callState(cl.key)
}

func (cl *call) Subscribe(fn func(session.SignalingState)) func() {
	return cl.client.subscribe(cl.key, fn)
}

func decodeArtifactList(raw json.RawMessage) (artifactListPayload, error) {
	var list artifactListPayload
	if len(raw) == 0 {
		return list, nil
	}
	err := json.Unmarshal(raw, &list)
	return list, err
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		// Payload types are plain structs; a marshal failure is a bug.
		log.Panicf("realtime: failed to marshal payload: %v", err)
	}
	return data
}
