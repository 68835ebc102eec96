package models

// TranscriptEntry is one parsed speech segment from a session transcript.
// Timestamps are carried as opaque millisecond integers exactly as the
// backend wrote them.
type TranscriptEntry struct {
	SpeakerID     string `json:"speaker_id"`
	Kind          string `json:"type"`
	Text          string `json:"text"`
	StartOffsetMs int64  `json:"start_ts"`
	EndOffsetMs   int64  `json:"stop_ts"`
}

// LabeledTranscriptEntry is a TranscriptEntry with the speaker resolved to a
// presentation label. Attribution is applied by the caller using the
// booking's known provider id, never by the parser.
type LabeledTranscriptEntry struct {
	TranscriptEntry
	Speaker string `json:"speaker"`
}
