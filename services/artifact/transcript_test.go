package artifact

import (
	"errors"
	"testing"

	"consultly/models"
)

func TestParseTranscriptOrderedEntries(t *testing.T) {
	raw := `{"speaker_id":"prov-1","type":"speech","text":"Let us begin.","start_ts":0,"stop_ts":1800}
{"speaker_id":"req-1","type":"speech","text":"Sounds good.","start_ts":2000,"stop_ts":2900}`

	entries, err := ParseTranscript(raw)
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	first := entries[0]
	if first.SpeakerID != "prov-1" || first.Kind != "speech" || first.Text != "Let us begin." {
		t.Errorf("first entry = %+v", first)
	}
	if first.StartOffsetMs != 0 || first.EndOffsetMs != 1800 {
		t.Errorf("first timestamps = %d/%d", first.StartOffsetMs, first.EndOffsetMs)
	}
	if entries[1].SpeakerID != "req-1" {
		t.Errorf("second speaker = %s", entries[1].SpeakerID)
	}
}

func TestParseTranscriptPreservesGivenOrder(t *testing.T) {
	// Lines arrive out of timestamp order; the parser must not re-sort.
	raw := `{"speaker_id":"a","type":"speech","text":"later","start_ts":5000,"stop_ts":6000}
{"speaker_id":"b","type":"speech","text":"earlier","start_ts":0,"stop_ts":100}`

	entries, err := ParseTranscript(raw)
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if entries[0].Text != "later" || entries[1].Text != "earlier" {
		t.Errorf("entries re-ordered: %q then %q", entries[0].Text, entries[1].Text)
	}
}

func TestParseTranscriptAllOrNothing(t *testing.T) {
	raw := `{"speaker_id":"prov-1","type":"speech","text":"fine","start_ts":0,"stop_ts":100}
not json at all
{"speaker_id":"req-1","type":"speech","text":"also fine","start_ts":200,"stop_ts":300}`

	entries, err := ParseTranscript(raw)
	var malformed MalformedTranscriptError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v, want MalformedTranscriptError", err)
	}
	if malformed.Line != 2 {
		t.Errorf("malformed line = %d, want 2", malformed.Line)
	}
	if entries != nil {
		t.Errorf("partial entries returned alongside the error: %+v", entries)
	}
}

func TestParseTranscriptSkipsBlankLines(t *testing.T) {
	raw := "\n{\"speaker_id\":\"a\",\"type\":\"speech\",\"text\":\"hi\",\"start_ts\":0,\"stop_ts\":10}\n\n"
	entries, err := ParseTranscript(raw)
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries, want 1", len(entries))
	}
}

func TestParseTranscriptEmptyPayload(t *testing.T) {
	entries, err := ParseTranscript("")
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestLabelSpeakers(t *testing.T) {
	b := models.Booking{
		ID:             "bk-1",
		RequesterID:    "req-1",
		ProviderID:     "prov-1",
		RequesterLabel: "Dana",
		ProviderLabel:  "Prof. Okafor",
	}
	entries := []models.TranscriptEntry{
		{SpeakerID: "prov-1", Text: "Welcome."},
		{SpeakerID: "req-1", Text: "Thanks."},
		{SpeakerID: "someone-else", Text: "?"},
	}

	labeled := LabelSpeakers(entries, b)
	if labeled[0].Speaker != "Prof. Okafor" {
		t.Errorf("provider label = %q", labeled[0].Speaker)
	}
	if labeled[1].Speaker != "Dana" {
		t.Errorf("requester label = %q", labeled[1].Speaker)
	}
	// Unknown speakers fall to the requester side rather than vanishing.
	if labeled[2].Speaker != "Dana" {
		t.Errorf("unknown speaker label = %q", labeled[2].Speaker)
	}
}

func TestLabelSpeakersDefaultLabels(t *testing.T) {
	b := models.Booking{ID: "bk-1", RequesterID: "req-1", ProviderID: "prov-1"}
	labeled := LabelSpeakers([]models.TranscriptEntry{
		{SpeakerID: "prov-1"},
		{SpeakerID: "req-1"},
	}, b)
	if labeled[0].Speaker != "Provider" || labeled[1].Speaker != "Requester" {
		t.Errorf("default labels = %q/%q", labeled[0].Speaker, labeled[1].Speaker)
	}
}
