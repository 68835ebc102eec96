package artifact

import (
	"encoding/json"
	"strings"

	"consultly/models"
)

// ParseTranscript converts a newline-delimited transcript payload into an
// ordered slice of entries. Every non-empty line must be one valid JSON
// record; a single bad line fails the whole parse. Ordering is preserved as
// given, the parser never re-sorts.
func ParseTranscript(raw string) ([]models.TranscriptEntry, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	entries := make([]models.TranscriptEntry, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry models.TranscriptEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, MalformedTranscriptError{Line: i + 1, Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LabelSpeakers resolves each entry's speaker against the booking: the
// provider id maps to the provider label, everyone else to the requester
// label. This is presentation-side attribution, deliberately outside the
// parser.
func LabelSpeakers(entries []models.TranscriptEntry, b models.Booking) []models.LabeledTranscriptEntry {
	providerLabel := b.ProviderLabel
	if providerLabel == "" {
		providerLabel = "Provider"
	}
	requesterLabel := b.RequesterLabel
	if requesterLabel == "" {
		requesterLabel = "Requester"
	}

	labeled := make([]models.LabeledTranscriptEntry, 0, len(entries))
	for _, entry := range entries {
		label := requesterLabel
		if entry.SpeakerID == b.ProviderID {
			label = providerLabel
		}
		labeled = append(labeled, models.LabeledTranscriptEntry{
			TranscriptEntry: entry,
			Speaker:         label,
		})
	}
	return labeled
}
