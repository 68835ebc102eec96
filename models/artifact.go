package models

// ArtifactRef points at one recording or transcript file produced by a past
// session and hosted by the real-time backend.
type ArtifactRef struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// ArtifactSet is the per-booking artifact listing. It is recomputed on each
// retrieval pass and never merged with a stale previous value.
type ArtifactSet struct {
	BookingID   string        `json:"bookingId"`
	Recordings  []ArtifactRef `json:"recordings"`
	Transcripts []ArtifactRef `json:"transcripts"`
}

// EmptyArtifactSet returns the degraded result used when a booking's artifact
// queries fail; the UI renders it as an empty state, not an error.
func EmptyArtifactSet(bookingID string) ArtifactSet {
	return ArtifactSet{
		BookingID:   bookingID,
		Recordings:  []ArtifactRef{},
		Transcripts: []ArtifactRef{},
	}
}
