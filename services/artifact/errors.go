package artifact

import "fmt"

// ArtifactQueryError is advisory: a failed artifact query for one booking is
// logged and that booking degrades to an empty artifact set. It never aborts
// the batch.
type ArtifactQueryError struct {
	BookingID string
	Err       error
}

func (e ArtifactQueryError) Error() string {
	return fmt.Sprintf("artifact query for booking %s failed: %v", e.BookingID, e.Err)
}

func (e ArtifactQueryError) Unwrap() error {
	return e.Err
}

// MalformedTranscriptError fails a whole transcript parse when any single
// line does not decode. Partial transcripts are never produced.
type MalformedTranscriptError struct {
	Line int
	Err  error
}

func (e MalformedTranscriptError) Error() string {
	return fmt.Sprintf("malformed transcript at line %d: %v", e.Line, e.Err)
}

func (e MalformedTranscriptError) Unwrap() error {
	return e.Err
}
