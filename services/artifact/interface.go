package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"consultly/models"
)

// ArtifactService is the review-side surface: list artifacts for past
// sessions and fetch one transcript for display.
type ArtifactService interface {
	ListArtifacts(ctx context.Context, bookings []models.Booking) []models.ArtifactSet
	FetchTranscript(ctx context.Context, url string, b models.Booking) ([]models.LabeledTranscriptEntry, error)
}

// DefaultArtifactService implements ArtifactService with the fan-out
// retriever and plain HTTP fetches of backend-signed transcript URLs.
type DefaultArtifactService struct {
	Retriever *Retriever
	Client    *http.Client
}

func NewDefaultArtifactService(retriever *Retriever) *DefaultArtifactService {
	return &DefaultArtifactService{
		Retriever: retriever,
		Client:    http.DefaultClient,
	}
}

func (s *DefaultArtifactService) ListArtifacts(ctx context.Context, bookings []models.Booking) []models.ArtifactSet {
	return s.Retriever.Retrieve(ctx, bookings)
}

func (s *DefaultArtifactService) FetchTranscript(ctx context.Context, url string, b models.Booking) ([]models.LabeledTranscriptEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch transcript: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	entries, err := ParseTranscript(string(raw))
	if err != nil {
		return nil, err
	}
	return LabelSpeakers(entries, b), nil
}
