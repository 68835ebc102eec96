package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"consultly/models"
	"consultly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource yields the bearer credential for upstream requests.
type TokenSource interface {
	APIToken() (string, error)
}

// Store performs authenticated CRUD against the upstream booking service.
// It keeps no cache; every call hits the service.
type Store interface {
	Create(ctx context.Context, b models.Booking) (*models.Booking, error)
	List(ctx context.Context) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
}

// RESTStore talks to the booking REST endpoints with a bearer token.
type RESTStore struct {
	BaseURL string
	Client  *http.Client
	Tokens  TokenSource
}

func NewRESTStore(baseURL string, tokens TokenSource) *RESTStore {
	return &RESTStore{
		BaseURL: baseURL,
		Client:  http.DefaultClient,
		Tokens:  tokens,
	}
}

func (s *RESTStore) Create(ctx context.Context, b models.Booking) (*models.Booking, error) {
	var created models.Booking
	// The server assigns the id; the idempotency key guards against a retry
	// creating a duplicate booking.
	headers := map[string]string{"Idempotency-Key": uuid.New().String()}
	if err := s.do(ctx, http.MethodPost, "/bookings", b, &created, headers); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *RESTStore) List(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.do(ctx, http.MethodGet, "/bookings", nil, &bookings, nil); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *RESTStore) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	var updated models.Booking
	body := map[string]models.BookingStatus{"status": status}
	if err := s.do(ctx, http.MethodPatch, "/bookings/"+id, body, &updated, nil); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *RESTStore) do(ctx context.Context, method, path string, body, out any, headers map[string]string) error {
	token, err := s.Tokens.APIToken()
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		utils.GetLogger().Error("booking store: request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return BookingServiceError{StatusCode: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return BookingServiceError{StatusCode: resp.StatusCode, Message: upstreamMessage(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode booking service response: %w", err)
	}
	return nil
}

// upstreamMessage pulls the human-readable message out of an error body.
// The upstream uses "msg"; "message" is accepted for good measure.
func upstreamMessage(raw []byte) string {
	var body struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Msg != "" {
			return body.Msg
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return string(raw)
}
