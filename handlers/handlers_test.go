package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"consultly/handlers"
	"consultly/models"
	"consultly/routes"
	"consultly/services/artifact"
	"consultly/services/booking"
	"consultly/services/identity"
	"consultly/services/session"

	"github.com/gin-gonic/gin"
)

// upstream is an in-memory stand-in for the booking/auth service.
type upstream struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func newUpstream() *upstream {
	return &upstream{bookings: make(map[string]models.Booking)}
}

func (u *upstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		role := "requester"
		id := "req-1"
		if req.Email == "prof@example.edu" {
			role = "provider"
			id = "prov-1"
		}
		json.NewEncoder(w).Encode(map[string]any{
			"jwt":   "api-" + id,
			"token": "rt-" + id,
			"user":  map[string]string{"id": id, "role": role, "email": req.Email, "name": "User " + id},
		})
	})
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			list := make([]models.Booking, 0, len(u.bookings))
			for _, b := range u.bookings {
				list = append(list, b)
			}
			json.NewEncoder(w).Encode(list)
		case http.MethodPost:
			var b models.Booking
			json.NewDecoder(r.Body).Decode(&b)
			b.ID = "bk-1"
			u.bookings[b.ID] = b
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(b)
		}
	})
	mux.HandleFunc("/bookings/", func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()
		id := r.URL.Path[len("/bookings/"):]
		b, ok := u.bookings[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"msg": "booking not found"})
			return
		}
		var req struct {
			Status models.BookingStatus `json:"status"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		b.Status = req.Status
		u.bookings[id] = b
		json.NewEncoder(w).Encode(b)
	})
	return mux
}

// e2eCall is a canned session resource for the realtime backend fake.
type e2eCall struct {
	mu     sync.Mutex
	state  session.SignalingState
	joins  int
	leaves int
	starts int
}

func (c *e2eCall) Join(ctx context.Context, opts session.JoinOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joins++
	c.state = session.SignalingJoined
	return nil
}

func (c *e2eCall) Leave(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaves++
	c.state = session.SignalingLeft
	return nil
}

func (c *e2eCall) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	return nil
}

func (c *e2eCall) StopRecording(ctx context.Context) error      { return nil }
func (c *e2eCall) StartTranscription(ctx context.Context) error { return nil }
func (c *e2eCall) StopTranscription(ctx context.Context) error  { return nil }

func (c *e2eCall) QueryRecordings(ctx context.Context) ([]models.ArtifactRef, error) {
	return []models.ArtifactRef{{Filename: "session.mp4", URL: "https://cdn.example/session.mp4"}}, nil
}

func (c *e2eCall) QueryTranscriptions(ctx context.Context) ([]models.ArtifactRef, error) {
	return []models.ArtifactRef{{Filename: "session.jsonl", URL: "https://cdn.example/session.jsonl"}}, nil
}

func (c *e2eCall) State() session.SignalingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *e2eCall) Subscribe(fn func(session.SignalingState)) func() { return func() {} }

type e2eBackend struct {
	mu    sync.Mutex
	calls map[string]*e2eCall
}

func (b *e2eBackend) Call(namespace, id string) (session.Call, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.calls == nil {
		b.calls = make(map[string]*e2eCall)
	}
	call, ok := b.calls[id]
	if !ok {
		call = &e2eCall{}
		b.calls[id] = call
	}
	return call, nil
}

type nopBinder struct{}

func (nopBinder) Connect(ctx context.Context, id models.Identity, realtimeToken string) error {
	return nil
}
func (nopBinder) Disconnect() error { return nil }

// gateway is one fully wired router, the way main assembles it, minus the
// real network clients.
type gateway struct {
	router *gin.Engine
}

func newGateway(t *testing.T, upstreamURL string, backend session.Backend) *gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ids := identity.NewDefaultIdentityService(upstreamURL, identity.NewMemoryCredentialStore(), nopBinder{})
	bookings := &booking.DefaultBookingService{
		Store: booking.NewRESTStore(upstreamURL, ids),
	}
	orch := session.NewOrchestrator(backend)
	artifacts := artifact.NewDefaultArtifactService(artifact.NewRetriever(backend))

	hb := &handlers.HandlerBundle{
		IdentityService: ids,
		Auth:            handlers.NewAuthHandler(ids),
		Booking:         handlers.NewBookingHandler(bookings),
		Session:         handlers.NewSessionHandler(orch),
		Artifact:        handlers.NewArtifactHandler(bookings, artifacts),
	}

	router := gin.New()
	routes.RegisterRoutes(router, hb)
	return &gateway{router: router}
}

func (g *gateway) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)
	return w
}

func (g *gateway) login(t *testing.T, email string) string {
	t.Helper()
	w := g.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		JWT string `json:"jwt"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.JWT == "" {
		t.Fatalf("login %s: no jwt in %s", email, w.Body.String())
	}
	return resp.JWT
}

func TestConsultationLifecycle(t *testing.T) {
	up := newUpstream()
	server := httptest.NewServer(up.handler())
	defer server.Close()
	backend := &e2eBackend{}

	// The gateway serves one signed-in user; requester and provider each
	// run their own instance against the shared upstream.
	student := newGateway(t, server.URL, backend)
	professor := newGateway(t, server.URL, backend)

	studentToken := student.login(t, "sam@example.edu")
	professorToken := professor.login(t, "prof@example.edu")

	// Unauthenticated requests never get through.
	if w := student.do(t, http.MethodGet, "/api/bookings", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", w.Code)
	}
	if w := student.do(t, http.MethodGet, "/api/bookings", "wrong-token", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status %d, want 401", w.Code)
	}

	// Student books a consultation; it starts Pending.
	w := student.do(t, http.MethodPost, "/api/bookings", studentToken, map[string]string{
		"providerId":  "prov-1",
		"scheduledAt": "2026-09-10T10:00:00Z",
		"topic":       "thesis outline",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("schedule: status %d body %s", w.Code, w.Body.String())
	}
	var created models.Booking
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.Status != models.StatusPending {
		t.Fatalf("created status = %s, want Pending", created.Status)
	}

	// The student cannot confirm their own booking.
	w = student.do(t, http.MethodPatch, "/api/bookings/"+created.ID+"/status", studentToken, map[string]string{
		"status": "Confirmed", "lastKnownStatus": "Pending",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("requester confirm: status %d, want 409", w.Code)
	}

	// The professor confirms.
	w = professor.do(t, http.MethodPatch, "/api/bookings/"+created.ID+"/status", professorToken, map[string]string{
		"status": "Confirmed", "lastKnownStatus": "Pending",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: status %d body %s", w.Code, w.Body.String())
	}
	var confirmed models.Booking
	json.Unmarshal(w.Body.Bytes(), &confirmed)
	if confirmed.Status != models.StatusConfirmed {
		t.Fatalf("confirmed status = %s", confirmed.Status)
	}

	// A second confirm from a now-stale screen is rejected with the actual
	// status so the client can refetch.
	w = professor.do(t, http.MethodPatch, "/api/bookings/"+created.ID+"/status", professorToken, map[string]string{
		"status": "Cancelled", "lastKnownStatus": "Pending",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("stale cancel: status %d, want 409", w.Code)
	}
	var staleResp struct {
		ActualStatus models.BookingStatus `json:"actualStatus"`
	}
	json.Unmarshal(w.Body.Bytes(), &staleResp)
	if staleResp.ActualStatus != models.StatusConfirmed {
		t.Errorf("actualStatus = %s, want Confirmed", staleResp.ActualStatus)
	}

	// The professor joins the live session; capture starts automatically.
	w = professor.do(t, http.MethodPost, "/api/sessions/"+created.ID+"/join", professorToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("join: status %d body %s", w.Code, w.Body.String())
	}
	var joinResp struct {
		State   session.State        `json:"state"`
		Capture session.CaptureState `json:"capture"`
	}
	json.Unmarshal(w.Body.Bytes(), &joinResp)
	if joinResp.State != session.StateActive {
		t.Errorf("join state = %s, want active", joinResp.State)
	}
	if !joinResp.Capture.RecordingActive || !joinResp.Capture.TranscriptionActive {
		t.Errorf("capture = %+v, want both active", joinResp.Capture)
	}

	// A duplicate join returns the live session without touching the backend
	// again.
	w = professor.do(t, http.MethodPost, "/api/sessions/"+created.ID+"/join", professorToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("re-join: status %d", w.Code)
	}
	call := backend.calls[created.ID]
	if call.joins != 1 {
		t.Errorf("backend joins = %d, want 1", call.joins)
	}
	if call.starts != 1 {
		t.Errorf("backend StartRecording calls = %d, want 1", call.starts)
	}

	// Hang up.
	w = professor.do(t, http.MethodPost, "/api/sessions/"+created.ID+"/leave", professorToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("leave: status %d", w.Code)
	}
	if call.leaves != 1 {
		t.Errorf("backend leaves = %d, want 1", call.leaves)
	}
	w = professor.do(t, http.MethodGet, "/api/sessions/"+created.ID, professorToken, nil)
	var stateResp struct {
		State session.State `json:"state"`
	}
	json.Unmarshal(w.Body.Bytes(), &stateResp)
	if stateResp.State != session.StateIdle {
		t.Errorf("post-leave state = %s, want idle", stateResp.State)
	}

	// Artifact review is provider-only.
	if w := student.do(t, http.MethodGet, "/api/artifacts", studentToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("student artifacts: status %d, want 403", w.Code)
	}
	w = professor.do(t, http.MethodGet, "/api/artifacts", professorToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("artifacts: status %d body %s", w.Code, w.Body.String())
	}
	var sets []models.ArtifactSet
	json.Unmarshal(w.Body.Bytes(), &sets)
	if len(sets) != 1 || sets[0].BookingID != created.ID {
		t.Fatalf("artifact sets = %+v", sets)
	}
	if len(sets[0].Recordings) != 1 || sets[0].Recordings[0].Filename != "session.mp4" {
		t.Errorf("recordings = %+v", sets[0].Recordings)
	}
	if len(sets[0].Transcripts) != 1 {
		t.Errorf("transcripts = %+v", sets[0].Transcripts)
	}
}

func TestTranscriptEndpoint(t *testing.T) {
	up := newUpstream()
	up.bookings["bk-7"] = models.Booking{
		ID:             "bk-7",
		RequesterID:    "req-1",
		ProviderID:     "prov-1",
		Status:         models.StatusCompleted,
		RequesterLabel: "Sam",
		ProviderLabel:  "Prof. Lin",
	}
	server := httptest.NewServer(up.handler())
	defer server.Close()

	transcript := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"speaker_id":"prov-1","type":"speech","text":"Welcome.","start_ts":0,"stop_ts":900}
{"speaker_id":"req-1","type":"speech","text":"Hi!","start_ts":1000,"stop_ts":1400}`))
	}))
	defer transcript.Close()

	professor := newGateway(t, server.URL, &e2eBackend{})
	token := professor.login(t, "prof@example.edu")

	w := professor.do(t, http.MethodGet, "/api/artifacts/bk-7/transcript?url="+transcript.URL, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("transcript: status %d body %s", w.Code, w.Body.String())
	}
	var entries []models.LabeledTranscriptEntry
	json.Unmarshal(w.Body.Bytes(), &entries)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Speaker != "Prof. Lin" || entries[1].Speaker != "Sam" {
		t.Errorf("speakers = %q/%q", entries[0].Speaker, entries[1].Speaker)
	}

	// One malformed line fails the whole transcript.
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{\"speaker_id\":\"prov-1\"}\nnot json\n"))
	}))
	defer broken.Close()

	w = professor.do(t, http.MethodGet, "/api/artifacts/bk-7/transcript?url="+broken.URL, token, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("broken transcript: status %d, want 422", w.Code)
	}
}
