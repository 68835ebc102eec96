package session

import (
	"context"
	"sync"

	"consultly/models"
	"consultly/utils"

	"go.uber.org/zap"
)

// State is the orchestrator's own lifecycle for one live session.
type State string

const (
	StateIdle    State = "idle"
	StateJoining State = "joining"
	StateActive  State = "active"
	StateLeaving State = "leaving"
	StateLeft    State = "left"
	StateFailed  State = "failed"
)

// CaptureState tracks the recording and transcription facilities of one
// session. Both become true at most once per session lifetime.
type CaptureState struct {
	RecordingActive     bool `json:"recordingActive"`
	TranscriptionActive bool `json:"transcriptionActive"`
}

// LiveSession is one ephemeral session, keyed by booking id and owned
// exclusively by the orchestrator that created it.
type LiveSession struct {
	BookingID string

	role   models.Role
	logger *zap.Logger

	// joinDone is closed once the join attempt has resolved either way so
	// that a teardown requested mid-join waits instead of orphaning the
	// call on the backend.
	joinDone chan struct{}

	mu               sync.Mutex
	call             Call
	state            State
	capture          CaptureState
	captureAttempted bool
	// captureDone is non-nil once a capture attempt has begun and is
	// closed when it resolves; teardown waits on it so start calls cannot
	// land on the backend after the session left.
	captureDone chan struct{}
	tornDown    bool
	unsubscribe func()
}

// State returns the current lifecycle state.
func (s *LiveSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Capture returns the current capture flags.
func (s *LiveSession) Capture() CaptureState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture
}

// Orchestrator drives the join/capture/teardown sequence for live sessions.
type Orchestrator struct {
	Backend Backend

	mu       sync.Mutex
	sessions map[string]*LiveSession
}

func NewOrchestrator(backend Backend) *Orchestrator {
	return &Orchestrator{
		Backend:  backend,
		sessions: make(map[string]*LiveSession),
	}
}

// Join enters the session for bookingID. If the caller already holds a live
// session for that booking the existing one is returned; session ownership
// is exclusive per booking.
func (o *Orchestrator) Join(ctx context.Context, bookingID string, caller models.Identity) (*LiveSession, error) {
	o.mu.Lock()
	if existing, ok := o.sessions[bookingID]; ok {
		o.mu.Unlock()
		return existing, nil
	}
	s := &LiveSession{
		BookingID: bookingID,
		role:      caller.Role,
		logger:    utils.GetLogger(),
		joinDone:  make(chan struct{}),
		state:     StateJoining,
	}
	o.sessions[bookingID] = s
	o.mu.Unlock()

	if err := s.join(ctx, o.Backend); err != nil {
		o.mu.Lock()
		delete(o.sessions, bookingID)
		o.mu.Unlock()
		return nil, err
	}
	return s, nil
}

// Get returns the live session for a booking, if this orchestrator owns one.
func (o *Orchestrator) Get(bookingID string) (*LiveSession, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[bookingID]
	return s, ok
}

// Leave tears down the session for a booking. Calling it for an unknown
// booking is a no-op.
func (o *Orchestrator) Leave(ctx context.Context, bookingID string) error {
	o.mu.Lock()
	s, ok := o.sessions[bookingID]
	if ok {
		delete(o.sessions, bookingID)
	}
	o.mu.Unlock()
	if !ok {
		return nil
	}
	s.Teardown(ctx)
	return nil
}

// LeaveAll tears down every live session. Called on shutdown and on identity
// changes so no session outlives its owning scope.
func (o *Orchestrator) LeaveAll(ctx context.Context) {
	o.mu.Lock()
	sessions := make([]*LiveSession, 0, len(o.sessions))
	for _, s := range o.sessions {
		sessions = append(sessions, s)
	}
	o.sessions = make(map[string]*LiveSession)
	o.mu.Unlock()

	for _, s := range sessions {
		s.Teardown(ctx)
	}
}

func (s *LiveSession) join(ctx context.Context, backend Backend) error {
	defer close(s.joinDone)

	fail := func(err error) error {
		s.mu.Lock()
		s.state = StateFailed
		s.mu.Unlock()
		return SessionJoinError{BookingID: s.BookingID, Err: err}
	}

	call, err := backend.Call(utils.SessionNamespace, s.BookingID)
	if err != nil {
		return fail(err)
	}
	if err := call.Join(ctx, JoinOptions{Create: true}); err != nil {
		return fail(err)
	}

	s.mu.Lock()
	s.call = call
	s.state = StateActive
	s.mu.Unlock()

	// Subscribe before reading the current state so a "joined" announced in
	// between is not lost; duplicates are absorbed by the capture guard.
	s.unsubscribe = call.Subscribe(func(st SignalingState) {
		if st == SignalingJoined {
			s.maybeStartCapture(context.Background())
		}
	})
	if call.State() == SignalingJoined {
		s.maybeStartCapture(ctx)
	}
	return nil
}

// maybeStartCapture requests recording and transcription exactly once per
// session, and only for providers. The backend may announce "joined" several
// times; the attempt flag is checked and set before any remote call so
// re-entrant events cannot double-start capture.
func (s *LiveSession) maybeStartCapture(ctx context.Context) {
	if !s.role.IsProvider() {
		return
	}

	s.mu.Lock()
	if s.captureAttempted || s.tornDown {
		s.mu.Unlock()
		return
	}
	s.captureAttempted = true
	s.captureDone = make(chan struct{})
	call := s.call
	s.mu.Unlock()
	defer close(s.captureDone)

	if err := call.StartRecording(ctx); err != nil {
		// Best-effort: the session continues without capture.
		s.logger.Warn("session: capture start failed",
			zap.String("bookingId", s.BookingID),
			zap.Error(CaptureError{Op: "startRecording", Err: err}))
	} else {
		s.mu.Lock()
		s.capture.RecordingActive = true
		s.mu.Unlock()
	}

	if err := call.StartTranscription(ctx); err != nil {
		s.logger.Warn("session: capture start failed",
			zap.String("bookingId", s.BookingID),
			zap.Error(CaptureError{Op: "startTranscription", Err: err}))
	} else {
		s.mu.Lock()
		s.capture.TranscriptionActive = true
		s.mu.Unlock()
	}
}

// Teardown releases the session exactly once, on whichever exit path comes
// first: explicit hang-up or the owning scope going away. A join still in
// flight is awaited first so the backend is never left holding an orphaned
// session.
func (s *LiveSession) Teardown(ctx context.Context) {
	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		return
	}
	s.tornDown = true
	s.mu.Unlock()

	<-s.joinDone

	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	// tornDown is already set, so no new capture attempt can begin; one
	// that is in flight must resolve before the stop/leave sequence reads
	// the capture flags.
	s.mu.Lock()
	captureDone := s.captureDone
	s.mu.Unlock()
	if captureDone != nil {
		<-captureDone
	}

	s.mu.Lock()
	call := s.call
	capture := s.capture
	if s.state == StateActive {
		s.state = StateLeaving
	}
	s.mu.Unlock()

	if call == nil {
		// Join failed; nothing to release.
		return
	}

	if s.role.IsProvider() {
		if capture.RecordingActive {
			if err := call.StopRecording(ctx); err != nil {
				s.logger.Warn("session: capture stop failed",
					zap.String("bookingId", s.BookingID),
					zap.Error(CaptureError{Op: "stopRecording", Err: err}))
			}
		}
		if capture.TranscriptionActive {
			if err := call.StopTranscription(ctx); err != nil {
				s.logger.Warn("session: capture stop failed",
					zap.String("bookingId", s.BookingID),
					zap.Error(CaptureError{Op: "stopTranscription", Err: err}))
			}
		}
	}

	// Guard against a double-leave error when the backend already saw us go.
	if call.State() != SignalingLeft {
		if err := call.Leave(ctx); err != nil {
			s.logger.Warn("session: leave failed",
				zap.String("bookingId", s.BookingID), zap.Error(err))
		}
	}

	s.mu.Lock()
	s.state = StateLeft
	s.mu.Unlock()
}
