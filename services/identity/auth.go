package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"consultly/models"
	"consultly/utils"

	"go.uber.org/zap"
)

// DefaultIdentityService implements IdentityService against the upstream
// auth endpoints, with the auth state persisted through a CredentialStore.
type DefaultIdentityService struct {
	BaseURL string
	Client  *http.Client
	Store   CredentialStore
	Binder  SessionBinder

	mu    sync.Mutex
	state models.AuthState
}

func NewDefaultIdentityService(baseURL string, store CredentialStore, binder SessionBinder) *DefaultIdentityService {
	return &DefaultIdentityService{
		BaseURL: baseURL,
		Client:  http.DefaultClient,
		Store:   store,
		Binder:  binder,
	}
}

// authPayload is the upstream response shape for both login and register.
type authPayload struct {
	Token string `json:"token"`
	JWT   string `json:"jwt"`
	User  struct {
		ID    string      `json:"id"`
		Role  models.Role `json:"role"`
		Email string      `json:"email"`
		Name  string      `json:"name"`
	} `json:"user"`
}

func (m *DefaultIdentityService) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	payload, err := m.postAuth(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return m.adopt(ctx, payload)
}

func (m *DefaultIdentityService) Register(ctx context.Context, externalID, email, password string) (*models.Identity, error) {
	payload, err := m.postAuth(ctx, "/auth/register", map[string]string{
		"externalId": externalID,
		"email":      email,
		"password":   password,
	})
	if err != nil {
		return nil, err
	}
	return m.adopt(ctx, payload)
}

// SignOut always succeeds: the persisted credential is removed, the
// real-time connection is torn down and the in-memory state is zeroed.
func (m *DefaultIdentityService) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signOutLocked(ctx)
}

func (m *DefaultIdentityService) signOutLocked(ctx context.Context) error {
	if err := m.Store.Clear(ctx); err != nil {
		utils.GetLogger().Warn("identity: failed to clear persisted credential", zap.Error(err))
	}
	if m.Binder != nil {
		if err := m.Binder.Disconnect(); err != nil {
			utils.GetLogger().Warn("identity: realtime disconnect failed", zap.Error(err))
		}
	}
	m.state = models.AuthState{}
	return nil
}

// Restore loads the persisted auth state at startup. A corrupt record (an
// authenticated state missing its credential or id) forces a sign-out
// instead of being adopted.
func (m *DefaultIdentityService) Restore(ctx context.Context) error {
	state, err := m.Store.Load(ctx)
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}
	return m.observe(ctx, *state)
}

// observe installs a state after running the consistency guard over it.
// This is the self-healing path: an inconsistent authenticated state is
// corrected by a synchronous sign-out, not surfaced as an error.
func (m *DefaultIdentityService) observe(ctx context.Context, state models.AuthState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !state.Consistent() {
		utils.GetLogger().Warn("identity: inconsistent auth state detected, forcing sign-out",
			zap.String("id", state.Identity.ID))
		return m.signOutLocked(ctx)
	}
	if state.Authenticated && utils.TokenExpired(state.Credential.APIToken) {
		utils.GetLogger().Info("identity: stored credential expired, signing out",
			zap.String("id", state.Identity.ID))
		return m.signOutLocked(ctx)
	}

	m.state = state
	if state.Authenticated && m.Binder != nil {
		// Reconnecting as a different identity must drop the previous
		// connection first; Connect handles that ordering.
		if err := m.Binder.Connect(ctx, state.Identity, state.Credential.RealtimeToken); err != nil {
			// Session joins will surface this later; sign-in itself succeeds.
			utils.GetLogger().Warn("identity: realtime connect failed", zap.Error(err))
		}
	}
	return nil
}

func (m *DefaultIdentityService) adopt(ctx context.Context, payload *authPayload) (*models.Identity, error) {
	state := models.AuthState{
		Authenticated: true,
		Credential: models.Credential{
			APIToken:      payload.JWT,
			RealtimeToken: payload.Token,
		},
		Identity: models.Identity{
			ID:          payload.User.ID,
			Role:        payload.User.Role,
			Email:       payload.User.Email,
			DisplayName: payload.User.Name,
		},
	}

	if err := m.observe(ctx, state); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Authenticated {
		// The guard rejected the upstream payload (missing id or token).
		return nil, AuthError{Message: "upstream returned an incomplete identity"}
	}
	if err := m.Store.Save(ctx, m.state); err != nil {
		return nil, err
	}
	id := m.state.Identity
	return &id, nil
}

func (m *DefaultIdentityService) postAuth(ctx context.Context, path string, body map[string]string) (*authPayload, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, AuthError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Msg     string `json:"msg"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &msg)
		if msg.Msg == "" {
			msg.Msg = msg.Message
		}
		if msg.Msg == "" {
			msg.Msg = http.StatusText(resp.StatusCode)
		}
		return nil, AuthError{StatusCode: resp.StatusCode, Message: msg.Msg}
	}

	var payload authPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, AuthError{Message: "malformed auth response: " + err.Error()}
	}
	return &payload, nil
}

func (m *DefaultIdentityService) Current() (models.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Authenticated {
		return models.Identity{}, false
	}
	return m.state.Identity, true
}

func (m *DefaultIdentityService) Credential() (models.Credential, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Authenticated {
		return models.Credential{}, false
	}
	return m.state.Credential, true
}

// APIToken satisfies the booking store's TokenSource.
func (m *DefaultIdentityService) APIToken() (string, error) {
	cred, ok := m.Credential()
	if !ok {
		return "", ErrUnauthenticated
	}
	return cred.APIToken, nil
}

func (m *DefaultIdentityService) SetDeviceToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Authenticated {
		return ErrUnauthenticated
	}
	m.state.DeviceToken = token
	return m.Store.Save(ctx, m.state)
}

func (m *DefaultIdentityService) DeviceToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.DeviceToken
}
