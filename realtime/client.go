package realtime

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"consultly/models"
	"consultly/services/session"
	"consultly/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to complete the websocket handshake.
	handshakeTimeout = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// ErrNotConnected is returned when a call is attempted without a signaling
// connection.
var ErrNotConnected = errors.New("realtime: not connected")

// Client is the shared real-time backend client. One identity is connected
// at a time; connecting as a different identity drops the previous
// connection first. It satisfies both session.Backend and the identity
// service's SessionBinder.
type Client struct {
	wsURL  string
	apiKey string
	logger *zap.Logger

	// writeMu serializes frames; gorilla permits one concurrent writer.
	writeMu sync.Mutex

	mu       sync.Mutex
	conn     *websocket.Conn
	identity *models.Identity
	closed   chan struct{}
	pending  map[string]chan envelope
	states   map[string]session.SignalingState
	subs     map[string]map[int]func(session.SignalingState)
	nextSub  int
}

func NewClient(wsURL, apiKey string) *Client {
	return &Client{
		wsURL:   wsURL,
		apiKey:  apiKey,
		logger:  utils.GetLogger(),
		pending: make(map[string]chan envelope),
		states:  make(map[string]session.SignalingState),
		subs:    make(map[string]map[int]func(session.SignalingState)),
	}
}

// Connect dials the signaling endpoint and authenticates as the given
// identity. Connecting again with the same identity is a no-op.
func (c *Client) Connect(ctx context.Context, id models.Identity, realtimeToken string) error {
	c.mu.Lock()
	if c.conn != nil && c.identity != nil && c.identity.ID == id.ID {
		c.mu.Unlock()
		return nil
	}
	if c.conn != nil {
		c.disconnectLocked()
	}
	c.mu.Unlock()

	dialer := &websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	header := http.Header{}
	if c.apiKey != "" {
		header.Set("X-API-Key", c.apiKey)
	}
	conn, _, err := dialer.DialContext(ctx, c.wsURL, header)
	if err != nil {
		return err
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	auth := envelope{Type: messageTypeAuth}
	auth.Payload = mustMarshal(authPayload{
		Token:  realtimeToken,
		UserID: id.ID,
		Name:   id.Email,
	})
	c.writeMu.Lock()
	err = conn.WriteJSON(auth)
	c.writeMu.Unlock()
	if err != nil {
		conn.Close()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	identity := id
	c.identity = &identity
	c.closed = make(chan struct{})
	c.pending = make(map[string]chan envelope)
	c.states = make(map[string]session.SignalingState)
	closed := c.closed
	c.mu.Unlock()

	go c.readLoop(conn, closed)
	go c.pingLoop(conn, closed)

	c.logger.Info("realtime: connected", zap.String("userId", id.ID))
	return nil
}

// Disconnect drops the signaling connection. Safe to call when already
// disconnected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectLocked()
	return nil
}

// Connected reports whether a signaling connection is up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *Client) disconnectLocked() {
	if c.conn == nil {
		return
	}
	c.writeMu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	c.conn.Close()
	c.conn = nil
	c.identity = nil
	if c.closed != nil {
		select {
		case <-c.closed:
		default:
			close(c.closed)
		}
	}
	// Pending requests will observe the closed channel and fail.
	c.pending = make(map[string]chan envelope)
}

// Call returns a handle for the session resource named id in namespace.
func (c *Client) Call(namespace, id string) (session.Call, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	return &call{client: c, key: namespace + ":" + id}, nil
}

func (c *Client) request(ctx context.Context, env envelope) (envelope, error) {
	c.mu.Lock()
	conn := c.conn
	closed := c.closed
	if conn == nil {
		c.mu.Unlock()
		return envelope{}, ErrNotConnected
	}
	env.MessageID = uuid.New().String()
	ch := make(chan envelope, 1)
	c.pending[env.MessageID] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	err := conn.WriteJSON(env)
	c.writeMu.Unlock()
	if err != nil {
		c.dropPending(env.MessageID)
		return envelope{}, err
	}

	select {
	case reply := <-ch:
		if reply.Error != "" {
			return envelope{}, errors.New(reply.Error)
		}
		return reply, nil
	case <-ctx.Done():
		c.dropPending(env.MessageID)
		return envelope{}, ctx.Err()
	case <-closed:
		return envelope{}, ErrNotConnected
	}
}

func (c *Client) dropPending(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) readLoop(conn *websocket.Conn, closed chan struct{}) {
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.logger.Warn("realtime: connection lost", zap.Error(err))
				c.disconnectLocked()
			}
			c.mu.Unlock()
			return
		}

		switch env.Type {
		case messageTypeReply:
			c.mu.Lock()
			ch := c.pending[env.ReplyTo]
			delete(c.pending, env.ReplyTo)
			c.mu.Unlock()
			if ch != nil {
				ch <- env
			}
		case messageTypeEvent:
			c.dispatchEvent(env)
		}
	}
}

func (c *Client) dispatchEvent(env envelope) {
	state := signalingFromWire(env.State)

	c.mu.Lock()
	c.states[env.Call] = state
	var fns []func(session.SignalingState)
	for _, fn := range c.subs[env.Call] {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	// Callbacks run off the read loop: a subscriber may issue commands on
	// this same connection, and their replies can only be delivered by the
	// read loop. Observers tolerate concurrent and repeated delivery.
	for _, fn := range fns {
		go fn(state)
	}
}

func (c *Client) pingLoop(conn *websocket.Conn, closed chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (c *Client) callState(key string) session.SignalingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state, ok := c.states[key]; ok {
		return state
	}
	return session.SignalingIdle
}

func (c *Client) setCallState(key string, state session.SignalingState) {
	c.mu.Lock()
	c.states[key] = state
	c.mu.Unlock()
}

func (c *Client) subscribe(key string, fn func(session.SignalingState)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSub++
	id := c.nextSub
	if c.subs[key] == nil {
		c.subs[key] = make(map[int]func(session.SignalingState))
	}
	c.subs[key][id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if m := c.subs[key]; m != nil {
			delete(m, id)
		}
	}
}
