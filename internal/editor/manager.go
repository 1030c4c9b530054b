package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Workspace is one user's editing context: their open session (if any)
// and application state. The workspace mutex serializes session
// lifecycle operations for the user, so two concurrent opens cannot
// each construct a session and strand the other's buffered edits.
type Workspace struct {
	mu      sync.Mutex
	session *Session
	state   *AppState
}

// Manager owns the editing workspaces, one per user. It enforces the
// switch protocol: binding a different note while one is already open
// flushes the outgoing session before the new load, and closing a
// workspace flushes as the one required teardown action.
type Manager struct {
	store  NoteStore
	clock  Clock
	delay  time.Duration
	notify Notifier
	logger *slog.Logger

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewManager creates a session manager.
func NewManager(store NoteStore, clock Clock, delay time.Duration, notify Notifier, logger *slog.Logger) *Manager {
	return &Manager{
		store:      store,
		clock:      clock,
		delay:      delay,
		notify:     notify,
		logger:     logger,
		workspaces: make(map[string]*Workspace),
	}
}

// Open binds the given note for the user, creating the workspace on
// first use. An already-open different note is switched (flush first);
// the same note is a no-op re-bind. The workspace stays locked across
// the load so concurrent opens for one user run one at a time.
func (m *Manager) Open(ctx context.Context, userID, noteID string) (*Session, error) {
	ws := m.workspace(userID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	var err error
	if ws.session == nil || ws.session.State() == StateUnmounted {
		ws.session = NewSession(userID, SessionConfig{
			Store:    m.store,
			Clock:    m.clock,
			Delay:    m.delay,
			Notifier: m.notify,
			Logger:   m.logger,
		})
		err = ws.session.Open(ctx, noteID)
	} else {
		err = ws.session.Switch(ctx, noteID)
	}
	if err != nil {
		return ws.session, err
	}

	id := noteID
	ws.state.SetSelectedNote(&id)
	return ws.session, nil
}

// Get returns the user's current session, or nil if none is open.
func (m *Manager) Get(userID string) *Session {
	m.mu.Lock()
	ws, ok := m.workspaces[userID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.session
}

// AppState returns the user's workspace state, creating it on first use.
func (m *Manager) AppState(userID string) *AppState {
	return m.workspace(userID).state
}

// Close tears down the user's session, flushing any buffered patch. The
// flush runs under the workspace lock so a concurrent Open observes
// either the live session or a fully torn-down workspace, never a
// half-closed one.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	ws, ok := m.workspaces[userID]
	m.mu.Unlock()
	if !ok {
		return
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.session == nil {
		return
	}
	ws.session.Close()
	ws.session = nil
	ws.state.SetSelectedNote(nil)
}

// Shutdown flushes every open session. Called during server shutdown so
// no last keystroke is lost.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	workspaces := make([]*Workspace, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		workspaces = append(workspaces, ws)
	}
	m.mu.Unlock()

	for _, ws := range workspaces {
		ws.mu.Lock()
		if ws.session != nil {
			ws.session.Close()
		}
		ws.mu.Unlock()
	}
}

func (m *Manager) workspace(userID string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.workspaces[userID]
	if !ok {
		ws = &Workspace{state: NewAppState()}
		m.workspaces[userID] = ws
	}
	return ws
}
