// Package session tracks the transient authentication/authorization state of
// the current caller and derives which surface to render from it.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/sakshiyadav/vidya/core"
	"github.com/sakshiyadav/vidya/core/auth"
)

// ViewMode names the two mutually exclusive surfaces.
type ViewMode string

const (
	ViewAdmin  ViewMode = "admin"
	ViewViewer ViewMode = "viewer"
)

// Session is the caller's authentication state. CurrentUser exists only while
// the session is authenticated and is destroyed on logout.
type Session struct {
	IsAuthenticated bool           `json:"is_authenticated"`
	IsAdmin         bool           `json:"is_admin"`
	Username        string         `json:"username,omitempty"`
	CurrentUser     *auth.Identity `json:"current_user,omitempty"`
}

// Anonymous is the initial, unauthenticated session value.
func Anonymous() Session {
	return Session{}
}

// FromIdentity builds an authenticated session for a verified principal.
func FromIdentity(ident auth.Identity) Session {
	return Session{
		IsAuthenticated: true,
		IsAdmin:         ident.IsAdmin(),
		Username:        ident.Username,
		CurrentUser:     &ident,
	}
}

// ResolveView decides which surface to render. Admin is returned only when it
// was requested by a session that is both authenticated and privileged; any
// other combination silently degrades to the read-only view. Fail closed: a
// stale or forged admin request never errors, it just gets the safe view.
func ResolveView(requested ViewMode, s Session) ViewMode {
	if requested == ViewAdmin && s.IsAuthenticated && s.IsAdmin {
		return ViewAdmin
	}
	return ViewViewer
}

// Manager owns the application's session state. It starts anonymous, is
// mutated only via Login/Logout/Restore and is handed to consumers by
// reference; there is no ambient singleton.
type Manager struct {
	mu       sync.RWMutex
	verifier auth.Verifier
	logger   core.Logger

	current Session
	mode    ViewMode
}

func NewManager(verifier auth.Verifier, logger core.Logger) *Manager {
	return &Manager{
		verifier: verifier,
		logger:   logger,
		current:  Anonymous(),
		mode:     ViewViewer,
	}
}

func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) Mode() ViewMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

func (m *Manager) SetMode(mode ViewMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mode == ViewAdmin {
		m.mode = ViewAdmin
	} else {
		m.mode = ViewViewer
	}
}

// View resolves the surface to render for the current session and the
// requested mode.
func (m *Manager) View() ViewMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ResolveView(m.mode, m.current)
}

// Login delegates to the configured verifier. A credential rejection returns
// (false, nil) and leaves the session untouched; only genuine infrastructure
// failures surface as an error. On success the active view implicitly
// switches to admin.
func (m *Manager) Login(ctx context.Context, identifier, secret string) (bool, error) {
	ident, err := m.verifier.Verify(ctx, identifier, secret)
	if err != nil {
		if errors.Cause(err) == auth.ErrCredentialRejected {
			return false, nil
		}
		return false, err
	}

	m.mu.Lock()
	m.current = FromIdentity(ident)
	m.mode = ViewAdmin
	m.mu.Unlock()
	return true, nil
}

// Logout always succeeds locally: the session reverts to its initial value
// and the view resets to read-only. A remote sign-out failure is logged,
// never surfaced.
func (m *Manager) Logout(ctx context.Context) {
	if so, ok := m.verifier.(interface{ SignOut(context.Context) error }); ok {
		if err := so.SignOut(ctx); err != nil {
			m.logger.Warn("remote sign-out failed", err)
		}
	}

	m.mu.Lock()
	m.current = Anonymous()
	m.mode = ViewViewer
	m.mu.Unlock()
}

// Restore attempts to rehydrate the session at startup from an existing
// remote session (resolve parses the stored token and performs the profile
// role lookup). An absent session or a failed lookup leaves the session
// anonymous; it never blocks the first render on an error.
func (m *Manager) Restore(ctx context.Context, resolve func(context.Context) (auth.Identity, error)) {
	ident, err := resolve(ctx)
	if err != nil {
		if errors.Cause(err) != auth.ErrCredentialRejected {
			m.logger.Warn("session restore failed", err)
		}
		return
	}

	m.mu.Lock()
	m.current = FromIdentity(ident)
	m.mu.Unlock()
}
