package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"github.com/kks007-dev/syllabuser/pkg/model"
	"github.com/kks007-dev/syllabuser/pkg/store"
)

const (
	// Fixed store keys. Credential storage is a single slot: a new
	// authorization always replaces whatever was there.
	credentialKey = "google_tokens"
	pendingKey    = "pending_sync"

	oauthState = "state-token"
)

var (
	ErrAuthMissing = errors.New("not connected to Google Calendar, please authenticate")
	ErrAuthExpired = errors.New("Google Calendar authorization expired, please re-authenticate")
	ErrAuthDenied  = errors.New("Google Calendar authorization was denied")
)

// Manager owns the delegated-access credential lifecycle: acquisition via
// the redirect flow, durable single-slot storage, lazy expiry eviction, and
// the pending-work snapshot that survives the redirect round trip.
type Manager struct {
	cfg   *oauth2.Config
	store *store.Store
	now   func() time.Time
}

func NewManager(clientID, clientSecret, redirectURL string, st *store.Store) *Manager {
	return &Manager{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				calendar.CalendarScope,
				calendar.CalendarEventsScope,
			},
			Endpoint: google.Endpoint,
		},
		store: st,
		now:   time.Now,
	}
}

// SetClock overrides the expiry clock. Used by tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// OAuthConfig exposes the oauth2 configuration so the synchronizer can
// build a self-refreshing HTTP client from a stored credential.
func (m *Manager) OAuthConfig() *oauth2.Config {
	return m.cfg
}

// Begin starts the authorization redirect. If a review session is active
// its snapshot is persisted first, so the external round trip cannot lose
// in-progress work. The returned URL always requests offline access and
// forces the consent prompt so a refresh token is issued on repeat
// authorizations too.
func (m *Manager) Begin(pending *model.PendingSync) (string, error) {
	if pending != nil {
		if err := m.store.Put(pendingKey, pending); err != nil {
			return "", fmt.Errorf("failed to snapshot pending sync state: %w", err)
		}
	}
	return m.cfg.AuthCodeURL(oauthState,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// Complete consumes the provider's return request. An error indicator
// leaves no credential behind; a code is exchanged and the resulting
// credential replaces any prior one.
func (m *Manager) Complete(ctx context.Context, params url.Values) (*Credential, error) {
	if errCode := params.Get("error"); errCode != "" {
		return nil, fmt.Errorf("%w: %s", ErrAuthDenied, errCode)
	}
	code := params.Get("code")
	if code == "" {
		return nil, fmt.Errorf("%w: no authorization code in return request", ErrAuthDenied)
	}

	tok, err := m.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange authorization code: %w", err)
	}

	cred := credentialFromToken(tok)
	if err := m.store.Put(credentialKey, cred); err != nil {
		return nil, fmt.Errorf("failed to persist credential: %w", err)
	}
	return cred, nil
}

// Credential returns the stored credential, lazily checking expiry. An
// expired credential is evicted and reported; there is no silent refresh
// here.
func (m *Manager) Credential() (*Credential, error) {
	var cred Credential
	ok, err := m.store.Get(credentialKey, &cred)
	if err != nil {
		return nil, err
	}
	if !ok || cred.AccessToken == "" {
		return nil, ErrAuthMissing
	}
	if cred.expired(m.now()) {
		m.store.Delete(credentialKey)
		return nil, ErrAuthExpired
	}
	return &cred, nil
}

// ConsumePending restores the pending-sync snapshot and deletes it. It
// reports false when no snapshot exists.
func (m *Manager) ConsumePending() (*model.PendingSync, bool, error) {
	var pending model.PendingSync
	ok, err := m.store.Get(pendingKey, &pending)
	if err != nil || !ok {
		return nil, false, err
	}
	if err := m.store.Delete(pendingKey); err != nil {
		return nil, false, err
	}
	return &pending, true, nil
}

// ClearPending drops the snapshot without restoring it (explicit reset).
func (m *Manager) ClearPending() error {
	return m.store.Delete(pendingKey)
}

// Logout evicts the stored credential.
func (m *Manager) Logout() error {
	return m.store.Delete(credentialKey)
}
