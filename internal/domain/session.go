package domain

import (
	"net/http"
	"time"
)

// Session is the explicit login state handed to the API client. It is
// created at login, may switch tenant, and is cleared at logout.
type Session struct {
	UserID    string            `json:"user_id"`
	Email     string            `json:"email"`
	Tenant    string            `json:"tenant"`
	Cookies   map[string]string `json:"cookies"`
	CreatedAt time.Time         `json:"created_at"`
}

// LoggedIn reports whether the session carries any credential.
func (s *Session) LoggedIn() bool {
	return s != nil && len(s.Cookies) > 0
}

// HTTPCookies returns the session cookies ready to hand to a cookie jar.
func (s *Session) HTTPCookies() []*http.Cookie {
	if s == nil {
		return nil
	}
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for name, value := range s.Cookies {
		out = append(out, &http.Cookie{Name: name, Value: value})
	}
	return out
}

// SessionStore persists the current session between invocations.
type SessionStore interface {
	SaveSession(s *Session) error
	LoadSession() (*Session, error)
	ClearSession() error
}

// Draft is a local snapshot of an editing session's composition.
type Draft struct {
	PageID     string      `json:"pageId"`
	Tenant     string      `json:"tenant"`
	Components Composition `json:"components"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// DraftStore keeps local drafts. Drafts never reach the backend on their own.
type DraftStore interface {
	ReplaceDraft(d *Draft) error
	GetDraft(tenant, pageID string) (*Draft, error)
	ListDrafts() ([]Draft, error)
	DeleteDraft(tenant, pageID string) error
	PruneDrafts(olderThan time.Time) (int64, error)
}
