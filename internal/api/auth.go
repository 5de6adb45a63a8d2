package api

import (
	"context"
	"errors"
	"time"

	"pagebuilder/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and installs a fresh session built from the cookies
// the backend set. The previous tenant is kept.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	tenant := c.Tenant()
	c.SetSession(&domain.Session{Tenant: tenant, Cookies: map[string]string{}, CreatedAt: time.Now()})

	resp, err := c.Post(ctx, "/v1/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		c.SetSession(nil)
		return nil, err
	}
	user, err := decodeData[domain.User](resp)
	if err != nil {
		c.SetSession(nil)
		return nil, err
	}

	c.mu.Lock()
	c.session.UserID = user.ID
	c.session.Email = user.Email
	if c.session.Email == "" {
		c.session.Email = email
	}
	c.mu.Unlock()

	s := c.Session()
	if !s.LoggedIn() {
		c.SetSession(nil)
		return nil, errors.New("login succeeded but no session cookie was set")
	}
	return s, nil
}

// Logout tells the backend to drop the session and clears it locally even
// if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Get(ctx, "/v1/auth/logout")
	c.SetSession(nil)
	return err
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	resp, err := c.Get(ctx, "/v1/auth/me")
	if err != nil {
		return domain.User{}, err
	}
	return decodeData[domain.User](resp)
}
