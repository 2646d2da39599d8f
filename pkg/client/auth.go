package client

import (
	"context"
	"net/http"
)

type authResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	req := map[string]string{"name": name, "email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/register", req)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	req := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/login", req)
}

func (c *Client) authenticate(ctx context.Context, path string, req interface{}) (*Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, path, nil, req, &resp, false); err != nil {
		return nil, err
	}
	session := &Session{Token: resp.Token, User: resp.User}
	if err := c.setSession(session); err != nil {
		return nil, err
	}
	return c.Session(), nil
}

// Logout drops the session locally and from the store. Tokens are stateless,
// so the server is not contacted.
func (c *Client) Logout() error {
	return c.setSession(nil)
}

// Me fetches the profile of the session's user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// Restore loads a stored session and re-validates its token against the
// server. A rejected token clears the store and returns the 401 APIError.
func (c *Client) Restore(ctx context.Context) (*Session, error) {
	stored, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.Token == "" {
		return nil, ErrNoSession
	}

	c.mu.Lock()
	c.session = stored
	c.mu.Unlock()

	u, err := c.Me(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			if clearErr := c.setSession(nil); clearErr != nil {
				return nil, clearErr
			}
		}
		return nil, err
	}

	if err := c.setSession(&Session{Token: stored.Token, User: *u}); err != nil {
		return nil, err
	}
	return c.Session(), nil
}
