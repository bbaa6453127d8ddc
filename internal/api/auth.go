package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Login exchanges credentials for a bearer token. On success the client
// starts sending the returned token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return AuthResponse{}, errors.New("email and password are required")
	}
	var out AuthResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/api/auth/login", nil, req, &out); err != nil {
		return AuthResponse{}, err
	}
	if out.Token != "" {
		c.SetToken(out.Token)
	}
	return out, nil
}
