package api

import (
	"context"
	"net/http"
)

func (c *Client) CreateGuestSession(ctx context.Context) (any, error) {
	return c.Request(ctx, endpointAuthGuest, "", nil)
}

// Signup forwards data as-is; the server owns validation.
func (c *Client) Signup(ctx context.Context, data any) (any, error) {
	return c.Request(ctx, endpointAuthSignup, http.MethodPost, data)
}

func (c *Client) Login(ctx context.Context, data any) (any, error) {
	return c.Request(ctx, endpointAuthLogin, http.MethodPost, data)
}

// Logout revokes the session identified by token.
func (c *Client) Logout(ctx context.Context, token string) (any, error) {
	return c.Request(ctx, endpointAuthLogout, http.MethodPost, map[string]any{"token": token})
}
