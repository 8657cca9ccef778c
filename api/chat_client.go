package api

import (
	"context"
	"net/http"
)

const (
	endpointChat       = "/chat/"
	endpointAuthGuest  = "/auth/guest"
	endpointAuthSignup = "/auth/signup"
	endpointAuthLogin  = "/auth/login"
	endpointAuthLogout = "/auth/logout"
)

// SendChatMessage posts message to the chat endpoint. Keys in chatContext are
// sent alongside it and override "message" if they define it.
func (c *Client) SendChatMessage(ctx context.Context, message string, chatContext map[string]any) (any, error) {
	body := make(map[string]any, len(chatContext)+1)
	body["message"] = message
	for k, v := range chatContext {
		body[k] = v
	}

	return c.Request(ctx, endpointChat, http.MethodPost, body)
}
