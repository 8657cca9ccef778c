package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/honganh1206/guideme/server/data"
)

func (s *server) chatHandler(w http.ResponseWriter, r *http.Request) {
	// An unreadable body is treated as an empty message.
	body := map[string]any{}
	if err := readJSON(r, &body); err != nil || body == nil {
		body = map[string]any{}
	}

	chatContext, err := s.sessionContext(body)
	if err != nil {
		s.handleError(w, err)
		return
	}

	message := messageText(chatContext["message"])

	reply, err := s.model.Reply(r.Context(), message, chatContext)
	if err != nil {
		s.handleError(w, &HTTPError{
			Code:    http.StatusBadGateway,
			Message: fmt.Sprintf("%s model failed to reply", s.model.Name()),
			Err:     err,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// sessionContext resolves an optional session token in body. The token never
// reaches the model; a user session contributes the username instead.
func (s *server) sessionContext(body map[string]any) (map[string]any, error) {
	chatContext := make(map[string]any, len(body))
	for k, v := range body {
		if k != "token" {
			chatContext[k] = v
		}
	}

	token, _ := body["token"].(string)
	if token == "" {
		return chatContext, nil
	}

	sess, err := s.models.Sessions.Get(token)
	if err != nil {
		if errors.Is(err, data.ErrSessionNotFound) {
			return nil, &HTTPError{Code: http.StatusUnauthorized, Message: "Invalid or expired session", Err: err}
		}
		return nil, err
	}

	if sess.UserID != "" {
		user, err := s.models.Users.GetByID(sess.UserID)
		if err != nil {
			if errors.Is(err, data.ErrUserNotFound) {
				return nil, &HTTPError{Code: http.StatusUnauthorized, Message: "Invalid or expired session", Err: err}
			}
			return nil, err
		}
		chatContext["username"] = user.Username
	}

	return chatContext, nil
}

func messageText(v any) string {
	switch m := v.(type) {
	case nil:
		return ""
	case string:
		return m
	default:
		return fmt.Sprint(m)
	}
}
