package server

import (
	"net/http"
	"time"

	"github.com/honganh1206/guideme/server/data"
)

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User      *data.User `json:"user,omitempty"`
	Token     string     `json:"token"`
	Guest     bool       `json:"guest"`
	ExpiresAt time.Time  `json:"expires_at"`
}

func newAuthResponse(user *data.User, sess *data.Session) authResponse {
	return authResponse{
		User:      user,
		Token:     sess.Token,
		Guest:     sess.Guest,
		ExpiresAt: sess.ExpiresAt,
	}
}

func (s *server) guestHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.models.Sessions.CreateGuest()
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAuthResponse(nil, sess))
}

func (s *server) signupHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := readJSON(r, &creds); err != nil {
		s.handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: "Invalid signup format", Err: err})
		return
	}

	user, err := data.NewUser(creds.Username, creds.Email, creds.Password)
	if err != nil {
		s.handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}

	if err := s.models.Users.Insert(user); err != nil {
		s.handleError(w, err)
		return
	}

	sess, err := s.models.Sessions.CreateForUser(user.ID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user signed up")
	writeJSON(w, http.StatusCreated, newAuthResponse(user, sess))
}

func (s *server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := readJSON(r, &creds); err != nil {
		s.handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: "Invalid login format", Err: err})
		return
	}

	identifier := creds.Username
	if identifier == "" {
		identifier = creds.Email
	}
	if identifier == "" || creds.Password == "" {
		s.handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: "username or email and password are required"})
		return
	}

	user, err := s.models.Users.Authenticate(identifier, creds.Password)
	if err != nil {
		s.handleError(w, err)
		return
	}

	sess, err := s.models.Sessions.CreateForUser(user.ID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(user, sess))
}

func (s *server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := readJSON(r, &req); err != nil {
		s.handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: "Invalid logout format", Err: err})
		return
	}
	if req.Token == "" {
		s.handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: "token is required"})
		return
	}

	if err := s.models.Sessions.Delete(req.Token); err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}
