package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/honganh1206/guideme/api"
	"github.com/honganh1206/guideme/server/data"
	"github.com/honganh1206/guideme/server/data/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingModel struct{}

func (failingModel) Name() string { return "Failing" }

func (failingModel) Reply(context.Context, string, map[string]any) (string, error) {
	return "", errors.New("upstream unavailable")
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	sessions, err := data.OpenSessionStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })

	models := data.NewModels(testutil.CreateTestDB(t, data.UserSchema), sessions)

	srv := httptest.NewServer(NewHandler(models, nil, zerolog.Nop()))
	t.Cleanup(srv.Close)

	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)

	return resp, out
}

func TestHealthAndRoot(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "GuideMeAI backend running", body["message"])
}

func TestChat_DemoReply(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/chat/", "/chat"} {
		resp, body := doJSON(t, http.MethodPost, srv.URL+path, map[string]any{"message": "hello", "sessionId": "abc"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Demo response received: hello", body["reply"])
	}
}

func TestChat_MissingOrInvalidBody(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/chat/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Demo response received: ", body["reply"])

	resp, err := http.Post(srv.URL+"/chat/", "application/json", bytes.NewBufferString("not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChat_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/chat/", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestChat_ModelFailure(t *testing.T) {
	sessions, err := data.OpenSessionStore(":memory:")
	require.NoError(t, err)
	defer sessions.Close()

	models := data.NewModels(testutil.CreateTestDB(t, data.UserSchema), sessions)
	srv := httptest.NewServer(NewHandler(models, failingModel{}, zerolog.Nop()))
	defer srv.Close()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/chat/", map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body["error"], "Failing")
}

func TestGuestSession(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/guest", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, true, body["guest"])
	assert.NotEmpty(t, body["expires_at"])
	assert.NotContains(t, body, "user")
}

func TestSignupAndLogin(t *testing.T) {
	srv := newTestServer(t)

	signup := map[string]any{"username": "ada", "email": "ada@example.com", "password": "longenough"}
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/signup", signup)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, false, body["guest"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ada", user["username"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "PasswordHash")

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/signup", signup)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	sameEmail := map[string]any{"username": "bob", "email": "ada@example.com", "password": "password-two"}
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/signup", sameEmail)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User already exists", body["error"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/login", map[string]any{"username": "ada", "password": "longenough"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/login", map[string]any{"email": "ada@example.com", "password": "longenough"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/auth/login", map[string]any{"username": "ada", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["error"])
}

func TestSignup_Validation(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/signup", map[string]any{"username": "ada", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/signup", map[string]any{"password": "longenough"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := http.Post(srv.URL+"/auth/signup", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/login", map[string]any{"username": "ada"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/chat/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://honganh1206.github.io")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Content-Type")

	resp2, _ := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, "*", resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestClientAgainstBackend(t *testing.T) {
	srv := newTestServer(t)
	c := api.NewClient("localhost", api.WithBaseURL(srv.URL))
	ctx := context.Background()

	got, err := c.SendChatMessage(ctx, "hello", map[string]any{"sessionId": "abc"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"reply": "Demo response received: hello"}, got)

	guest, err := c.CreateGuestSession(ctx)
	require.NoError(t, err)
	assert.Contains(t, guest, "token")

	signed, err := c.Signup(ctx, map[string]any{"username": "grace", "password": "longenough"})
	require.NoError(t, err)
	assert.Contains(t, signed, "user")

	again, err := c.Signup(ctx, map[string]any{"username": "grace", "password": "longenough"})
	require.NoError(t, err)
	assert.Nil(t, again)

	logged, err := c.Login(ctx, map[string]any{"username": "grace", "password": "longenough"})
	require.NoError(t, err)
	assert.Contains(t, logged, "token")

	bad, err := c.Login(ctx, map[string]any{"username": "grace", "password": "nope-nope"})
	require.NoError(t, err)
	assert.Nil(t, bad)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, Config{DataDir: t.TempDir(), Logger: zerolog.Nop()})
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

type recordingModel struct {
	mu      sync.Mutex
	context map[string]any
}

func (m *recordingModel) Name() string { return "Recording" }

func (m *recordingModel) Reply(_ context.Context, message string, chatContext map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.context = chatContext
	return "ok: " + message, nil
}

func (m *recordingModel) lastContext() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.context
}

func TestChat_SessionToken(t *testing.T) {
	sessions, err := data.OpenSessionStore(":memory:")
	require.NoError(t, err)
	defer sessions.Close()

	model := &recordingModel{}
	models := data.NewModels(testutil.CreateTestDB(t, data.UserSchema), sessions)
	srv := httptest.NewServer(NewHandler(models, model, zerolog.Nop()))
	defer srv.Close()

	_, body := doJSON(t, http.MethodPost, srv.URL+"/auth/signup", map[string]any{"username": "ada", "password": "longenough"})
	userToken, ok := body["token"].(string)
	require.True(t, ok)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/chat/", map[string]any{"message": "hi", "token": userToken, "page": "home"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok: hi", body["reply"])
	assert.Equal(t, map[string]any{"message": "hi", "page": "home", "username": "ada"}, model.lastContext())

	_, body = doJSON(t, http.MethodPost, srv.URL+"/auth/guest", nil)
	guestToken, ok := body["token"].(string)
	require.True(t, ok)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/chat/", map[string]any{"message": "hi", "token": guestToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"message": "hi"}, model.lastContext())

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/chat/", map[string]any{"message": "hi", "token": "unknown"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid or expired session", body["error"])
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/auth/guest", nil)
	token, ok := body["token"].(string)
	require.True(t, ok)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/logout", map[string]any{"token": token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["logged_out"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/chat/", map[string]any{"message": "hi", "token": token})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/logout", map[string]any{"token": token})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/logout", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
