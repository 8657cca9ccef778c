package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	GuestSessionTTL = 24 * time.Hour
	UserSessionTTL  = 7 * 24 * time.Hour

	sessionKeyPrefix = "session:"
)

type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id,omitempty"`
	Guest     bool      `json:"guest"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore keeps session tokens in buntdb. Entries expire on their own
// once their TTL passes.
type SessionStore struct {
	db *buntdb.DB
}

// OpenSessionStore opens the store at path; ":memory:" keeps it in memory.
func OpenSessionStore(path string) (*SessionStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return &SessionStore{db: db}, nil
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}

func (s *SessionStore) CreateGuest() (*Session, error) {
	return s.create("", true, GuestSessionTTL)
}

func (s *SessionStore) CreateForUser(userID string) (*Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}
	return s.create(userID, false, UserSessionTTL)
}

func (s *SessionStore) create(userID string, guest bool, ttl time.Duration) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Guest:     guest,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	val, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	err = s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(sessionKeyPrefix+sess.Token, string(val), &buntdb.SetOptions{Expires: true, TTL: ttl})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return sess, nil
}

func (s *SessionStore) Get(token string) (*Session, error) {
	var val string
	err := s.db.View(func(tx *buntdb.Tx) error {
		var err error
		val, err = tx.Get(sessionKeyPrefix + token)
		return err
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

func (s *SessionStore) Delete(token string) error {
	err := s.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(sessionKeyPrefix + token)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}
