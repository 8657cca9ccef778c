package data

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:embed user_schema.sql
var UserSchema string

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const MinPasswordLength = 8

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserModel struct {
	DB *sql.DB
}

// NewUser validates the fields and hashes password. The user is not
// persisted until Insert is called.
func NewUser(username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (u *User) PasswordMatches(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (um *UserModel) Insert(user *User) error {
	query := `
	INSERT INTO users (id, username, email, password_hash, created_at)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err := um.DB.Exec(query, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to insert user '%s': %w", user.Username, err)
	}

	return nil
}

func (um *UserModel) GetByID(id string) (*User, error) {
	return um.getBy("id", id)
}

func (um *UserModel) GetByUsername(username string) (*User, error) {
	return um.getBy("username", strings.TrimSpace(username))
}

func (um *UserModel) GetByEmail(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrUserNotFound
	}
	return um.getBy("email", email)
}

// column is always one of the literals above, never caller input.
func (um *UserModel) getBy(column, value string) (*User, error) {
	query := fmt.Sprintf(`
	SELECT id, username, email, password_hash, created_at
	FROM users WHERE %s = ?
	`, column)

	user := &User{}
	err := um.DB.QueryRow(query, value).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user by %s: %w", column, err)
	}

	return user, nil
}

// Authenticate looks the user up by username, falling back to email, and
// checks the password. Unknown users and wrong passwords are reported the same way.
func (um *UserModel) Authenticate(identifier, password string) (*User, error) {
	user, err := um.GetByUsername(identifier)
	if errors.Is(err, ErrUserNotFound) {
		user, err = um.GetByEmail(identifier)
	}
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.PasswordMatches(password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
