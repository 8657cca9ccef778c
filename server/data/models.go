package data

import (
	"database/sql"
)

type Models struct {
	Users    *UserModel
	Sessions *SessionStore
}

func NewModels(db *sql.DB, sessions *SessionStore) *Models {
	return &Models{
		Users:    &UserModel{DB: db},
		Sessions: sessions,
	}
}
