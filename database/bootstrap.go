package database

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

// EnsureAdminAccount upserts the "admin" account with the given password,
// used to bootstrap a fresh installation from the command line.
func EnsureAdminAccount(db *sql.DB, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO account (username, password_hash) VALUES ('admin', ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash`,
		string(hash),
	)
	return err
}
