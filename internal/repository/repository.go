// Package repository maps storefront and back-office operations onto SQL
// against the injected connection pool.
package repository

import (
	"database/sql"
	"time"

	"github.com/01moynul/innowood/internal/database"
	"github.com/google/uuid"
)

// Repository is the data access layer. It holds no state besides its dependencies.
type Repository struct {
	db      *sql.DB
	dialect database.Dialect
	now     func() time.Time
	newID   func() string
}

// New wires a Repository to an open pool.
func New(db *sql.DB, dialect database.Dialect) *Repository {
	return &Repository{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.NewString() },
	}
}

func (r *Repository) q(query string) string {
	return r.dialect.Rebind(query)
}
