package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type AuthUser struct {
	ID           string
	Name         string
	Role         string
	StoreID      string
	PasswordHash string
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var out AuthUser
	var storeID *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, role, store_id, password_hash
    FROM workers
    WHERE email = $1 AND active = TRUE
  `, email).Scan(&out.ID, &out.Name, &out.Role, &storeID, &out.PasswordHash)
	if storeID != nil {
		out.StoreID = *storeID
	}
	return out, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE workers SET last_login_at = now() WHERE id = $1", userID)
	return err
}
