package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/onebytwo/account-eraser/internal/model"
)

var _ model.IdentityStore = (*IdentityRepository)(nil)

// IdentityRepository owns the authentication accounts and their refresh tokens.
type IdentityRepository struct {
	db *Connection
}

func NewIdentityRepository(db *Connection) *IdentityRepository {
	return &IdentityRepository{
		db: db,
	}
}

// Delete removes the account and revokes every session it holds.
// Deleting an absent account succeeds.
func (r *IdentityRepository) Delete(ctx context.Context, uid uuid.UUID) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, uid); err != nil {
			return fmt.Errorf("failed to delete refresh tokens: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM auth_users WHERE id = $1`, uid); err != nil {
			return fmt.Errorf("failed to delete auth user: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}
