package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/onebytwo/account-eraser/internal/model"
)

var _ model.DocumentStore = (*DocumentRepository)(nil)

// DocumentRepository serves the erasure lookups and write groups from postgres.
type DocumentRepository struct {
	db *Connection
}

func NewDocumentRepository(db *Connection) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

func (r *DocumentRepository) GroupIDs(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	const query = `SELECT group_id FROM user_groups WHERE user_id = $1 ORDER BY group_id`
	ids, err := r.ids(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	return ids, nil
}

func (r *DocumentRepository) MemberGroupIDs(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	const query = `SELECT group_id FROM group_members WHERE user_id = $1 ORDER BY group_id`
	ids, err := r.ids(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list group member entries: %w", err)
	}
	return ids, nil
}

func (r *DocumentRepository) FriendIDs(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	const query = `SELECT friend_id FROM user_friends WHERE user_id = $1 ORDER BY friend_id`
	ids, err := r.ids(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list user friends: %w", err)
	}
	return ids, nil
}

func (r *DocumentRepository) ExpenseIDsByPayer(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	const query = `SELECT id FROM expenses WHERE payer_id = $1 ORDER BY id`
	ids, err := r.ids(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by payer: %w", err)
	}
	return ids, nil
}

func (r *DocumentRepository) SettlementIDsByPayer(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	const query = `SELECT id FROM settlements WHERE payer_id = $1 ORDER BY id`
	ids, err := r.ids(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by payer: %w", err)
	}
	return ids, nil
}

func (r *DocumentRepository) SettlementIDsByReceiver(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	const query = `SELECT id FROM settlements WHERE receiver_id = $1 ORDER BY id`
	ids, err := r.ids(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by receiver: %w", err)
	}
	return ids, nil
}

func (r *DocumentRepository) NewWriteGroup() model.WriteGroup {
	return &WriteGroup{db: r.db}
}

func (r *DocumentRepository) ids(ctx context.Context, query string, uid uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}
