package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/onebytwo/account-eraser/internal/model"
)

var _ model.WriteGroup = (*WriteGroup)(nil)

// redactable lists the free-text columns a soft delete may overwrite.
var redactable = map[model.Collection]map[string]struct{}{
	model.CollectionExpenses: {"description": {}},
}

var softDeleteTables = map[model.Collection]string{
	model.CollectionExpenses:    "expenses",
	model.CollectionSettlements: "settlements",
}

// WriteGroup sends its operations as one batch inside a single transaction.
type WriteGroup struct {
	db  *Connection
	ops []model.Operation
}

func (g *WriteGroup) Queue(op model.Operation) {
	g.ops = append(g.ops, op)
}

func (g *WriteGroup) Len() int {
	return len(g.ops)
}

// Commit applies every queued operation or none of them.
func (g *WriteGroup) Commit(ctx context.Context) error {
	if len(g.ops) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, op := range g.ops {
		query, args, err := statement(op)
		if err != nil {
			return err
		}
		batch.Queue(query, args...)
	}

	err := pgx.BeginFunc(ctx, g.db, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	g.ops = g.ops[:0]
	return nil
}

func statement(op model.Operation) (string, []any, error) {
	ref := op.Ref

	switch op.Kind {
	case model.OperationDelete:
		switch ref.Collection {
		case model.CollectionUsers:
			return `DELETE FROM users WHERE id = $1`, []any{ref.ID}, nil
		case model.CollectionUserGroups:
			return `DELETE FROM user_groups WHERE user_id = $1 AND group_id = $2`, []any{ref.Parent, ref.ID}, nil
		case model.CollectionUserFriends:
			return `DELETE FROM user_friends WHERE user_id = $1 AND friend_id = $2`, []any{ref.Parent, ref.ID}, nil
		case model.CollectionGroupMembers:
			return `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, []any{ref.Parent, ref.ID}, nil
		case model.CollectionExpenses, model.CollectionSettlements:
			return "", nil, fmt.Errorf("%s must be soft-deleted", ref)
		}

	case model.OperationSoftDelete:
		table, ok := softDeleteTables[ref.Collection]
		if !ok {
			return "", nil, fmt.Errorf("%s does not support soft delete", ref)
		}

		columns := make([]string, 0, len(op.Redact))
		for column := range op.Redact {
			if _, ok := redactable[ref.Collection][column]; !ok {
				return "", nil, fmt.Errorf("column %q of %s cannot be redacted", column, ref)
			}
			columns = append(columns, column)
		}
		sort.Strings(columns)

		set := []string{"is_deleted = TRUE", "deleted_at = COALESCE(deleted_at, NOW())"}
		args := []any{ref.ID}
		for _, column := range columns {
			args = append(args, op.Redact[column])
			set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
		}

		query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1`, table, strings.Join(set, ", "))
		return query, args, nil
	}

	return "", nil, fmt.Errorf("unsupported %s operation on collection %q", op.Kind, ref.Collection)
}
