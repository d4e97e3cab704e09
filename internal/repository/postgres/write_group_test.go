package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onebytwo/account-eraser/internal/model"
)

func TestStatement(t *testing.T) {
	uid := uuid.New()
	other := uuid.New()

	tests := []struct {
		name      string
		op        model.Operation
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "profile",
			op:        model.DeleteOperation(model.UserRef(uid)),
			wantQuery: `DELETE FROM users WHERE id = $1`,
			wantArgs:  []any{uid},
		},
		{
			name:      "group index",
			op:        model.DeleteOperation(model.UserGroupRef(uid, other)),
			wantQuery: `DELETE FROM user_groups WHERE user_id = $1 AND group_id = $2`,
			wantArgs:  []any{uid, other},
		},
		{
			name:      "friend index",
			op:        model.DeleteOperation(model.UserFriendRef(uid, other)),
			wantQuery: `DELETE FROM user_friends WHERE user_id = $1 AND friend_id = $2`,
			wantArgs:  []any{uid, other},
		},
		{
			name:      "group member",
			op:        model.DeleteOperation(model.GroupMemberRef(other, uid)),
			wantQuery: `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
			wantArgs:  []any{other, uid},
		},
		{
			name:      "expense with redaction",
			op:        model.SoftDeleteOperation(model.ExpenseRef(other), map[string]string{"description": model.DeletedPlaceholder}),
			wantQuery: `UPDATE expenses SET is_deleted = TRUE, deleted_at = COALESCE(deleted_at, NOW()), description = $2 WHERE id = $1`,
			wantArgs:  []any{other, model.DeletedPlaceholder},
		},
		{
			name:      "settlement",
			op:        model.SoftDeleteOperation(model.SettlementRef(other), nil),
			wantQuery: `UPDATE settlements SET is_deleted = TRUE, deleted_at = COALESCE(deleted_at, NOW()) WHERE id = $1`,
			wantArgs:  []any{other},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := statement(tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestStatement_Rejected(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name string
		op   model.Operation
	}{
		{"hard delete expense", model.DeleteOperation(model.ExpenseRef(id))},
		{"hard delete settlement", model.DeleteOperation(model.SettlementRef(id))},
		{"soft delete profile", model.SoftDeleteOperation(model.UserRef(id), nil)},
		{"redact amount", model.SoftDeleteOperation(model.ExpenseRef(id), map[string]string{"amount_cents": "0"})},
		{"redact settlement", model.SoftDeleteOperation(model.SettlementRef(id), map[string]string{"description": "x"})},
		{"unknown collection", model.DeleteOperation(model.DocumentRef{Collection: "comments", ID: id})},
		{"unknown kind", model.Operation{Ref: model.UserRef(id)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := statement(tt.op)
			assert.Error(t, err)
		})
	}
}

func TestWriteGroup_QueueAndEmptyCommit(t *testing.T) {
	g := &WriteGroup{}
	assert.Equal(t, 0, g.Len())

	// an empty group never reaches the database
	require.NoError(t, g.Commit(context.Background()))

	g.Queue(model.DeleteOperation(model.UserRef(uuid.New())))
	assert.Equal(t, 1, g.Len())
}

func TestWriteGroup_InvalidOperationFailsBeforeSending(t *testing.T) {
	g := &WriteGroup{}
	g.Queue(model.DeleteOperation(model.ExpenseRef(uuid.New())))

	err := g.Commit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestNewDocumentRepository(t *testing.T) {
	db := &Connection{}
	repo := NewDocumentRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)

	g, ok := repo.NewWriteGroup().(*WriteGroup)
	require.True(t, ok)
	assert.Equal(t, db, g.db)
}

func TestNewIdentityRepository(t *testing.T) {
	db := &Connection{}
	repo := NewIdentityRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}
