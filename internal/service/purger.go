package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/onebytwo/account-eraser/internal/logger"
	"github.com/onebytwo/account-eraser/internal/model"
)

// Record types as reported in logs and metrics.
const (
	RecordTypeProfile      = "profile"
	RecordTypeGroupIndex   = "group_index"
	RecordTypeFriendIndex  = "friend_index"
	RecordTypeGroupMembers = "group_members"
	RecordTypeExpenses     = "expenses"
	RecordTypeSettlements  = "settlements"
)

// RecordPurger deletes or anonymizes every document referencing a user.
type RecordPurger struct {
	store     model.DocumentStore
	batchSize int
	recorder  Recorder
	logger    *logger.Logger
}

// NewRecordPurger creates a RecordPurger committing at most batchSize operations per group.
func NewRecordPurger(store model.DocumentStore, batchSize int, recorder Recorder, logger *logger.Logger) *RecordPurger {
	return &RecordPurger{
		store:     store,
		batchSize: batchSize,
		recorder:  recorder,
		logger:    logger.With("component", "purger"),
	}
}

// Purge runs profile, group index, friend index, group membership, expense and
// settlement cleanup in that order. The first failure aborts; groups committed
// before it stay committed.
func (p *RecordPurger) Purge(ctx context.Context, uid uuid.UUID) error {
	log := p.logger.With("uid", uid)
	log.Info("deleting document store data")

	// Both lookups run before any write. Member entries are found through the
	// index snapshot and through the members themselves, so a retry still
	// reaches them after an earlier run already removed the index.
	groupIDs, err := p.store.GroupIDs(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to list group memberships: %w", err)
	}
	memberGroupIDs, err := p.store.MemberGroupIDs(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to list group member entries: %w", err)
	}
	memberGroupIDs = union(groupIDs, memberGroupIDs)

	if _, err := p.apply(ctx, RecordTypeProfile, []model.Operation{
		model.DeleteOperation(model.UserRef(uid)),
	}); err != nil {
		return err
	}
	log.Info("user document deleted")

	indexOps := make([]model.Operation, 0, len(groupIDs))
	for _, groupID := range groupIDs {
		indexOps = append(indexOps, model.DeleteOperation(model.UserGroupRef(uid, groupID)))
	}
	if _, err := p.apply(ctx, RecordTypeGroupIndex, indexOps); err != nil {
		return err
	}
	log.Info("group membership index deleted", "count", len(groupIDs))

	friendIDs, err := p.store.FriendIDs(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to list friends: %w", err)
	}
	friendOps := make([]model.Operation, 0, len(friendIDs))
	for _, friendID := range friendIDs {
		friendOps = append(friendOps, model.DeleteOperation(model.UserFriendRef(uid, friendID)))
	}
	if _, err := p.apply(ctx, RecordTypeFriendIndex, friendOps); err != nil {
		return err
	}
	log.Info("friend index deleted", "count", len(friendIDs))

	// Groups themselves are kept, even when uid owns them.
	memberOps := make([]model.Operation, 0, len(memberGroupIDs))
	for _, groupID := range memberGroupIDs {
		memberOps = append(memberOps, model.DeleteOperation(model.GroupMemberRef(groupID, uid)))
	}
	if _, err := p.apply(ctx, RecordTypeGroupMembers, memberOps); err != nil {
		return err
	}
	log.Info("user removed from groups", "count", len(memberGroupIDs))

	if err := p.softDeleteExpenses(ctx, log, uid); err != nil {
		return err
	}

	if err := p.softDeleteSettlements(ctx, log, uid); err != nil {
		return err
	}

	log.Info("document store data deletion completed")
	return nil
}

func (p *RecordPurger) softDeleteExpenses(ctx context.Context, log *logger.Logger, uid uuid.UUID) error {
	expenseIDs, err := p.store.ExpenseIDsByPayer(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	ops := make([]model.Operation, 0, len(expenseIDs))
	for _, id := range expenseIDs {
		ops = append(ops, model.SoftDeleteOperation(model.ExpenseRef(id), map[string]string{
			"description": model.DeletedPlaceholder,
		}))
	}

	commits, err := p.apply(ctx, RecordTypeExpenses, ops)
	if err != nil {
		return err
	}
	log.Info("expenses soft-deleted", "count", len(expenseIDs), "commits", commits)

	return nil
}

func (p *RecordPurger) softDeleteSettlements(ctx context.Context, log *logger.Logger, uid uuid.UUID) error {
	payerIDs, err := p.store.SettlementIDsByPayer(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to list settlements paid: %w", err)
	}
	receiverIDs, err := p.store.SettlementIDsByReceiver(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to list settlements received: %w", err)
	}

	// A settlement from uid to uid shows up in both lookups; flag it once.
	settlementIDs := union(payerIDs, receiverIDs)
	ops := make([]model.Operation, 0, len(settlementIDs))
	for _, id := range settlementIDs {
		ops = append(ops, model.SoftDeleteOperation(model.SettlementRef(id), nil))
	}

	commits, err := p.apply(ctx, RecordTypeSettlements, ops)
	if err != nil {
		return err
	}
	log.Info("settlements soft-deleted",
		"payer_count", len(payerIDs),
		"receiver_count", len(receiverIDs),
		"commits", commits)

	return nil
}

// union returns a followed by the ids of b missing from a.
func union(a, b []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(a)+len(b))
	out := make([]uuid.UUID, 0, len(a)+len(b))
	for _, ids := range [][]uuid.UUID{a, b} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// apply streams ops through a fresh accumulator and returns the number of commits.
func (p *RecordPurger) apply(ctx context.Context, recordType string, ops []model.Operation) (int, error) {
	acc := NewWriteGroupAccumulator(p.store.NewWriteGroup, p.batchSize, func(size int) {
		p.recorder.WriteGroupCommitted(recordType, size)
		p.logger.Debug("write group committed", "record_type", recordType, "count", size)
	})

	for _, op := range ops {
		if err := acc.Add(ctx, op); err != nil {
			return acc.Commits(), fmt.Errorf("failed to write %s: %w", recordType, err)
		}
	}
	if err := acc.Flush(ctx); err != nil {
		return acc.Commits(), fmt.Errorf("failed to write %s: %w", recordType, err)
	}

	return acc.Commits(), nil
}
