package model

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const (
	// MaxWriteGroupSize is the store's limit of operations per atomic commit.
	MaxWriteGroupSize = 500
	// DeletedPlaceholder replaces personal free text on soft-deleted records.
	DeletedPlaceholder = "[Deleted]"
)

// Collection names a document collection of the shared store.
type Collection string

const (
	// CollectionUsers holds users/{uid} profiles.
	CollectionUsers Collection = "users"
	// CollectionUserGroups holds userGroups/{uid}/groups/{groupId}.
	CollectionUserGroups Collection = "userGroups"
	// CollectionUserFriends holds userFriends/{uid}/friends/{friendId}.
	CollectionUserFriends Collection = "userFriends"
	// CollectionGroupMembers holds groups/{groupId}/members/{uid}.
	CollectionGroupMembers Collection = "groupMembers"
	// CollectionExpenses holds expenses/{id}.
	CollectionExpenses Collection = "expenses"
	// CollectionSettlements holds settlements/{id}.
	CollectionSettlements Collection = "settlements"
)

// DocumentRef addresses a single document. Parent is set for documents of a
// subcollection and is the owning uid or group id.
type DocumentRef struct {
	Collection Collection
	Parent     uuid.UUID
	ID         uuid.UUID
}

// UserRef addresses a profile document.
func UserRef(uid uuid.UUID) DocumentRef {
	return DocumentRef{Collection: CollectionUsers, ID: uid}
}

// UserGroupRef addresses one entry of the group-membership index.
func UserGroupRef(uid, groupID uuid.UUID) DocumentRef {
	return DocumentRef{Collection: CollectionUserGroups, Parent: uid, ID: groupID}
}

// UserFriendRef addresses one entry of the friend index.
func UserFriendRef(uid, friendID uuid.UUID) DocumentRef {
	return DocumentRef{Collection: CollectionUserFriends, Parent: uid, ID: friendID}
}

// GroupMemberRef addresses the membership record of uid inside a group.
func GroupMemberRef(groupID, uid uuid.UUID) DocumentRef {
	return DocumentRef{Collection: CollectionGroupMembers, Parent: groupID, ID: uid}
}

// ExpenseRef addresses an expense.
func ExpenseRef(id uuid.UUID) DocumentRef {
	return DocumentRef{Collection: CollectionExpenses, ID: id}
}

// SettlementRef addresses a settlement.
func SettlementRef(id uuid.UUID) DocumentRef {
	return DocumentRef{Collection: CollectionSettlements, ID: id}
}

// String renders the document path.
func (r DocumentRef) String() string {
	switch r.Collection {
	case CollectionUserGroups:
		return fmt.Sprintf("userGroups/%s/groups/%s", r.Parent, r.ID)
	case CollectionUserFriends:
		return fmt.Sprintf("userFriends/%s/friends/%s", r.Parent, r.ID)
	case CollectionGroupMembers:
		return fmt.Sprintf("groups/%s/members/%s", r.Parent, r.ID)
	default:
		return fmt.Sprintf("%s/%s", r.Collection, r.ID)
	}
}

// OperationKind enumerates write operations.
type OperationKind int

const (
	// OperationDelete removes the document.
	OperationDelete OperationKind = iota + 1
	// OperationSoftDelete flags the document deleted and stamps deleted_at.
	OperationSoftDelete
)

func (k OperationKind) String() string {
	switch k {
	case OperationDelete:
		return "delete"
	case OperationSoftDelete:
		return "soft_delete"
	default:
		return "unknown"
	}
}

// Operation is one write queued into a write group.
type Operation struct {
	Kind OperationKind
	Ref  DocumentRef
	// Redact maps field names to the value overwriting them on soft delete.
	Redact map[string]string
}

// DeleteOperation creates a hard delete of ref.
func DeleteOperation(ref DocumentRef) Operation {
	return Operation{Kind: OperationDelete, Ref: ref}
}

// SoftDeleteOperation creates a soft delete of ref with optional redactions.
func SoftDeleteOperation(ref DocumentRef, redact map[string]string) Operation {
	return Operation{Kind: OperationSoftDelete, Ref: ref, Redact: redact}
}

// WriteGroup collects operations that are committed atomically.
type WriteGroup interface {
	Queue(op Operation)
	Len() int
	Commit(ctx context.Context) error
}

// DocumentStore defines the indexed lookups and writes used by erasure.
type DocumentStore interface {
	GroupIDs(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error)
	// MemberGroupIDs finds the groups holding a member entry for uid, independent of the index.
	MemberGroupIDs(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error)
	FriendIDs(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error)
	ExpenseIDsByPayer(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error)
	SettlementIDsByPayer(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error)
	SettlementIDsByReceiver(ctx context.Context, uid uuid.UUID) ([]uuid.UUID, error)
	NewWriteGroup() WriteGroup
}
