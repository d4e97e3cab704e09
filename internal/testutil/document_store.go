package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onebytwo/account-eraser/internal/model"
)

var _ model.DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory document store with the same write semantics as
// the postgres store. Every committed group is recorded in Commits.
type MemoryStore struct {
	mu sync.Mutex

	Profiles    map[uuid.UUID]model.UserProfile
	UserGroups  map[uuid.UUID]map[uuid.UUID]struct{}
	UserFriends map[uuid.UUID]map[uuid.UUID]struct{}
	Groups      map[uuid.UUID]model.Group
	Members     map[uuid.UUID]map[uuid.UUID]model.GroupMember
	Expenses    map[uuid.UUID]model.Expense
	Settlements map[uuid.UUID]model.Settlement

	// Commits holds the size of every committed group in commit order.
	Commits []int
	// Reads counts indexed lookups.
	Reads int

	// FailCommit, when set, is returned by the n-th commit (1-based) given by FailCommitAt.
	FailCommit   error
	FailCommitAt int
	// FailRead, when set, is returned by every lookup.
	FailRead error

	Now func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Profiles:    map[uuid.UUID]model.UserProfile{},
		UserGroups:  map[uuid.UUID]map[uuid.UUID]struct{}{},
		UserFriends: map[uuid.UUID]map[uuid.UUID]struct{}{},
		Groups:      map[uuid.UUID]model.Group{},
		Members:     map[uuid.UUID]map[uuid.UUID]model.GroupMember{},
		Expenses:    map[uuid.UUID]model.Expense{},
		Settlements: map[uuid.UUID]model.Settlement{},
		Now:         time.Now,
	}
}

// AddUser stores a profile.
func (s *MemoryStore) AddUser(uid uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Profiles[uid] = model.UserProfile{ID: uid, DisplayName: "user " + uid.String()[:8], Email: uid.String() + "@example.com"}
}

// AddGroup stores a group owned by owner with the given members, and indexes the memberships.
func (s *MemoryStore) AddGroup(owner uuid.UUID, members ...uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.Groups[id] = model.Group{ID: id, Name: "group " + id.String()[:8], OwnerID: owner}
	s.Members[id] = map[uuid.UUID]model.GroupMember{}
	for _, m := range append([]uuid.UUID{owner}, members...) {
		s.Members[id][m] = model.GroupMember{GroupID: id, UserID: m, Role: "member"}
		if s.UserGroups[m] == nil {
			s.UserGroups[m] = map[uuid.UUID]struct{}{}
		}
		s.UserGroups[m][id] = struct{}{}
	}
	return id
}

// AddFriend records a mutual friendship.
func (s *MemoryStore) AddFriend(a, b uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pair := range [][2]uuid.UUID{{a, b}, {b, a}} {
		if s.UserFriends[pair[0]] == nil {
			s.UserFriends[pair[0]] = map[uuid.UUID]struct{}{}
		}
		s.UserFriends[pair[0]][pair[1]] = struct{}{}
	}
}

// AddExpense stores an expense paid by payer.
func (s *MemoryStore) AddExpense(groupID, payer uuid.UUID, description string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.Expenses[id] = model.Expense{ID: id, GroupID: groupID, PayerID: payer, Description: description, AmountCents: 1000}
	return id
}

// AddSettlement stores a settlement from payer to receiver.
func (s *MemoryStore) AddSettlement(groupID, payer, receiver uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.Settlements[id] = model.Settlement{ID: id, GroupID: groupID, PayerID: payer, ReceiverID: receiver, AmountCents: 500}
	return id
}

// Writes returns the total number of committed operations.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.Commits {
		total += n
	}
	return total
}

func (s *MemoryStore) GroupIDs(_ context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	return sortedKeys(s.UserGroups[uid]), nil
}

func (s *MemoryStore) MemberGroupIDs(_ context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	ids := map[uuid.UUID]struct{}{}
	for groupID, members := range s.Members {
		if _, ok := members[uid]; ok {
			ids[groupID] = struct{}{}
		}
	}
	return sortedKeys(ids), nil
}

func (s *MemoryStore) FriendIDs(_ context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	return sortedKeys(s.UserFriends[uid]), nil
}

func (s *MemoryStore) ExpenseIDsByPayer(_ context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	ids := map[uuid.UUID]struct{}{}
	for id, e := range s.Expenses {
		if e.PayerID == uid {
			ids[id] = struct{}{}
		}
	}
	return sortedKeys(ids), nil
}

func (s *MemoryStore) SettlementIDsByPayer(_ context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	return s.settlements(func(st model.Settlement) bool { return st.PayerID == uid })
}

func (s *MemoryStore) SettlementIDsByReceiver(_ context.Context, uid uuid.UUID) ([]uuid.UUID, error) {
	return s.settlements(func(st model.Settlement) bool { return st.ReceiverID == uid })
}

func (s *MemoryStore) settlements(match func(model.Settlement) bool) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(); err != nil {
		return nil, err
	}
	ids := map[uuid.UUID]struct{}{}
	for id, st := range s.Settlements {
		if match(st) {
			ids[id] = struct{}{}
		}
	}
	return sortedKeys(ids), nil
}

func (s *MemoryStore) read() error {
	s.Reads++
	return s.FailRead
}

func (s *MemoryStore) NewWriteGroup() model.WriteGroup {
	return &memoryWriteGroup{store: s}
}

type memoryWriteGroup struct {
	store *MemoryStore
	ops   []model.Operation
}

func (g *memoryWriteGroup) Queue(op model.Operation) {
	g.ops = append(g.ops, op)
}

func (g *memoryWriteGroup) Len() int {
	return len(g.ops)
}

func (g *memoryWriteGroup) Commit(_ context.Context) error {
	s := g.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCommit != nil && len(s.Commits)+1 == s.FailCommitAt {
		return s.FailCommit
	}

	for _, op := range g.ops {
		if err := validate(op); err != nil {
			return err
		}
	}

	now := s.Now()
	for _, op := range g.ops {
		s.apply(op, now)
	}
	s.Commits = append(s.Commits, len(g.ops))

	return nil
}

func validate(op model.Operation) error {
	switch op.Ref.Collection {
	case model.CollectionExpenses, model.CollectionSettlements:
		if op.Kind != model.OperationSoftDelete {
			return fmt.Errorf("%s cannot be hard-deleted", op.Ref)
		}
	case model.CollectionUsers, model.CollectionUserGroups, model.CollectionUserFriends, model.CollectionGroupMembers:
		if op.Kind != model.OperationDelete {
			return fmt.Errorf("%s supports only delete", op.Ref)
		}
	default:
		return fmt.Errorf("unknown collection %q", op.Ref.Collection)
	}
	return nil
}

func (s *MemoryStore) apply(op model.Operation, now time.Time) {
	ref := op.Ref
	switch ref.Collection {
	case model.CollectionUsers:
		delete(s.Profiles, ref.ID)
	case model.CollectionUserGroups:
		delete(s.UserGroups[ref.Parent], ref.ID)
	case model.CollectionUserFriends:
		delete(s.UserFriends[ref.Parent], ref.ID)
	case model.CollectionGroupMembers:
		delete(s.Members[ref.Parent], ref.ID)
	case model.CollectionExpenses:
		e, ok := s.Expenses[ref.ID]
		if !ok {
			return
		}
		e.IsDeleted = true
		if e.DeletedAt == nil {
			e.DeletedAt = &now
		}
		if v, ok := op.Redact["description"]; ok {
			e.Description = v
		}
		s.Expenses[ref.ID] = e
	case model.CollectionSettlements:
		st, ok := s.Settlements[ref.ID]
		if !ok {
			return
		}
		st.IsDeleted = true
		if st.DeletedAt == nil {
			st.DeletedAt = &now
		}
		s.Settlements[ref.ID] = st
	}
}

func sortedKeys[V any](m map[uuid.UUID]V) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
