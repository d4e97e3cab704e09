package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onebytwo/account-eraser/internal/logger"
	"github.com/onebytwo/account-eraser/internal/mocks"
	"github.com/onebytwo/account-eraser/internal/model"
	"github.com/onebytwo/account-eraser/internal/testutil"
)

func requireErasureError(t *testing.T, err error, kind model.ErrorKind) *model.ErasureError {
	t.Helper()

	var erasureErr *model.ErasureError
	require.ErrorAs(t, err, &erasureErr)
	assert.Equal(t, kind, erasureErr.Kind)
	return erasureErr
}

func TestEraser_DeleteAccount_Steps(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	boom := errors.New("boom")

	tests := []struct {
		name      string
		setup     func(*mocks.Authenticator, *mocks.Purger, *mocks.FileRemover, *mocks.IdentityRemover)
		wantKind  model.ErrorKind
		wantError bool
	}{
		{
			name: "success",
			setup: func(a *mocks.Authenticator, p *mocks.Purger, f *mocks.FileRemover, i *mocks.IdentityRemover) {
				a.On("Authenticate", mock.Anything).Return(uid, nil)
				p.On("Purge", mock.Anything, uid).Return(nil)
				f.On("Erase", mock.Anything, uid).Return(model.Advisory{Step: "files"})
				i.On("Erase", mock.Anything, uid).Return(nil)
			},
		},
		{
			name: "unauthenticated stops before any step",
			setup: func(a *mocks.Authenticator, _ *mocks.Purger, _ *mocks.FileRemover, _ *mocks.IdentityRemover) {
				a.On("Authenticate", mock.Anything).Return(uuid.Nil, model.ErrUnauthenticated)
			},
			wantError: true,
			wantKind:  model.KindUnauthenticated,
		},
		{
			name: "purge failure keeps files and identity",
			setup: func(a *mocks.Authenticator, p *mocks.Purger, _ *mocks.FileRemover, _ *mocks.IdentityRemover) {
				a.On("Authenticate", mock.Anything).Return(uid, nil)
				p.On("Purge", mock.Anything, uid).Return(boom)
			},
			wantError: true,
			wantKind:  model.KindInternal,
		},
		{
			name: "file failure is absorbed",
			setup: func(a *mocks.Authenticator, p *mocks.Purger, f *mocks.FileRemover, i *mocks.IdentityRemover) {
				a.On("Authenticate", mock.Anything).Return(uid, nil)
				p.On("Purge", mock.Anything, uid).Return(nil)
				f.On("Erase", mock.Anything, uid).Return(model.Advisory{Step: "files", Err: boom})
				i.On("Erase", mock.Anything, uid).Return(nil)
			},
		},
		{
			name: "identity failure is fatal",
			setup: func(a *mocks.Authenticator, p *mocks.Purger, f *mocks.FileRemover, i *mocks.IdentityRemover) {
				a.On("Authenticate", mock.Anything).Return(uid, nil)
				p.On("Purge", mock.Anything, uid).Return(nil)
				f.On("Erase", mock.Anything, uid).Return(model.Advisory{Step: "files"})
				i.On("Erase", mock.Anything, uid).Return(boom)
			},
			wantError: true,
			wantKind:  model.KindInternal,
		},
		{
			name: "structured error passes through",
			setup: func(a *mocks.Authenticator, p *mocks.Purger, _ *mocks.FileRemover, _ *mocks.IdentityRemover) {
				a.On("Authenticate", mock.Anything).Return(uid, nil)
				p.On("Purge", mock.Anything, uid).Return(model.NewUnauthenticatedError("token revoked"))
			},
			wantError: true,
			wantKind:  model.KindUnauthenticated,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := mocks.NewAuthenticator(t)
			p := mocks.NewPurger(t)
			f := mocks.NewFileRemover(t)
			i := mocks.NewIdentityRemover(t)
			tt.setup(a, p, f, i)

			e := NewEraser(a, p, f, i, testutil.MakeMetrics(), testutil.MakeNoopLogger())
			res, err := e.DeleteAccount(context.Background())

			if tt.wantError {
				requireErasureError(t, err, tt.wantKind)
				assert.False(t, res.Success)
				return
			}
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, "Account deleted successfully", res.Message)
		})
	}
}

func TestEraser_InternalErrorDetail(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	a := mocks.NewAuthenticator(t)
	p := mocks.NewPurger(t)
	a.On("Authenticate", mock.Anything).Return(uid, nil)
	p.On("Purge", mock.Anything, uid).Return(errors.New("deadline exceeded"))

	e := NewEraser(a, p, mocks.NewFileRemover(t), mocks.NewIdentityRemover(t), testutil.MakeMetrics(), testutil.MakeNoopLogger())
	_, err := e.DeleteAccount(context.Background())

	erasureErr := requireErasureError(t, err, model.KindInternal)
	assert.Equal(t, "Failed to delete account. Please try again.", erasureErr.Message)
	assert.Equal(t, "deadline exceeded", erasureErr.Detail)
}

type fixture struct {
	uid        uuid.UUID
	store      *testutil.MemoryStore
	storage    *testutil.MemoryStorage
	identities *testutil.MemoryIdentities
	eraser     *Eraser
}

func newFixture(t *testing.T, authenticated bool) *fixture {
	t.Helper()

	uid := uuid.New()
	cm := mocks.NewContextManager(t)
	if authenticated {
		cm.On("GetUserIDFromContext", mock.Anything).Return(uid, true)
	} else {
		cm.On("GetUserIDFromContext", mock.Anything).Return(uuid.Nil, false)
	}

	f := &fixture{
		uid:        uid,
		store:      testutil.NewMemoryStore(),
		storage:    testutil.NewMemoryStorage(),
		identities: testutil.NewMemoryIdentities(uid),
	}
	recorder := testutil.MakeMetrics()
	lg := testutil.MakeNoopLogger()
	f.eraser = NewEraser(
		NewAuthGate(cm),
		NewRecordPurger(f.store, model.MaxWriteGroupSize, recorder, lg),
		NewFileEraser(f.storage, recorder, lg),
		NewIdentityEraser(f.identities, lg),
		recorder,
		lg,
	)
	return f
}

func TestEraser_ZeroRecords(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)

	res, err := f.eraser.DeleteAccount(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []int{1}, f.store.Commits)
	assert.False(t, f.identities.Has(f.uid))
}

func TestEraser_Unauthenticated_NoWrites(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	f.storage.Objects["users/someone/avatar.jpg"] = []byte("x")

	_, err := f.eraser.DeleteAccount(context.Background())

	requireErasureError(t, err, model.KindUnauthenticated)
	assert.Empty(t, f.store.Commits)
	assert.Equal(t, 0, f.store.Writes())
	assert.Equal(t, 0, f.store.Reads)
	assert.Empty(t, f.storage.Deleted)
}

func TestEraser_FullErasureTwice(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	friend := uuid.New()
	f.store.AddUser(f.uid)
	owned := f.store.AddGroup(f.uid, friend)
	f.store.AddFriend(f.uid, friend)
	expense := f.store.AddExpense(owned, f.uid, "groceries")
	settlement := f.store.AddSettlement(owned, friend, f.uid)
	f.storage.Objects[AvatarKey(f.uid)] = []byte("jpeg")
	f.storage.Objects[UserPrefix(f.uid)+"receipt.png"] = []byte("png")

	_, err := f.eraser.DeleteAccount(context.Background())
	require.NoError(t, err)

	snapshot := func() (model.Expense, model.Settlement, int, []string) {
		return f.store.Expenses[expense], f.store.Settlements[settlement], len(f.store.Members[owned]), f.storage.Keys()
	}
	e1, s1, m1, k1 := snapshot()

	// retry after a reported failure
	_, err = f.eraser.DeleteAccount(context.Background())
	require.NoError(t, err)

	e2, s2, m2, k2 := snapshot()
	assert.Equal(t, e1, e2)
	assert.Equal(t, s1, s2)
	assert.Equal(t, m1, m2)
	assert.Equal(t, k1, k2)

	assert.Equal(t, model.DeletedPlaceholder, e2.Description)
	assert.True(t, e2.IsDeleted)
	assert.True(t, s2.IsDeleted)
	assert.Contains(t, f.store.Groups, owned)
	assert.NotContains(t, f.store.Members[owned], f.uid)
	assert.Contains(t, f.store.Members[owned], friend)
	assert.Empty(t, k2)
	assert.False(t, f.identities.Has(f.uid))
}

func TestEraser_StorageFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.storage.DeleteErr = errors.New("permission denied")

	res, err := f.eraser.DeleteAccount(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, f.identities.Has(f.uid))
}

func TestEraser_IdentityKeptOnPurgeFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, true)
	f.store.FailCommit = errors.New("quota exceeded")
	f.store.FailCommitAt = 1

	_, err := f.eraser.DeleteAccount(context.Background())

	requireErasureError(t, err, model.KindInternal)
	assert.True(t, f.identities.Has(f.uid))
}

type outcomeRecorder struct {
	outcomes []string
	warnings int
}

func (r *outcomeRecorder) WriteGroupCommitted(string, int) {}
func (r *outcomeRecorder) StorageWarning()                 { r.warnings++ }
func (r *outcomeRecorder) ErasureFinished(outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func TestEraser_RecordsOutcomes(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	a := mocks.NewAuthenticator(t)
	p := mocks.NewPurger(t)
	f := mocks.NewFileRemover(t)
	i := mocks.NewIdentityRemover(t)
	a.On("Authenticate", mock.Anything).Return(uuid.Nil, model.ErrUnauthenticated).Once()
	a.On("Authenticate", mock.Anything).Return(uid, nil)
	p.On("Purge", mock.Anything, uid).Return(errors.New("boom")).Once()
	p.On("Purge", mock.Anything, uid).Return(nil)
	f.On("Erase", mock.Anything, uid).Return(model.Advisory{Step: "files"})
	i.On("Erase", mock.Anything, uid).Return(nil)

	rec := &outcomeRecorder{}
	e := NewEraser(a, p, f, i, rec, testutil.MakeNoopLogger())
	for n := 0; n < 3; n++ {
		_, _ = e.DeleteAccount(context.Background())
	}

	assert.Equal(t, []string{model.OutcomeUnauthenticated, model.OutcomeInternal, model.OutcomeSuccess}, rec.outcomes)
}

func TestEraser_StorageFailureLoggedOnce(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	cm := mocks.NewContextManager(t)
	cm.On("GetUserIDFromContext", mock.Anything).Return(uid, true)

	store := testutil.NewMemoryStore()
	store.AddUser(uid)
	storage := testutil.NewMemoryStorage()
	storage.DeleteErr = errors.New("permission denied")

	out := &bytes.Buffer{}
	lg := logger.New(int(slog.LevelInfo), logger.FormatJSON, out)
	rec := &outcomeRecorder{}
	e := NewEraser(
		NewAuthGate(cm),
		NewRecordPurger(store, model.MaxWriteGroupSize, rec, lg),
		NewFileEraser(storage, rec, lg),
		NewIdentityEraser(testutil.NewMemoryIdentities(uid), lg),
		rec,
		lg,
	)

	_, err := e.DeleteAccount(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rec.warnings)
	assert.Equal(t, 1, strings.Count(out.String(), "permission denied"))
	assert.NotContains(t, out.String(), "continuing without storage cleanup")
}
