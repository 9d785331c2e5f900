package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-hub/internal/domain/experience"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
)

func seedUser(t *testing.T, s *Store, email string) (*user.User, *profile.Profile) {
	t.Helper()
	u := user.New(email, "hash")
	p := profile.New(u.ID)
	require.NoError(t, s.Users().CreateWithProfile(context.Background(), u, p))
	return u, p
}

func TestCreateWithProfile_UniqueEmail(t *testing.T) {
	s := NewStore()
	seedUser(t, s, "a@x.com")

	u := user.New("a@x.com", "hash")
	err := s.Users().CreateWithProfile(context.Background(), u, profile.New(u.ID))

	assert.ErrorIs(t, err, apperror.ErrConflict)
	_, err = s.Users().FindByID(context.Background(), u.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestProfile_OnePerUser(t *testing.T) {
	s := NewStore()
	u, _ := seedUser(t, s, "a@x.com")

	err := s.Profiles().Create(context.Background(), profile.New(u.ID))
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestProfile_HandleUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, alice := seedUser(t, s, "a@x.com")
	_, bob := seedUser(t, s, "b@x.com")

	h := "Alice"
	alice.Handle = &h
	require.NoError(t, s.Profiles().Update(ctx, alice))

	lower := "alice"
	bob.Handle = &lower
	assert.ErrorIs(t, s.Profiles().Update(ctx, bob), apperror.ErrConflict)

	found, err := s.Profiles().FindByHandle(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)
	assert.Equal(t, "Alice", *found.Handle)
}

func TestDeleteUser_Cascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u, p := seedUser(t, s, "a@x.com")

	e := &experience.Experience{ID: uuid.New(), ProfileID: p.ID, Title: "t", CompanyName: "c", StartDate: time.Now()}
	require.NoError(t, s.Experiences().Save(ctx, e))

	require.NoError(t, s.DeleteUser(ctx, u.ID))

	_, err := s.Profiles().FindByUserID(ctx, u.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = s.Experiences().FindByID(ctx, e.ID, p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestExperience_ScopedByProfile(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, alice := seedUser(t, s, "a@x.com")
	_, bob := seedUser(t, s, "b@x.com")

	e := &experience.Experience{ID: uuid.New(), ProfileID: alice.ID, Title: "t", CompanyName: "c", StartDate: time.Now()}
	require.NoError(t, s.Experiences().Save(ctx, e))

	_, err := s.Experiences().FindByID(ctx, e.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = s.Experiences().Delete(ctx, e.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	deleted, err := s.Experiences().Delete(ctx, e.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, deleted.ID)
}

func TestExperience_ListOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, p := seedUser(t, s, "a@x.com")

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &experience.Experience{ID: uuid.New(), ProfileID: p.ID, StartDate: base, CreatedAt: base}
	newer := &experience.Experience{ID: uuid.New(), ProfileID: p.ID, StartDate: base.AddDate(1, 0, 0), CreatedAt: base}
	sameStartLater := &experience.Experience{ID: uuid.New(), ProfileID: p.ID, StartDate: base, CreatedAt: base.Add(time.Hour)}
	for _, e := range []*experience.Experience{older, newer, sameStartLater} {
		require.NoError(t, s.Experiences().Save(ctx, e))
	}

	items, err := s.Experiences().ListByProfile(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, newer.ID, items[0].ID)
	assert.Equal(t, sameStartLater.ID, items[1].ID)
	assert.Equal(t, older.ID, items[2].ID)
}
