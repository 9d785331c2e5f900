package education

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-hub/adapters/cache"
	"github.com/khoahotran/profile-hub/adapters/persistence/memory"
	"github.com/khoahotran/profile-hub/internal/domain/education"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/logger"
	"github.com/khoahotran/profile-hub/pkg/nullable"
)

func setup(t *testing.T) (*EducationUseCase, uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	profiles := make([]uuid.UUID, 0, 2)
	for _, email := range []string{"a@x.com", "b@x.com"} {
		u := user.New(email, "hash")
		p := profile.New(u.ID)
		require.NoError(t, store.Users().CreateWithProfile(ctx, u, p))
		profiles = append(profiles, p.ID)
	}

	uc := NewEducationUseCase(store.Education(), cache.NewNoopProfileCache(), logger.NewNopLogger())
	return uc, profiles[0], profiles[1]
}

func createMIT(t *testing.T, uc *EducationUseCase, profileID uuid.UUID, start time.Time) *education.Education {
	t.Helper()
	item, err := uc.CreateEducation(context.Background(), CreateEducationInput{
		ProfileID:       profileID,
		InstitutionName: "MIT",
		Degree:          "BSc",
		StartDate:       start,
	})
	require.NoError(t, err)
	return item
}

func TestEducationUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	uc, alice, _ := setup(t)

	item := createMIT(t, uc, alice, time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC))

	got, err := uc.GetEducation(ctx, item.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "MIT", got.InstitutionName)

	field := "Physics"
	updated, err := uc.UpdateEducation(ctx, UpdateEducationInput{
		EducationID: item.ID,
		ProfileID:   alice,
		Patch:       education.Patch{FieldOfStudy: nullable.Of(field)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Physics", *updated.FieldOfStudy)
	assert.Equal(t, "BSc", updated.Degree)

	deleted, err := uc.DeleteEducation(ctx, item.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, item.ID, deleted.ID)

	_, err = uc.GetEducation(ctx, item.ID, alice)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEducationUseCase_CrossProfile(t *testing.T) {
	ctx := context.Background()
	uc, alice, bob := setup(t)
	item := createMIT(t, uc, alice, time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC))

	_, err := uc.GetEducation(ctx, item.ID, bob)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.UpdateEducation(ctx, UpdateEducationInput{EducationID: item.ID, ProfileID: bob})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.DeleteEducation(ctx, item.ID, bob)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEducationUseCase_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	uc, alice, _ := setup(t)
	bachelor := createMIT(t, uc, alice, time.Date(2011, 9, 1, 0, 0, 0, 0, time.UTC))
	master := createMIT(t, uc, alice, time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC))

	items, err := uc.ListEducation(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, master.ID, items[0].ID)
	assert.Equal(t, bachelor.ID, items[1].ID)
}

func TestEducationUseCase_CreateRequiresDegree(t *testing.T) {
	uc, alice, _ := setup(t)

	_, err := uc.CreateEducation(context.Background(), CreateEducationInput{
		ProfileID:       alice,
		InstitutionName: "MIT",
		StartDate:       time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}
