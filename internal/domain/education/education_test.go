package education

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/nullable"
)

func TestApply(t *testing.T) {
	field := "Computer Science"
	e := &Education{
		InstitutionName: "MIT",
		Degree:          "BSc",
		FieldOfStudy:    &field,
		StartDate:       time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("partial", func(t *testing.T) {
		require.NoError(t, e.Apply(Patch{Degree: nullable.Of(" MSc ")}))
		assert.Equal(t, "MSc", e.Degree)
		assert.Equal(t, "MIT", e.InstitutionName)
		assert.Equal(t, "Computer Science", *e.FieldOfStudy)
	})

	t.Run("clear optional", func(t *testing.T) {
		require.NoError(t, e.Apply(Patch{FieldOfStudy: nullable.Null[string]()}))
		assert.Nil(t, e.FieldOfStudy)
	})

	t.Run("null required", func(t *testing.T) {
		err := e.Apply(Patch{Degree: nullable.Null[string]()})

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Contains(t, appErr.Fields, "degree")
		assert.Equal(t, "MSc", e.Degree)
	})

	t.Run("blank required", func(t *testing.T) {
		err := e.Apply(Patch{InstitutionName: nullable.Of("   ")})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestValidate_DateOrder(t *testing.T) {
	start := time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)
	e := &Education{InstitutionName: "MIT", Degree: "BSc", StartDate: start, EndDate: &before}

	var appErr *apperror.AppError
	require.True(t, errors.As(e.Validate(), &appErr))
	assert.Contains(t, appErr.Fields, "end_date")
}
