package profile

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/profile-hub/pkg/apperror"
	"github.com/khoahotran/profile-hub/pkg/nullable"
)

func TestNew(t *testing.T) {
	userID := uuid.New()
	p := New(userID)

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, userID, p.UserID)
	assert.Nil(t, p.Handle)
	assert.NotNil(t, p.Experiences)
	assert.NotNil(t, p.EducationHistory)
}

func TestApply_Partial(t *testing.T) {
	p := New(uuid.New())
	bio := "hello"
	p.Bio = &bio

	require.NoError(t, p.Apply(Patch{Handle: nullable.Of("Alice")}))

	assert.Equal(t, "Alice", *p.Handle)
	assert.Equal(t, "hello", *p.Bio)
}

func TestApply_NullAndBlankClear(t *testing.T) {
	p := New(uuid.New())
	h, bio := "alice", "hello"
	p.Handle, p.Bio = &h, &bio

	require.NoError(t, p.Apply(Patch{Handle: nullable.Null[string](), Bio: nullable.Of("  ")}))

	assert.Nil(t, p.Handle)
	assert.Nil(t, p.Bio)
}

func TestValidate_Handle(t *testing.T) {
	tests := []struct {
		handle string
		valid  bool
	}{
		{"alice", true},
		{"Alice.Smith_99", true},
		{"a-b", true},
		{"ab", false},
		{"_alice", false},
		{"alice smith", false},
		{"al!ce", false},
		{"a234567890123456789012345678901", false},
	}

	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			p := New(uuid.New())
			err := p.Apply(Patch{Handle: nullable.Of(tt.handle)})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperror.ErrInvalidInput)
			}
		})
	}
}

func TestValidate_URLs(t *testing.T) {
	p := New(uuid.New())

	err := p.Apply(Patch{
		GithubURL:   nullable.Of("ftp://github.com/alice"),
		WebsiteURL:  nullable.Of("https://alice.dev"),
		LinkedinURL: nullable.Of("javascript:alert(1)"),
	})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "github_url")
	assert.Contains(t, appErr.Fields, "linkedin_url")
	assert.NotContains(t, appErr.Fields, "website_url")
}

func TestApply_SchemelessURLsGetHTTPS(t *testing.T) {
	p := New(uuid.New())

	err := p.Apply(Patch{
		LinkedinURL: nullable.Of(" linkedin.com/in/alice "),
		GithubURL:   nullable.Of("http://github.com/alice"),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://linkedin.com/in/alice", *p.LinkedinURL)
	assert.Equal(t, "http://github.com/alice", *p.GithubURL)

	err = p.Apply(Patch{WebsiteURL: nullable.Of("not a url")})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "website_url")
}

func TestHandleKey(t *testing.T) {
	assert.Equal(t, HandleKey("alice"), HandleKey("ALICE"))
}
