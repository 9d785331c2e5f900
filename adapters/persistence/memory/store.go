// Package memory is an in-process implementation of the repositories. It
// enforces the same uniqueness and cascade rules as the Postgres schema and is
// selected with db.driver=memory.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/profile-hub/internal/domain/education"
	"github.com/khoahotran/profile-hub/internal/domain/experience"
	"github.com/khoahotran/profile-hub/internal/domain/profile"
	"github.com/khoahotran/profile-hub/internal/domain/user"
	"github.com/khoahotran/profile-hub/pkg/apperror"
)

type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]user.User
	profiles    map[uuid.UUID]profile.Profile
	experiences map[uuid.UUID]experience.Experience
	education   map[uuid.UUID]education.Education
}

func NewStore() *Store {
	return &Store{
		users:       make(map[uuid.UUID]user.User),
		profiles:    make(map[uuid.UUID]profile.Profile),
		experiences: make(map[uuid.UUID]experience.Experience),
		education:   make(map[uuid.UUID]education.Education),
	}
}

func (s *Store) Users() user.Repository             { return &userRepo{s} }
func (s *Store) Profiles() profile.Repository       { return &profileRepo{s} }
func (s *Store) Experiences() experience.Repository { return &experienceRepo{s} }
func (s *Store) Education() education.Repository    { return &educationRepo{s} }

// DeleteUser removes a user together with its profile and collections, the
// way ON DELETE CASCADE does.
func (s *Store) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return apperror.NewNotFound("user", id.String())
	}
	delete(s.users, id)
	for pid, p := range s.profiles {
		if p.UserID != id {
			continue
		}
		delete(s.profiles, pid)
		for eid, e := range s.experiences {
			if e.ProfileID == pid {
				delete(s.experiences, eid)
			}
		}
		for eid, e := range s.education {
			if e.ProfileID == pid {
				delete(s.education, eid)
			}
		}
	}
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) CreateWithProfile(_ context.Context, u *user.User, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return apperror.NewConflict("user", "email", u.Email)
		}
	}
	if err := r.s.checkProfileUnique(p); err != nil {
		return err
	}
	r.s.users[u.ID] = *u
	r.s.profiles[p.ID] = copyProfile(p)
	return nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user", id.String())
	}
	return &u, nil
}

type profileRepo struct{ s *Store }

// checkProfileUnique must be called with the write lock held.
func (s *Store) checkProfileUnique(p *profile.Profile) error {
	for _, existing := range s.profiles {
		if existing.ID == p.ID {
			continue
		}
		if existing.UserID == p.UserID {
			return apperror.NewConflict("profile", "user_id", p.UserID.String())
		}
		if p.Handle != nil && existing.Handle != nil &&
			profile.HandleKey(*existing.Handle) == profile.HandleKey(*p.Handle) {
			return apperror.NewConflict("profile", "handle", *p.Handle)
		}
	}
	return nil
}

func copyProfile(p *profile.Profile) profile.Profile {
	c := *p
	c.Experiences = nil
	c.EducationHistory = nil
	return c
}

func (r *profileRepo) out(p profile.Profile) *profile.Profile {
	p.Experiences = []*experience.Experience{}
	p.EducationHistory = []*education.Education{}
	return &p
}

func (r *profileRepo) Create(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[p.UserID]; !ok {
		return apperror.NewNotFound("user", p.UserID.String())
	}
	if err := r.s.checkProfileUnique(p); err != nil {
		return err
	}
	r.s.profiles[p.ID] = copyProfile(p)
	return nil
}

func (r *profileRepo) Update(_ context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.profiles[p.ID]
	if !ok {
		return apperror.NewNotFound("profile", p.ID.String())
	}
	if err := r.s.checkProfileUnique(p); err != nil {
		return err
	}
	updated := copyProfile(p)
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	r.s.profiles[p.ID] = updated
	return nil
}

func (r *profileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.profiles {
		if p.UserID == userID {
			return r.out(p), nil
		}
	}
	return nil, apperror.NewNotFound("profile", userID.String())
}

func (r *profileRepo) FindByHandle(_ context.Context, handle string) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	key := profile.HandleKey(handle)
	for _, p := range r.s.profiles {
		if p.Handle != nil && profile.HandleKey(*p.Handle) == key {
			return r.out(p), nil
		}
	}
	return nil, apperror.NewNotFound("profile", handle)
}

type experienceRepo struct{ s *Store }

func copyExperience(e experience.Experience) *experience.Experience {
	e.SkillsUsed = slices.Clone(e.SkillsUsed)
	if e.SkillsUsed == nil {
		e.SkillsUsed = []string{}
	}
	return &e
}

func (r *experienceRepo) Save(_ context.Context, e *experience.Experience) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[e.ProfileID]; !ok {
		return apperror.NewNotFound("profile", e.ProfileID.String())
	}
	r.s.experiences[e.ID] = *copyExperience(*e)
	return nil
}

func (r *experienceRepo) Update(_ context.Context, e *experience.Experience) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.experiences[e.ID]
	if !ok || existing.ProfileID != e.ProfileID {
		return apperror.NewNotFound("experience", e.ID.String())
	}
	updated := *copyExperience(*e)
	updated.CreatedAt = existing.CreatedAt
	r.s.experiences[e.ID] = updated
	return nil
}

func (r *experienceRepo) Delete(_ context.Context, id uuid.UUID, profileID uuid.UUID) (*experience.Experience, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.experiences[id]
	if !ok || existing.ProfileID != profileID {
		return nil, apperror.NewNotFound("experience", id.String())
	}
	delete(r.s.experiences, id)
	return copyExperience(existing), nil
}

func (r *experienceRepo) FindByID(_ context.Context, id uuid.UUID, profileID uuid.UUID) (*experience.Experience, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	existing, ok := r.s.experiences[id]
	if !ok || existing.ProfileID != profileID {
		return nil, apperror.NewNotFound("experience", id.String())
	}
	return copyExperience(existing), nil
}

func (r *experienceRepo) ListByProfile(_ context.Context, profileID uuid.UUID) ([]*experience.Experience, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]*experience.Experience, 0)
	for _, e := range r.s.experiences {
		if e.ProfileID == profileID {
			items = append(items, copyExperience(e))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].StartDate, items[i].CreatedAt, items[j].StartDate, items[j].CreatedAt)
	})
	return items, nil
}

type educationRepo struct{ s *Store }

func (r *educationRepo) Save(_ context.Context, e *education.Education) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[e.ProfileID]; !ok {
		return apperror.NewNotFound("profile", e.ProfileID.String())
	}
	r.s.education[e.ID] = *e
	return nil
}

func (r *educationRepo) Update(_ context.Context, e *education.Education) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.education[e.ID]
	if !ok || existing.ProfileID != e.ProfileID {
		return apperror.NewNotFound("education", e.ID.String())
	}
	updated := *e
	updated.CreatedAt = existing.CreatedAt
	r.s.education[e.ID] = updated
	return nil
}

func (r *educationRepo) Delete(_ context.Context, id uuid.UUID, profileID uuid.UUID) (*education.Education, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.education[id]
	if !ok || existing.ProfileID != profileID {
		return nil, apperror.NewNotFound("education", id.String())
	}
	delete(r.s.education, id)
	return &existing, nil
}

func (r *educationRepo) FindByID(_ context.Context, id uuid.UUID, profileID uuid.UUID) (*education.Education, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	existing, ok := r.s.education[id]
	if !ok || existing.ProfileID != profileID {
		return nil, apperror.NewNotFound("education", id.String())
	}
	return &existing, nil
}

func (r *educationRepo) ListByProfile(_ context.Context, profileID uuid.UUID) ([]*education.Education, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]*education.Education, 0)
	for _, e := range r.s.education {
		if e.ProfileID == profileID {
			item := e
			items = append(items, &item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].StartDate, items[i].CreatedAt, items[j].StartDate, items[j].CreatedAt)
	})
	return items, nil
}

// newerFirst mirrors ORDER BY start_date DESC, created_at DESC.
func newerFirst(startA, createdA, startB, createdB time.Time) bool {
	if !startA.Equal(startB) {
		return startA.After(startB)
	}
	return createdA.After(createdB)
}
