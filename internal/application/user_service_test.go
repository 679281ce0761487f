package application_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquelhas/taskquest/internal/application"
	"github.com/dquelhas/taskquest/internal/domain/entity"
	"github.com/dquelhas/taskquest/internal/domain/repository"
)

type stubUserRepo struct {
	seq       int
	byID      map[string]*entity.User
	byEmail   map[string]*entity.User
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*entity.User), byEmail: make(map[string]*entity.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	clone := *u
	r.byID[u.ID] = &clone
	r.byEmail[u.Email] = &clone
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newUserService(repo *stubUserRepo) *application.UserService {
	return application.NewUserService(repo, nil, nil, nil, testLogger())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ana@example.com", "password123")
	assert.ErrorIs(t, err, application.ErrEmailTaken)
}

// Two concurrent registrations can both pass the pre-check; the loser then
// hits the email UNIQUE constraint and must still see the duplicate
// outcome, not a server error.
func TestRegisterRacingDuplicateMapsConstraint(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	svc := newUserService(repo)

	_, err := svc.Register(context.Background(), "ana@example.com", "password123")
	assert.ErrorIs(t, err, application.ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	u, err := svc.Register(ctx, "ana@example.com", "password123")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "ana@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ana@example.com", "wrongpassword")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)
}
