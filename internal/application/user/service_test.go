package user

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/shared/errors"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

type memUserRepo struct {
	users  []*user.User
	nextID uint
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error {
	r.nextID++
	if err := u.SetID(r.nextID); err != nil {
		return err
	}
	r.users = append(r.users, u)
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, usrID uint) (*user.User, error) {
	for _, u := range r.users {
		if u.ID() == usrID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	for _, u := range r.users {
		if u.SID() == sid {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	for _, u := range r.users {
		if u.Username() == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, u *user.User) error { return nil }

// plainHasher makes password flow visible in assertions without bcrypt cost.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return assert.AnError
	}
	return nil
}

type stubTokens struct{}

func (stubTokens) Generate(usr *user.User) (string, int64, error) {
	return "token-for-" + usr.SID(), 900, nil
}

func newTestService() (*Service, *memUserRepo) {
	repo := &memUserRepo{}
	svc := NewService(repo, plainHasher{}, stubTokens{},
		logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return svc, repo
}

func TestService_Register_CreatesReader(t *testing.T) {
	svc, repo := newTestService()

	dto, err := svc.Register(context.Background(), RegisterInput{
		Username: "casualreader", Email: "reader@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, user.RoleReader, dto.Role)
	assert.Zero(t, dto.Coins)
	require.Len(t, repo.users, 1)
	assert.Equal(t, "hashed:hunter2hunter2", repo.users[0].PasswordHash())
}

func TestService_Register_DuplicateUsername(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "casualreader", Email: "a@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "casualreader", Email: "b@example.com", Password: "hunter2hunter2",
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
}

func TestService_Login_IssuesToken(t *testing.T) {
	svc, _ := newTestService()
	registered, err := svc.Register(context.Background(), RegisterInput{
		Username: "casualreader", Email: "reader@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginInput{
		Username: "casualreader", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, "token-for-"+registered.SID, result.Token)
	assert.Equal(t, int64(900), result.ExpiresIn)
}

func TestService_Login_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "casualreader", Email: "reader@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, errUnknown := svc.Login(context.Background(), LoginInput{Username: "nobody", Password: "x"})
	_, errWrong := svc.Login(context.Background(), LoginInput{Username: "casualreader", Password: "x"})

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestService_SetRole_RejectsUnknownRole(t *testing.T) {
	svc, repo := newTestService()
	registered, err := svc.Register(context.Background(), RegisterInput{
		Username: "casualreader", Email: "reader@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.SetRole(context.Background(), registered.SID, "superuser")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	dto, err := svc.SetRole(context.Background(), registered.SID, "pj_user")
	require.NoError(t, err)
	assert.Equal(t, user.RolePJUser, dto.Role)
	assert.Equal(t, user.RolePJUser, repo.users[0].Role())
}
