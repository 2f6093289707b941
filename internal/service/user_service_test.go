package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/university-api/internal/models"
)

type mockUserRepo struct {
	user    *models.User
	created *models.User
	updated *models.User
	deleted string
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	if m.user == nil {
		return nil, 0, nil
	}
	return []models.User{*m.user}, 1, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.user == nil || m.user.Username != username {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.created = user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.updated = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, username string) error {
	m.deleted = username
	return nil
}

func newUserTestService(repo *mockUserRepo) *UserService {
	return NewUserService(repo, validator.New(), zap.NewNop())
}

func TestUserCreateHashesPassword(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserTestService(repo)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "jsmith",
		FullName: "John Smith",
		Role:     models.RoleFaculty,
		Active:   true,
		Password: "faculty123",
	})
	require.NoError(t, err)

	assert.Equal(t, "jsmith", user.Username)
	require.NotNil(t, repo.created)
	assert.NotEqual(t, "faculty123", repo.created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("faculty123")))
}

func TestUserCreateRejectsDuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{user: &models.User{Username: "jsmith"}}
	svc := newUserTestService(repo)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "jsmith",
		FullName: "John Smith",
		Role:     models.RoleFaculty,
		Password: "faculty123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username already exists")
	assert.Nil(t, repo.created)
}

func TestUserCreateRejectsInvalidRole(t *testing.T) {
	svc := newUserTestService(&mockUserRepo{})

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "jsmith",
		FullName: "John Smith",
		Role:     models.UserRole("SUPERUSER"),
		Password: "faculty123",
	})
	require.Error(t, err)
}

func TestUserCreateTrimsUsername(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserTestService(repo)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "  jsmith  ",
		FullName: "John Smith",
		Role:     models.RoleStudent,
		Password: "student123",
	})
	require.NoError(t, err)
	assert.Equal(t, "jsmith", user.Username)
}

func TestUserUpdate(t *testing.T) {
	active := false
	repo := &mockUserRepo{user: &models.User{
		Username: "jsmith",
		FullName: "John Smith",
		Role:     models.RoleFaculty,
		Active:   true,
	}}
	svc := newUserTestService(repo)

	user, err := svc.Update(context.Background(), "jsmith", UpdateUserRequest{
		FullName: "John A. Smith",
		Role:     models.RoleAdminStaff,
		Active:   &active,
	})
	require.NoError(t, err)

	assert.Equal(t, "John A. Smith", user.FullName)
	assert.Equal(t, models.RoleAdminStaff, user.Role)
	assert.False(t, user.Active)
	require.NotNil(t, repo.updated)
}

func TestUserUpdateNotFound(t *testing.T) {
	svc := newUserTestService(&mockUserRepo{})

	_, err := svc.Update(context.Background(), "ghost", UpdateUserRequest{
		FullName: "Nobody",
		Role:     models.RoleStudent,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

func TestUserDelete(t *testing.T) {
	repo := &mockUserRepo{user: &models.User{Username: "jsmith"}}
	svc := newUserTestService(repo)

	require.NoError(t, svc.Delete(context.Background(), "jsmith"))
	assert.Equal(t, "jsmith", repo.deleted)

	err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}
