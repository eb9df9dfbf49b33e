package db

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain/authz"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type roleRepoMock struct {
	mock.Mock
	repo.RoleRepository
}

func (m *roleRepoMock) EnsurePermission(ctx context.Context, key, label string) error {
	return m.Called(ctx, key, label).Error(0)
}

type adminRepoMock struct {
	mock.Mock
	repo.AdminUserRepository
	created *model.AdminUser
}

func (m *adminRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *adminRepoMock) Create(ctx context.Context, u *model.AdminUser) error {
	m.created = u
	return m.Called(ctx, u).Error(0)
}

func TestSeed_CreatesSuperAdminOnce(t *testing.T) {
	roles := new(roleRepoMock)
	admins := new(adminRepoMock)
	ctx := context.Background()

	roles.On("EnsurePermission", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	admins.On("Count", mock.Anything).Return(int64(0), nil).Once()
	admins.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	require.NoError(t, Seed(ctx, roles, admins, "admin123"))
	roles.AssertNumberOfCalls(t, "EnsurePermission", len(authz.Defaults))
	roles.AssertCalled(t, "EnsurePermission", mock.Anything, "manage_orders", "Manage Orders")

	require.NotNil(t, admins.created)
	assert.Equal(t, DefaultAdminUsername, admins.created.Username)
	assert.True(t, admins.created.IsSuperAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins.created.PasswordHash), []byte("admin123")))

	// 2回目は管理者を作らない
	admins.On("Count", mock.Anything).Return(int64(1), nil).Once()
	require.NoError(t, Seed(ctx, roles, admins, "admin123"))
	admins.AssertNumberOfCalls(t, "Create", 1)
}

func TestSeed_PermissionError(t *testing.T) {
	roles := new(roleRepoMock)
	admins := new(adminRepoMock)

	roles.On("EnsurePermission", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("boom"))

	err := Seed(context.Background(), roles, admins, "admin123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed permission view_dashboard")
	admins.AssertNotCalled(t, "Count", mock.Anything)
}
