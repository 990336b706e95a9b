package services

import (
	"context"
	"io"

	"github.com/home-digital/cloudee/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockNextcloud struct {
	mock.Mock
}

func (m *mockNextcloud) resp(args mock.Arguments) (*OCSResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OCSResponse), args.Error(1)
}

func (m *mockNextcloud) ListUsers(ctx context.Context) (*OCSResponse, error) {
	return m.resp(m.Called(ctx))
}

func (m *mockNextcloud) GetUser(ctx context.Context, userID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, userID))
}

func (m *mockNextcloud) CreateUser(ctx context.Context, user models.NextcloudUser) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, user))
}

func (m *mockNextcloud) UpdateUser(ctx context.Context, update models.UserUpdate) ([]*OCSResponse, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*OCSResponse), args.Error(1)
}

func (m *mockNextcloud) DeleteUser(ctx context.Context, userID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, userID))
}

func (m *mockNextcloud) EnableUser(ctx context.Context, userID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, userID))
}

func (m *mockNextcloud) DisableUser(ctx context.Context, userID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, userID))
}

func (m *mockNextcloud) GetUserGroups(ctx context.Context, userID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, userID))
}

func (m *mockNextcloud) AddUserToGroup(ctx context.Context, userID, groupID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, userID, groupID))
}

func (m *mockNextcloud) RemoveUserFromGroup(ctx context.Context, userID, groupID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, userID, groupID))
}

func (m *mockNextcloud) CreateGroup(ctx context.Context, groupID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, groupID))
}

func (m *mockNextcloud) DeleteGroup(ctx context.Context, groupID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, groupID))
}

func (m *mockNextcloud) PromoteToSubAdmin(ctx context.Context, userID, groupID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, userID, groupID))
}

func (m *mockNextcloud) DemoteFromSubAdmin(ctx context.Context, userID, groupID string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, userID, groupID))
}

func (m *mockNextcloud) CreateShare(ctx context.Context, path string, shareType int, shareWith string) (*OCSResponse, error) {
	return m.resp(m.Called(ctx, path, shareType, shareWith))
}

type mockWebdav struct {
	mock.Mock
}

func (m *mockWebdav) List(ctx context.Context, dir string, recursive bool) ([]models.Entry, error) {
	args := m.Called(ctx, dir, recursive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Entry), args.Error(1)
}

func (m *mockWebdav) Stat(ctx context.Context, filePath string) (models.Entry, error) {
	args := m.Called(ctx, filePath)
	return args.Get(0).(models.Entry), args.Error(1)
}

func (m *mockWebdav) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockWebdav) CreateFolder(ctx context.Context, dir string) error {
	return m.Called(ctx, dir).Error(0)
}

func (m *mockWebdav) DeleteFolder(ctx context.Context, dir string) error {
	return m.Called(ctx, dir).Error(0)
}

func (m *mockWebdav) FolderExists(ctx context.Context, dir string) (bool, error) {
	args := m.Called(ctx, dir)
	return args.Bool(0), args.Error(1)
}

func (m *mockWebdav) Resolve(p string) string {
	return m.Called(p).String(0)
}
