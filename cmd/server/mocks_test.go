package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/home-digital/cloudee/internal/models"
	"github.com/home-digital/cloudee/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockNextcloudClient implements services.NextcloudClient for testing
type MockNextcloudClient struct {
	mock.Mock
}

func ocsResult(args mock.Arguments) (*services.OCSResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OCSResponse), args.Error(1)
}

func (m *MockNextcloudClient) ListUsers(ctx context.Context) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx))
}

func (m *MockNextcloudClient) GetUser(ctx context.Context, userID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, userID))
}

func (m *MockNextcloudClient) CreateUser(ctx context.Context, user models.NextcloudUser) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, user))
}

func (m *MockNextcloudClient) UpdateUser(ctx context.Context, update models.UserUpdate) ([]*services.OCSResponse, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*services.OCSResponse), args.Error(1)
}

func (m *MockNextcloudClient) DeleteUser(ctx context.Context, userID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, userID))
}

func (m *MockNextcloudClient) EnableUser(ctx context.Context, userID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, userID))
}

func (m *MockNextcloudClient) DisableUser(ctx context.Context, userID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, userID))
}

func (m *MockNextcloudClient) GetUserGroups(ctx context.Context, userID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, userID))
}

func (m *MockNextcloudClient) AddUserToGroup(ctx context.Context, userID, groupID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, userID, groupID))
}

func (m *MockNextcloudClient) RemoveUserFromGroup(ctx context.Context, userID, groupID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, userID, groupID))
}

func (m *MockNextcloudClient) CreateGroup(ctx context.Context, groupID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, groupID))
}

func (m *MockNextcloudClient) DeleteGroup(ctx context.Context, groupID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, groupID))
}

func (m *MockNextcloudClient) PromoteToSubAdmin(ctx context.Context, userID, groupID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, userID, groupID))
}

func (m *MockNextcloudClient) DemoteFromSubAdmin(ctx context.Context, userID, groupID string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, userID, groupID))
}

func (m *MockNextcloudClient) CreateShare(ctx context.Context, path string, shareType int, shareWith string) (*services.OCSResponse, error) {
	return ocsResult(m.Called(ctx, path, shareType, shareWith))
}

// MockWebdavClient implements services.WebdavClient for testing
type MockWebdavClient struct {
	mock.Mock
}

func (m *MockWebdavClient) List(ctx context.Context, dir string, recursive bool) ([]models.Entry, error) {
	args := m.Called(ctx, dir, recursive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Entry), args.Error(1)
}

func (m *MockWebdavClient) Stat(ctx context.Context, filePath string) (models.Entry, error) {
	args := m.Called(ctx, filePath)
	return args.Get(0).(models.Entry), args.Error(1)
}

func (m *MockWebdavClient) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockWebdavClient) CreateFolder(ctx context.Context, dir string) error {
	args := m.Called(ctx, dir)
	return args.Error(0)
}

func (m *MockWebdavClient) DeleteFolder(ctx context.Context, dir string) error {
	args := m.Called(ctx, dir)
	return args.Error(0)
}

func (m *MockWebdavClient) FolderExists(ctx context.Context, dir string) (bool, error) {
	args := m.Called(ctx, dir)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebdavClient) Resolve(p string) string {
	args := m.Called(p)
	return args.String(0)
}

// MockArchiveClient implements services.ArchiveClient for testing
type MockArchiveClient struct {
	mock.Mock
}

func (m *MockArchiveClient) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockArchiveClient) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (services.ArchivedObject, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Get(0).(services.ArchivedObject), args.Error(1)
}

// MockClientFactory implements services.ClientFactory for testing
type MockClientFactory struct {
	mock.Mock
}

func (m *MockClientFactory) NewNextcloudClient() (services.NextcloudClient, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(services.NextcloudClient), args.Error(1)
}

func (m *MockClientFactory) NewWebdavClient() (services.WebdavClient, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(services.WebdavClient), args.Error(1)
}

func (m *MockClientFactory) NewArchiveClient() (services.ArchiveClient, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(services.ArchiveClient), args.Error(1)
}

// okOCS builds a successful OCS envelope around data
func okOCS(data any) *services.OCSResponse {
	resp := &services.OCSResponse{}
	resp.OCS.Meta = services.OCSMeta{Status: "ok", StatusCode: 200, Message: "OK"}
	if data != nil {
		raw, _ := json.Marshal(data)
		resp.OCS.Data = raw
	}
	return resp
}

// failedOCS builds an OCS envelope Nextcloud uses to reject a call
func failedOCS(code int, message string) *services.OCSResponse {
	resp := &services.OCSResponse{}
	resp.OCS.Meta = services.OCSMeta{Status: "failure", StatusCode: code, Message: message}
	return resp
}
