package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/home-digital/cloudee/internal/metrics"
	"github.com/home-digital/cloudee/internal/models"
)

// ShareTypeGroup is the OCS share type for sharing with a group
const ShareTypeGroup = 1

// OCSMeta is the status block of every OCS response
type OCSMeta struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statuscode"`
	Message    string `json:"message"`
}

// OCSResponse is the envelope returned by the Nextcloud OCS API
type OCSResponse struct {
	OCS struct {
		Meta OCSMeta         `json:"meta"`
		Data json.RawMessage `json:"data"`
	} `json:"ocs"`
}

// OK reports whether Nextcloud accepted the call
func (r *OCSResponse) OK() bool {
	return r != nil && r.OCS.Meta.Status == "ok"
}

// Err converts a non-ok response into an *OCSError
func (r *OCSResponse) Err(operation string) error {
	if r.OK() {
		return nil
	}
	if r == nil {
		return &OCSError{Operation: operation, Message: "empty response"}
	}
	return &OCSError{
		Operation:  operation,
		StatusCode: r.OCS.Meta.StatusCode,
		Message:    r.OCS.Meta.Message,
	}
}

// UserDetails is the subset of the OCS user record we read back
type UserDetails struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayname"`
	Email       string   `json:"email"`
	Language    string   `json:"language"`
	Groups      []string `json:"groups"`
}

// NextcloudClient is an interface for the OCS provisioning and sharing calls we use
type NextcloudClient interface {
	// Users
	ListUsers(ctx context.Context) (*OCSResponse, error)
	GetUser(ctx context.Context, userID string) (*OCSResponse, error)
	CreateUser(ctx context.Context, user models.NextcloudUser) (*OCSResponse, error)
	UpdateUser(ctx context.Context, update models.UserUpdate) ([]*OCSResponse, error)
	DeleteUser(ctx context.Context, userID string) (*OCSResponse, error)
	EnableUser(ctx context.Context, userID string) (*OCSResponse, error)
	DisableUser(ctx context.Context, userID string) (*OCSResponse, error)

	// Groups
	GetUserGroups(ctx context.Context, userID string) (*OCSResponse, error)
	AddUserToGroup(ctx context.Context, userID, groupID string) (*OCSResponse, error)
	RemoveUserFromGroup(ctx context.Context, userID, groupID string) (*OCSResponse, error)
	CreateGroup(ctx context.Context, groupID string) (*OCSResponse, error)
	DeleteGroup(ctx context.Context, groupID string) (*OCSResponse, error)

	// Sub-admins
	PromoteToSubAdmin(ctx context.Context, userID, groupID string) (*OCSResponse, error)
	DemoteFromSubAdmin(ctx context.Context, userID, groupID string) (*OCSResponse, error)

	// Shares
	CreateShare(ctx context.Context, path string, shareType int, shareWith string) (*OCSResponse, error)
}

// ocsClient talks to the OCS API with the admin account from the config
type ocsClient struct {
	httpClient *http.Client
	baseURL    string
	query      string
	user       string
	password   string
}

// newOCSClient builds a client for the instance at baseURL. params is an
// extra query string sent with every call; format=json is always forced.
func newOCSClient(httpClient *http.Client, baseURL, params, user, password string) (*ocsClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid nextcloud url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid nextcloud url %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery, u.Fragment = "", ""

	query, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(params), "?"))
	if err != nil {
		return nil, fmt.Errorf("invalid nextcloud params %q: %w", params, err)
	}
	query.Set("format", "json")

	return &ocsClient{
		httpClient: httpClient,
		baseURL:    u.String(),
		query:      query.Encode(),
		user:       user,
		password:   password,
	}, nil
}

// endpoint builds the URL of an OCS v2 route, escaping every path segment
func (c *ocsClient) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "ocs/v2.php/" + strings.Join(escaped, "/") + "?" + c.query
}

func (c *ocsClient) do(ctx context.Context, operation, method, endpoint string, body any) (*OCSResponse, error) {
	start := time.Now()
	resp, err := c.send(ctx, method, endpoint, body)
	metrics.RecordRemoteCall("nextcloud", operation, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("nextcloud %s: %w", operation, err)
	}
	return resp, nil
}

func (c *ocsClient) send(ctx context.Context, method, endpoint string, body any) (*OCSResponse, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("OCS-APIRequest", "true")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer res.Body.Close()

	var out OCSResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		// Auth failures and proxies answer with HTML or an empty body
		return nil, fmt.Errorf("%w: http status %d: %v", ErrRemoteUnavailable, res.StatusCode, err)
	}
	return &out, nil
}

func (c *ocsClient) ListUsers(ctx context.Context) (*OCSResponse, error) {
	return c.do(ctx, "list_users", http.MethodGet, c.endpoint("cloud", "users"), nil)
}

func (c *ocsClient) GetUser(ctx context.Context, userID string) (*OCSResponse, error) {
	return c.do(ctx, "get_user", http.MethodGet, c.endpoint("cloud", "users", userID), nil)
}

func (c *ocsClient) CreateUser(ctx context.Context, user models.NextcloudUser) (*OCSResponse, error) {
	if user.Language == "" {
		user.Language = models.DefaultLanguage
	}
	return c.do(ctx, "create_user", http.MethodPost, c.endpoint("cloud", "users"), user)
}

// UpdateUser issues one request per changed field, Nextcloud edits a
// single key per call.
func (c *ocsClient) UpdateUser(ctx context.Context, update models.UserUpdate) ([]*OCSResponse, error) {
	fields := []struct{ key, value string }{
		{"password", update.Password},
		{"displayname", update.DisplayName},
		{"email", update.Email},
	}

	responses := make([]*OCSResponse, 0, len(fields))
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		resp, err := c.do(ctx, "update_user", http.MethodPut, c.endpoint("cloud", "users", update.UserID), map[string]string{
			"key":   f.key,
			"value": f.value,
		})
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (c *ocsClient) DeleteUser(ctx context.Context, userID string) (*OCSResponse, error) {
	return c.do(ctx, "delete_user", http.MethodDelete, c.endpoint("cloud", "users", userID), nil)
}

func (c *ocsClient) EnableUser(ctx context.Context, userID string) (*OCSResponse, error) {
	return c.do(ctx, "enable_user", http.MethodPut, c.endpoint("cloud", "users", userID, "enable"), struct{}{})
}

func (c *ocsClient) DisableUser(ctx context.Context, userID string) (*OCSResponse, error) {
	return c.do(ctx, "disable_user", http.MethodPut, c.endpoint("cloud", "users", userID, "disable"), struct{}{})
}

func (c *ocsClient) GetUserGroups(ctx context.Context, userID string) (*OCSResponse, error) {
	return c.do(ctx, "get_user_groups", http.MethodGet, c.endpoint("cloud", "users", userID, "groups"), nil)
}

func (c *ocsClient) AddUserToGroup(ctx context.Context, userID, groupID string) (*OCSResponse, error) {
	return c.do(ctx, "add_user_to_group", http.MethodPost, c.endpoint("cloud", "users", userID, "groups"), map[string]string{
		"groupid": groupID,
	})
}

func (c *ocsClient) RemoveUserFromGroup(ctx context.Context, userID, groupID string) (*OCSResponse, error) {
	return c.do(ctx, "remove_user_from_group", http.MethodDelete, c.endpoint("cloud", "users", userID, "groups"), map[string]string{
		"groupid": groupID,
	})
}

func (c *ocsClient) CreateGroup(ctx context.Context, groupID string) (*OCSResponse, error) {
	return c.do(ctx, "create_group", http.MethodPost, c.endpoint("cloud", "groups"), map[string]string{
		"groupid": groupID,
	})
}

func (c *ocsClient) DeleteGroup(ctx context.Context, groupID string) (*OCSResponse, error) {
	return c.do(ctx, "delete_group", http.MethodDelete, c.endpoint("cloud", "groups", groupID), nil)
}

func (c *ocsClient) PromoteToSubAdmin(ctx context.Context, userID, groupID string) (*OCSResponse, error) {
	return c.do(ctx, "promote_subadmin", http.MethodPost, c.endpoint("cloud", "users", userID, "subadmins"), map[string]string{
		"groupid": groupID,
	})
}

func (c *ocsClient) DemoteFromSubAdmin(ctx context.Context, userID, groupID string) (*OCSResponse, error) {
	return c.do(ctx, "demote_subadmin", http.MethodDelete, c.endpoint("cloud", "users", userID, "subadmins"), map[string]string{
		"groupid": groupID,
	})
}

func (c *ocsClient) CreateShare(ctx context.Context, path string, shareType int, shareWith string) (*OCSResponse, error) {
	return c.do(ctx, "create_share", http.MethodPost, c.endpoint("apps", "files_sharing", "api", "v1", "shares"), map[string]any{
		"path":      path,
		"shareType": shareType,
		"shareWith": shareWith,
	})
}
