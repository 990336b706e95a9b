package handlers

import (
	"net/http"

	"github.com/home-digital/cloudee/internal/logging"
	"github.com/home-digital/cloudee/internal/models"
	"github.com/home-digital/cloudee/internal/services"
	"github.com/labstack/echo/v4"
)

type UsersHandler struct {
	factory services.ClientFactory
}

func NewUsersHandler(factory services.ClientFactory) *UsersHandler {
	return &UsersHandler{factory: factory}
}

type createUserRequest struct {
	Username    string `json:"username" form:"username"`
	Password    string `json:"password" form:"password"`
	DisplayName string `json:"displayName" form:"displayName"`
	Email       string `json:"email" form:"email"`
	Language    string `json:"language" form:"language"`
}

type updateUserRequest struct {
	UserID      string `json:"userid" form:"userid"`
	Password    string `json:"password" form:"password"`
	DisplayName string `json:"displayName" form:"displayName"`
	Email       string `json:"email" form:"email"`
}

type renameUserRequest struct {
	UserID    string `json:"userid" form:"userid"`
	NewUserID string `json:"newUserid" form:"newUserid"`
	Password  string `json:"password" form:"password"`
}

func (h *UsersHandler) client() (services.NextcloudClient, error) {
	nc, err := h.factory.NewNextcloudClient()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to connect to Nextcloud").SetInternal(err)
	}
	return nc, nil
}

// ListUsers returns the OCS user list
func (h *UsersHandler) ListUsers(c echo.Context) error {
	nc, err := h.client()
	if err != nil {
		return err
	}

	resp, err := nc.ListUsers(c.Request().Context())
	if err != nil {
		return RemoteError(err, "Failed to list users")
	}
	return relay(c, resp)
}

// CreateUser creates a Nextcloud account
func (h *UsersHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("username", req.Username, "password", req.Password); err != nil {
		return err
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}

	nc, err := h.client()
	if err != nil {
		return err
	}

	resp, err := nc.CreateUser(c.Request().Context(), models.NextcloudUser{
		UserID:      req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Language:    req.Language,
	})
	if err != nil {
		return RemoteError(err, "Failed to create user")
	}

	if resp.OK() {
		audit(c, "user created", logging.String("user", req.Username))
	}
	return relay(c, resp)
}

// GetUser returns one account
func (h *UsersHandler) GetUser(c echo.Context) error {
	nc, err := h.client()
	if err != nil {
		return err
	}

	resp, err := nc.GetUser(c.Request().Context(), c.Param("userid"))
	if err != nil {
		return RemoteError(err, "Failed to get user")
	}
	return relay(c, resp)
}

// UpdateUser changes password, display name and email. Every changed field
// is a separate OCS call, all responses are returned in order.
func (h *UsersHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("userid", req.UserID); err != nil {
		return err
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}

	nc, err := h.client()
	if err != nil {
		return err
	}

	responses, err := nc.UpdateUser(c.Request().Context(), models.UserUpdate{
		UserID:      req.UserID,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	})
	if err != nil {
		return RemoteError(err, "Failed to update user")
	}

	audit(c, "user updated", logging.String("user", req.UserID), logging.Int("fields", len(responses)))
	return c.JSON(http.StatusOK, responses)
}

// DeleteUser removes an account
func (h *UsersHandler) DeleteUser(c echo.Context) error {
	userID := c.Param("userid")

	nc, err := h.client()
	if err != nil {
		return err
	}

	resp, err := nc.DeleteUser(c.Request().Context(), userID)
	if err != nil {
		return RemoteError(err, "Failed to delete user")
	}

	if resp.OK() {
		audit(c, "user deleted", logging.String("user", userID))
	}
	return relay(c, resp)
}

// EnableUser handles enabling a user account
func (h *UsersHandler) EnableUser(c echo.Context) error {
	nc, err := h.client()
	if err != nil {
		return err
	}

	resp, err := nc.EnableUser(c.Request().Context(), c.Param("userid"))
	if err != nil {
		return RemoteError(err, "Failed to enable user")
	}
	return relay(c, resp)
}

// DisableUser handles disabling a user account
func (h *UsersHandler) DisableUser(c echo.Context) error {
	nc, err := h.client()
	if err != nil {
		return err
	}

	resp, err := nc.DisableUser(c.Request().Context(), c.Param("userid"))
	if err != nil {
		return RemoteError(err, "Failed to disable user")
	}
	return relay(c, resp)
}

// GetUserGroups lists the groups an account belongs to
func (h *UsersHandler) GetUserGroups(c echo.Context) error {
	nc, err := h.client()
	if err != nil {
		return err
	}

	resp, err := nc.GetUserGroups(c.Request().Context(), c.Param("userid"))
	if err != nil {
		return RemoteError(err, "Failed to get user groups")
	}
	return relay(c, resp)
}

// RenameUser moves an account to a new user id
func (h *UsersHandler) RenameUser(c echo.Context) error {
	var req renameUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("userid", req.UserID, "newUserid", req.NewUserID, "password", req.Password); err != nil {
		return err
	}
	if req.UserID == req.NewUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "New user id must differ from the current one")
	}

	nc, err := h.client()
	if err != nil {
		return err
	}

	if err := services.ChangeUserID(c.Request().Context(), nc, req.UserID, req.NewUserID, req.Password); err != nil {
		return RemoteError(err, "Failed to rename user")
	}

	audit(c, "user renamed", logging.String("from", req.UserID), logging.String("to", req.NewUserID))
	return c.JSON(http.StatusOK, map[string]string{"userid": req.NewUserID})
}
