package handlers

import (
	"context"
	"net/http"

	"github.com/home-digital/cloudee/internal/logging"
	"github.com/home-digital/cloudee/internal/services"
	"github.com/labstack/echo/v4"
)

type GroupsHandler struct {
	factory services.ClientFactory
}

func NewGroupsHandler(factory services.ClientFactory) *GroupsHandler {
	return &GroupsHandler{factory: factory}
}

type groupRequest struct {
	GroupID string `json:"groupid" form:"groupid" query:"groupid"`
}

type membershipRequest struct {
	UserID  string `json:"userid" form:"userid" query:"userid"`
	GroupID string `json:"groupid" form:"groupid" query:"groupid"`
}

type groupCall func(ctx context.Context, nc services.NextcloudClient, req membershipRequest) (*services.OCSResponse, error)

// membership runs one of the user/group calls that need both ids
func (h *GroupsHandler) membership(c echo.Context, action string, call groupCall) error {
	var req membershipRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("userid", req.UserID, "groupid", req.GroupID); err != nil {
		return err
	}

	nc, err := h.factory.NewNextcloudClient()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to connect to Nextcloud").SetInternal(err)
	}

	resp, err := call(c.Request().Context(), nc, req)
	if err != nil {
		return RemoteError(err, "Failed to "+action)
	}

	if resp.OK() {
		audit(c, "group membership changed",
			logging.String("action", action),
			logging.String("user", req.UserID),
			logging.String("group", req.GroupID),
		)
	}
	return relay(c, resp)
}

// CreateGroup adds a group
func (h *GroupsHandler) CreateGroup(c echo.Context) error {
	var req groupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("groupid", req.GroupID); err != nil {
		return err
	}

	nc, err := h.factory.NewNextcloudClient()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to connect to Nextcloud").SetInternal(err)
	}

	resp, err := nc.CreateGroup(c.Request().Context(), req.GroupID)
	if err != nil {
		return RemoteError(err, "Failed to create group")
	}
	if resp.OK() {
		audit(c, "group created", logging.String("group", req.GroupID))
	}
	return relay(c, resp)
}

// DeleteGroup removes a group
func (h *GroupsHandler) DeleteGroup(c echo.Context) error {
	var req groupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("groupid", req.GroupID); err != nil {
		return err
	}

	nc, err := h.factory.NewNextcloudClient()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to connect to Nextcloud").SetInternal(err)
	}

	resp, err := nc.DeleteGroup(c.Request().Context(), req.GroupID)
	if err != nil {
		return RemoteError(err, "Failed to delete group")
	}
	if resp.OK() {
		audit(c, "group deleted", logging.String("group", req.GroupID))
	}
	return relay(c, resp)
}

// AddUser adds a user to a group
func (h *GroupsHandler) AddUser(c echo.Context) error {
	return h.membership(c, "add user to group", func(ctx context.Context, nc services.NextcloudClient, req membershipRequest) (*services.OCSResponse, error) {
		return nc.AddUserToGroup(ctx, req.UserID, req.GroupID)
	})
}

// RemoveUser removes a user from a group
func (h *GroupsHandler) RemoveUser(c echo.Context) error {
	return h.membership(c, "remove user from group", func(ctx context.Context, nc services.NextcloudClient, req membershipRequest) (*services.OCSResponse, error) {
		return nc.RemoveUserFromGroup(ctx, req.UserID, req.GroupID)
	})
}

// PromoteSubAdmin makes a user sub-admin of a group
func (h *GroupsHandler) PromoteSubAdmin(c echo.Context) error {
	return h.membership(c, "promote user", func(ctx context.Context, nc services.NextcloudClient, req membershipRequest) (*services.OCSResponse, error) {
		return nc.PromoteToSubAdmin(ctx, req.UserID, req.GroupID)
	})
}

// DemoteSubAdmin revokes a user's sub-admin rights for a group
func (h *GroupsHandler) DemoteSubAdmin(c echo.Context) error {
	return h.membership(c, "demote user", func(ctx context.Context, nc services.NextcloudClient, req membershipRequest) (*services.OCSResponse, error) {
		return nc.DemoteFromSubAdmin(ctx, req.UserID, req.GroupID)
	})
}
