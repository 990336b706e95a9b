package handlers

import (
	"net/http"

	"github.com/home-digital/cloudee/internal/logging"
	"github.com/home-digital/cloudee/internal/services"
	"github.com/labstack/echo/v4"
)

type SharesHandler struct {
	factory services.ClientFactory
}

func NewSharesHandler(factory services.ClientFactory) *SharesHandler {
	return &SharesHandler{factory: factory}
}

type shareWithGroupRequest struct {
	GroupID string `json:"groupId" form:"groupId"`
	Path    string `json:"path" form:"path"`
}

// CreateShareWithGroup creates the group, a folder named after it below
// path and shares the folder with the group
func (h *SharesHandler) CreateShareWithGroup(c echo.Context) error {
	var req shareWithGroupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("groupId", req.GroupID); err != nil {
		return err
	}

	nc, err := h.factory.NewNextcloudClient()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to connect to Nextcloud").SetInternal(err)
	}
	dav, err := h.factory.NewWebdavClient()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to connect to WebDAV").SetInternal(err)
	}

	resp, err := services.ShareFolderWithGroup(c.Request().Context(), nc, dav, req.Path, req.GroupID)
	if err != nil {
		return RemoteError(err, "Failed to share folder")
	}

	if resp.OK() {
		audit(c, "folder shared with group",
			logging.String("path", req.Path),
			logging.String("group", req.GroupID),
		)
	}
	return relay(c, resp)
}
