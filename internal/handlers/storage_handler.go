package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/home-digital/cloudee/internal/logging"
	"github.com/home-digital/cloudee/internal/metrics"
	"github.com/home-digital/cloudee/internal/services"
	"github.com/home-digital/cloudee/internal/tree"
	"github.com/labstack/echo/v4"
)

type StorageHandler struct {
	factory services.ClientFactory
}

func NewStorageHandler(factory services.ClientFactory) *StorageHandler {
	return &StorageHandler{factory: factory}
}

type archiveRequest struct {
	Filename string `json:"filename" form:"filename"`
	Key      string `json:"key" form:"key"`
}

func (h *StorageHandler) webdav() (services.WebdavClient, error) {
	dav, err := h.factory.NewWebdavClient()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to connect to WebDAV").SetInternal(err)
	}
	return dav, nil
}

// FolderContent lists dir and returns it as a nested folder tree
func (h *StorageHandler) FolderContent(c echo.Context) error {
	dir := c.QueryParam("dir")
	recursive := true
	if raw := c.QueryParam("recursive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid value for recursive")
		}
		recursive = v
	}

	dav, err := h.webdav()
	if err != nil {
		return err
	}

	entries, err := dav.List(c.Request().Context(), dir, recursive)
	if err != nil {
		if errors.Is(err, services.ErrListingUnavailable) {
			return echo.NewHTTPError(http.StatusBadGateway, "Folder listing unavailable").SetInternal(err)
		}
		return RemoteError(err, "Failed to list folder")
	}

	nodes := tree.FromListing(entries)
	metrics.ObserveFolderTree(tree.CountNodes(nodes))
	return c.JSON(http.StatusOK, nodes)
}

// Download streams a file to the client as an attachment
func (h *StorageHandler) Download(c echo.Context) error {
	filename := c.QueryParam("filename")
	if err := required("filename", filename); err != nil {
		return err
	}

	dav, err := h.webdav()
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	entry, err := dav.Stat(ctx, filename)
	if err != nil {
		return RemoteError(err, "Failed to read file")
	}
	if entry.IsDir() {
		return echo.NewHTTPError(http.StatusNotFound, "Not a file")
	}

	rc, err := dav.Open(ctx, filename)
	if err != nil {
		return RemoteError(err, "Failed to read file")
	}
	defer rc.Close()

	contentType := entry.MimeType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentType, contentType)
	header.Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{
		"filename": path.Base(entry.Path),
	}))
	if entry.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(entry.Size, 10))
	}
	c.Response().WriteHeader(http.StatusOK)

	n, err := io.Copy(c.Response(), rc)
	metrics.RecordDownload(n)
	if err != nil {
		// Headers are already sent, the client sees a truncated body
		logging.WithContext(ctx).Warn("download interrupted",
			logging.String("file", entry.Path),
			logging.Int64("bytes", n),
			logging.Err(err),
		)
	}
	return nil
}

// Archive copies a remote file into the archive bucket
func (h *StorageHandler) Archive(c echo.Context) error {
	var req archiveRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("filename", req.Filename); err != nil {
		return err
	}

	archive, err := h.factory.NewArchiveClient()
	if err != nil {
		return RemoteError(err, "Failed to connect to archive storage")
	}
	dav, err := h.webdav()
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	entry, err := dav.Stat(ctx, req.Filename)
	if err != nil {
		return RemoteError(err, "Failed to read file")
	}
	if entry.IsDir() {
		return echo.NewHTTPError(http.StatusBadRequest, "Only files can be archived")
	}

	if err := archive.EnsureBucket(ctx); err != nil {
		return RemoteError(err, "Failed to prepare archive bucket")
	}

	rc, err := dav.Open(ctx, req.Filename)
	if err != nil {
		return RemoteError(err, "Failed to read file")
	}
	defer rc.Close()

	key := strings.TrimPrefix(path.Clean("/"+req.Key), "/")
	if key == "" {
		key = entry.Path
	}

	// WebDAV servers may omit the length, minio then uploads in parts
	size := entry.Size
	if size == 0 {
		size = -1
	}
	obj, err := archive.Put(ctx, key, rc, size, entry.MimeType)
	if err != nil {
		return RemoteError(err, "Failed to archive file")
	}

	audit(c, "file archived",
		logging.String("file", entry.Path),
		logging.String("bucket", obj.Bucket),
		logging.String("key", obj.Key),
	)
	return c.JSON(http.StatusCreated, obj)
}
