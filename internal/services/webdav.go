package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/home-digital/cloudee/internal/metrics"
	"github.com/home-digital/cloudee/internal/models"
	"github.com/home-digital/cloudee/internal/tree"
	"github.com/home-digital/cloudee/internal/utils"
	"github.com/studio-b12/gowebdav"
)

// WebdavClient is an interface for the folder and file operations we use
type WebdavClient interface {
	// List returns the entries below dir sorted by path. The folder
	// itself is not part of the result.
	List(ctx context.Context, dir string, recursive bool) ([]models.Entry, error)
	Stat(ctx context.Context, filePath string) (models.Entry, error)
	Open(ctx context.Context, filePath string) (io.ReadCloser, error)
	CreateFolder(ctx context.Context, dir string) error
	DeleteFolder(ctx context.Context, dir string) error
	FolderExists(ctx context.Context, dir string) (bool, error)

	// Resolve returns the server side path of p, including the base path
	Resolve(p string) string
}

// davClient is the subset of *gowebdav.Client used by webdavClient
type davClient interface {
	ReadDir(path string) ([]os.FileInfo, error)
	Stat(path string) (os.FileInfo, error)
	ReadStream(path string) (io.ReadCloser, error)
	MkdirAll(path string, perm os.FileMode) error
	RemoveAll(path string) error
}

// webdavClient resolves every path below basePath on the remote server
type webdavClient struct {
	client   davClient
	basePath string
}

// newWebdavClient limits connecting and waiting for response headers to
// timeout. Bodies are streamed without a deadline so long downloads finish.
func newWebdavClient(rawURL, user, password, basePath string, timeout time.Duration) *webdavClient {
	c := gowebdav.NewClient(rawURL, user, password)
	c.SetTransport(davTransport(timeout))
	return &webdavClient{client: c, basePath: cleanRel(basePath)}
}

func davTransport(timeout time.Duration) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = (&net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	t.TLSHandshakeTimeout = timeout
	t.ResponseHeaderTimeout = timeout
	return t
}

func (c *webdavClient) Resolve(p string) string {
	return "/" + path.Join(c.basePath, cleanRel(p))
}

func (c *webdavClient) List(ctx context.Context, dir string, recursive bool) ([]models.Entry, error) {
	start := time.Now()
	var entries []models.Entry
	err := c.walk(ctx, cleanRel(dir), recursive, &entries)
	metrics.RecordRemoteCall("webdav", "list", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	tree.SortByPath(entries)
	return entries, nil
}

func (c *webdavClient) walk(ctx context.Context, dir string, recursive bool, out *[]models.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	infos, err := c.client.ReadDir(c.Resolve(dir))
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return fmt.Errorf("list %q: %w", dir, ErrNotFound)
		}
		return fmt.Errorf("list %q: %w: %v", dir, ErrListingUnavailable, err)
	}

	for _, fi := range infos {
		p := joinRel(dir, fi.Name())
		*out = append(*out, entryFromInfo(p, fi))
		if recursive && fi.IsDir() {
			if err := c.walk(ctx, p, true, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *webdavClient) Stat(ctx context.Context, filePath string) (models.Entry, error) {
	if err := ctx.Err(); err != nil {
		return models.Entry{}, err
	}

	start := time.Now()
	fi, err := c.client.Stat(c.Resolve(filePath))
	metrics.RecordRemoteCall("webdav", "stat", time.Since(start), err)
	if err != nil {
		return models.Entry{}, pathError("stat", filePath, err)
	}
	return entryFromInfo(cleanRel(filePath), fi), nil
}

func (c *webdavClient) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	rc, err := c.client.ReadStream(c.Resolve(filePath))
	metrics.RecordRemoteCall("webdav", "read", time.Since(start), err)
	if err != nil {
		return nil, pathError("read", filePath, err)
	}
	return rc, nil
}

func (c *webdavClient) CreateFolder(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := c.client.MkdirAll(c.Resolve(dir), 0o755)
	metrics.RecordRemoteCall("webdav", "mkdir", time.Since(start), err)
	if err != nil {
		return pathError("mkdir", dir, err)
	}
	return nil
}

func (c *webdavClient) DeleteFolder(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cleanRel(dir) == "" {
		return fmt.Errorf("delete %q: refusing to remove the base folder", dir)
	}

	start := time.Now()
	err := c.client.RemoveAll(c.Resolve(dir))
	metrics.RecordRemoteCall("webdav", "delete", time.Since(start), err)
	if err != nil {
		return pathError("delete", dir, err)
	}
	return nil
}

func (c *webdavClient) FolderExists(ctx context.Context, dir string) (bool, error) {
	entry, err := c.Stat(ctx, dir)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return entry.IsDir(), nil
}

func pathError(op, p string, err error) error {
	if gowebdav.IsErrNotFound(err) {
		return fmt.Errorf("%s %q: %w", op, p, ErrNotFound)
	}
	return fmt.Errorf("%s %q: %w: %v", op, p, ErrRemoteUnavailable, err)
}

// entryFromInfo converts a WebDAV property set into a listing entry
func entryFromInfo(p string, fi os.FileInfo) models.Entry {
	e := models.Entry{
		ID:   path.Base(p),
		Path: p,
		Type: models.TypeFile,
	}
	if fi.IsDir() {
		e.Type = models.TypeDirectory
	} else {
		e.Size = fi.Size()
		e.FormattedSize = utils.HumanSize(fi.Size())
	}
	if mod := fi.ModTime(); !mod.IsZero() {
		e.LastModified = mod.Unix()
	}
	if ct, ok := fi.(interface{ ContentType() string }); ok {
		e.MimeType = ct.ContentType()
	}
	if et, ok := fi.(interface{ ETag() string }); ok {
		e.ETag = strings.Trim(et.ETag(), `"`)
	}
	return e
}

func cleanRel(p string) string {
	p = path.Clean("/" + strings.TrimSpace(p))
	return strings.TrimPrefix(p, "/")
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
