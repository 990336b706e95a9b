package services

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/home-digital/cloudee/internal/models"
	"github.com/home-digital/cloudee/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/webdav"
)

// newMemDAV serves an in-memory WebDAV tree below /files
func newMemDAV(t *testing.T, files map[string]string, dirs ...string) *webdavClient {
	t.Helper()
	ctx := context.Background()
	fs := webdav.NewMemFS()

	require.NoError(t, fs.Mkdir(ctx, "/files", 0o755))
	for _, d := range dirs {
		require.NoError(t, fs.Mkdir(ctx, "/files/"+d, 0o755))
	}
	for name, content := range files {
		f, err := fs.OpenFile(ctx, "/files/"+name, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	srv := httptest.NewServer(&webdav.Handler{
		FileSystem: fs,
		LockSystem: webdav.NewMemLS(),
	})
	t.Cleanup(srv.Close)

	return newWebdavClient(srv.URL, "admin", "secret", "/files", 5*time.Second)
}

func TestWebdavClient_AgainstServer(t *testing.T) {
	c := newMemDAV(t, map[string]string{
		"notes.txt":         "notes",
		"docs/a.txt":        "hello",
		"docs/img/logo.png": "\x89PNG",
		"v1.2/changelog":    "fixes",
	}, "docs", "docs/img", "v1.2", "empty")
	ctx := context.Background()

	entries, err := c.List(ctx, "", true)
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{
		"docs",
		"docs/a.txt",
		"docs/img",
		"docs/img/logo.png",
		"empty",
		"notes.txt",
		"v1.2",
		"v1.2/changelog",
	}, paths)

	nodes := tree.FromListing(entries)
	require.Len(t, nodes, 4)
	byID := map[string]*models.Node{}
	for _, n := range nodes {
		byID[n.ID] = n
	}
	assert.Len(t, byID["docs"].Children, 2)
	assert.Empty(t, byID["empty"].Children)
	require.Len(t, byID["v1.2"].Children, 1)
	assert.Equal(t, models.TypeFile, byID["v1.2"].Children[0].Type)
	assert.Equal(t, "v1.2", byID["v1.2"].Children[0].ParentID)
}

func TestWebdavClient_AgainstServerFileOps(t *testing.T) {
	c := newMemDAV(t, map[string]string{"docs/a.txt": "hello"}, "docs")
	ctx := context.Background()

	entry, err := c.Stat(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), entry.Size)
	assert.Equal(t, models.TypeFile, entry.Type)

	rc, err := c.Open(ctx, "docs/a.txt")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(body))

	_, err = c.Stat(ctx, "docs/missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.List(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.CreateFolder(ctx, "Projects/staff"))
	ok, err := c.FolderExists(ctx, "Projects/staff")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.DeleteFolder(ctx, "Projects"))
	ok, err = c.FolderExists(ctx, "Projects/staff")
	require.NoError(t, err)
	assert.False(t, ok)
}
