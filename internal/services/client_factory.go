package services

import (
	"net/http"

	"github.com/home-digital/cloudee/internal/config"
)

// ClientFactory creates clients for the remote backends. Handlers ask for a
// fresh client on every request.
type ClientFactory interface {
	NewNextcloudClient() (NextcloudClient, error)
	NewWebdavClient() (WebdavClient, error)
	NewArchiveClient() (ArchiveClient, error)
}

// RealClientFactory is the production implementation
type RealClientFactory struct {
	cfg        *config.Config
	httpClient *http.Client
}

// NewClientFactory builds clients from an explicit configuration
func NewClientFactory(cfg *config.Config) *RealClientFactory {
	return &RealClientFactory{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func (f *RealClientFactory) NewNextcloudClient() (NextcloudClient, error) {
	nc := f.cfg.Nextcloud
	client, err := newOCSClient(f.httpClient, nc.URL, nc.Params, nc.User, nc.Password)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (f *RealClientFactory) NewWebdavClient() (WebdavClient, error) {
	dav := f.cfg.Webdav
	return newWebdavClient(dav.URL, dav.User, dav.Password, dav.BasePath, f.cfg.HTTPTimeout), nil
}

func (f *RealClientFactory) NewArchiveClient() (ArchiveClient, error) {
	a := f.cfg.Archive
	if !a.Enabled() {
		return nil, ErrArchiveDisabled
	}
	client, err := newArchiveClient(a.Endpoint, a.AccessKey, a.SecretKey, a.Bucket)
	if err != nil {
		return nil, err
	}
	return client, nil
}
