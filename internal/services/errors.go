package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a remote path or account does not exist
	ErrNotFound = errors.New("remote resource not found")

	// ErrRemoteUnavailable is returned when Nextcloud, WebDAV or the archive
	// store cannot be reached or rejects our credentials
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// ErrListingUnavailable is returned when a folder listing fails for any
	// reason other than a missing path
	ErrListingUnavailable = fmt.Errorf("listing unavailable: %w", ErrRemoteUnavailable)

	// ErrArchiveDisabled is returned when no archive bucket is configured
	ErrArchiveDisabled = errors.New("archive storage is not configured")
)

// ocsNotFound is the OCS status code for an unknown user, group or share
const ocsNotFound = 404

// OCSError reports an OCS call that completed with a non-ok status
type OCSError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *OCSError) Error() string {
	return fmt.Sprintf("nextcloud %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match ErrNotFound on a 404 status
func (e *OCSError) Unwrap() error {
	if e.StatusCode == ocsNotFound {
		return ErrNotFound
	}
	return nil
}
