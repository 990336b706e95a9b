package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/home-digital/cloudee/internal/logging"
	"github.com/home-digital/cloudee/internal/models"
)

// ocsGroupExists is the OCS status code for creating a group that exists
const ocsGroupExists = 102

// ChangeUserID moves an account to a new user id. Nextcloud cannot rename
// users, so the account is recreated under newID with the old profile and
// group memberships before the old account is deleted.
func ChangeUserID(ctx context.Context, nc NextcloudClient, oldID, newID, password string) error {
	resp, err := nc.GetUser(ctx, oldID)
	if err != nil {
		return err
	}
	if err := resp.Err("get_user"); err != nil {
		return err
	}
	var old UserDetails
	if err := json.Unmarshal(resp.OCS.Data, &old); err != nil {
		return fmt.Errorf("decode user %q: %w", oldID, err)
	}

	resp, err = nc.CreateUser(ctx, models.NextcloudUser{
		UserID:      newID,
		Password:    password,
		DisplayName: old.DisplayName,
		Email:       old.Email,
		Language:    old.Language,
	})
	if err != nil {
		return err
	}
	if err := resp.Err("create_user"); err != nil {
		return err
	}

	resp, err = nc.GetUserGroups(ctx, oldID)
	if err != nil {
		return err
	}
	var membership struct {
		Groups []string `json:"groups"`
	}
	if resp.OK() && len(resp.OCS.Data) > 0 {
		if err := json.Unmarshal(resp.OCS.Data, &membership); err != nil {
			return fmt.Errorf("decode groups of %q: %w", oldID, err)
		}
	}
	for _, group := range membership.Groups {
		resp, err := nc.AddUserToGroup(ctx, newID, group)
		if err != nil {
			return err
		}
		if err := resp.Err("add_user_to_group"); err != nil {
			logging.WithContext(ctx).Warn("group not copied to renamed user",
				logging.String("user", newID),
				logging.String("group", group),
				logging.Err(err),
			)
		}
	}

	resp, err = nc.DeleteUser(ctx, oldID)
	if err != nil {
		return err
	}
	return resp.Err("delete_user")
}

// ShareFolderWithGroup creates groupID, a folder named after it below
// parent and shares that folder with the group.
func ShareFolderWithGroup(ctx context.Context, nc NextcloudClient, dav WebdavClient, parent, groupID string) (*OCSResponse, error) {
	resp, err := nc.CreateGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !resp.OK() && (resp == nil || resp.OCS.Meta.StatusCode != ocsGroupExists) {
		return resp, resp.Err("create_group")
	}

	folder := path.Join(parent, groupID)
	if err := dav.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}

	return nc.CreateShare(ctx, dav.Resolve(folder), ShareTypeGroup, groupID)
}
