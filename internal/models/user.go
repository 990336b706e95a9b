package models

// DefaultLanguage is assigned to new Nextcloud accounts without a language
const DefaultLanguage = "de"

// NextcloudUser is the account payload sent to the OCS user endpoints
type NextcloudUser struct {
	UserID      string `json:"userid"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Language    string `json:"language"`
}

// UserUpdate holds the account fields Nextcloud lets an admin edit.
// Empty fields are left unchanged.
type UserUpdate struct {
	UserID      string
	Password    string
	DisplayName string
	Email       string
}
