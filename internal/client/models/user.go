package models

// User is the authenticated identity, normalized from the profile endpoint
// and cached locally for silent session restoration.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID string `json:"roleId"`
	Avatar string `json:"avatar,omitempty"`
}
