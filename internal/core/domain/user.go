package domain

import "encoding/json"

// UsersTable is the relational table holding registered users.
const UsersTable = "users"

// RegistrationRequest is a validated registration. It is built only by the
// registration extractor and never carries the raw password.
type RegistrationRequest struct {
	Username     string
	PasswordHash string
	Role         string
	UserData     json.RawMessage
}

// Resource is the read model of a users row returned by GET /resource/:id.
type Resource struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Role     string          `json:"role"`
	UserData json.RawMessage `json:"user_data"`
}

// CreatedUser is the success payload of a registration.
type CreatedUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
