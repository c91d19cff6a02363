package service

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/tawargy/sqliteserver/internal/core/domain"
	"github.com/tawargy/sqliteserver/internal/core/policy"
)

const (
	msgInvalidJSON     = "Failed to create a new user, invalid JSON"
	msgInvalidUsername = "Failed to create a new user, invalid username"
	msgInvalidPassword = "Failed to create a new user, invalid password"
	msgInvalidData     = "Failed to create a new user, invalid data"
	msgUsernameSpaces  = "Failed to create a new user, username contains spaces"
	msgUserExists      = "Failed to create a new user, user exists"
)

var (
	rejectInvalidJSON = domain.Reject(domain.KindMalformedInput, msgInvalidJSON,
		"Error parsing user data")
	rejectInvalidUsername = domain.Reject(domain.KindPolicy, msgInvalidUsername,
		"Username should always be in lowercase characters and underscore or numbers only")
	rejectInvalidPassword = domain.Reject(domain.KindPolicy, msgInvalidPassword,
		"Password is weak")
	rejectUsernameSpaces = domain.Reject(domain.KindPolicy, msgUsernameSpaces,
		"Username contains spaces")
	rejectUserExists = domain.Reject(domain.KindConflict, msgUserExists,
		"User already exists")
	rejectEmptyCredentials = domain.Reject(domain.KindPolicy, msgInvalidData,
		"Empty username or password")
	rejectInvalidEmail = domain.Reject(domain.KindPolicy, msgInvalidData,
		"Invalid email format")
)

func rejectMalformed(path string) domain.ValidationOutcome {
	return domain.Rejected(domain.Reject(domain.KindMalformedInput, msgInvalidData,
		fmt.Sprintf("Missing or malformed field: %s", path)))
}

// ExistenceProber reports whether a username is already registered.
type ExistenceProber interface {
	UserExists(ctx context.Context, username string) (bool, error)
}

// RegistrationExtractor turns an untyped registration document into a
// validated request or a rejection.
type RegistrationExtractor struct {
	prober ExistenceProber
}

func NewRegistrationExtractor(prober ExistenceProber) *RegistrationExtractor {
	return &RegistrationExtractor{prober: prober}
}

// Extract runs the registration checks in order and stops at the first
// failure. The existence probe is the only side effect and runs only after
// every local check on the username and password passed. A non-nil error
// means the probe itself failed.
func (x *RegistrationExtractor) Extract(ctx context.Context, doc gjson.Result) (domain.ValidationOutcome, error) {
	// 1. Username shape.
	username, ok := optionalString(doc, "username")
	if !ok {
		return rejectMalformed("username"), nil
	}
	if !policy.IdentifierValid(username) {
		return domain.Rejected(rejectInvalidUsername), nil
	}

	// 2. Password strength.
	password, ok := optionalString(doc, "password")
	if !ok {
		return rejectMalformed("password"), nil
	}
	if !policy.PasswordStrong(password) {
		return domain.Rejected(rejectInvalidPassword), nil
	}

	// 3. Hash. The raw password is not referenced past this point.
	passwordHash := policy.HashPassword(password)
	passwordEmpty := password == ""

	// 4. Remaining fields.
	role, ok := requiredString(doc, "role")
	if !ok {
		return rejectMalformed("role"), nil
	}
	userData := doc.Get("user_data")
	if !userData.IsObject() {
		return rejectMalformed("user_data"), nil
	}
	email, ok := requiredString(userData, "contact.email")
	if !ok {
		return rejectMalformed("user_data.contact.email"), nil
	}

	// 5. Whitespace.
	if policy.ContainsWhitespace(username) {
		return domain.Rejected(rejectUsernameSpaces), nil
	}

	// 6. Uniqueness probe. Not atomic with the insert; the store's UNIQUE
	// constraint settles races.
	exists, err := x.prober.UserExists(ctx, username)
	if err != nil {
		return domain.ValidationOutcome{}, fmt.Errorf("existence probe: %w", err)
	}
	if exists {
		return domain.Rejected(rejectUserExists), nil
	}

	// 7. Emptiness.
	if username == "" || passwordEmpty || passwordHash == "" {
		return domain.Rejected(rejectEmptyCredentials), nil
	}

	// 8. Email format.
	if !policy.EmailValid(email) {
		return domain.Rejected(rejectInvalidEmail), nil
	}

	return domain.Valid(domain.RegistrationRequest{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		UserData:     []byte(userData.Raw),
	}), nil
}

// optionalString returns the string at path, "" when it is absent, and false
// when it is present with another JSON type.
func optionalString(doc gjson.Result, path string) (string, bool) {
	r := doc.Get(path)
	if !r.Exists() {
		return "", true
	}
	if r.Type != gjson.String {
		return "", false
	}
	return r.Str, true
}

func requiredString(doc gjson.Result, path string) (string, bool) {
	r := doc.Get(path)
	if r.Type != gjson.String {
		return "", false
	}
	return r.Str, true
}
