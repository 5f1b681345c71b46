// user.go defines the user identity attached to events.

package sentry

import "errors"

// ErrInvalidUser is returned by NewUser when neither an id nor an IP
// address is supplied.
var ErrInvalidUser = errors.New("sentry: user requires an id or an ip address")

// User identifies the account affected by an event. Two independent
// instances may be in play: the client-level ambient user set with
// Client.SetUser, and a per-event override on Event.User. The per-event
// user wins as a whole object.
type User struct {
	id        string
	username  string
	email     string
	ipAddress string
	extras    map[string]any
}

// UserOption configures optional User fields.
type UserOption func(*User)

// WithUsername sets the username.
func WithUsername(username string) UserOption {
	return func(u *User) {
		u.username = username
	}
}

// WithEmail sets the email address.
func WithEmail(email string) UserOption {
	return func(u *User) {
		u.email = email
	}
}

// WithUserExtras attaches additional key-value pairs to the user object.
// Extras are encoded inline next to the fixed fields; a fixed field wins
// when an extra uses its key.
func WithUserExtras(extras map[string]any) UserOption {
	return func(u *User) {
		u.extras = extras
	}
}

// NewUser creates a User. At least one of id or ipAddress must be
// non-empty; otherwise NewUser fails with ErrInvalidUser. The check runs
// here so that a misconfigured identity fails at construction, not during
// capture.
func NewUser(id, ipAddress string, opts ...UserOption) (*User, error) {
	if id == "" && ipAddress == "" {
		return nil, ErrInvalidUser
	}

	u := &User{
		id:        id,
		ipAddress: ipAddress,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// ID returns the user id.
func (u *User) ID() string {
	return u.id
}

// IPAddress returns the user's IP address.
func (u *User) IPAddress() string {
	return u.ipAddress
}

// wire returns the user's wire object: the fixed identity fields plus any
// extras flattened inline. Extras never shadow a fixed field.
func (u *User) wire() map[string]any {
	obj := make(map[string]any, len(u.extras)+4)
	for key, value := range u.extras {
		obj[key] = value
	}
	if u.id != "" {
		obj["id"] = u.id
	}
	if u.username != "" {
		obj["username"] = u.username
	}
	if u.email != "" {
		obj["email"] = u.email
	}
	if u.ipAddress != "" {
		obj["ip_address"] = u.ipAddress
	}
	return obj
}
