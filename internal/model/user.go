package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Roles are not stored on the row; they come from role_user.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email (unique, compared as stored)
    PasswordHash string    // users.password (bcrypt)
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// AccessToken models a row in `personal_access_tokens`.  The token handed
// to the client is never stored; only its SHA-256 hash.
//
// Fields:
//  Name       – device label taken from the login request's User-Agent.
//  LastUsedAt – updated each time the token authenticates a request.
//  ExpiresAt  – nil when the token does not expire.
type AccessToken struct {
    ID         uint64
    UserID     uint64
    Name       string
    TokenHash  string
    LastUsedAt *time.Time
    ExpiresAt  *time.Time
    CreatedAt  time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t AccessToken) Expired(now time.Time) bool {
    return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
