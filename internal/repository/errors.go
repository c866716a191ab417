// Package repository holds the MySQL data access layer.  Sentinel errors in
// this file let handlers map storage outcomes to HTTP responses with
// errors.Is.
package repository

import "errors"

var (
	ErrTravelNotFound = errors.New("travel not found")
	ErrTourNotFound   = errors.New("tour not found")
	ErrTokenNotFound  = errors.New("access token not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrRoleNotFound   = errors.New("role not found")

	// ErrTravelNameTaken is returned when the unique index on travels.name
	// rejects a write that raced past the handler's uniqueness check.
	ErrTravelNameTaken = errors.New("travel name already taken")
	ErrEmailExists     = errors.New("email already exists")
)
