// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNoToken indicates no tracker access token is configured. It is
// raised at the first authenticated call, not at startup.
var ErrNoToken = errors.New("not authenticated: no access token")

// ErrValidation indicates a request failed input validation.
var ErrValidation = errors.New("validation failed")
