package session

import "errors"

// ErrInvalidCredentials is returned when the auth authority rejects
// the supplied actor ID or secret.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAuthorityUnreachable is returned when the auth authority cannot
// be reached. The caller may retry.
var ErrAuthorityUnreachable = errors.New("auth authority unreachable")
