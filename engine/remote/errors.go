package remote

import "errors"

// ErrSessionExpired is returned when the far end rejects the bearer
// credential. The client has already torn the session down by the
// time the caller sees this error.
var ErrSessionExpired = errors.New("session expired")

// ErrNetwork is returned for transport-level failures. The session is
// left untouched.
var ErrNetwork = errors.New("network error")

// ErrServer is returned for server-side failures (5xx or malformed
// payloads). The session is left untouched.
var ErrServer = errors.New("server error")

// ErrRecommendationUnavailable is returned when the playbook matching
// service cannot produce recommendations. Conversation capture is
// unaffected.
var ErrRecommendationUnavailable = errors.New("recommendation unavailable")
