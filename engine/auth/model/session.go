package model

// Session is the authenticated identity plus the opaque bearer
// credential issued by the auth authority. A session is only valid
// when both the identity and the credential are present; partial
// state is treated as "not authenticated".
type Session struct {
	ActorID     string `json:"actor_id"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
	Credential  string `json:"credential"`
	TeamID      string `json:"team_id,omitempty"`
}

// WellFormed reports whether the session carries both an identity and
// a non-empty credential.
func (s *Session) WellFormed() bool {
	return s != nil && s.ActorID != "" && s.Credential != ""
}
