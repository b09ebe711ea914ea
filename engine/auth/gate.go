// Package auth centralizes role-based access decisions. Every call
// site supplies an explicit Requirement and renders based solely on
// the returned Decision; no ad hoc role comparisons elsewhere.
package auth

import "github.com/negotiapro/copilot/engine/auth/model"

// Reason explains the outcome of an access decision.
type Reason string

const (
	ReasonOK               Reason = "ok"
	ReasonNotAuthenticated Reason = "not_authenticated"
	ReasonInsufficientRole Reason = "insufficient_role"
)

// Requirement describes what a call site needs. At most one of
// RequiredRoles and MinRole is expected; when both are set the exact
// match wins because it is the stricter check and must not be
// silently widened by a minimum.
type Requirement struct {
	RequiredRoles []model.Role
	MinRole       model.Role
}

// Decision is the derived outcome of an access check. It is never
// stored; callers re-evaluate on every request.
type Decision struct {
	Allowed      bool
	Reason       Reason
	ObservedRole model.Role
}

// Decide evaluates the requirement against the given session. It is a
// pure function of its inputs and safe to call on every request.
func Decide(sess *model.Session, req Requirement) Decision {
	if !sess.WellFormed() {
		return Decision{Allowed: false, Reason: ReasonNotAuthenticated}
	}
	allowed := true
	switch {
	case len(req.RequiredRoles) > 0:
		allowed = sess.Role.Exact(req.RequiredRoles...)
	case req.MinRole != "":
		allowed = sess.Role.Satisfies(req.MinRole)
	}
	if !allowed {
		return Decision{Allowed: false, Reason: ReasonInsufficientRole, ObservedRole: sess.Role}
	}
	return Decision{Allowed: true, Reason: ReasonOK, ObservedRole: sess.Role}
}
