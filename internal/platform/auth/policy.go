package auth

import (
	"github.com/google/uuid"

	"github.com/clin/clin/internal/platform/apperr"
)

// Action names a guarded mutation.
type Action string

const (
	ActionUpdateUser    Action = "user.update"
	ActionDeleteUser    Action = "user.delete"
	ActionToggleAdmin   Action = "user.toggle_admin"
	ActionUpdatePatient Action = "patient.update"
	ActionDeletePatient Action = "patient.delete"
)

// Rule states who may perform an action. Admins are always allowed; AllowSelf
// additionally lets the owner of the resource through.
type Rule struct {
	AllowSelf bool
	Message   string
}

// Policy evaluates the capability rules shared by every service.
type Policy struct {
	rules map[Action]Rule
}

func NewPolicy(rules map[Action]Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultRules are the application's authorization rules.
func DefaultRules() map[Action]Rule {
	return map[Action]Rule{
		ActionUpdateUser:    {AllowSelf: true, Message: "Only the user or an admin can update this user"},
		ActionDeleteUser:    {Message: "Only admins can delete users"},
		ActionToggleAdmin:   {Message: "Current user is not an admin"},
		ActionUpdatePatient: {Message: "Only admins can update patient info"},
		ActionDeletePatient: {Message: "Only admins can delete patient"},
	}
}

// DefaultPolicy returns a Policy over DefaultRules.
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultRules())
}

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Allowed bool
	Reason  string
}

// Evaluate decides whether rc may perform action on a resource owned by
// owner (uuid.Nil when the resource has no owner). Unknown actions are denied.
func (p *Policy) Evaluate(rc RequestContext, action Action, owner uuid.UUID) Decision {
	rule, ok := p.rules[action]
	if !ok {
		return Decision{Allowed: false, Reason: "no rule for " + string(action)}
	}
	if rc.Admin {
		return Decision{Allowed: true, Reason: "admin"}
	}
	if rule.AllowSelf && owner != uuid.Nil && rc.IsSelf(owner) {
		return Decision{Allowed: true, Reason: "self"}
	}
	return Decision{Allowed: false, Reason: rule.Message}
}

// Authorize is Evaluate returning a Forbidden error on denial.
func (p *Policy) Authorize(rc RequestContext, action Action, owner uuid.UUID) error {
	d := p.Evaluate(rc, action, owner)
	if d.Allowed {
		return nil
	}
	msg := d.Reason
	if msg == "" {
		msg = "Forbidden"
	}
	return apperr.Forbidden(msg)
}
