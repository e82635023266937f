package domain

// RuleResult is the outcome of evaluating one business rule against an
// entity snapshot. Reason is user-facing and only meaningful when the rule
// did not pass.
type RuleResult struct {
	Passed bool
	Reason string
}

// Pass is the successful rule outcome.
func Pass() RuleResult { return RuleResult{Passed: true} }

// Fail builds a failing outcome with a user-facing reason.
func Fail(reason string) RuleResult { return RuleResult{Reason: reason} }

// RuleFunc is a pure predicate over the entity's current field values.
// It must be side-effect-free: the executor may re-evaluate it after a
// compare-and-swap conflict retry.
type RuleFunc func(entity Entity) RuleResult

// Rule is a named business predicate attached to part of a status graph.
// Rules are registered by the hosting application at startup, keyed by
// status type and optionally by the from/to status codes of an edge; they
// are not tenant data.
type Rule struct {
	Name  string
	Check RuleFunc
}
