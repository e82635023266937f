package app

import (
	"github.com/neomorfeo/statuskit/internal/domain"
)

// ruleKey addresses one registration bucket. Empty from/to codes mean "any".
type ruleKey struct {
	statusType domain.StatusType
	from       string
	to         string
}

// Registry holds the business rules registered by each owning module at
// startup. It is not tenant data: rules are keyed by status codes, which
// are stable across orgs for system statuses, never by per-org row ids.
//
// Register must only be called during startup wiring; lookups after that
// are read-only and safe for concurrent use.
type Registry struct {
	rules map[ruleKey][]domain.Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[ruleKey][]domain.Rule)}
}

// Register attaches a rule to a status type. fromCode and toCode narrow the
// attachment: both set binds the rule to one edge, one set binds it to all
// edges leaving (or entering) a status, both empty binds it to every
// transition of the type.
func (r *Registry) Register(statusType domain.StatusType, fromCode, toCode string, rule domain.Rule) {
	k := ruleKey{statusType: statusType, from: fromCode, to: toCode}
	r.rules[k] = append(r.rules[k], rule)
}

// RulesFor returns the rules applicable to one edge, most specific bucket
// first; within a bucket, registration order.
func (r *Registry) RulesFor(statusType domain.StatusType, fromCode, toCode string) []domain.Rule {
	keys := []ruleKey{
		{statusType: statusType, from: fromCode, to: toCode},
		{statusType: statusType, from: fromCode},
		{statusType: statusType, to: toCode},
		{statusType: statusType},
	}

	var out []domain.Rule
	for _, k := range keys {
		out = append(out, r.rules[k]...)
	}
	return out
}

// Evaluate runs every applicable rule against the entity snapshot and
// returns a RuleViolationError for the first failure. Evaluation is pure,
// so a caller retrying after a CAS conflict can safely evaluate again.
func (r *Registry) Evaluate(statusType domain.StatusType, fromCode, toCode string, entity domain.Entity) error {
	for _, rule := range r.RulesFor(statusType, fromCode, toCode) {
		if res := rule.Check(entity); !res.Passed {
			return &domain.RuleViolationError{Rule: rule.Name, Reason: res.Reason}
		}
	}
	return nil
}
