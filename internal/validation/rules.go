// Package validation checks untyped input against a declarative rule set and
// reports every violation it finds.
package validation

// Type is the primitive type a field must hold.
type Type int

const (
	String Type = iota
	Number
	Boolean
)

func (t Type) String() string {
	switch t {
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	default:
		return "string"
	}
}

// Mode selects create (required fields enforced) or update (only present
// fields checked) evaluation.
type Mode int

const (
	Create Mode = iota
	Update
)

// Rule describes one validated field. Nil bounds are not checked.
type Rule struct {
	Field    string
	Required bool
	Type     Type

	// String bounds, in characters.
	MinLength *int
	MaxLength *int

	// Number bounds, inclusive.
	Min *float64
	Max *float64

	// Default is filled in by WithDefaults when the field is absent.
	Default any
}

// RuleSet is an ordered list of field rules. Declaration order decides the
// order of create-mode violations.
type RuleSet []Rule

// Lookup returns the rule for field.
func (rs RuleSet) Lookup(field string) (Rule, bool) {
	for _, r := range rs {
		if r.Field == field {
			return r, true
		}
	}
	return Rule{}, false
}

// Fields returns the declared field names in order.
func (rs RuleSet) Fields() []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Field)
	}
	return out
}

// Len returns a string length bound.
func Len(n int) *int { return &n }

// Num returns a numeric bound.
func Num(f float64) *float64 { return &f }
