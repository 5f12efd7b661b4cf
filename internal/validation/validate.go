package validation

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Validate evaluates in against rules and returns every violation, in order.
// An empty result means the input is valid.
//
// Create mode walks the rule set in declaration order, then reports unknown
// keys in input order. Update mode walks the input in its own order and checks
// only the keys that are present. A missing required field or a type mismatch
// ends the checks for that field only.
func Validate(rules RuleSet, in Input, mode Mode) []string {
	v := &validator{}
	switch mode {
	case Update:
		for _, f := range in.fields {
			rule, ok := rules.Lookup(f.Name)
			if !ok {
				v.addf("Unknown field: %s", f.Name)
				continue
			}
			v.checkValue(rule, f.Value)
		}
	default:
		for _, rule := range rules {
			value, present := in.Get(rule.Field)
			if !present || value == nil {
				if rule.Required {
					v.addf("%s is required", rule.Field)
				}
				continue
			}
			v.checkValue(rule, value)
		}
		for _, f := range in.fields {
			if _, ok := rules.Lookup(f.Name); !ok {
				v.addf("Unknown field: %s", f.Name)
			}
		}
	}
	return v.violations
}

// validator accumulates violations during one evaluation.
type validator struct {
	violations []string
}

func (v *validator) addf(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

func (v *validator) checkValue(rule Rule, value any) {
	switch rule.Type {
	case Number:
		n, ok := ToNumber(value)
		if !ok {
			v.addf("%s must be a number", rule.Field)
			return
		}
		if rule.Min != nil && n < *rule.Min {
			v.addf("%s must be at least %s", rule.Field, formatNumber(*rule.Min))
		}
		if rule.Max != nil && n > *rule.Max {
			v.addf("%s must be at most %s", rule.Field, formatNumber(*rule.Max))
		}
	case Boolean:
		if _, ok := value.(bool); !ok {
			v.addf("%s must be a boolean", rule.Field)
		}
	default:
		s, ok := value.(string)
		if !ok {
			v.addf("%s must be a string", rule.Field)
			return
		}
		n := utf8.RuneCountInString(s)
		if rule.MinLength != nil && n < *rule.MinLength {
			v.addf("%s must be at least %d characters long", rule.Field, *rule.MinLength)
		}
		if rule.MaxLength != nil && n > *rule.MaxLength {
			v.addf("%s must be at most %d characters long", rule.Field, *rule.MaxLength)
		}
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
