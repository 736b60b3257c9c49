// Package query validates user-supplied filter triples and turns them into
// store-independent query plans.
//
// The store can only filter and sort inequalities on a single property, so a
// plan carries at most one inequality field. Results are sorted by that field
// first (when present) and by name second.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

// Operators maps operator tokens to store operators.
var Operators = map[string]domain.Operator{
	"EQ":   domain.OpEQ,
	"GT":   domain.OpGT,
	"GTEQ": domain.OpGTEQ,
	"LT":   domain.OpLT,
	"LTEQ": domain.OpLTEQ,
	"NE":   domain.OpNE,
}

// Canonical property names.
const (
	FieldName          = "name"
	FieldCity          = "city"
	FieldTopics        = "topics"
	FieldMonth         = "month"
	FieldMaxAttendees  = "maxAttendees"
	FieldTypeOfSession = "typeOfSession"
	FieldHighlights    = "highlights"
	FieldSpeaker       = "speaker"
	FieldDuration      = "duration"
	FieldStartTime     = "startTime"
)

// ConferenceFields maps conference field tokens to property names.
var ConferenceFields = map[string]string{
	"CITY":          FieldCity,
	"TOPIC":         FieldTopics,
	"MONTH":         FieldMonth,
	"MAX_ATTENDEES": FieldMaxAttendees,
}

// SessionFields maps session field tokens to property names.
var SessionFields = map[string]string{
	"TYPE":       FieldTypeOfSession,
	"NAME":       FieldName,
	"HIGHLIGHTS": FieldHighlights,
	"SPEAKER":    FieldSpeaker,
	"DURATION":   FieldDuration,
	"START":      FieldStartTime,
}

// intFields are coerced from string to int before planning.
var intFields = map[string]bool{
	FieldMonth:        true,
	FieldMaxAttendees: true,
}

// clockFields are stored as zero-padded HH:MM and compared as text.
var clockFields = map[string]bool{
	FieldDuration:  true,
	FieldStartTime: true,
}

const clockLayout = "15:04"

// ConferencePlan validates filters against the conference whitelist.
func ConferencePlan(filters []domain.Filter) (*domain.QueryPlan, error) {
	return Build(domain.ConferenceQuery, ConferenceFields, filters)
}

// SessionPlan validates filters against the session whitelist.
func SessionPlan(filters []domain.Filter) (*domain.QueryPlan, error) {
	return Build(domain.SessionQuery, SessionFields, filters)
}

// Build validates filters against fields and the operator whitelist and returns
// a plan with predicates in the order received.
func Build(kind domain.QueryKind, fields map[string]string, filters []domain.Filter) (*domain.QueryPlan, error) {
	plan := &domain.QueryPlan{
		Kind:       kind,
		Predicates: make([]domain.Predicate, 0, len(filters)),
	}
	for _, f := range filters {
		field, ok := fields[strings.TrimSpace(f.Field)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", domain.ErrInvalidFilter, f.Field)
		}
		op, ok := Operators[strings.TrimSpace(f.Operator)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidFilter, f.Operator)
		}
		if op.IsInequality() {
			if plan.InequalityField != "" && plan.InequalityField != field {
				return nil, fmt.Errorf("%w: %s and %s", domain.ErrInequalityConflict, plan.InequalityField, field)
			}
			plan.InequalityField = field
		}
		value, err := coerce(field, f.Value)
		if err != nil {
			return nil, err
		}
		plan.Predicates = append(plan.Predicates, domain.Predicate{Field: field, Operator: op, Value: value})
	}
	plan.OrderBy = sortOrder(plan.InequalityField)
	return plan, nil
}

func sortOrder(inequalityField string) []string {
	if inequalityField == "" || inequalityField == FieldName {
		return []string{FieldName}
	}
	return []string{inequalityField, FieldName}
}

func coerce(field, value string) (any, error) {
	if clockFields[field] {
		t, err := time.Parse(clockLayout, strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be in 'HH:MM' format, got %q", domain.ErrInvalidFilter, field, value)
		}
		return t.Format(clockLayout), nil
	}
	if !intFields[field] {
		return value, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidFilter, field, value)
	}
	return n, nil
}
