package domain

// Operator is a comparison operator accepted in query filters.
type Operator string

const (
	OpEQ   Operator = "="
	OpGT   Operator = ">"
	OpGTEQ Operator = ">="
	OpLT   Operator = "<"
	OpLTEQ Operator = "<="
	OpNE   Operator = "!="
)

// IsInequality reports whether op is anything other than equality.
func (op Operator) IsInequality() bool {
	return op != OpEQ
}

// Filter is a user-supplied (field token, operator token, value) triple,
// e.g. {Field: "MONTH", Operator: "GT", Value: "3"}.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// QueryKind is the entity kind a plan targets.
type QueryKind string

const (
	ConferenceQuery QueryKind = "conference"
	SessionQuery    QueryKind = "session"
)

// Predicate is one validated filter. Field is the canonical property name
// (e.g. "maxAttendees") and Value is already coerced to the property type.
type Predicate struct {
	Field    string
	Operator Operator
	Value    any
}

// QueryPlan is a composed, not yet executed query.
type QueryPlan struct {
	Kind       QueryKind
	Predicates []Predicate
	// InequalityField is the single property carrying non-equality predicates, or "".
	InequalityField string
	// OrderBy lists canonical property names, primary key first.
	OrderBy []string
}
