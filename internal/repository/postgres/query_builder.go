package postgres

import (
	"fmt"
	"strings"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

// column describes how a planned property maps onto SQL.
type column struct {
	expr string
	// list columns hold text[]; a predicate matches when any element satisfies it.
	list bool
}

var conferenceQueryColumns = map[string]column{
	query.FieldName:         {expr: "name"},
	query.FieldCity:         {expr: "city"},
	query.FieldTopics:       {expr: "topics", list: true},
	query.FieldMonth:        {expr: "month"},
	query.FieldMaxAttendees: {expr: "max_attendees"},
}

var sessionQueryColumns = map[string]column{
	query.FieldName:          {expr: "s.name"},
	query.FieldTypeOfSession: {expr: "s.type_of_session"},
	query.FieldHighlights:    {expr: "s.highlights"},
	query.FieldSpeaker:       {expr: "sp.name"},
	query.FieldDuration:      {expr: "s.duration"},
	query.FieldStartTime:     {expr: "s.start_time"},
}

// compiledQuery is a plan rendered as SQL fragments with positional arguments.
type compiledQuery struct {
	Where   string
	OrderBy string
	Args    []any
}

// compilePlan renders plan against columns. Operators and columns come from static
// tables; values are always bound as arguments.
func compilePlan(plan *domain.QueryPlan, columns map[string]column) (*compiledQuery, error) {
	out := &compiledQuery{}
	var conds []string
	for _, p := range plan.Predicates {
		col, ok := columns[p.Field]
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not queryable", domain.ErrInvalidFilter, p.Field)
		}
		op, err := sqlOperator(p.Operator)
		if err != nil {
			return nil, err
		}
		out.Args = append(out.Args, p.Value)
		n := len(out.Args)
		if col.list {
			conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(%s) AS e(v) WHERE e.v %s $%d)", col.expr, op, n))
			continue
		}
		conds = append(conds, fmt.Sprintf("%s %s $%d", col.expr, op, n))
	}
	if len(conds) > 0 {
		out.Where = " WHERE " + strings.Join(conds, " AND ")
	}

	order := make([]string, 0, len(plan.OrderBy)+1)
	for _, f := range plan.OrderBy {
		col, ok := columns[f]
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not sortable", domain.ErrInvalidFilter, f)
		}
		order = append(order, col.expr)
	}
	if len(order) == 0 {
		order = append(order, columns[query.FieldName].expr)
	}
	out.OrderBy = " ORDER BY " + strings.Join(order, ", ")
	return out, nil
}

// limitClause appends LIMIT/OFFSET arguments for page and returns the clause.
func (q *compiledQuery) limitClause(page domain.PaginationParams) string {
	if page.Unbounded() {
		return ""
	}
	q.Args = append(q.Args, page.PageSize, page.Offset())
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(q.Args)-1, len(q.Args))
}

func sqlOperator(op domain.Operator) (string, error) {
	switch op {
	case domain.OpEQ, domain.OpGT, domain.OpGTEQ, domain.OpLT, domain.OpLTEQ:
		return string(op), nil
	case domain.OpNE:
		return "<>", nil
	default:
		return "", fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidFilter, op)
	}
}
