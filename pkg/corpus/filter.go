package corpus

import (
	"fmt"
	"strings"
)

// Filter decides whether a document participates in a scan.
type Filter func(doc *Document) bool

// ParseError reports a malformed filter expression.
type ParseError struct {
	Expr   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse filter %q: %s", e.Expr, e.Reason)
}

// ParseFilter compiles a filter expression into a Filter.
//
// The expression is a whitespace-separated list of clauses:
//
//	-field:value        documents with that field value are excluded
//	field:value         the field, when present, must have that value
//	field:(v1 v2 ...)   the field, when present, must have one of the values
//
// Documents missing the field of a required clause pass; this keeps the scan
// filter consistent with the incremental path, which only rejects documents
// that declare a bad value.
func ParseFilter(expr string) (Filter, error) {
	clauses, err := splitClauses(expr)
	if err != nil {
		return nil, err
	}
	var filters []Filter
	for _, clause := range clauses {
		f, err := parseClause(expr, clause)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return And(filters...), nil
}

// splitClauses splits on whitespace, keeping parenthesized value lists whole.
func splitClauses(expr string) ([]string, error) {
	var clauses []string
	var cur strings.Builder
	depth := 0
	for _, r := range expr {
		switch {
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			if depth < 0 {
				return nil, &ParseError{Expr: expr, Reason: "unbalanced ')'"}
			}
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t'):
			if cur.Len() > 0 {
				clauses = append(clauses, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if depth != 0 {
		return nil, &ParseError{Expr: expr, Reason: "unclosed '('"}
	}
	if cur.Len() > 0 {
		clauses = append(clauses, cur.String())
	}
	return clauses, nil
}

func parseClause(expr, clause string) (Filter, error) {
	negated := strings.HasPrefix(clause, "-")
	body := strings.TrimPrefix(clause, "-")

	field, rest, ok := strings.Cut(body, ":")
	if !ok || field == "" || rest == "" {
		return nil, &ParseError{Expr: expr, Reason: fmt.Sprintf("clause %q is not field:value", clause)}
	}

	values := make(map[string]struct{})
	if strings.HasPrefix(rest, "(") {
		if !strings.HasSuffix(rest, ")") {
			return nil, &ParseError{Expr: expr, Reason: fmt.Sprintf("clause %q has an unterminated value list", clause)}
		}
		list := strings.Fields(rest[1 : len(rest)-1])
		if len(list) == 0 {
			return nil, &ParseError{Expr: expr, Reason: fmt.Sprintf("clause %q has an empty value list", clause)}
		}
		for _, v := range list {
			values[v] = struct{}{}
		}
	} else {
		values[rest] = struct{}{}
	}

	return func(doc *Document) bool {
		matched := false
		for _, v := range doc.Fields[field] {
			if _, ok := values[v]; ok {
				matched = true
				break
			}
		}
		if negated {
			return !matched
		}
		return !doc.Has(field) || matched
	}, nil
}

// And combines filters; a document passes only if it passes every filter.
// Nil filters are skipped; And() with no live filters accepts everything.
func And(filters ...Filter) Filter {
	var live []Filter
	for _, f := range filters {
		if f != nil {
			live = append(live, f)
		}
	}
	return func(doc *Document) bool {
		for _, f := range live {
			if !f(doc) {
				return false
			}
		}
		return true
	}
}

// HasAnyField accepts documents carrying at least one of the named fields.
// Used to narrow a stored-field scan to the documents that can contribute.
func HasAnyField(fields ...string) Filter {
	return func(doc *Document) bool {
		for _, f := range fields {
			if doc.Has(f) {
				return true
			}
		}
		return false
	}
}
