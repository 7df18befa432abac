package pgstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/2beens/portfolio/internal/odm"
)

type query struct {
	sql  string
	args []any
}

type whereBuilder struct {
	clauses []string
	args    []any
}

func (b *whereBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) sql() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// buildWhere turns the filter into jsonb containment and ILIKE clauses.
func buildWhere(filter *odm.Filter) (*whereBuilder, error) {
	b := &whereBuilder{}
	if filter.IsEmpty() {
		return b, nil
	}

	equals := map[string]any{}
	for _, c := range filter.Equals {
		if c.Field == "id" {
			b.clauses = append(b.clauses, "id = "+b.arg(c.Value))
			continue
		}
		equals[c.Field] = c.Value
	}
	if len(equals) > 0 {
		raw, err := json.Marshal(equals)
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		b.clauses = append(b.clauses, "doc @> "+b.arg(string(raw))+"::jsonb")
	}

	for _, c := range filter.Contains {
		raw, err := json.Marshal(map[string]any{c.Field: []any{c.Value}})
		if err != nil {
			return nil, fmt.Errorf("marshal filter: %w", err)
		}
		b.clauses = append(b.clauses, "doc @> "+b.arg(string(raw))+"::jsonb")
	}

	if filter.SearchTerm != "" {
		term := b.arg("%" + escapeLike(filter.SearchTerm) + "%")
		var ors []string
		for _, f := range filter.SearchFields {
			ors = append(ors, fmt.Sprintf("doc->>%s ILIKE %s", b.arg(f), term))
		}
		b.clauses = append(b.clauses, "("+strings.Join(ors, " OR ")+")")
	}

	return b, nil
}

func buildSelect(table, columns string, filter *odm.Filter, opts odm.FindOptions) (*query, error) {
	where, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s%s", columns, table, where.sql())

	if len(opts.Sort) > 0 {
		var orders []string
		for _, s := range opts.Sort {
			expr, err := sortExpr(s.Field)
			if err != nil {
				return nil, err
			}
			if s.Desc {
				orders = append(orders, expr+" DESC NULLS LAST")
			} else {
				orders = append(orders, expr+" ASC NULLS LAST")
			}
		}
		sb.WriteString(" ORDER BY " + strings.Join(orders, ", "))
	}
	if opts.Limit > 0 {
		sb.WriteString(" LIMIT " + where.arg(opts.Limit))
	}
	if opts.Skip > 0 {
		sb.WriteString(" OFFSET " + where.arg(opts.Skip))
	}

	return &query{sql: sb.String(), args: where.args}, nil
}

func buildInc(table string, filter *odm.Filter, field string, delta int64) (*query, error) {
	if !identRegex.MatchString(field) {
		return nil, fmt.Errorf("invalid field name: %s", field)
	}

	where, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}
	deltaArg := where.arg(delta)

	sql := fmt.Sprintf(
		"UPDATE %s SET doc = jsonb_set(doc, '{%s}', to_jsonb(COALESCE((doc->>'%s')::bigint, 0) + %s::bigint))%s",
		table, field, field, deltaArg, where.sql(),
	)
	return &query{sql: sql, args: where.args}, nil
}

// sortExpr maps a document field to its ORDER BY expression. Row timestamps
// use their columns, other *_at fields are cast to timestamps.
func sortExpr(field string) (string, error) {
	if !identRegex.MatchString(field) {
		return "", fmt.Errorf("invalid sort field: %s", field)
	}
	switch {
	case field == "created_at" || field == "updated_at":
		return field, nil
	case strings.HasSuffix(field, "_at"):
		return fmt.Sprintf("(doc->>'%s')::timestamptz", field), nil
	default:
		return fmt.Sprintf("doc->'%s'", field), nil
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
