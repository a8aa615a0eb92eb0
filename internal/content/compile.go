// Copyright (c) 2026 Lurnex. All rights reserved.

package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// compiler turns clauses into a PostgreSQL predicate. Values only ever
// travel as bind parameters; field names are inlined as JSON keys after
// [Query.Validate] has checked them against the identifier pattern.
type compiler struct {
	args    []any
	aliases int
}

func compileFetch(query Query) (string, []any) {
	builder := &compiler{}

	var statement strings.Builder
	statement.WriteString(fmt.Sprintf("SELECT %s FROM %s d WHERE %s",
		selectColumns("d"), documentTable.Table, builder.where("d", query)))
	statement.WriteString(" ORDER BY ")
	statement.WriteString(builder.orderBy("d", query.Order))

	if query.Limit > 0 {
		statement.WriteString(" LIMIT " + builder.bind(query.Limit))
	}
	if query.Offset > 0 {
		statement.WriteString(" OFFSET " + builder.bind(query.Offset))
	}
	return statement.String(), builder.args
}

func compileCount(query Query) (string, []any) {
	builder := &compiler{}
	statement := fmt.Sprintf("SELECT count(*) FROM %s d WHERE %s", documentTable.Table, builder.where("d", query))
	return statement, builder.args
}

func (builder *compiler) bind(value any) string {
	builder.args = append(builder.args, value)
	return fmt.Sprintf("$%d", len(builder.args))
}

func (builder *compiler) where(alias string, query Query) string {
	parts := []string{fmt.Sprintf("%s.%s = %s", alias, documentTable.Type, builder.bind(query.Type))}
	for _, clause := range query.Clauses {
		parts = append(parts, builder.clause(alias, clause))
	}
	return strings.Join(parts, " AND ")
}

func (builder *compiler) clause(alias string, clause Clause) string {
	if len(clause.Any) > 0 {
		members := make([]string, 0, len(clause.Any))
		for _, member := range clause.Any {
			members = append(members, builder.clause(alias, member))
		}
		return "(" + strings.Join(members, " OR ") + ")"
	}

	if clause.Deref == "" {
		return builder.op(alias, clause.Field, clause.Op, clause.Value)
	}

	// A bare string reference and a reference array both contain the ID scalar.
	builder.aliases++
	ref := fmt.Sprintf("r%d", builder.aliases)
	return fmt.Sprintf("EXISTS (SELECT 1 FROM %s %s WHERE %s @> to_jsonb(%s.%s) AND %s)",
		documentTable.Table, ref,
		jsonExpr(alias, clause.Field),
		ref, documentTable.ID,
		builder.op(ref, clause.Deref, clause.Op, clause.Value),
	)
}

func (builder *compiler) op(alias, field string, op Op, value any) string {
	switch op {
	case OpDefined:
		if isVirtual(field) {
			return "TRUE"
		}
		return fmt.Sprintf("COALESCE(%s, 'null'::jsonb) <> 'null'::jsonb", jsonExpr(alias, field))
	case OpUndefined:
		if isVirtual(field) {
			return "FALSE"
		}
		return fmt.Sprintf("COALESCE(%s, 'null'::jsonb) = 'null'::jsonb", jsonExpr(alias, field))
	case OpGte:
		return fmt.Sprintf("%s >= %s", timeExpr(alias, field), builder.bind(value))
	case OpLte:
		return fmt.Sprintf("%s <= %s", timeExpr(alias, field), builder.bind(value))
	case OpMatch:
		return fmt.Sprintf("%s ILIKE %s", textExpr(alias, field), builder.bind("%"+escapeLike(value.(string))+"%"))
	case OpContains:
		return fmt.Sprintf("%s @> %s::jsonb", jsonExpr(alias, field), builder.bind(jsonText([]any{value})))
	case OpEq:
		switch field {
		case FieldID:
			return fmt.Sprintf("%s.%s = %s", alias, documentTable.ID, builder.bind(fmt.Sprint(value)))
		case FieldCreatedAt, FieldUpdatedAt, FieldPublishedAt:
			return fmt.Sprintf("%s = %s::timestamptz", timeExpr(alias, field), builder.bind(fmt.Sprint(value)))
		}
		return fmt.Sprintf("%s = %s::jsonb", jsonExpr(alias, field), builder.bind(jsonText(value)))
	}
	return "FALSE"
}

func (builder *compiler) orderBy(alias string, order []Order) string {
	keys := make([]string, 0, len(order)+1)
	for _, key := range order {
		direction := "ASC"
		if key.Desc {
			direction = "DESC"
		}
		keys = append(keys, fmt.Sprintf("%s %s NULLS LAST", sortExpr(alias, key.Field), direction))
	}
	keys = append(keys, fmt.Sprintf("%s.%s ASC", alias, documentTable.ID))
	return strings.Join(keys, ", ")
}

func jsonExpr(alias, field string) string {
	return fmt.Sprintf("%s.%s->'%s'", alias, documentTable.Body, field)
}

func textExpr(alias, field string) string {
	if field == FieldID {
		return alias + "." + documentTable.ID
	}
	return fmt.Sprintf("%s.%s->>'%s'", alias, documentTable.Body, field)
}

func timeExpr(alias, field string) string {
	switch field {
	case FieldCreatedAt:
		return alias + "." + documentTable.CreatedAt
	case FieldUpdatedAt:
		return alias + "." + documentTable.UpdatedAt
	case FieldPublishedAt:
		return fmt.Sprintf("COALESCE((%s)::timestamptz, %s.%s)", textExpr(alias, field), alias, documentTable.CreatedAt)
	}
	return fmt.Sprintf("(%s)::timestamptz", textExpr(alias, field))
}

func sortExpr(alias, field string) string {
	switch field {
	case FieldID:
		return alias + "." + documentTable.ID
	case FieldCreatedAt, FieldUpdatedAt, FieldPublishedAt:
		return timeExpr(alias, field)
	}
	return jsonExpr(alias, field)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(text string) string {
	return likeEscaper.Replace(text)
}

func jsonText(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return "null"
	}
	return string(raw)
}
