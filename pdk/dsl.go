/*
 * SQL filters to Elasticsearch query converter
 * Based on: https://github.com/cch123/elasticsql
 */

package pdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
)

/*
 * Build Elasticsearch search request body.
 *
 * Every filter becomes one element of the "bool.filter" array
 * in the given order, negated filters are wrapped into "must_not"
 */
func BuildQuery(filters []Filter, size int) (string, error) {
	clauses := []string{}

	for _, filter := range filters {
		clause, err := FilterClause(filter)
		if err != nil {
			return "", err
		}

		clauses = append(clauses, clause)
	}

	query := `{"match_all" : {}}`
	if len(clauses) > 0 {
		query = fmt.Sprintf(`{"bool" : {"filter" : [%s]}}`, strings.Join(clauses, ", "))
	}

	return fmt.Sprintf(`{"query" : %s, "size" : %d}`, query, size), nil
}

/*
 * Convert a single filter into the Elasticsearch query clause
 */
func FilterClause(filter Filter) (string, error) {
	if strings.TrimSpace(filter.Query) == "" {
		return "", fmt.Errorf("Filter query can't be empty")
	}

	ast, err := sqlparser.Parse("SELECT * FROM orders WHERE " + filter.Query)
	if err != nil {
		return "", fmt.Errorf("Can't parse filter '%s': %s", filter.Query, err.Error())
	}

	sel, ok := ast.(*sqlparser.Select)
	if !ok || sel.Where == nil {
		return "", fmt.Errorf("Filter '%s' is not a WHERE condition", filter.Query)
	}

	// Top level node pass in an empty interface
	// to tell the children this is root
	var root sqlparser.Expr

	clause, err := whereClause(&sel.Where.Expr, &root)
	if err != nil {
		return "", fmt.Errorf("Can't convert filter '%s': %s", filter.Query, err.Error())
	}

	if filter.Negate {
		clause = fmt.Sprintf(`{"bool" : {"must_not" : [%s]}}`, clause)
	}

	return clause, nil
}

func whereClause(expr *sqlparser.Expr, parent *sqlparser.Expr) (string, error) {
	if expr == nil {
		return "", errors.New("SQL expression cannot be nil here")
	}

	switch (*expr).(type) {
	case *sqlparser.ComparisonExpr:
		return comparisonClause(expr)

	case *sqlparser.AndExpr:
		return andClause(expr, parent)

	case *sqlparser.OrExpr:
		return orClause(expr, parent)

	case *sqlparser.IsExpr:
		return isClause(expr)

	case *sqlparser.NotExpr:
		return "", errors.New("'not' expression currently not supported, use a negated filter")

	case *sqlparser.RangeCond:
		return betweenClause(expr)

	case *sqlparser.ParenExpr:
		inner := (*expr).(*sqlparser.ParenExpr).Expr
		return whereClause(&inner, parent)
	}

	return "", fmt.Errorf("Unexpected SQL expression type received: %T", *expr)
}

func comparisonClause(expr *sqlparser.Expr) (string, error) {
	comparison := (*expr).(*sqlparser.ComparisonExpr)

	colName, ok := comparison.Left.(*sqlparser.ColName)
	if !ok {
		return "", errors.New("Invalid comparison expression, the left must be a column name")
	}

	field := strings.Replace(sqlparser.String(colName), "`", "", -1)

	// Lists are handled separately
	if comparison.Operator == "in" || comparison.Operator == "not in" {
		tuple, ok := comparison.Right.(sqlparser.ValTuple)
		if !ok {
			return "", fmt.Errorf("'%s' expects a list of values", comparison.Operator)
		}

		values := []string{}
		for _, item := range tuple {
			value, err := rightValue(item)
			if err != nil {
				return "", err
			}
			values = append(values, value)
		}

		clause := fmt.Sprintf(`{"terms" : {%s : [%s]}}`, literal(field), strings.Join(values, ", "))
		if comparison.Operator == "not in" {
			clause = fmt.Sprintf(`{"bool" : {"must_not" : [%s]}}`, clause)
		}

		return clause, nil
	}

	value, err := rightValue(comparison.Right)
	if err != nil {
		return "", err
	}

	switch comparison.Operator {
	case "=":
		return fmt.Sprintf(`{"match_phrase" : {%s : %s}}`, literal(field), value), nil
	case "!=", "<>":
		return fmt.Sprintf(`{"bool" : {"must_not" : [{"match_phrase" : {%s : %s}}]}}`, literal(field), value), nil
	case ">":
		return fmt.Sprintf(`{"range" : {%s : {"gt" : %s}}}`, literal(field), value), nil
	case "<":
		return fmt.Sprintf(`{"range" : {%s : {"lt" : %s}}}`, literal(field), value), nil
	case ">=":
		return fmt.Sprintf(`{"range" : {%s : {"gte" : %s}}}`, literal(field), value), nil
	case "<=":
		return fmt.Sprintf(`{"range" : {%s : {"lte" : %s}}}`, literal(field), value), nil

	case "like", "not like":
		pattern, ok := comparison.Right.(*sqlparser.SQLVal)
		if !ok || pattern.Type != sqlparser.StrVal {
			return "", fmt.Errorf("'%s' expects a string pattern", comparison.Operator)
		}

		wildcard := strings.Replace(string(pattern.Val), "%", "*", -1)
		clause := fmt.Sprintf(`{"wildcard" : {%s : {"value" : %s}}}`, literal(field), literal(wildcard))

		if comparison.Operator == "not like" {
			clause = fmt.Sprintf(`{"bool" : {"must_not" : [%s]}}`, clause)
		}

		return clause, nil
	}

	return "", fmt.Errorf("Unsupported operator '%s'", comparison.Operator)
}

/*
 * Merge AND children into a single "must" list
 * if the parent node is also AND
 */
func andClause(expr *sqlparser.Expr, parent *sqlparser.Expr) (string, error) {
	and := (*expr).(*sqlparser.AndExpr)

	joined, err := joinChildren(and.Left, and.Right, expr)
	if err != nil {
		return "", err
	}

	if _, ok := (*parent).(*sqlparser.AndExpr); ok {
		return joined, nil
	}

	return fmt.Sprintf(`{"bool" : {"must" : [%s]}}`, joined), nil
}

/*
 * Merge OR children into a single "should" list
 * if the parent node is also OR
 */
func orClause(expr *sqlparser.Expr, parent *sqlparser.Expr) (string, error) {
	or := (*expr).(*sqlparser.OrExpr)

	joined, err := joinChildren(or.Left, or.Right, expr)
	if err != nil {
		return "", err
	}

	if _, ok := (*parent).(*sqlparser.OrExpr); ok {
		return joined, nil
	}

	return fmt.Sprintf(`{"bool" : {"should" : [%s], "minimum_should_match" : 1}}`, joined), nil
}

func joinChildren(left, right sqlparser.Expr, parent *sqlparser.Expr) (string, error) {
	leftStr, err := whereClause(&left, parent)
	if err != nil {
		return "", err
	}

	rightStr, err := whereClause(&right, parent)
	if err != nil {
		return "", err
	}

	return leftStr + ", " + rightStr, nil
}

/*
 * "field IS [NOT] NULL" checks whether the field exists
 */
func isClause(expr *sqlparser.Expr) (string, error) {
	is := (*expr).(*sqlparser.IsExpr)

	colName, ok := is.Expr.(*sqlparser.ColName)
	if !ok {
		return "", errors.New("'is' expects a column name")
	}

	exists := fmt.Sprintf(`{"exists" : {"field" : %s}}`, literal(strings.Trim(sqlparser.String(colName), "`")))

	switch strings.ToLower(is.Operator) {
	case "is not null":
		return exists, nil
	case "is null":
		return fmt.Sprintf(`{"bool" : {"must_not" : [%s]}}`, exists), nil
	}

	return "", fmt.Errorf("Unsupported '%s' expression", is.Operator)
}

/*
 * "field BETWEEN a AND b" is an inclusive range query
 */
func betweenClause(expr *sqlparser.Expr) (string, error) {
	rangeCond := (*expr).(*sqlparser.RangeCond)

	colName, ok := rangeCond.Left.(*sqlparser.ColName)
	if !ok {
		return "", errors.New("Range column name missing")
	}
	field := strings.Trim(sqlparser.String(colName), "`")

	from, err := rightValue(rangeCond.From)
	if err != nil {
		return "", fmt.Errorf("Invalid BETWEEN 'from' value: %s", err.Error())
	}

	to, err := rightValue(rangeCond.To)
	if err != nil {
		return "", fmt.Errorf("Invalid BETWEEN 'to' value: %s", err.Error())
	}

	clause := fmt.Sprintf(`{"range" : {%s : {"gte" : %s, "lte" : %s}}}`, literal(field), from, to)

	if rangeCond.Operator == "not between" {
		clause = fmt.Sprintf(`{"bool" : {"must_not" : [%s]}}`, clause)
	}

	return clause, nil
}

/*
 * Prepare a JSON value of the right side of the expression,
 * keeping the numeric types
 */
func rightValue(expr sqlparser.Expr) (string, error) {
	switch expr := expr.(type) {
	case *sqlparser.SQLVal:
		switch expr.Type {
		case sqlparser.IntVal:
			i, err := strconv.Atoi(string(expr.Val))
			if err != nil {
				return "", err
			}
			return literal(i), nil

		case sqlparser.FloatVal:
			f, err := strconv.ParseFloat(string(expr.Val), 64)
			if err != nil {
				return "", err
			}
			return literal(f), nil

		case sqlparser.StrVal:
			return literal(string(expr.Val)), nil
		}

		return "", fmt.Errorf("Unexpected field value's type: %v (%v)", string(expr.Val), expr.Type)

	case sqlparser.BoolVal:
		return literal(bool(expr)), nil

	case *sqlparser.ColName:
		return "", errors.New("Column name on the right side of compare operator is not supported")
	}

	return "", fmt.Errorf("Unexpected SQL expression right part's type: %T", expr)
}

func literal(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
