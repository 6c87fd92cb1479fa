package pdk

import (
	"fmt"
	"sort"
	"strings"
)

/*
 * Single column of the rendered grid
 */
type Column struct {
	ID       string `json:"id"`
	Label    string `json:"displayLabel"`
	Sortable bool   `json:"sortable"`
}

/*
 * Columns of the orders grid in the display order
 */
var Columns = []Column{
	{ID: "firstName", Label: "First Name", Sortable: true},
	{ID: "lastName", Label: "Last Name", Sortable: true},
	{ID: "email", Label: "Email", Sortable: true},
	{ID: "date", Label: "Date", Sortable: true},
	{ID: "amount", Label: "Amount", Sortable: true},
	{ID: "location", Label: "City", Sortable: true},
	{ID: "products", Label: "Products", Sortable: false},
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

/*
 * Render contract consumed by the table views
 */
type Table struct {
	Columns []Column     `json:"columns"`
	Rows    []DisplayRow `json:"rows"`
	Sort    *SortState   `json:"sort,omitempty"`
}

/*
 * Parse user's sort parameters.
 * Empty column means no sorting, empty order means ascending
 */
func ParseSort(column, order string) (*SortState, error) {
	if column == "" {
		return nil, nil
	}

	switch Direction(strings.ToLower(order)) {
	case "", Asc:
		return &SortState{Column: column, Direction: Asc}, nil
	case Desc:
		return &SortState{Column: column, Direction: Desc}, nil
	}

	return nil, fmt.Errorf("Unexpected sort order '%s', 'asc' or 'desc' expected", order)
}

/*
 * Stable in-memory sort of the rows by a single column.
 * The given slice is not modified
 */
func SortRows(rows []DisplayRow, columns []Column, state *SortState) ([]DisplayRow, error) {
	sorted := copyRows(rows)

	if state == nil {
		return sorted, nil
	}

	var column *Column
	for i := range columns {
		if columns[i].ID == state.Column {
			column = &columns[i]
			break
		}
	}

	if column == nil {
		return nil, fmt.Errorf("Unknown column '%s'", state.Column)
	} else if !column.Sortable {
		return nil, fmt.Errorf("Column '%s' is not sortable", state.Column)
	}

	less, err := lessFunc(state.Column)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if state.Direction == Desc {
			return less(sorted[j], sorted[i])
		}

		return less(sorted[i], sorted[j])
	})

	return sorted, nil
}

func lessFunc(column string) (func(a, b DisplayRow) bool, error) {
	switch column {
	case "firstName":
		return func(a, b DisplayRow) bool { return a.FirstName < b.FirstName }, nil
	case "lastName":
		return func(a, b DisplayRow) bool { return a.LastName < b.LastName }, nil
	case "email":
		return func(a, b DisplayRow) bool { return a.Email < b.Email }, nil
	case "date":
		// ISO-like dates sort lexically
		return func(a, b DisplayRow) bool { return a.Date < b.Date }, nil
	case "amount":
		return func(a, b DisplayRow) bool { return a.Amount < b.Amount }, nil
	case "location":
		return func(a, b DisplayRow) bool { return a.Location < b.Location }, nil
	}

	return nil, fmt.Errorf("No comparator for column '%s'", column)
}
