package pdk

import (
	"testing"
)

func TestSortRows(t *testing.T) {
	rows := []DisplayRow{
		{FirstName: "Bob", Amount: 20, Date: "2020-01-02", Location: "Rome"},
		{FirstName: "Ann", Amount: 5.5, Date: "2020-01-03", Location: "Oslo"},
		{FirstName: "Cid", Amount: 20, Date: "2020-01-01", Location: "Riga"},
	}

	tables := []struct {
		sort     *SortState
		expected []string
	}{
		{nil, []string{"Bob", "Ann", "Cid"}},
		{&SortState{Column: "firstName", Direction: Asc}, []string{"Ann", "Bob", "Cid"}},
		{&SortState{Column: "amount", Direction: Asc}, []string{"Ann", "Bob", "Cid"}},
		{&SortState{Column: "amount", Direction: Desc}, []string{"Bob", "Cid", "Ann"}},
		{&SortState{Column: "date", Direction: Desc}, []string{"Ann", "Bob", "Cid"}},
		{&SortState{Column: "location", Direction: Asc}, []string{"Ann", "Cid", "Bob"}},
	}

	for _, table := range tables {
		sorted, err := SortRows(rows, Columns, table.sort)
		if err != nil {
			t.Errorf("Can't sort by %+v: %s", table.sort, err.Error())
			continue
		}

		for i, name := range table.expected {
			if sorted[i].FirstName != name {
				t.Errorf("Sort by %+v: got %+v, expected order %v", table.sort, sorted, table.expected)
				break
			}
		}
	}

	if rows[0].FirstName != "Bob" {
		t.Errorf("Source rows must not be modified")
	}
}

func TestSortRowsErrors(t *testing.T) {
	tables := []*SortState{
		{Column: "unknown", Direction: Asc},
		{Column: "products", Direction: Asc},
	}

	for _, state := range tables {
		_, err := SortRows([]DisplayRow{}, Columns, state)
		if err == nil {
			t.Errorf("Error expected for %+v", state)
		}
	}
}

func TestParseSort(t *testing.T) {
	state, err := ParseSort("", "desc")
	if state != nil || err != nil {
		t.Errorf("No sorting expected: %+v, %v", state, err)
	}

	state, err = ParseSort("amount", "")
	if err != nil || state.Direction != Asc {
		t.Errorf("Ascending order expected: %+v, %v", state, err)
	}

	state, err = ParseSort("amount", "DESC")
	if err != nil || state.Direction != Desc {
		t.Errorf("Descending order expected: %+v, %v", state, err)
	}

	_, err = ParseSort("amount", "up")
	if err == nil {
		t.Errorf("Unexpected order must fail")
	}
}
