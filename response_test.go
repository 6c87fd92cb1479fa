package main

import (
	"strings"
	"testing"

	"github.com/cert-lv/ordergrid/pdk"
)

var testTable = &pdk.Table{
	Columns: pdk.Columns,
	Rows: []pdk.DisplayRow{{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "a@x.com",
		Date:      "2020-01-01",
		Amount:    10.5,
		Location:  "Rome",
		Products:  []string{"Shoe", "Hat"},
	}},
}

func TestFormatTable(t *testing.T) {
	tables := []struct {
		format   string
		mime     string
		contains []string
	}{
		{"", "application/json", []string{`"firstName":"Ann"`, `"products":["Shoe","Hat"]`, `"displayLabel":"First Name"`}},
		{"table", "text/plain; charset=utf-8", []string{"FIRST NAME", "Ann", "10.50", "Shoe, Hat"}},
		{"csv", "text/csv; charset=utf-8", []string{"firstName,lastName,email,date,amount,location,products\n", `Ann,Lee,a@x.com,2020-01-01,10.50,Rome,"Shoe, Hat"`}},
	}

	for _, table := range tables {
		output, mime, err := formatTable(testTable, table.format)
		if err != nil {
			t.Errorf("Can't format '%s': %s", table.format, err.Error())
			continue
		}

		if mime != table.mime {
			t.Errorf("'%s': unexpected MIME type %s", table.format, mime)
		}

		for _, s := range table.contains {
			if !strings.Contains(output, s) {
				t.Errorf("'%s' output must contain '%s':\n%s", table.format, s, output)
			}
		}
	}

	_, _, err := formatTable(testTable, "xml")
	if err == nil {
		t.Errorf("Unknown format must fail")
	}
}

func TestFormatEmptyCSV(t *testing.T) {
	output, err := formatCSV(&pdk.Table{Columns: pdk.Columns})
	if err != nil {
		t.Fatalf("Can't format: %s", err.Error())
	}

	if output != "firstName,lastName,email,date,amount,location,products\n" {
		t.Errorf("Headers only expected: %s", output)
	}
}

// Columns order doesn't depend on the rows count
func TestFormatCSVOrder(t *testing.T) {
	header := "firstName,lastName,email,date,amount,location,products"

	tables := []struct {
		table  *pdk.Table
		output string
	}{
		{&pdk.Table{Columns: pdk.Columns}, header + "\n"},
		{testTable, header + "\n" + `Ann,Lee,a@x.com,2020-01-01,10.50,Rome,"Shoe, Hat"` + "\n"},
	}

	for i, table := range tables {
		output, err := formatCSV(table.table)
		if err != nil {
			t.Errorf("#%d: can't format: %s", i, err.Error())
			continue
		}

		if output != table.output {
			t.Errorf("#%d: unexpected CSV:\n%s", i, output)
		}
	}
}
