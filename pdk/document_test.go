package pdk

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestProject(t *testing.T) {
	row, err := Project(SourceDocument{ID: "1", Source: []byte(annSource)})
	if err != nil {
		t.Fatalf("Can't project: %s", err.Error())
	}

	if !reflect.DeepEqual(row, annRow) {
		t.Errorf("Unexpected row: %+v", row)
	}
}

func TestProjectProductsOrder(t *testing.T) {
	source := `{"customer_first_name":"A","customer_last_name":"B","email":"e","order_date":"d",
		"taxless_total_price":1,"geoip":{"city_name":"C"},
		"products":[{"product_name":"z"},{"product_name":"a"},{"product_name":"z"}]}`

	row, err := Project(SourceDocument{Source: []byte(source)})
	if err != nil {
		t.Fatalf("Can't project: %s", err.Error())
	}

	if !reflect.DeepEqual(row.Products, []string{"z", "a", "z"}) {
		t.Errorf("Products order or length changed: %v", row.Products)
	}

	empty := strings.Replace(source, `[{"product_name":"z"},{"product_name":"a"},{"product_name":"z"}]`, `[]`, 1)
	row, err = Project(SourceDocument{Source: []byte(empty)})
	if err != nil || len(row.Products) != 0 {
		t.Errorf("Empty products list must be accepted: %+v, %v", row, err)
	}
}

func TestProjectMissingFields(t *testing.T) {
	tables := []struct {
		remove string
		field  string
	}{
		{`"customer_first_name":"Ann",`, "customer_first_name"},
		{`"customer_last_name":"Lee",`, "customer_last_name"},
		{`"email":"a@x.com",`, "email"},
		{`"order_date":"2020-01-01",`, "order_date"},
		{`"taxless_total_price":10.5,`, "taxless_total_price"},
		{`"geoip":{"city_name":"Rome"},`, "geoip.city_name"},
		{`"city_name":"Rome"`, "geoip.city_name"},
		{`"product_name":"Shoe"`, "products.product_name"},
	}

	for _, table := range tables {
		source := strings.Replace(annSource, table.remove, "", 1)

		_, err := Project(SourceDocument{ID: "42", Source: []byte(source)})
		if !errors.Is(err, ErrMalformedDocument) {
			t.Errorf("Missing '%s': ErrMalformedDocument expected, got %v", table.field, err)
			continue
		}

		if !strings.Contains(err.Error(), table.field) || !strings.Contains(err.Error(), "42") {
			t.Errorf("Error must name the document and field '%s': %s", table.field, err.Error())
		}
	}

	_, err := Project(SourceDocument{Source: []byte(`{"products":"none"}`)})
	if !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("Wrong field type must be malformed, got %v", err)
	}
}

func TestProjectAll(t *testing.T) {
	docs := []SourceDocument{}
	for _, name := range []string{"Ann", "Bob", "Cid"} {
		docs = append(docs, SourceDocument{Source: []byte(strings.Replace(annSource, "Ann", name, 1))})
	}

	rows, err := ProjectAll(docs)
	if err != nil {
		t.Fatalf("Can't project: %s", err.Error())
	}

	if len(rows) != 3 || rows[0].FirstName != "Ann" || rows[1].FirstName != "Bob" || rows[2].FirstName != "Cid" {
		t.Errorf("Rows must follow the source order: %+v", rows)
	}

	docs = append(docs, SourceDocument{Source: []byte(`{}`)})
	rows, err = ProjectAll(docs)
	if err == nil || rows != nil {
		t.Errorf("Single malformed document must fail all: %+v", rows)
	}
}
