package pdk

import (
	"encoding/json"
)

/*
 * Expected shape of the sample e-commerce "_source".
 * Pointers allow to detect absent fields
 */
type Order struct {
	CustomerFirstName *string  `json:"customer_first_name"`
	CustomerLastName  *string  `json:"customer_last_name"`
	Email             *string  `json:"email"`
	OrderDate         *string  `json:"order_date"`
	TaxlessTotalPrice *float64 `json:"taxless_total_price"`

	Geoip *struct {
		CityName *string `json:"city_name"`
	} `json:"geoip"`

	Products []*struct {
		ProductName *string `json:"product_name"`
	} `json:"products"`
}

/*
 * Flattened, UI-ready representation of one source document
 */
type DisplayRow struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Date      string   `json:"date"`
	Amount    float64  `json:"amount"`
	Location  string   `json:"location"`
	Products  []string `json:"products"`
}

/*
 * Project a single source document into a display row.
 * Fails with ErrMalformedDocument when a required field is absent
 */
func Project(doc SourceDocument) (DisplayRow, error) {
	order := &Order{}

	err := json.Unmarshal(doc.Source, order)
	if err != nil {
		return DisplayRow{}, searchError(ErrMalformedDocument, "document '%s': %s", doc.ID, err.Error())
	}

	missing := func(field string) (DisplayRow, error) {
		return DisplayRow{}, searchError(ErrMalformedDocument, "document '%s': '%s' is missing", doc.ID, field)
	}

	switch {
	case order.CustomerFirstName == nil:
		return missing("customer_first_name")
	case order.CustomerLastName == nil:
		return missing("customer_last_name")
	case order.Email == nil:
		return missing("email")
	case order.OrderDate == nil:
		return missing("order_date")
	case order.TaxlessTotalPrice == nil:
		return missing("taxless_total_price")
	case order.Geoip == nil || order.Geoip.CityName == nil:
		return missing("geoip.city_name")
	case order.Products == nil:
		return missing("products")
	}

	products := make([]string, 0, len(order.Products))
	for _, product := range order.Products {
		if product == nil || product.ProductName == nil {
			return missing("products.product_name")
		}

		products = append(products, *product.ProductName)
	}

	return DisplayRow{
		FirstName: *order.CustomerFirstName,
		LastName:  *order.CustomerLastName,
		Email:     *order.Email,
		Date:      *order.OrderDate,
		Amount:    *order.TaxlessTotalPrice,
		Location:  *order.Geoip.CityName,
		Products:  products,
	}, nil
}

/*
 * Project all documents preserving their order.
 * A single malformed document fails the whole projection
 */
func ProjectAll(docs []SourceDocument) ([]DisplayRow, error) {
	rows := make([]DisplayRow, 0, len(docs))

	for _, doc := range docs {
		row, err := Project(doc)
		if err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	return rows, nil
}
