package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cert-lv/ordergrid/pdk"
	"github.com/olekukonko/tablewriter"
	"github.com/yukithm/json2csv"
)

/*
 * Structure that API returns as a search result
 */
type APIresponse struct {
	// Summary of the executed search
	Result *pdk.Result `json:"result,omitempty"`

	// Displayed rows with columns description
	Table *pdk.Table `json:"table,omitempty"`

	// Error kind & message to show
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error,omitempty"`
}

/*
 * Send a JSON response to the API user.
 * Receives user's IP for the logs
 */
func (a *APIresponse) send(w http.ResponseWriter, ip string, status int) {
	b, err := json.Marshal(a)
	if err != nil {
		log.Error().
			Str("ip", ip).
			Msg("Can't marshal an API response: " + err.Error())

		http.Error(w, `{"error":"Can't format API response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(b)
	if err != nil {
		log.Error().
			Str("ip", ip).
			Msg("Can't send an API response: " + err.Error())
	}
}

/*
 * Format displayed rows.
 * Receives a requested format, JSON will be used by default.
 * Returns formatted content and its MIME type
 */
func formatTable(table *pdk.Table, format string) (string, string, error) {
	switch format {
	case "", "json":
		b, err := json.Marshal(table)
		if err != nil {
			return "", "", fmt.Errorf("Can't format rows to JSON: %s", err.Error())
		}
		return string(b), "application/json", nil

	case "table":
		return formatASCII(table), "text/plain; charset=utf-8", nil

	case "csv":
		output, err := formatCSV(table)
		if err != nil {
			return "", "", err
		}
		return output, "text/csv; charset=utf-8", nil
	}

	return "", "", fmt.Errorf("Unexpected format '%s', 'json', 'table' or 'csv' expected", format)
}

/*
 * Render an ASCII table with columns in the display order
 */
func formatASCII(table *pdk.Table) string {
	buf := &bytes.Buffer{}

	headers := []string{}
	for _, column := range table.Columns {
		headers = append(headers, column.Label)
	}

	writer := tablewriter.NewWriter(buf)
	writer.SetHeader(headers)

	for _, row := range table.Rows {
		values := rowValues(row)

		cells := []string{}
		for _, column := range table.Columns {
			cells = append(cells, values[column.ID])
		}

		writer.Append(cells)
	}

	writer.Render()

	return buf.String()
}

/*
 * Convert rows to CSV, headers are column IDs
 * in the display order
 */
func formatCSV(table *pdk.Table) (string, error) {
	records := []map[string]interface{}{}

	for _, row := range table.Rows {
		record := make(map[string]interface{})
		for id, value := range rowValues(row) {
			record[id] = value
		}

		records = append(records, record)
	}

	ids := []string{}
	for _, column := range table.Columns {
		ids = append(ids, column.ID)
	}

	results := []json2csv.KeyValue{}

	if len(records) != 0 {
		var err error

		results, err = json2csv.JSON2CSV(records)
		if err != nil {
			return "", fmt.Errorf("Can't convert rows to CSV: %s", err.Error())
		}
	}

	buf := &bytes.Buffer{}
	wr := json2csv.NewCSVWriter(buf)

	// Writer sorts headers alphabetically,
	// so records are written in the columns order here
	err := wr.Write(ids)
	if err != nil {
		return "", fmt.Errorf("Can't format CSV headers: %s", err.Error())
	}

	for _, result := range results {
		record := make([]string, 0, len(ids))
		for _, id := range ids {
			value, ok := result["/"+id]
			if !ok {
				record = append(record, "")
				continue
			}

			record = append(record, fmt.Sprintf("%v", value))
		}

		err = wr.Write(record)
		if err != nil {
			return "", fmt.Errorf("Can't format rows to CSV: %s", err.Error())
		}
	}

	wr.Flush()

	err = wr.Error()
	if err != nil {
		return "", fmt.Errorf("Can't format rows to CSV: %s", err.Error())
	}

	return buf.String(), nil
}

/*
 * Textual values of a row, column ID -> value
 */
func rowValues(row pdk.DisplayRow) map[string]string {
	return map[string]string{
		"firstName": row.FirstName,
		"lastName":  row.LastName,
		"email":     row.Email,
		"date":      row.Date,
		"amount":    strconv.FormatFloat(row.Amount, 'f', 2, 64),
		"location":  row.Location,
		"products":  strings.Join(row.Products, ", "),
	}
}
