package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cert-lv/ordergrid/pdk"
)

func request(t *testing.T, method, url, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	apiRoutes(mux)

	r := httptest.NewRequest(method, url, strings.NewReader(body))
	if method == http.MethodPost && strings.Contains(url, "/api/search") {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	return w
}

func TestSearchHandler(t *testing.T) {
	fake := setupTest(t)

	w := request(t, http.MethodPost, "/api/search?from=2020-01-01T00:00:00Z&to=2020-02-01T00:00:00Z", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Unexpected status %d: %s", w.Code, w.Body.String())
	}

	response := &APIresponse{}
	err := json.Unmarshal(w.Body.Bytes(), response)
	if err != nil {
		t.Fatalf("Can't parse response: %s", err.Error())
	}

	if response.Result == nil || response.Result.Rows != 1 || response.Error != "" {
		t.Errorf("Unexpected response: %s", w.Body.String())
	}

	// Active filter followed by the time filter
	sent := fake.received[0]
	if len(sent) != 2 || sent[0].Query != "customer_gender='FEMALE'" ||
		sent[1].Query != "order_date BETWEEN '2020-01-01T00:00:00Z' AND '2020-02-01T00:00:00Z'" {
		t.Errorf("Unexpected filters sent: %+v", sent)
	}

	if len(grid.Rows()) != 1 || grid.Rows()[0].Location != "Rome" {
		t.Errorf("Unexpected rows: %+v", grid.Rows())
	}

	list := toasts.List()
	if len(list) != 1 || list[0].Type != "success" || list[0].Message != pdk.MessageUpdated {
		t.Errorf("Unexpected notifications: %+v", list)
	}
}

func TestSearchHandlerErrors(t *testing.T) {
	fake := setupTest(t)

	w := request(t, http.MethodGet, "/api/search", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET must not be allowed: %d", w.Code)
	}

	w = request(t, http.MethodPost, "/api/search?from=yesterday", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Invalid time must be rejected: %d", w.Code)
	}

	// Backend failure keeps previous rows
	request(t, http.MethodPost, "/api/search", "")
	fake.err = errors.New("connection refused")

	w = request(t, http.MethodPost, "/api/search", "")
	if w.Code != http.StatusBadGateway {
		t.Errorf("Bad gateway expected: %d", w.Code)
	}

	response := &APIresponse{}
	json.Unmarshal(w.Body.Bytes(), response)

	if response.Kind != "search_failed" {
		t.Errorf("Unexpected error kind: %s", w.Body.String())
	}

	if len(grid.Rows()) != 1 {
		t.Errorf("Previous rows must be kept: %+v", grid.Rows())
	}

	list := toasts.List()
	if len(list) != 2 || list[1].Type != "danger" || list[1].Message != pdk.MessageFailed {
		t.Errorf("Unexpected notifications: %+v", list)
	}

	// No index
	fake.err = nil
	fake.patterns = nil

	w = request(t, http.MethodPost, "/api/search", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Not found expected: %d", w.Code)
	}
}

func TestParseTimeRange(t *testing.T) {
	tables := []struct {
		from, to string
		valid    bool
	}{
		{"2020-01-01T00:00:00Z", "2020-02-01T00:00:00Z", true},
		{"2020-01-01T00:00:00Z", "", true},
		{"", "2020-02-01T00:00:00Z", true},
		{"2020-02-01T00:00:00Z", "2020-01-01T00:00:00Z", false},
		{"2020-01-01", "", false},
		{"", "now", false},
	}

	for _, table := range tables {
		_, err := parseTimeRange(table.from, table.to)
		if (err == nil) != table.valid {
			t.Errorf("'%s' - '%s': valid %v expected, got error %v", table.from, table.to, table.valid, err)
		}
	}
}

func TestRowsHandler(t *testing.T) {
	fake := setupTest(t)
	fake.docs = append(fake.docs, pdk.SourceDocument{
		ID:     "2",
		Source: []byte(strings.Replace(strings.Replace(annSource, "Ann", "Zoe", 1), "10.5", "99", 1)),
	})

	request(t, http.MethodPost, "/api/search", "")

	w := request(t, http.MethodGet, "/api/rows?sort=amount&order=desc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Unexpected status %d: %s", w.Code, w.Body.String())
	}

	table := &pdk.Table{}
	err := json.Unmarshal(w.Body.Bytes(), table)
	if err != nil {
		t.Fatalf("Can't parse table: %s", err.Error())
	}

	if len(table.Rows) != 2 || table.Rows[0].FirstName != "Zoe" || table.Sort.Direction != pdk.Desc {
		t.Errorf("Unexpected table: %s", w.Body.String())
	}

	w = request(t, http.MethodGet, "/api/rows?format=table", "")
	if !strings.Contains(w.Body.String(), "FIRST NAME") || !strings.Contains(w.Body.String(), "Zoe") {
		t.Errorf("Unexpected ASCII table:\n%s", w.Body.String())
	}

	tables := []string{
		"/api/rows?sort=products",
		"/api/rows?sort=amount&order=up",
		"/api/rows?format=xml",
	}

	for _, url := range tables {
		w = request(t, http.MethodGet, url, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: bad request expected, got %d", url, w.Code)
		}
	}
}

func TestFiltersHandler(t *testing.T) {
	setupTest(t)

	w := request(t, http.MethodPost, "/api/filters", `[{"query":"email='a@x.com'","enabled":true},{"query":"a=1"}]`)
	if w.Code != http.StatusOK {
		t.Fatalf("Unexpected status %d: %s", w.Code, w.Body.String())
	}

	if len(filters.All()) != 2 || len(filters.GetFilters()) != 1 {
		t.Errorf("Unexpected filters: %+v", filters.All())
	}

	tables := []string{
		`not json`,
		`[{"query":"email=","enabled":true}]`,
	}

	for _, body := range tables {
		w = request(t, http.MethodPost, "/api/filters", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("'%s': bad request expected, got %d", body, w.Code)
		}
	}

	// Invalid filters must not replace the valid ones
	w = request(t, http.MethodGet, "/api/filters", "")

	list := []pdk.Filter{}
	json.Unmarshal(w.Body.Bytes(), &list)

	if len(list) != 2 || list[0].Query != "email='a@x.com'" {
		t.Errorf("Unexpected filters: %s", w.Body.String())
	}
}

func TestNotificationsHandler(t *testing.T) {
	setupTest(t)

	toasts.AddSuccess("one")
	toasts.AddDanger("two")

	w := request(t, http.MethodGet, "/api/notifications", "")

	list := []*Notification{}
	json.Unmarshal(w.Body.Bytes(), &list)

	if len(list) != 2 || list[1].Type != "danger" {
		t.Errorf("Unexpected notifications: %s", w.Body.String())
	}

	w = request(t, http.MethodDelete, "/api/notifications", "")
	if strings.TrimSpace(w.Body.String()) != "[]" || len(toasts.List()) != 0 {
		t.Errorf("Notifications must be cleaned: %s", w.Body.String())
	}
}

func TestFieldsAndStatsHandlers(t *testing.T) {
	setupTest(t)

	w := request(t, http.MethodGet, "/api/fields", "")
	if !strings.Contains(w.Body.String(), "geoip.city_name") {
		t.Errorf("Unexpected fields: %s", w.Body.String())
	}

	request(t, http.MethodPost, "/api/search", "")

	w = request(t, http.MethodGet, "/api/stats", "")

	top := map[string]map[string]int{}
	json.Unmarshal(w.Body.Bytes(), &top)

	if top["location"]["Rome"] != 1 || top["products"]["Shoe"] != 1 {
		t.Errorf("Unexpected stats: %s", w.Body.String())
	}
}
