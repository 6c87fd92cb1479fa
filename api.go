package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cert-lv/ordergrid/pdk"
)

/*
 * Register all the API handlers
 */
func apiRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/search", searchHandler)
	mux.HandleFunc("/api/rows", rowsHandler)
	mux.HandleFunc("/api/filters", filtersHandler)
	mux.HandleFunc("/api/notifications", notificationsHandler)
	mux.HandleFunc("/api/fields", fieldsHandler)
	mux.HandleFunc("/api/stats", statsHandler)
}

/*
 * Get requestor IP
 */
func requestIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		log.Error().Msg("User IP: " + r.RemoteAddr + " is not IP:port")
		return r.RemoteAddr
	}

	return ip
}

/*
 * Serves '/api/search' to run a new search.
 *
 * Optional "from" & "to" RFC3339 parameters replace the active time range
 */
func searchHandler(w http.ResponseWriter, r *http.Request) {
	ip := requestIP(r)
	response := &APIresponse{}

	if r.Method != http.MethodPost {
		response.Error = "POST method expected"
		response.send(w, ip, http.StatusMethodNotAllowed)
		return
	}

	if r.FormValue("from") != "" || r.FormValue("to") != "" {
		rng, err := parseTimeRange(r.FormValue("from"), r.FormValue("to"))
		if err != nil {
			response.Error = err.Error()
			response.send(w, ip, http.StatusBadRequest)
			return
		}

		timefilter.SetTime(rng)
	}

	// Search is not bound to the client's connection,
	// results must reach the grid even if the client leaves
	ctx, cancel := context.WithTimeout(context.Background(), config.Source.Timeout)
	defer cancel()

	result, err := runSearch(ctx, ip)
	response.Result = result

	if err != nil {
		response.Kind = pdk.ErrorKind(err)
		response.Error = err.Error()
		response.send(w, ip, errorStatus(err))
		return
	}

	response.send(w, ip, http.StatusOK)
}

/*
 * HTTP status of the search failure kind
 */
func errorStatus(err error) int {
	switch {
	case errors.Is(err, pdk.ErrIndexNotFound):
		return http.StatusNotFound
	case errors.Is(err, pdk.ErrAmbiguousIndex):
		return http.StatusConflict
	case errors.Is(err, pdk.ErrMalformedDocument):
		return http.StatusUnprocessableEntity
	}

	return http.StatusBadGateway
}

func parseTimeRange(from, to string) (pdk.TimeRange, error) {
	rng := pdk.TimeRange{}
	var err error

	if from != "" {
		rng.From, err = time.Parse(time.RFC3339, from)
		if err != nil {
			return rng, fmt.Errorf("Invalid 'from' time: %s", err.Error())
		}
	}

	if to != "" {
		rng.To, err = time.Parse(time.RFC3339, to)
		if err != nil {
			return rng, fmt.Errorf("Invalid 'to' time: %s", err.Error())
		}
	}

	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		return rng, fmt.Errorf("'to' time is before 'from'")
	}

	return rng, nil
}

/*
 * Serves '/api/rows' to get the displayed rows.
 *
 * Parameters:
 *   - sort:   column ID
 *   - order:  "asc" or "desc"
 *   - format: "json", "table" or "csv"
 */
func rowsHandler(w http.ResponseWriter, r *http.Request) {
	ip := requestIP(r)

	sort, err := pdk.ParseSort(r.FormValue("sort"), r.FormValue("order"))
	if err != nil {
		(&APIresponse{Error: err.Error()}).send(w, ip, http.StatusBadRequest)
		return
	}

	table, err := grid.Table(sort)
	if err != nil {
		(&APIresponse{Error: err.Error()}).send(w, ip, http.StatusBadRequest)
		return
	}

	output, mime, err := formatTable(table, r.FormValue("format"))
	if err != nil {
		(&APIresponse{Error: err.Error()}).send(w, ip, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", mime)

	_, err = fmt.Fprint(w, output)
	if err != nil {
		log.Error().
			Str("ip", ip).
			Msg("Can't send rows: " + err.Error())
	}
}

/*
 * Serves '/api/filters'.
 * GET returns all filters, POST replaces them with a JSON list
 */
func filtersHandler(w http.ResponseWriter, r *http.Request) {
	ip := requestIP(r)

	switch r.Method {
	case http.MethodGet:
		sendJSON(w, ip, filters.All())

	case http.MethodPost:
		var list []pdk.Filter

		err := json.NewDecoder(r.Body).Decode(&list)
		if err != nil {
			log.Error().
				Str("ip", ip).
				Msg("Can't unmarshal filters data: " + err.Error())

			(&APIresponse{Error: "Can't parse filters data"}).send(w, ip, http.StatusBadRequest)
			return
		}

		err = validateFilters(list)
		if err != nil {
			(&APIresponse{Error: err.Error()}).send(w, ip, http.StatusBadRequest)
			return
		}

		filters.Set(list)

		log.Debug().
			Str("ip", ip).
			Int("filters", len(list)).
			Msg("Filters are saved")

		sendJSON(w, ip, filters.All())

	default:
		(&APIresponse{Error: "GET or POST method expected"}).send(w, ip, http.StatusMethodNotAllowed)
	}
}

/*
 * Serves '/api/notifications'.
 * GET returns the latest notifications, DELETE cleans them
 */
func notificationsHandler(w http.ResponseWriter, r *http.Request) {
	ip := requestIP(r)

	if r.Method == http.MethodDelete {
		toasts.Clean()

		log.Info().
			Str("ip", ip).
			Msg("Notifications cleaned")
	}

	sendJSON(w, ip, toasts.List())
}

/*
 * Serves '/api/fields' to get all the index fields
 * for the filters autocomplete
 */
func fieldsHandler(w http.ResponseWriter, r *http.Request) {
	ip := requestIP(r)

	ctx, cancel := context.WithTimeout(r.Context(), config.Source.Timeout)
	defer cancel()

	list, err := backend.Fields(ctx)
	if err != nil {
		log.Error().
			Str("ip", ip).
			Msg("Can't get fields: " + err.Error())

		(&APIresponse{Error: "Can't get fields"}).send(w, ip, http.StatusBadGateway)
		return
	}

	sendJSON(w, ip, list)
}

/*
 * Serves '/api/stats' with the Top 10 values of the displayed rows
 */
func statsHandler(w http.ResponseWriter, r *http.Request) {
	ip := requestIP(r)

	top, err := pdk.RowsStats(grid.Rows()).Top(10)
	if err != nil {
		(&APIresponse{Error: err.Error()}).send(w, ip, http.StatusInternalServerError)
		return
	}

	sendJSON(w, ip, top)
}

func sendJSON(w http.ResponseWriter, ip string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		log.Error().
			Str("ip", ip).
			Msg("Can't send an API response: " + err.Error())
	}
}
