package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// idParam парсит числовой path-параметр chi
func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// intQuery парсит числовой query-параметр, при отсутствии возвращает def
func intQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
