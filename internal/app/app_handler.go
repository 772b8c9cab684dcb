package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

type AppResp struct {
	Error error
	Code  int
	Body  any
}

type Controller interface {
	Handle(r *http.Request) *AppResp
}

type ControllerFunc func(r *http.Request) *AppResp

func (f ControllerFunc) Handle(r *http.Request) *AppResp {
	return f(r)
}

// AppHandler wraps a controller into a JSON endpoint. It answers CORS
// preflight requests for the browser-based review page and, when a limiter
// is set, sheds excess calls with 429.
type AppHandler struct {
	C       Controller
	Limiter *rate.Limiter
}

func (h AppHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(200)
		return
	}

	if h.Limiter != nil && !h.Limiter.Allow() {
		writeJSON(w, 429, errBody("too many requests"))
		return
	}

	resp := h.C.Handle(r)

	if resp.Error != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", resp.Error.Error()))
	}

	code := resp.Code
	if code == 0 {
		code = 200
	}

	writeJSON(w, code, resp.Body)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(body)

	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	}
}
