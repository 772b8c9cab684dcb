package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

type ComponentResponse struct {
	Error       error
	Code        int
	ContentType string
	Component   templ.Component
}

type ComponentHandler func(r *http.Request) *ComponentResponse

func (ch ComponentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := ch(r)

	if resp.Error != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", resp.Error.Error()))
	}

	w.Header().Add("Content-Type", resp.ContentType)
	if resp.Code != 0 {
		w.WriteHeader(resp.Code)
	}

	err := resp.Component.Render(r.Context(), w)

	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		http.Error(w, "failed to render page", 500)
	}
}
