package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

type Config struct {
	Port string
}

// App is the local control surface: the JSON approval API plus the HTML
// review page.
type App struct {
	Approval *ApprovalService
	Prefs    *PreferenceModel
	Config   Config
}

// Routes builds the control-API mux. Mutating endpoints share one rate
// limiter: the review page is a burst-clicky browser client, anything
// beyond that is shed with 429.
func (a App) Routes() *http.ServeMux {
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	mux := http.NewServeMux()
	mux.Handle("/", ComponentHandler(a.reviewPage))
	mux.Handle("/pending", AppHandler{C: ControllerFunc(a.listPending)})
	mux.Handle("/preferences", AppHandler{C: ControllerFunc(a.getPreferences)})
	mux.Handle("/approve/", AppHandler{C: ControllerFunc(a.approve), Limiter: limiter})
	mux.Handle("/reject/", AppHandler{C: ControllerFunc(a.reject), Limiter: limiter})
	mux.Handle("/rate/", AppHandler{C: ControllerFunc(a.rate), Limiter: limiter})
	mux.Handle("/request-changes/", AppHandler{C: ControllerFunc(a.requestChanges), Limiter: limiter})
	return mux
}

func (a App) Start() error {
	addr := fmt.Sprintf("127.0.0.1:%s", a.Config.Port)
	slog.Info(fmt.Sprintf("approval api listening on http://%s", addr))
	return http.ListenAndServe(addr, a.Routes())
}
