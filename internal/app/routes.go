package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/weirdsynths/ideasd/internal/component"
	"github.com/weirdsynths/ideasd/internal/domain"
)

type approveReq struct {
	Critique string `json:"critique"`
}

type rejectReq struct {
	Reason string `json:"reason"`
}

type rateReq struct {
	Rating   *float64 `json:"rating"`
	Critique string   `json:"critique"`
}

type requestChangesReq struct {
	Notes string `json:"notes"`
}

func (a App) reviewPage(r *http.Request) *ComponentResponse {
	if r.URL.Path != "/" {
		return &ComponentResponse{Code: 404, ContentType: "text/html", Component: component.ErrorPage("Not found", "Sorry, we couldn't find the page you were looking for.")}
	}

	pending, err := a.Approval.ListPending()

	if err != nil {
		return &ComponentResponse{Code: 500, ContentType: "text/html", Component: component.ErrorPage("Internal server error", "Sorry, there was an internal server error."), Error: err}
	}

	return &ComponentResponse{Code: 200, ContentType: "text/html", Component: component.ReviewPage(pending, a.Prefs.Summary())}
}

func (a App) listPending(r *http.Request) *AppResp {
	if r.Method != http.MethodGet {
		return get405()
	}

	pending, err := a.Approval.ListPending()

	if err != nil {
		return get500(err, "failed to list pending ideas")
	}

	return &AppResp{Code: 200, Body: map[string]any{"pending": pending, "count": len(pending)}}
}

func (a App) getPreferences(r *http.Request) *AppResp {
	if r.Method != http.MethodGet {
		return get405()
	}

	return &AppResp{Code: 200, Body: map[string]any{
		"preferences":    a.Prefs.Snapshot(),
		"summary":        a.Prefs.Summary(),
		"top_categories": a.Prefs.TopCategories(5),
		"top_body_parts": a.Prefs.TopBodyParts(4),
	}}
}

func (a App) approve(r *http.Request) *AppResp {
	id, resp := mutationId(r, "/approve/")
	if resp != nil {
		return resp
	}

	body, err := readBody[approveReq](r.Body)

	if err != nil {
		return get500(err, "failed to read request body")
	}

	idea, err := a.Approval.Approve(id, body.Critique)

	if err != nil {
		return transitionError(id, err)
	}

	return &AppResp{Code: 200, Body: map[string]any{"ok": true, "idea": idea.Name}}
}

func (a App) reject(r *http.Request) *AppResp {
	id, resp := mutationId(r, "/reject/")
	if resp != nil {
		return resp
	}

	body, err := readBody[rejectReq](r.Body)

	if err != nil {
		return get500(err, "failed to read request body")
	}

	idea, err := a.Approval.Reject(id, body.Reason)

	if err != nil {
		return transitionError(id, err)
	}

	return &AppResp{Code: 200, Body: map[string]any{"ok": true, "idea": idea.Name}}
}

func (a App) rate(r *http.Request) *AppResp {
	id, resp := mutationId(r, "/rate/")
	if resp != nil {
		return resp
	}

	body, err := readBody[rateReq](r.Body)

	if err != nil {
		return get500(err, "failed to read request body")
	}

	stars := 3.0
	if body.Rating != nil {
		stars = *body.Rating
	}

	idea, err := a.Approval.Rate(id, stars, body.Critique)

	if err != nil {
		return transitionError(id, err)
	}

	return &AppResp{Code: 200, Body: map[string]any{"ok": true, "idea": idea.Name, "status": idea.Status}}
}

func (a App) requestChanges(r *http.Request) *AppResp {
	id, resp := mutationId(r, "/request-changes/")
	if resp != nil {
		return resp
	}

	body, err := readBody[requestChangesReq](r.Body)

	if err != nil {
		return get500(err, "failed to read request body")
	}

	idea, err := a.Approval.RequestChanges(id, body.Notes)

	if err != nil {
		return transitionError(id, err)
	}

	return &AppResp{Code: 200, Body: map[string]any{"ok": true, "idea": idea.Name}}
}

func mutationId(r *http.Request, prefix string) (string, *AppResp) {
	if r.Method != http.MethodPost {
		return "", get405()
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if id == "" || strings.Contains(id, "/") {
		return "", get404("not found")
	}

	return id, nil
}

func transitionError(id string, err error) *AppResp {
	if errors.Is(err, domain.ErrNotFound) {
		return get404(fmt.Sprintf("idea %s not found", id))
	}
	return get500(err, "failed to apply decision")
}
