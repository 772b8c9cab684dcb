package component

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/weirdsynths/ideasd/internal/domain"
)

const pageStyle = `body{font-family:monospace;background:#111;color:#ddd;max-width:720px;margin:2rem auto;padding:0 1rem}
h1{color:#f6c}h2{color:#9cf;margin-bottom:0}.card{border:1px solid #333;padding:1rem;margin:1rem 0}
.tag{color:#888}.summary{color:#9f9;border-left:3px solid #9f9;padding-left:.75rem}`

// ReviewPage renders the pending batch and the learned-preference summary
// for the local reviewer.
func ReviewPage(pending []domain.Idea, summary string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeHeader(w, "WeirdSynths Ideas"); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<p class="summary">%s</p>`, html.EscapeString(summary)); err != nil {
			return err
		}
		if len(pending) == 0 {
			if _, err := io.WriteString(w, `<p>No pending ideas. Come back after the next batch.</p>`); err != nil {
				return err
			}
		}
		for _, idea := range pending {
			_, err := fmt.Fprintf(w,
				`<div class="card"><h2>%s</h2><p><em>%s</em></p>`+
					`<p class="tag">%s / %d HP / %s / %s</p><p>%s</p><p>%s</p></div>`,
				html.EscapeString(idea.Name),
				html.EscapeString(idea.Tagline),
				html.EscapeString(idea.Category),
				idea.HP,
				html.EscapeString(idea.BodyPart),
				html.EscapeString(idea.Id),
				html.EscapeString(idea.Concept),
				html.EscapeString(idea.KeyFeature))
			if err != nil {
				return err
			}
		}
		return writeFooter(w)
	})
}

func ErrorPage(title string, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writeHeader(w, title); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(msg)); err != nil {
			return err
		}
		return writeFooter(w)
	})
}

func writeHeader(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w,
		`<!DOCTYPE html><html><head><meta charset="utf-8"><title>%s</title><style>%s</style></head><body><h1>%s</h1>`,
		html.EscapeString(title), pageStyle, html.EscapeString(title))
	return err
}

func writeFooter(w io.Writer) error {
	_, err := io.WriteString(w, `</body></html>`)
	return err
}
