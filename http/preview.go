package http

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/stylepress/go-stylepress/config"
	"github.com/stylepress/go-stylepress/container"
	"github.com/stylepress/go-stylepress/css"
)

// previewTmpl is a self-contained page that inlines the compiled stylesheet
// so settings changes can be eyeballed without a theme install.
var previewTmpl = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} preview</title>
<style>{{.Stylesheet}}</style>
</head>
<body>
<div class="{{.Handle}}-container">
  <h1>Heading one</h1>
  <h2>Heading two</h2>
  <h3>Heading three</h3>
  <p>Body text with a <a href="#">sample link</a> rendered in the current palette.</p>
</div>
</body>
</html>
`))

type previewData struct {
	Title      string
	Handle     string
	Stylesheet template.CSS
}

// Preview renders the preview page with the current stylesheet inlined.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)

	cfg, err := container.Resolve[*config.Config](h.c, "config")
	if err != nil {
		h.fail(res, err)
		return
	}
	gen, err := container.Resolve[*css.Generator](h.c, "css")
	if err != nil {
		h.fail(res, err)
		return
	}
	sheet, err := gen.Stylesheet()
	if err != nil {
		h.fail(res, err)
		return
	}

	var b strings.Builder
	err = previewTmpl.Execute(&b, previewData{
		Title:      cfg.App.Name,
		Handle:     cfg.Style.Handle,
		Stylesheet: template.CSS(sheet),
	})
	if err != nil {
		h.fail(res, err)
		return
	}
	res.HTML(b.String())
}
