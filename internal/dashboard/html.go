package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/render"
)

var funcMap = template.FuncMap{
	// spec embeds an artifact's chart JSON into a script block.
	"spec": func(a render.Artifact) (template.JS, error) {
		b, err := a.Spec()
		if err != nil {
			return "", fmt.Errorf("%s spec: %w", a.Kind(), err)
		}
		return template.JS(b), nil //nolint:gosec // JSON produced by encoding/json
	},
}

var pageTemplate = template.Must(template.New("page").Funcs(funcMap).Parse(tmplBase + tmplPage))

// WriteHTML renders the page. Output is buffered so a failure midway leaves
// w untouched.
func (p *Page) WriteHTML(w io.Writer) error {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "base", p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

const tmplBase = `{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<script src="https://cdn.jsdelivr.net/npm/vega@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-lite@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-embed@6"></script>
<style>
  body { font-family: "Source Sans Pro", sans-serif; margin: 0 auto; max-width: 1600px; padding: 1rem 2rem; color: #31333f; }
  h1 { font-weight: 700; }
  .columns { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
  .chart { width: 100%; margin-bottom: 1rem; }
  footer h4 { text-align: left; }
  @media (max-width: 900px) { .columns { grid-template-columns: 1fr; } }
</style>
</head>
<body>
{{template "content" .}}
</body>
</html>{{end}}`

const tmplPage = `{{define "content"}}
<h1>{{.Title}}</h1>
<p>{{.Intro}}<em>{{.Emphasis}}</em>{{.Description}}</p>

<div class="columns">
  <div><div id="nyc-map" class="chart"></div></div>
  <div>
    <div id="monthly-chart" class="chart"></div>
    <div id="hourly-chart" class="chart"></div>
  </div>
</div>

<footer>
  <h4>{{.FooterHeading}}</h4>
  <p>This dashboard and underlying model were developed by <a href="{{.Author.URL}}">{{.Author.Label}}</a>{{.AuthorNote}}</p>
  <p><a href="{{.Repository.URL}}">{{.Repository.Label}}</a></p>
  <p>Sources:</p>
  <ul>
  {{- range .Sources}}
    <li><a href="{{.URL}}">{{.Label}}</a></li>
  {{- end}}
  </ul>
</footer>

<script>
  const mapFigure = {{spec .Map}};
  Plotly.newPlot("nyc-map", mapFigure.data, mapFigure.layout, {responsive: true});
  const embedOpts = {actions: false};
  vegaEmbed("#monthly-chart", {{spec .Monthly}}, embedOpts);
  vegaEmbed("#hourly-chart", {{spec .Hourly}}, embedOpts);
</script>
{{end}}`
