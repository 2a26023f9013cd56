// Package render turns validated violation records into immutable chart
// artifacts. Builders are pure: the same records and config always produce an
// equal artifact, and nothing is mutated after construction.
package render

// Kind identifies the visual type of an artifact.
type Kind string

const (
	KindMap       Kind = "map"
	KindLineChart Kind = "line-chart"
)

// Artifact is a built visualization ready to hand to the browser.
type Artifact interface {
	Kind() Kind
	// Spec returns the chart-library document (Plotly figure or Vega-Lite spec) as JSON.
	Spec() ([]byte, error)
}
