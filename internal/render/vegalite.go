package render

import (
	"encoding/json"
	"fmt"
)

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

type vlSpec struct {
	Schema   string     `json:"$schema"`
	Title    string     `json:"title"`
	Width    string     `json:"width"`
	Height   int        `json:"height"`
	Data     vlData     `json:"data"`
	Mark     vlMark     `json:"mark"`
	Encoding vlEncoding `json:"encoding"`
}

type vlData struct {
	Values []map[string]any `json:"values"`
}

type vlMark struct {
	Type string `json:"type"`
}

type vlEncoding struct {
	X       vlChannel   `json:"x"`
	Y       vlChannel   `json:"y"`
	Tooltip []vlTooltip `json:"tooltip"`
}

type vlChannel struct {
	Field string   `json:"field"`
	Type  AxisType `json:"type"`
	Title string   `json:"title"`
	Axis  *vlAxis  `json:"axis,omitempty"`
	Scale *vlScale `json:"scale,omitempty"`
	Sort  any      `json:"sort,omitempty"`
}

type vlAxis struct {
	Format    string `json:"format,omitempty"`
	TickCount string `json:"tickCount,omitempty"`
}

type vlScale struct {
	Domain []string `json:"domain"`
}

type vlTooltip struct {
	Field  string   `json:"field"`
	Type   AxisType `json:"type"`
	Title  string   `json:"title"`
	Format string   `json:"format,omitempty"`
}

// Spec renders the chart as a Vega-Lite line specification.
func (c *LineChart) Spec() ([]byte, error) {
	values := make([]map[string]any, len(c.Points))
	for i, p := range c.Points {
		values[i] = map[string]any{
			c.X.Field: p.X,
			c.Y.Field: p.Value,
		}
	}

	x := vlChannel{Field: c.X.Field, Type: c.X.Type, Title: c.X.Title}
	if c.X.Format != "" || c.X.Ticks != "" {
		x.Axis = &vlAxis{Format: c.X.Format, TickCount: c.X.Ticks}
	}
	if c.Domain != nil {
		x.Scale = &vlScale{Domain: c.Domain}
		x.Sort = c.Domain
	}

	tooltip := make([]vlTooltip, len(c.Tooltip))
	for i, f := range c.Tooltip {
		tooltip[i] = vlTooltip{Field: f.Field, Type: f.Type, Title: f.Title, Format: f.Format}
	}

	spec := vlSpec{
		Schema: vegaLiteSchema,
		Title:  c.Title,
		Width:  "container",
		Height: c.Height,
		Data:   vlData{Values: values},
		Mark:   vlMark{Type: "line"},
		Encoding: vlEncoding{
			X:       x,
			Y:       vlChannel{Field: c.Y.Field, Type: c.Y.Type, Title: c.Y.Title},
			Tooltip: tooltip,
		},
	}

	b, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("encode line chart spec: %w", err)
	}
	return b, nil
}
