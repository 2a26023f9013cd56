package render

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Plotly figure types. Only the attributes the map uses are modelled.

type plotlyFigure struct {
	Data   []plotlyTrace `json:"data"`
	Layout plotlyLayout  `json:"layout"`
}

type plotlyTrace struct {
	Type          string       `json:"type"`
	Mode          string       `json:"mode"`
	Lat           []float64    `json:"lat"`
	Lon           []float64    `json:"lon"`
	Marker        plotlyMarker `json:"marker"`
	CustomData    [][]any      `json:"customdata"`
	HoverTemplate string       `json:"hovertemplate"`
}

type plotlyMarker struct {
	Size      int       `json:"size"`
	Opacity   float64   `json:"opacity"`
	Color     []float64 `json:"color"`
	ColorAxis string    `json:"coloraxis"`
}

type plotlyLayout struct {
	Title     plotlyText      `json:"title"`
	Mapbox    plotlyMapbox    `json:"mapbox"`
	ColorAxis plotlyColorAxis `json:"coloraxis"`
	Margin    plotlyMargin    `json:"margin"`
	Height    int             `json:"height"`
}

type plotlyText struct {
	Text string `json:"text"`
}

type plotlyMapbox struct {
	Center      LatLon  `json:"center"`
	Zoom        float64 `json:"zoom"`
	Style       string  `json:"style"`
	AccessToken string  `json:"accesstoken,omitempty"`
}

type plotlyColorAxis struct {
	ColorScale [][2]any       `json:"colorscale"`
	CMin       float64        `json:"cmin"`
	CMax       float64        `json:"cmax"`
	ColorBar   plotlyColorBar `json:"colorbar"`
}

type plotlyColorBar struct {
	Title       plotlyText `json:"title"`
	TickVals    []float64  `json:"tickvals"`
	TickText    []string   `json:"ticktext"`
	Orientation string     `json:"orientation"`
	YAnchor     string     `json:"yanchor"`
	Y           float64    `json:"y"`
	XAnchor     string     `json:"xanchor"`
	X           float64    `json:"x"`
}

type plotlyMargin struct {
	R int `json:"r"`
	T int `json:"t"`
	L int `json:"l"`
	B int `json:"b"`
}

// Spec renders the map as a Plotly scattermapbox figure.
func (m *MapArtifact) Spec() ([]byte, error) {
	trace := plotlyTrace{
		Type: "scattermapbox",
		Mode: "markers",
		Lat:  make([]float64, len(m.Points)),
		Lon:  make([]float64, len(m.Points)),
		Marker: plotlyMarker{
			Size:      m.MarkerSize,
			Opacity:   m.Opacity,
			Color:     make([]float64, len(m.Points)),
			ColorAxis: "coloraxis",
		},
		CustomData:    make([][]any, len(m.Points)),
		HoverTemplate: m.hoverTemplate(),
	}

	for i, p := range m.Points {
		trace.Lat[i] = p.Lat
		trace.Lon[i] = p.Lon
		trace.Marker.Color[i] = p.Color
		row := make([]any, len(m.Tooltip))
		for j, field := range m.Tooltip {
			row[j] = p.tooltipValue(field)
		}
		trace.CustomData[i] = row
	}

	fig := plotlyFigure{
		Data: []plotlyTrace{trace},
		Layout: plotlyLayout{
			Title: plotlyText{Text: m.Title},
			Mapbox: plotlyMapbox{
				Center:      m.Center,
				Zoom:        m.Zoom,
				Style:       m.Style,
				AccessToken: m.AccessToken,
			},
			ColorAxis: plotlyColorAxis{
				ColorScale: m.Scale.colorscale(),
				CMin:       m.Scale.Min,
				CMax:       m.Scale.Max,
				ColorBar: plotlyColorBar{
					Title:       plotlyText{Text: m.Scale.Title},
					TickVals:    m.Scale.TickVals,
					TickText:    m.Scale.TickText,
					Orientation: "v",
					YAnchor:     "top",
					Y:           1,
					XAnchor:     "left",
					X:           -0.1,
				},
			},
			Height: m.Height,
		},
	}

	b, err := json.Marshal(fig)
	if err != nil {
		return nil, fmt.Errorf("encode map figure: %w", err)
	}
	return b, nil
}

// colorscale encodes the stops as Plotly [position, color] pairs.
func (s ColorScale) colorscale() [][2]any {
	out := make([][2]any, len(s.Stops))
	for i, stop := range s.Stops {
		out[i] = [2]any{stop.Pos, stop.Color}
	}
	return out
}

// hoverTemplate lists each tooltip field as "name=value" from customdata.
func (m *MapArtifact) hoverTemplate() string {
	parts := make([]string, len(m.Tooltip))
	for i, field := range m.Tooltip {
		parts[i] = fmt.Sprintf("%s=%%{customdata[%d]}", field, i)
	}
	return strings.Join(parts, "<br>") + "<extra></extra>"
}

func (p MapPoint) tooltipValue(field string) any {
	switch field {
	case "street":
		return p.Street
	case "violations":
		return p.Violations
	case "log_violations":
		return p.LogViolations
	default:
		return nil
	}
}
