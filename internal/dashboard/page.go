package dashboard

import "github.com/couchcryptid/nyc-parking-dashboard/internal/render"

// Link is an external hyperlink.
type Link struct {
	Label string
	URL   string
}

// Page is everything the page template needs. It carries no data-dependent
// logic beyond the three artifacts.
type Page struct {
	Title       string
	Intro       string
	Emphasis    string // phrase set in italics inside the description
	Description string

	Map     render.Artifact
	Monthly render.Artifact
	Hourly  render.Artifact

	FooterHeading string
	Author        Link
	AuthorNote    string
	Repository    Link
	Sources       []Link
}

const (
	pageTitle = "NYC Alternate Side Parking Violations"

	pageIntro = "Most NYC streets receive street cleaning one to two days a week, " +
		"forcing car owners to vacate their street parking if they want to avoid a ticket. This is known as "
	pageEmphasis    = "alternate side parking"
	pageDescription = ". Which streets are you most likely to receive a ticket on? " +
		"What times of day or year have the most tickets? I've compiled the data below " +
		"from NYC's Open Data portal to answer these questions. This data is based on NYC FY24 data."
)

// RepositoryLink points at the project source.
var RepositoryLink = Link{Label: "GitHub", URL: "https://github.com/nliusont/nyc-parking-tickets"}

// SourceLinks are the upstream datasets the tables were derived from.
var SourceLinks = []Link{
	{
		Label: "NYC Open Data - Parking Violations",
		URL:   "https://data.cityofnewyork.us/City-Government/Open-Parking-and-Camera-Violations/nc67-uf89/about_data",
	},
	{
		Label: "NYC LION GeoDatabase",
		URL:   "https://data.cityofnewyork.us/City-Government/LION/2v4z-66xt/data?no_mobile=true",
	},
}

func newPage(geoMap, monthly, hourly render.Artifact) *Page {
	return &Page{
		Title:       pageTitle,
		Intro:       pageIntro,
		Emphasis:    pageEmphasis,
		Description: pageDescription,

		Map:     geoMap,
		Monthly: monthly,
		Hourly:  hourly,

		FooterHeading: "Background & sources",
		Author:        Link{Label: "Nick Liu-Sontag", URL: "https://www.nls.website/"},
		AuthorNote:    ", a data scientist in Brooklyn, NY",
		Repository:    RepositoryLink,
		Sources:       SourceLinks,
	}
}
