package model

// LocalUnion is one local union as returned by the IBEW directory API.
// Classifications and Counties are filled in by the enrichment stage and
// are not part of the directory response.
type LocalUnion struct {
	ID          string `json:"ID"`
	LU          string `json:"LU"`
	CharterCity string `json:"CharterCity"`
	State       string `json:"State"`
	VPDistrict  string `json:"VP_District"`

	Classifications string   `json:"-"`
	Counties        []County `json:"-"`
}

// County is one county jurisdiction served by a local union.
type County struct {
	CountyName    string `json:"CountyName"`
	District      string `json:"District"`
	Population    string `json:"Population"`
	LandArea      string `json:"LandArea"`
	Percentage    string `json:"Percentage"`
	Jurisdiction  string `json:"jurisdiction"`
	StateProvince string `json:"StateProvince"`
}

// TradeClass is one classification tag for a local union.
type TradeClass struct {
	TradeClass string `json:"TradeClass"`
}

// DirectoryEntry is one row of the UnionFacts locals directory table.
// LU is extracted from the Union label; rows without a recognizable
// local number never become entries.
type DirectoryEntry struct {
	Union    string
	UnitName string
	Location string
	Members  int
	LU       string
	URL      string
}
