package models

// SeriesRequest asks for a best-of-five prediction. The mode schedule is
// fixed server side; callers only choose teams and the five maps.
type SeriesRequest struct {
	Team1 string   `json:"team1" validate:"required"`
	Team2 string   `json:"team2" validate:"required,nefield=Team1"`
	Maps  []string `json:"maps" validate:"required,len=5,dive,required"`
}

// IngestStatsRequest carries a batch of raw stat rows from a data exporter.
type IngestStatsRequest struct {
	Rows []TeamMapModeStat `json:"rows" validate:"required,min=1,dive"`
}

// IngestStatsResponse acknowledges how much of the batch was accepted.
type IngestStatsResponse struct {
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}
