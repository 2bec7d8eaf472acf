package models

// Standing is one row of a pool standings table.
type Standing struct {
	Name          string `json:"name"`
	Played        int    `json:"played"`
	Wins          int    `json:"wins"`
	Draws         int    `json:"draws"`
	Losses        int    `json:"losses"`
	PointsFor     int    `json:"pointsFor"`
	PointsAgainst int    `json:"pointsAgainst"`
	PointsDiff    int    `json:"pointsDiff"`
	Points        int    `json:"points"`
}

// RankingEntry is one row of the overall tournament ranking. Points and
// PointsDiff are only meaningful for teams ranked by pool results.
type RankingEntry struct {
	Name       string `json:"name"`
	Rank       int    `json:"rank"`
	Status     string `json:"status"`
	Points     *int   `json:"points,omitempty"`
	PointsDiff *int   `json:"pointsDiff,omitempty"`
}
