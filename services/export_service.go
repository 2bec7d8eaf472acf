package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tmarchal/boccia-manager/brackets"
	"github.com/tmarchal/boccia-manager/models"
	"github.com/tmarchal/boccia-manager/repositories"
	"github.com/tmarchal/boccia-manager/storage"
)

// Export is a rendered tournament snapshot. URL is set when the snapshot was
// also uploaded to object storage.
type Export struct {
	Data        []byte `json:"-"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
	URL         string `json:"url,omitempty"`
}

// ExportService renders the tournament state as a downloadable document and
// optionally mirrors it to object storage.
type ExportService interface {
	Export(ctx context.Context, tournamentID int, format string) (*Export, error)
}

type exportService struct {
	tournaments TournamentService
	courts      repositories.CourtRepository
	uploader    storage.FileUploader // nil when uploads are not configured
}

func NewExportService(tournaments TournamentService, courts repositories.CourtRepository, uploader storage.FileUploader) ExportService {
	return &exportService{tournaments: tournaments, courts: courts, uploader: uploader}
}

func (s *exportService) Export(ctx context.Context, tournamentID int, format string) (*Export, error) {
	var (
		t      *models.Tournament
		courts []*models.Court
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.tournaments.Get(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		courts, err = s.courts.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var export *Export
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, err
		}
		export = &Export{
			Data:        data,
			ContentType: "application/json",
			Filename:    fmt.Sprintf("tournament-%d.json", t.ID),
		}
	case "csv":
		data, err := renderCSV(t, courts)
		if err != nil {
			return nil, err
		}
		export = &Export{
			Data:        data,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("tournament-%d.csv", t.ID),
		}
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", ErrInvalidConfig, format)
	}

	if s.uploader != nil {
		key := fmt.Sprintf("exports/tournament-%d-%d%s", t.ID, time.Now().Unix(), extension(format))
		result, err := s.uploader.Upload(ctx, key, export.ContentType, bytes.NewReader(export.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to upload export snapshot: %w", err)
		}
		export.URL = result.Location
	}

	return export, nil
}

func extension(format string) string {
	if format == "csv" {
		return ".csv"
	}
	return ".json"
}

// renderCSV writes the tournament as stacked sections: header, teams, pool
// matches, standings, bracket, overall ranking, timetable.
func renderCSV(t *models.Tournament, courts []*models.Court) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	write := func(record ...string) {
		_ = w.Write(record)
	}

	write("Tournament", t.Info.Name)
	write("Date", t.Info.Date)
	write("Location", t.Info.Location)
	write("Format", string(t.Info.Format))
	write()

	write("Teams")
	write("Name", "Pool", "Players")
	for _, team := range t.Teams {
		pool := ""
		if team.Pool != nil {
			pool = *team.Pool
		}
		players := ""
		for i, p := range team.Players {
			if i > 0 {
				players += "; "
			}
			players += p
		}
		write(team.Name, pool, players)
	}
	write()

	if len(t.Matches) > 0 {
		write("Pool matches")
		write("Match", "Pool", "Team 1", "Team 2", "Score", "Forfeit")
		for _, m := range t.Matches {
			score := ""
			if m.Played && m.Score1 != nil && m.Score2 != nil {
				score = fmt.Sprintf("%d-%d", *m.Score1, *m.Score2)
			}
			forfeit := ""
			if m.Forfeit != nil {
				forfeit = "team " + string(*m.Forfeit)
			}
			write(m.ID, strconv.Itoa(m.Pool), m.Team1, m.Team2, score, forfeit)
		}
		write()

		for _, pool := range t.Pools {
			write("Standings " + pool.Name)
			write("Rank", "Team", "Played", "Wins", "Draws", "Losses", "For", "Against", "Diff", "Points")
			for i, s := range brackets.ComputeStandings(pool, t.Matches, t.Config.ScoringRules) {
				write(strconv.Itoa(i+1), s.Name,
					strconv.Itoa(s.Played), strconv.Itoa(s.Wins), strconv.Itoa(s.Draws), strconv.Itoa(s.Losses),
					strconv.Itoa(s.PointsFor), strconv.Itoa(s.PointsAgainst), strconv.Itoa(s.PointsDiff), strconv.Itoa(s.Points))
			}
			write()
		}
	}

	if t.Knockout.Generated() {
		write("Knockout")
		write("Match", "Round", "Team 1", "Team 2", "Score")
		for _, round := range t.Knockout.Rounds {
			for _, m := range t.Knockout.MatchesInRound(round.ID) {
				t1, t2 := "", ""
				if m.Team1 != nil {
					t1 = *m.Team1
				}
				if m.Team2 != nil {
					t2 = *m.Team2
				}
				score := ""
				if m.Played && m.Score1 != nil && m.Score2 != nil {
					score = fmt.Sprintf("%d-%d", *m.Score1, *m.Score2)
				}
				write(m.ID, round.Name, t1, t2, score)
			}
		}
		write()
	}

	if entries := brackets.ComputeOverallRanking(t); len(entries) > 0 {
		write("Overall ranking")
		write("Rank", "Team", "Status")
		for _, e := range entries {
			write(strconv.Itoa(e.Rank), e.Name, e.Status)
		}
		write()
	}

	if len(t.Schedule.Assignments) > 0 {
		courtNames := make(map[string]string, len(courts))
		for _, c := range courts {
			courtNames[c.ID] = c.Name
		}
		write("Timetable")
		write("Match", "Court", "Start", "End")
		for _, a := range t.Schedule.Assignments {
			name := courtNames[a.CourtID]
			if name == "" {
				name = a.CourtID
			}
			write(a.MatchID, name, a.StartTime, a.EndTime)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
