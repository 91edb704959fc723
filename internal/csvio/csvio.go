// Package csvio implements the external CSV interfaces: team-CSV
// column detection and schedule-CSV round-tripping. Grounded on
// original_source/Team.py (ParseHeader/read_team_csv) and Schedule.py
// (from_csv/to_csv), re-expressed with stdlib encoding/csv (see
// DESIGN.md for why no third-party CSV library is warranted here).
package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/dbs4261/drawsched/internal/domain"
	"github.com/dbs4261/drawsched/internal/drawerr"
	"github.com/dbs4261/drawsched/internal/scheduleset"
)

// TeamListHeader is the canonical team CSV header, matching
// Team.py:team_list_header().
func TeamListHeader() []string {
	return []string{"Team Name", "Short Name", "Abbreviation", "Members..."}
}

// ParseTeamHeader locates the first-name, last-name, teammate, and
// team-name columns by case-insensitive substring match, exactly as
// original_source/Team.py:ParseHeader does. teamNameIdx is -1 if no
// column qualifies.
func ParseTeamHeader(header []string) (firstNameIdx, lastNameIdx int, teammateIdxs []int, teamNameIdx int) {
	firstNameIdx, lastNameIdx, teamNameIdx = -1, -1, -1
	for col, raw := range header {
		el := strings.ToLower(raw)
		hasFirst := strings.Contains(el, "first")
		hasLast := strings.Contains(el, "last")
		hasTeam := strings.Contains(el, "team")
		hasMate := strings.Contains(el, "mate")
		hasName := strings.Contains(el, "name")
		if hasFirst && hasName && firstNameIdx == -1 {
			firstNameIdx = col
		}
		if hasLast && hasName && lastNameIdx == -1 {
			lastNameIdx = col
		}
		if hasTeam && hasName && hasMate {
			teammateIdxs = append(teammateIdxs, col)
		}
		if hasTeam && hasName && !hasMate && teamNameIdx == -1 {
			teamNameIdx = col
		}
	}
	return
}

// ReadTeams parses a team roster CSV from r, using ParseTeamHeader to
// locate the relevant columns. Fails InvalidInput if no team-name
// column is found.
func ReadTeams(r io.Reader) ([]domain.Team, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, drawerr.Wrap(drawerr.InvalidInput, "reading team CSV header", err)
	}
	firstIdx, lastIdx, teammateIdxs, teamNameIdx := ParseTeamHeader(header)
	if teamNameIdx < 0 {
		return nil, drawerr.New(drawerr.InvalidInput, "team CSV header has no team-name column")
	}

	var teams []domain.Team
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, drawerr.Wrap(drawerr.InvalidInput, "reading team CSV row", err)
		}
		members := []string{nameField(row, firstIdx, lastIdx)}
		for _, idx := range teammateIdxs {
			if idx < len(row) {
				members = append(members, strings.TrimSpace(row[idx]))
			}
		}
		teams = append(teams, domain.NewTeam(strings.TrimSpace(cell(row, teamNameIdx)), members))
	}
	return teams, nil
}

func nameField(row []string, firstIdx, lastIdx int) string {
	var b strings.Builder
	if firstIdx != -1 {
		b.WriteString(strings.TrimSpace(cell(row, firstIdx)))
	}
	if lastIdx != -1 {
		if firstIdx != -1 {
			b.WriteString(" ")
		}
		b.WriteString(strings.TrimSpace(cell(row, lastIdx)))
	}
	return b.String()
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// teamColumnPrefix is the header prefix Schedule.py:from_csv looks for
// ("team " case-insensitively) to locate assignment columns.
const teamColumnPrefix = "team "

// ReadSchedule parses a schedule CSV from r. If known is non-nil, team
// cells are resolved against known teams by name (InvalidInput on an
// unknown name); otherwise a bare domain.Team is constructed from the
// cell text alone, matching original_source/Schedule.py:from_csv's two
// modes. Lines whose first character is '#' are skipped (comments).
func ReadSchedule(r io.Reader, variantName string, known []domain.Team) (*scheduleset.Schedule, error) {
	byName := make(map[string]domain.Team, len(known))
	for _, t := range known {
		byName[t.Name] = t
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		return nil, drawerr.Wrap(drawerr.InvalidInput, "reading schedule CSV header", err)
	}
	gameHeader := domain.Header(variantName)
	for i := 0; i < 3 && i < len(gameHeader) && i < len(header); i++ {
		if !strings.EqualFold(strings.TrimSpace(header[i]), gameHeader[i]) {
			return nil, drawerr.Newf(drawerr.InvalidInput, "schedule CSV has an improper header: column %d is %q, want %q", i, header[i], gameHeader[i])
		}
	}
	var teamCols []int
	for i, h := range header {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(h)), teamColumnPrefix) {
			teamCols = append(teamCols, i)
		}
	}

	var games []domain.Game
	var assignments [][]domain.Team
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, drawerr.Wrap(drawerr.InvalidInput, "reading schedule CSV row", err)
		}
		game, err := domain.GameFromCSVFields(row, variantName)
		if err != nil {
			return nil, err
		}
		games = append(games, game)

		var assigned []domain.Team
		for _, idx := range teamCols {
			if idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
				continue
			}
			name := strings.TrimSpace(row[idx])
			if len(byName) > 0 {
				team, ok := byName[name]
				if !ok {
					return nil, drawerr.Newf(drawerr.InvalidInput, "schedule CSV references unknown team %q", name)
				}
				assigned = append(assigned, team)
			} else {
				assigned = append(assigned, domain.NewTeam(name, nil))
			}
		}
		assignments = append(assignments, assigned)
	}

	return scheduleset.NewWithAssignments(games, assignments)
}

// WriteSchedule renders s as a CSV, matching
// original_source/Schedule.py:to_csv's header-plus-rows shape: the
// Game header (with the venue column's variant-name placeholder),
// followed by "Team 0".."Team N-1" columns when any game has an
// assignment.
func WriteSchedule(w io.Writer, s *scheduleset.Schedule) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	variant, err := s.VenueVariant()
	if err != nil && !drawerr.Is(err, drawerr.NotAvailable) {
		return err
	}
	header := domain.Header(variant)

	teamsPerGame := 0
	if s.TeamsAssigned() {
		teamsPerGame, err = s.TeamsPerGame()
		if err != nil {
			return err
		}
		for i := 0; i < teamsPerGame; i++ {
			header = append(header, "Team "+strconv.Itoa(i))
		}
	}
	if err := writer.Write(header); err != nil {
		return drawerr.Wrap(drawerr.InvalidInput, "writing schedule CSV header", err)
	}

	for i, g := range s.Games {
		row := g.ToCSVFields()
		if teamsPerGame > 0 {
			names := make([]string, teamsPerGame)
			for j, t := range s.Assignments[i] {
				if j < teamsPerGame {
					names[j] = t.Name
				}
			}
			row = append(row, names...)
		}
		if err := writer.Write(row); err != nil {
			return drawerr.Wrap(drawerr.InvalidInput, "writing schedule CSV row", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

