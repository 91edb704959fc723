// Package xlsxview renders a scheduleset.Schedule as a browsable Excel
// workbook: a master grid plus one sheet per team. This is an optional,
// best-effort companion to the canonical CSV format, which remains the
// source of truth for round-tripping.
package xlsxview

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/dbs4261/drawsched/internal/domain"
	"github.com/dbs4261/drawsched/internal/scheduleset"
)

const masterSheetName = "Master Schedule"

// Generate builds an Excel workbook: a master sheet listing every game
// with its assigned teams, and one sheet per team listing that team's
// own games.
func Generate(s *scheduleset.Schedule) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := writeMasterSheet(f, s); err != nil {
		return nil, fmt.Errorf("writing master sheet: %w", err)
	}
	if err := writeTeamSheets(f, s); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 14, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func writeMasterSheet(f *excelize.File, s *scheduleset.Schedule) error {
	f.NewSheet(masterSheetName)

	teamsPerGame, err := s.TeamsPerGame()
	if err != nil {
		teamsPerGame = 0
	}

	headers := []string{"Date", "Time", "Venue"}
	for i := 0; i < teamsPerGame; i++ {
		headers = append(headers, fmt.Sprintf("Team %d", i))
	}
	for i, h := range headers {
		f.SetCellValue(masterSheetName, cellRef(i+1, 1), h)
	}
	if style := headerStyle(f); style != 0 {
		for i := range headers {
			f.SetCellStyle(masterSheetName, cellRef(i+1, 1), cellRef(i+1, 1), style)
		}
	}

	for gi, g := range s.Games {
		row := gi + 2
		fields := g.ToCSVFields()
		f.SetCellValue(masterSheetName, cellRef(1, row), fields[0])
		f.SetCellValue(masterSheetName, cellRef(2, row), fields[1])
		f.SetCellValue(masterSheetName, cellRef(3, row), fields[3])
		for ti, team := range s.Assignments[gi] {
			f.SetCellValue(masterSheetName, cellRef(4+ti, row), team.Name)
		}
	}

	f.SetColWidth(masterSheetName, "A", "A", 14)
	f.SetColWidth(masterSheetName, "B", "C", 10)
	lastCol := colLetter(len(headers))
	f.SetColWidth(masterSheetName, "D", lastCol, 20)
	return nil
}

func writeTeamSheets(f *excelize.File, s *scheduleset.Schedule) error {
	headers := []string{"Date", "Time", "Venue", "Opponent(s)"}
	teams := s.Teams()
	for _, team := range teams {
		sheet := sheetName(team.Name)
		f.NewSheet(sheet)
		for i, h := range headers {
			f.SetCellValue(sheet, cellRef(i+1, 1), h)
		}
		if style := headerStyle(f); style != 0 {
			for i := range headers {
				f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), style)
			}
		}

		row := 2
		for gi, g := range s.Games {
			assigned := s.Assignments[gi]
			if !teamIn(assigned, team.Name) {
				continue
			}
			fields := g.ToCSVFields()
			f.SetCellValue(sheet, cellRef(1, row), fields[0])
			f.SetCellValue(sheet, cellRef(2, row), fields[1])
			f.SetCellValue(sheet, cellRef(3, row), fields[3])
			f.SetCellValue(sheet, cellRef(4, row), opponentList(assigned, team.Name))
			row++
		}

		f.SetColWidth(sheet, "A", "A", 14)
		f.SetColWidth(sheet, "B", "C", 10)
		f.SetColWidth(sheet, "D", "D", 30)
	}
	return nil
}

func teamIn(assigned []domain.Team, name string) bool {
	for _, t := range assigned {
		if t.Name == name {
			return true
		}
	}
	return false
}

func opponentList(assigned []domain.Team, self string) string {
	var names []string
	for _, t := range assigned {
		if t.Name != self {
			names = append(names, t.Name)
		}
	}
	sort.Strings(names)
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

func sheetName(name string) string {
	// Excel sheet names cap at 31 characters and forbid a handful of
	// punctuation marks; team names are expected to already be clean,
	// so this is a defensive truncation only.
	if len(name) > 31 {
		return name[:31]
	}
	return name
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
