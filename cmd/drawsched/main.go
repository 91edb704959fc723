// Command drawsched generates curling-style round-robin draw schedules
// from a team roster and a window of available draw times, via the
// cpmodel-backed constraint solver in internal/constraint. The CLI is a
// Cobra root with generate/init/inspect subcommands.
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbs4261/drawsched/internal/config"
	"github.com/dbs4261/drawsched/internal/csvio"
	"github.com/dbs4261/drawsched/internal/domain"
	"github.com/dbs4261/drawsched/internal/drawerr"
	"github.com/dbs4261/drawsched/internal/scheduleset"
	"github.com/dbs4261/drawsched/internal/slots"
	"github.com/dbs4261/drawsched/internal/snapshot"
	"github.com/dbs4261/drawsched/internal/solverdriver"
	"github.com/dbs4261/drawsched/internal/xlsxview"
)

// Exit codes.
const (
	exitOK              = 0
	exitInvalidArgs     = 2
	exitInfeasible      = 3
	exitOtherError      = 1
	defaultBlackoutFile = "blackout-times.yaml"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "drawsched",
		Short: "Curling round-robin draw schedule generator",
	}

	rootCmd.AddCommand(newGenerateCmd(), newInitCmd(), newInspectCmd())

	if err := rootCmd.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return exitOK
}

// exitCodeFor maps the error taxonomy to the CLI's exit codes:
// InvalidInput -> 2, NoSolution -> 3, everything else -> 1.
func exitCodeFor(err error) int {
	switch {
	case drawerr.Is(err, drawerr.InvalidInput):
		return exitInvalidArgs
	case drawerr.Is(err, drawerr.NoSolution):
		return exitInfeasible
	default:
		return exitOtherError
	}
}

type generateFlags struct {
	startDate        string
	endDate          string
	drawDuration     string
	sheets           int
	teamCSV          string
	drawTimes        []string
	weekdays         []string
	requiredNumGames int
	blackoutTimes    string
	drawSchedule     string
	outputSchedule   string
	outputXLSX       string
	sheetLetters     bool
	verbose          bool
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a round-robin draw schedule",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.startDate, "start-date", "", "first date of the draw window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.endDate, "end-date", "", "last date of the draw window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.drawDuration, "draw-duration", "", "draw length, H[:M[:S]]")
	cmd.Flags().IntVar(&f.sheets, "sheets", 0, "number of ice sheets available")
	cmd.Flags().StringVar(&f.teamCSV, "team-csv", "", "path to the team roster CSV")
	cmd.Flags().StringArrayVar(&f.drawTimes, "draw-time", nil, "a draw start time, HH:MM (repeatable)")
	cmd.Flags().StringArrayVar(&f.weekdays, "weekday", nil, "a weekday draws are held on (repeatable, defaults to start-date's weekday)")
	cmd.Flags().IntVar(&f.requiredNumGames, "required-num-games", 0, "pin every team to exactly this many games instead of maximizing")
	cmd.Flags().StringVar(&f.blackoutTimes, "blackout-times", "", "path to a blackout-times YAML file")
	cmd.Flags().StringVar(&f.drawSchedule, "draw-schedule", "", "load draw slots from a schedule CSV instead of generating them")
	cmd.Flags().StringVar(&f.outputSchedule, "output-schedule", "schedule.csv", "path to write the assigned schedule CSV")
	cmd.Flags().StringVar(&f.outputXLSX, "output-xlsx", "", "optional path to also write a browsable .xlsx rendition")
	cmd.Flags().BoolVar(&f.sheetLetters, "sheet-letters", false, "render sheet numbers as letters (A, B, C, ...)")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "log each intermediate incumbent as the solver finds it")

	return cmd
}

func runGenerate(ctx context.Context, f generateFlags) error {
	if f.sheetLetters {
		domain.SetSheetUseLetters(true)
	}

	teams, err := loadTeamRoster(f.teamCSV)
	if err != nil {
		return err
	}

	games, err := resolveGames(f)
	if err != nil {
		return err
	}

	sched := scheduleset.New(games)

	fmt.Printf("Assigning %d teams across %d draw slots...\n", len(teams), len(games))

	var required *int
	if f.requiredNumGames > 0 {
		required = &f.requiredNumGames
	}

	driverOpts := solverdriver.Options{Verbose: f.verbose, Sink: snapshot.FileSink{}}
	err = sched.Assign(ctx, teams, scheduleset.AssignOptions{RequiredNumGames: required, Driver: driverOpts})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Schedule assigned across %d draws\n", len(sched.Games))

	out, err := os.Create(f.outputSchedule)
	if err != nil {
		return drawerr.Wrap(drawerr.InvalidInput, "creating output schedule file", err)
	}
	defer out.Close()
	if err := csvio.WriteSchedule(out, sched); err != nil {
		return err
	}
	fmt.Printf("✓ Schedule CSV written to %s\n", f.outputSchedule)

	if f.outputXLSX != "" {
		wb, err := xlsxview.Generate(sched)
		if err != nil {
			return drawerr.Wrap(drawerr.InvalidInput, "generating xlsx view", err)
		}
		if err := wb.SaveAs(f.outputXLSX); err != nil {
			return drawerr.Wrap(drawerr.InvalidInput, "saving xlsx view", err)
		}
		fmt.Printf("✓ Workbook written to %s\n", f.outputXLSX)
	}

	return nil
}

func loadTeamRoster(path string) ([]domain.Team, error) {
	if path == "" {
		return nil, drawerr.New(drawerr.InvalidInput, "--team-csv is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, drawerr.Wrap(drawerr.InvalidInput, "opening team CSV", err)
	}
	defer f.Close()
	return csvio.ReadTeams(f)
}

// resolveGames returns the draw slots to assign: either loaded from
// --draw-schedule, or generated from the window/time/weekday/sheet
// flags, with --blackout-times applied in the generated case.
func resolveGames(f generateFlags) ([]domain.Game, error) {
	if f.drawSchedule != "" {
		sched, err := loadDrawSlots(f.drawSchedule)
		if err != nil {
			return nil, err
		}
		return sched.Games, nil
	}

	if f.startDate == "" || f.endDate == "" {
		return nil, drawerr.New(drawerr.InvalidInput, "--start-date and --end-date are required unless --draw-schedule is given")
	}
	start, err := time.Parse("2006-01-02", f.startDate)
	if err != nil {
		return nil, drawerr.Wrap(drawerr.InvalidInput, "parsing --start-date", err)
	}
	end, err := time.Parse("2006-01-02", f.endDate)
	if err != nil {
		return nil, drawerr.Wrap(drawerr.InvalidInput, "parsing --end-date", err)
	}
	if f.drawDuration == "" {
		return nil, drawerr.New(drawerr.InvalidInput, "--draw-duration is required unless --draw-schedule is given")
	}
	length, err := domain.ParseDuration(f.drawDuration)
	if err != nil {
		return nil, err
	}
	if f.sheets <= 0 {
		return nil, drawerr.New(drawerr.InvalidInput, "--sheets must be a positive integer")
	}
	if len(f.drawTimes) == 0 {
		return nil, drawerr.New(drawerr.InvalidInput, "at least one --draw-time is required unless --draw-schedule is given")
	}

	times := make([]time.Duration, len(f.drawTimes))
	for i, raw := range f.drawTimes {
		t, err := domain.ParseTimeOfDay(raw)
		if err != nil {
			return nil, err
		}
		times[i] = t
	}

	weekdays := make([]domain.Weekday, len(f.weekdays))
	for i, raw := range f.weekdays {
		w, err := domain.FromString(raw)
		if err != nil {
			return nil, err
		}
		weekdays[i] = w
	}

	venues := make([]domain.Venue, f.sheets)
	for i := range venues {
		venues[i] = domain.NewSheet(i + 1)
	}

	blackout := slots.BlackoutDates{}
	if f.blackoutTimes != "" {
		bf, err := config.LoadFromFile(f.blackoutTimes)
		if err != nil {
			return nil, err
		}
		blackout = slots.NewBlackoutDates(bf.AllDates())
	}

	games, err := slots.Generate(start, end, times, weekdays, &length, venues, blackout)
	if err != nil {
		return nil, err
	}
	return slots.SortGames(games), nil
}

// loadDrawSlots reads a schedule CSV for its slots only, ignoring any
// assigned teams, peeking the header's venue-variant cell so the right
// Venue parser is selected.
func loadDrawSlots(path string) (*scheduleset.Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, drawerr.Wrap(drawerr.InvalidInput, "reading --draw-schedule file", err)
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comment = '#'
	header, err := reader.Read()
	if err != nil {
		return nil, drawerr.Wrap(drawerr.InvalidInput, "reading --draw-schedule header", err)
	}
	variant := ""
	if len(header) > 3 {
		variant = strings.TrimSpace(header[3])
	}
	return csvio.ReadSchedule(bytes.NewReader(data), variant, nil)
}

func newInitCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter blackout-times file in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteInitTemplate(outputPath); err != nil {
				return drawerr.Wrap(drawerr.InvalidInput, "writing starter blackout-times file", err)
			}
			fmt.Printf("✓ Created %s\n", outputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", defaultBlackoutFile, "output path for the blackout-times file")
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "inspect <schedule.csv>",
		Short:        "Print the games-against matrix and per-venue counts for a schedule CSV",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
	return cmd
}

func runInspect(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return drawerr.Wrap(drawerr.InvalidInput, "reading schedule CSV", err)
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comment = '#'
	header, err := reader.Read()
	if err != nil {
		return drawerr.Wrap(drawerr.InvalidInput, "reading schedule CSV header", err)
	}
	variant := ""
	if len(header) > 3 {
		variant = strings.TrimSpace(header[3])
	}
	sched, err := csvio.ReadSchedule(bytes.NewReader(data), variant, nil)
	if err != nil {
		return err
	}

	if !sched.TeamsAssigned() {
		fmt.Println("No teams are assigned in this schedule.")
		return nil
	}

	matrix, err := sched.GamesAgainstMatrix()
	if err != nil {
		return err
	}
	fmt.Println("Games-against matrix:")
	fmt.Printf("%-20s", "")
	for _, t := range matrix.Teams {
		fmt.Printf("%6s", t.Name)
	}
	fmt.Println()
	for i, t := range matrix.Teams {
		fmt.Printf("%-20s", t.Name)
		for j := range matrix.Teams {
			fmt.Printf("%6d", matrix.Get(i, j))
		}
		fmt.Println()
	}

	fmt.Println("\nGames per venue, per team:")
	perVenue := sched.GamesPerVenue()
	for _, t := range matrix.Teams {
		fmt.Printf("  %s:\n", t.Name)
		for venue, n := range perVenue[t.Name] {
			fmt.Printf("    %s: %d\n", venue.String(), n)
		}
	}

	return nil
}
