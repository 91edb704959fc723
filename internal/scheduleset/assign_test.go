package scheduleset

import (
	"context"
	"testing"
	"time"

	"github.com/dbs4261/drawsched/internal/constraint"
	"github.com/dbs4261/drawsched/internal/domain"
)

func roundRobinGames(n int) []domain.Game {
	length := time.Hour
	games := make([]domain.Game, n)
	for i := range games {
		games[i] = domain.Game{
			Date:      time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC),
			StartTime: 10 * time.Hour,
			Length:    &length,
		}
	}
	return games
}

func TestAssignRoundRobinThreeTeams(t *testing.T) {
	s := New(roundRobinGames(3))
	teams := []domain.Team{
		domain.NewTeam("Alpha", nil),
		domain.NewTeam("Bravo", nil),
		domain.NewTeam("Charlie", nil),
	}

	err := s.Assign(context.Background(), teams, AssignOptions{Backend: constraint.NewBruteForceBackend()})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if !s.TeamsAssigned() {
		t.Fatal("TeamsAssigned() = false after a successful Assign")
	}
	k, err := s.TeamsPerGame()
	if err != nil || k != TeamsPerGame {
		t.Fatalf("TeamsPerGame() = %d, %v; want %d, nil", k, err, TeamsPerGame)
	}

	matrix, err := s.GamesAgainstMatrix()
	if err != nil {
		t.Fatalf("GamesAgainstMatrix: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				continue
			}
			if matrix.Get(i, j) != 1 {
				t.Errorf("teams %d,%d met %d times, want 1", i, j, matrix.Get(i, j))
			}
		}
	}
}

func TestAssignFailsWhenAlreadyAssigned(t *testing.T) {
	s := New(roundRobinGames(1))
	s.Assignments[0] = []domain.Team{domain.NewTeam("Alpha", nil), domain.NewTeam("Bravo", nil)}

	err := s.Assign(context.Background(), []domain.Team{domain.NewTeam("Alpha", nil), domain.NewTeam("Bravo", nil)}, AssignOptions{Backend: constraint.NewBruteForceBackend()})
	if err == nil {
		t.Fatal("expected an error assigning an already-assigned schedule")
	}
}

func TestAssignFailsOnEmptySchedule(t *testing.T) {
	s := New(nil)
	err := s.Assign(context.Background(), []domain.Team{domain.NewTeam("Alpha", nil)}, AssignOptions{Backend: constraint.NewBruteForceBackend()})
	if err == nil {
		t.Fatal("expected an error assigning an empty schedule")
	}
}
