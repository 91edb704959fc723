package domain

import "testing"

func TestNewTeamSortsMembers(t *testing.T) {
	team := NewTeam("Jones", []string{"Bob", "Alice", "Carl"})
	want := []string{"Alice", "Bob", "Carl"}
	for i, m := range want {
		if team.Members[i] != m {
			t.Fatalf("Members = %v, want %v", team.Members, want)
		}
	}
}

func TestTeamEqualIsOneDirectionalContainment(t *testing.T) {
	a := NewTeam("Jones", []string{"Alice", "Bob"})
	b := NewTeam("Jones", []string{"Alice", "Bob", "Carl"})

	if !a.Equal(b) {
		t.Errorf("a's members are a subset of b's, so a.Equal(b) should hold")
	}
	if b.Equal(a) {
		t.Errorf("b has a member (Carl) not in a, so b.Equal(a) should fail")
	}
}

func TestTeamEqualRequiresMatchingName(t *testing.T) {
	a := NewTeam("Jones", []string{"Alice"})
	b := NewTeam("Smith", []string{"Alice"})
	if a.Equal(b) {
		t.Errorf("teams with different names must never be equal")
	}
}

func TestSortTeamsOrdersByCompare(t *testing.T) {
	a := NewTeam("Bravo", nil)
	b := NewTeam("Alpha", nil)
	c := NewTeam("Charlie", nil)

	sorted := SortTeams([]Team{a, b, c})
	if sorted[0].Name != "Alpha" || sorted[1].Name != "Bravo" || sorted[2].Name != "Charlie" {
		t.Errorf("SortTeams order = %v, want Alpha, Bravo, Charlie", sorted)
	}
}
