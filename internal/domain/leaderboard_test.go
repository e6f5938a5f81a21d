package domain

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestSortLeaderboardOrdering(t *testing.T) {
	base := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	board := []Participant{
		{ID: "slow", Score: 20, CompletionTime: intPtr(90), CreatedAt: base},
		{ID: "unfinished", Score: 20, CreatedAt: base},
		{ID: "low", Score: 5, CompletionTime: intPtr(10), CreatedAt: base},
		{ID: "fast", Score: 20, CompletionTime: intPtr(30), CreatedAt: base},
		{ID: "top", Score: 40, CreatedAt: base},
	}

	SortLeaderboard(board)

	want := []string{"top", "fast", "slow", "unfinished", "low"}
	for i, id := range want {
		if board[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s (%+v)", i, id, board[i].ID, board)
		}
	}
}

func TestRanksBeforeBreaksTiesByJoinTime(t *testing.T) {
	base := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	early := Participant{ID: "b", Score: 10, CreatedAt: base}
	late := Participant{ID: "a", Score: 10, CreatedAt: base.Add(time.Second)}
	if !RanksBefore(early, late) || RanksBefore(late, early) {
		t.Fatalf("earlier joiner should rank first on a full tie")
	}
}

func TestRankOf(t *testing.T) {
	board := []Participant{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	if got := RankOf(board, "p2"); got != 2 {
		t.Fatalf("expected rank 2, got %d", got)
	}
	if got := RankOf(board, "missing"); got != 0 {
		t.Fatalf("expected 0 for absent participant, got %d", got)
	}
}

func TestEffectiveTimeLimit(t *testing.T) {
	q := Question{}
	if got := q.EffectiveTimeLimit(45); got != 45 {
		t.Fatalf("expected quiz default, got %d", got)
	}
	if got := q.EffectiveTimeLimit(0); got != DefaultDurationPerQuestion {
		t.Fatalf("expected global default, got %d", got)
	}
	q.TimeLimit = intPtr(12)
	if got := q.EffectiveTimeLimit(45); got != 12 {
		t.Fatalf("expected override, got %d", got)
	}
}
