package domain

import "sort"

// LeaderboardLimit caps the participants returned by participants.leaderboard.
const LeaderboardLimit = 50

// RanksBefore orders participants by score desc, then completion_time asc with
// unfinished participants last, then join time.
func RanksBefore(a, b Participant) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	switch {
	case a.CompletionTime != nil && b.CompletionTime != nil:
		if *a.CompletionTime != *b.CompletionTime {
			return *a.CompletionTime < *b.CompletionTime
		}
	case a.CompletionTime != nil:
		return true
	case b.CompletionTime != nil:
		return false
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// SortLeaderboard sorts participants in place into leaderboard order.
func SortLeaderboard(participants []Participant) {
	sort.SliceStable(participants, func(i, j int) bool {
		return RanksBefore(participants[i], participants[j])
	})
}

// RankOf returns the 1-based position of participantID, or 0 when absent.
func RankOf(board []Participant, participantID string) int {
	for i, p := range board {
		if p.ID == participantID {
			return i + 1
		}
	}
	return 0
}
