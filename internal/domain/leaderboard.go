package domain

import "sort"

// Leaderboard projects players into a ranked scoreboard: score descending,
// ties keep join order and get consecutive ranks. Pure and deterministic for
// a fixed score vector.
func Leaderboard(players []Player) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, LeaderboardEntry{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    p.Score,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
