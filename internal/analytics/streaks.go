package analytics

import (
	"trade-journal/internal/models"
)

// CountWinStreak counts leading trades with strictly positive net P&L.
// trades must be ordered most recent first. A break-even trade ends the
// streak even though Summarize does not count it as a loss.
func CountWinStreak(recentFirst []models.TradeRecord) int {
	streak := 0
	for _, t := range recentFirst {
		if t.NetPL <= 0 {
			break
		}
		streak++
	}
	return streak
}

// CurrentWinStreak sorts trades most recent first and counts the streak.
func CurrentWinStreak(trades []models.TradeRecord) int {
	return CountWinStreak(SortRecentFirst(trades))
}

// LongestStreaks returns the longest run of wins and of losses in
// chronological order. Break-even trades reset both runs.
func LongestStreaks(trades []models.TradeRecord) (wins, losses int) {
	var curWins, curLosses int
	for _, t := range SortChronological(trades) {
		switch Classify(t.NetPL) {
		case Win:
			curWins++
			curLosses = 0
		case Loss:
			curLosses++
			curWins = 0
		default:
			curWins, curLosses = 0, 0
		}
		if curWins > wins {
			wins = curWins
		}
		if curLosses > losses {
			losses = curLosses
		}
	}
	return wins, losses
}
