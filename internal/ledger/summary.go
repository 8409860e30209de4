package ledger

import "tipster/internal/domain"

// Summary aggregates a user's bets
type Summary struct {
	Total   int     `json:"total"`
	Won     int     `json:"won"`
	Lost    int     `json:"lost"`
	Pending int     `json:"pending"`
	Staked  float64 `json:"staked"`
	Profit  float64 `json:"profit"` // Net over resolved bets
}

// Summarize counts bets by status and sums stake and profit
func Summarize(bets []domain.Bet) Summary {
	var s Summary
	for i := range bets {
		b := &bets[i]
		s.Total++
		s.Staked += b.BetAmount
		s.Profit += b.Profit()
		switch b.Status {
		case domain.BetWon:
			s.Won++
		case domain.BetLost:
			s.Lost++
		case domain.BetPending:
			s.Pending++
		}
	}
	return s
}
