package api

import (
	"tipster/internal/domain"
	"tipster/internal/ledger"
)

// userView is a user as returned to clients
type userView struct {
	domain.User
	StatusText string `json:"status_text"`
}

func viewUser(u domain.User) userView {
	return userView{User: u, StatusText: u.Status.Text()}
}

func viewUsers(users []domain.User) []userView {
	out := make([]userView, len(users))
	for i, u := range users {
		out[i] = viewUser(u)
	}
	return out
}

// betView adds display values to a bet
type betView struct {
	domain.Bet
	StatusText          string  `json:"status_text"`
	PotentialWinDisplay string  `json:"potential_win_display"` // Two decimals
	Profit              float64 `json:"profit"`
}

func viewBet(b domain.Bet) betView {
	return betView{
		Bet:                 b,
		StatusText:          b.Status.Text(),
		PotentialWinDisplay: ledger.FormatCoins(b.PotentialWin),
		Profit:              b.Profit(),
	}
}

func viewBets(bets []domain.Bet) []betView {
	out := make([]betView, len(bets))
	for i, b := range bets {
		out[i] = viewBet(b)
	}
	return out
}
