// Package ledger is the balance-settlement core: placing bets against tips and
// resolving them. Each operation is a single database transaction, so the
// debit and the bet insert (or the transition and the credit) land together.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tipster/internal/domain"
	"tipster/internal/events"
	"tipster/internal/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options tune settlement behavior
type Options struct {
	// CreditWinnings pays potential_win back to the bettor when a bet is won.
	// When false the house keeps the stake and a win only changes the bet status.
	CreditWinnings bool
}

// Service places and resolves bets
type Service struct {
	db        *gorm.DB
	publisher events.Publisher
	opts      Options
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewService builds the ledger. A nil publisher disables events.
func NewService(db *gorm.DB, publisher events.Publisher, opts Options, log logrus.FieldLogger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{db: db, publisher: publisher, opts: opts, log: log, now: time.Now}
}

// Placement is the outcome of a successful PlaceBet
type Placement struct {
	Bet     domain.Bet `json:"bet"`
	Balance float64    `json:"balance"` // Bettor balance after the debit
}

// PlaceBet debits stake from the user and records a pending bet on tip at the
// tip's current odds.
func (s *Service) PlaceBet(ctx context.Context, userID, tipID string, stake float64) (*Placement, error) {
	if !ValidStake(stake) {
		return nil, s.reject(ErrInvalidStake, logrus.Fields{"user_id": userID, "tip_id": tipID})
	}

	var out Placement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tip domain.Tip
		if err := tx.First(&tip, "id = ?", tipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTipUnavailable
			}
			return err
		}
		if tip.Status != domain.TipActive {
			return ErrTipUnavailable
		}

		// Compare-and-swap on the balance: the row only changes when the
		// account is active and still covers the stake.
		res := tx.Model(&domain.User{}).
			Where("id = ? AND status = ? AND coins >= ?", userID, domain.UserActive, stake).
			Update("coins", gorm.Expr("coins - ?", stake))
		if res.Error != nil {
			return res.Error
		}

		var user domain.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if res.RowsAffected == 0 {
			if user.Status != domain.UserActive {
				return ErrAccountInactive
			}
			return ErrInsufficientBalance
		}

		bet := domain.Bet{
			UserID:       user.ID,
			UserName:     user.Name,
			TipID:        tip.ID,
			TipTitle:     tip.Title(),
			BetAmount:    stake,
			PotentialWin: PotentialPayout(stake, tip.Odds),
			Odds:         tip.Odds,
			Status:       domain.BetPending,
			CreatedAt:    s.now(),
		}
		if err := tx.Create(&bet).Error; err != nil {
			return err
		}
		if err := tx.Create(&domain.Transaction{UserID: user.ID, BetID: &bet.ID, Amount: -stake, Type: domain.TxStake}).Error; err != nil {
			return err
		}

		out = Placement{Bet: bet, Balance: user.Coins}
		return nil
	})
	if err != nil {
		return nil, s.reject(err, logrus.Fields{"user_id": userID, "tip_id": tipID, "amount": stake})
	}

	metrics.BetsPlaced.Inc()
	metrics.CoinsStaked.Add(stake)
	s.log.WithFields(logrus.Fields{
		"user_id":       userID,
		"bet_id":        out.Bet.ID,
		"tip_id":        tipID,
		"amount":        stake,
		"potential_win": out.Bet.PotentialWin,
		"balance":       out.Balance,
	}).Info("Bet placed")

	if err := s.publisher.PublishBetPlaced(ctx, events.BetPlaced{
		BetID:        out.Bet.ID,
		UserID:       userID,
		TipID:        tipID,
		BetAmount:    stake,
		Odds:         out.Bet.Odds,
		PotentialWin: out.Bet.PotentialWin,
		Balance:      out.Balance,
	}); err != nil {
		s.log.WithFields(logrus.Fields{"bet_id": out.Bet.ID, "error": err.Error()}).Warn("Failed to publish bet placed event")
	}
	return &out, nil
}

// Resolution is the outcome of a successful ResolveBet
type Resolution struct {
	Bet      domain.Bet `json:"bet"`
	Credited float64    `json:"credited"` // COINS paid to the bettor
	Balance  float64    `json:"balance"`  // Bettor balance after settlement
}

// ResolveBet moves a pending bet to won or lost. A bet is resolved at most once;
// later calls fail with ErrAlreadyResolved and never credit again.
func (s *Service) ResolveBet(ctx context.Context, betID string, outcome domain.BetStatus) (*Resolution, error) {
	if !outcome.Terminal() {
		return nil, s.reject(ErrInvalidOutcome, logrus.Fields{"bet_id": betID, "outcome": outcome})
	}

	var out Resolution
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolvedAt := s.now()
		res := tx.Model(&domain.Bet{}).
			Where("id = ? AND status = ?", betID, domain.BetPending).
			Updates(map[string]any{"status": outcome, "result_date": resolvedAt})
		if res.Error != nil {
			return res.Error
		}

		var bet domain.Bet
		if err := tx.First(&bet, "id = ?", betID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBetNotFound
			}
			return err
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: bet is %s", ErrAlreadyResolved, bet.Status)
		}

		if outcome == domain.BetWon && s.opts.CreditWinnings {
			credit := tx.Model(&domain.User{}).Where("id = ?", bet.UserID).
				Update("coins", gorm.Expr("coins + ?", bet.PotentialWin))
			if credit.Error != nil {
				return credit.Error
			}
			if credit.RowsAffected == 0 {
				return ErrUserNotFound
			}
			if err := tx.Create(&domain.Transaction{UserID: bet.UserID, BetID: &bet.ID, Amount: bet.PotentialWin, Type: domain.TxPayout}).Error; err != nil {
				return err
			}
			out.Credited = bet.PotentialWin
		}

		var user domain.User
		if err := tx.Select("coins").First(&user, "id = ?", bet.UserID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		out.Bet = bet
		out.Balance = user.Coins
		return nil
	})
	if err != nil {
		return nil, s.reject(err, logrus.Fields{"bet_id": betID, "outcome": outcome})
	}

	metrics.BetsSettled.WithLabelValues(string(outcome)).Inc()
	metrics.CoinsPaidOut.Add(out.Credited)
	s.log.WithFields(logrus.Fields{
		"bet_id":   betID,
		"user_id":  out.Bet.UserID,
		"outcome":  outcome,
		"credited": out.Credited,
	}).Info("Bet resolved")

	if err := s.publisher.PublishBetSettled(ctx, events.BetSettled{
		BetID:    betID,
		UserID:   out.Bet.UserID,
		Outcome:  string(outcome),
		Credited: out.Credited,
	}); err != nil {
		s.log.WithFields(logrus.Fields{"bet_id": betID, "error": err.Error()}).Warn("Failed to publish bet settled event")
	}
	return &out, nil
}

// reject counts and logs a refused operation and returns err unchanged
func (s *Service) reject(err error, fields logrus.Fields) error {
	r := reason(err)
	metrics.LedgerRejections.WithLabelValues(r).Inc()
	fields["error"] = err.Error()
	if r == "internal" {
		s.log.WithFields(fields).Error("Ledger operation failed")
	} else {
		s.log.WithFields(fields).Info("Ledger operation rejected")
	}
	return err
}
