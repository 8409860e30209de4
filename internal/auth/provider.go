// Package auth is the identity provider: email/password accounts, signed
// session tokens, revocation on sign-out and role claims.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tipster/internal/domain"
	"tipster/internal/session"
	"tipster/internal/store"
	"tipster/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// RegisteredMessage is returned after sign-up; the new account starts signed out
func RegisteredMessage(bonus float64) string {
	if bonus <= 0 {
		return "Conta criada com sucesso! Aguarde a aprovação do administrador."
	}
	return "Conta criada com sucesso! Você recebeu " + strconv.FormatFloat(bonus, 'f', -1, 64) +
		" COINS de bônus. Aguarde a aprovação do administrador."
}

const revokedPrefix = "session:revoked:"

// Options configure the provider
type Options struct {
	Secret        string
	TokenTTL      time.Duration
	StartingCoins float64
}

// Session is an opened sign-in
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	Principal *Principal `json:"-"`
}

// Provider issues and validates sessions
type Provider struct {
	store  *store.Store
	cache  *utils.Cache
	broker session.Broker
	policy *Policy
	opts   Options
}

func NewProvider(st *store.Store, cache *utils.Cache, broker session.Broker, policy *Policy, opts Options) *Provider {
	if broker == nil {
		broker = session.NewHub()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &Provider{store: st, cache: cache, broker: broker, policy: policy, opts: opts}
}

// Policy returns the role policy in use
func (p *Provider) Policy() *Policy {
	return p.policy
}

// HashPassword hashes a password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SignUp creates a pending account with the starting balance. No session is
// opened: the account must be approved before it can be used.
func (p *Provider) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}
	if _, err := p.store.UserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserPending,
		Coins:        p.opts.StartingCoins,
	}
	err = p.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if user.Coins > 0 {
			return tx.Create(&domain.Transaction{UserID: user.ID, Amount: user.Coins, Type: domain.TxBonus}).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": email}).Info("User registered")
	return &user, nil
}

// SignIn checks credentials and opens a session
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	user, err := p.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	roles := p.policy.RolesFor(user.Email)
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	token, claims, err := utils.GenerateJWT(user.ID, user.Email, names, p.opts.Secret, p.opts.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	p.notify(ctx, session.Event{UserID: user.ID, Email: user.Email, Status: user.Status, SignedIn: true, TokenID: claims.ID})
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, Principal: principalFromClaims(claims)}, nil
}

// SignOut revokes the principal's token until it would have expired
func (p *Provider) SignOut(ctx context.Context, pr *Principal) error {
	ttl := time.Until(pr.Claims.ExpiresAt.Time)
	if ttl > 0 {
		if err := p.cache.Mark(ctx, revokedPrefix+pr.TokenID, ttl); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}
	p.notify(ctx, session.Event{UserID: pr.UserID, Email: pr.Email, SignedIn: false, TokenID: pr.TokenID})
	return nil
}

// Authenticate validates a bearer token and returns its principal
func (p *Provider) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := utils.ParseJWT(token, p.opts.Secret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	revoked, err := p.cache.Exists(ctx, revokedPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return principalFromClaims(claims), nil
}

// Subscribe streams identity changes for userID
func (p *Provider) Subscribe(ctx context.Context, userID string) (*session.Subscription, error) {
	return p.broker.Subscribe(ctx, userID)
}

// StatusChanged notifies subscribers that an administrator changed a user's status
func (p *Provider) StatusChanged(ctx context.Context, u *domain.User) {
	p.notify(ctx, session.Event{UserID: u.ID, Email: u.Email, Status: u.Status, SignedIn: true})
}

func (p *Provider) notify(ctx context.Context, ev session.Event) {
	if err := p.broker.Publish(ctx, ev); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": ev.UserID, "error": err.Error()}).Warn("Failed to publish session event")
	}
}
