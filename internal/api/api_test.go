package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tipster/internal/auth"
	"tipster/internal/db"
	"tipster/internal/db/dbtest"
	"tipster/internal/domain"
	"tipster/internal/ledger"
	"tipster/internal/session"
	"tipster/internal/store"
	"tipster/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@codenxt.online"
	adminPassword = "admin123"
)

type env struct {
	router *gin.Engine
	store  *store.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	g := dbtest.Open(t)
	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	require.NoError(t, db.SeedAdmin(g, "Admin", adminEmail, hash))

	mr := miniredis.RunT(t)
	cache := utils.NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	st := store.New(g)
	logger, _ := test.NewNullLogger()
	provider := auth.NewProvider(st, cache, session.NewHub(), auth.NewPolicy(adminEmail),
		auth.Options{Secret: "test-secret", TokenTTL: time.Hour, StartingCoins: 500})
	r := NewRouter(Deps{
		Store:  st,
		Ledger: ledger.NewService(g, nil, ledger.Options{CreditWinnings: true}, logger),
		Auth:   provider,
		Cache:  cache,
	})
	return &env{router: r, store: st}
}

func (e *env) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func (e *env) login(t *testing.T, email, password string) string {
	t.Helper()
	code, resp := e.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, code, resp)
	return resp["token"].(string)
}

func (e *env) register(t *testing.T, name, email string) string {
	t.Helper()
	code, resp := e.do(t, http.MethodPost, "/auth/register", "", gin.H{"name": name, "email": email, "password": "secret1"})
	require.Equal(t, http.StatusCreated, code, resp)
	assert.NotContains(t, resp, "token")
	return resp["user"].(map[string]any)["id"].(string)
}

func (e *env) createTip(t *testing.T, adminToken string, odds float64) string {
	t.Helper()
	code, resp := e.do(t, http.MethodPost, "/admin/tips", adminToken, gin.H{"team_a": "Flamengo", "team_b": "Palmeiras", "odds": odds, "date": "2026-10-14"})
	require.Equal(t, http.StatusCreated, code, resp)
	return resp["tip"].(map[string]any)["id"].(string)
}

// activeUser registers, approves and signs in a bettor
func (e *env) activeUser(t *testing.T, adminToken, email string) (string, string) {
	t.Helper()
	id := e.register(t, "Bettor", email)
	code, resp := e.do(t, http.MethodPatch, "/admin/users/"+id+"/status", adminToken, gin.H{"status": "active"})
	require.Equal(t, http.StatusOK, code, resp)
	return id, e.login(t, email, "secret1")
}

func TestBettingFlow(t *testing.T) {
	e := newEnv(t)
	adminToken := e.login(t, adminEmail, adminPassword)

	userID := e.register(t, "Ana", "ana@x.com")
	userToken := e.login(t, "ana@x.com", "secret1")

	// Pending accounts are signed in but blocked
	code, resp := e.do(t, http.MethodGet, "/tips", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	access := resp["access"].(map[string]any)
	assert.Equal(t, auth.NoticePending, access["notice"])
	assert.Equal(t, []any{auth.ActionSignOut}, access["actions"])

	code, resp = e.do(t, http.MethodGet, "/session", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, resp["access"].(map[string]any)["allowed"])

	tipID := e.createTip(t, adminToken, 2.5)
	code, resp = e.do(t, http.MethodPatch, "/admin/users/"+userID+"/status", adminToken, gin.H{"status": "active"})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, "Ativo", resp["user"].(map[string]any)["status_text"])

	// Same token now passes
	code, resp = e.do(t, http.MethodGet, "/tips", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["tips"], 1)

	code, resp = e.do(t, http.MethodPost, "/bets", userToken, gin.H{"tip_id": tipID, "amount": 100})
	require.Equal(t, http.StatusCreated, code, resp)
	assert.Equal(t, 400.0, resp["balance"])
	bet := resp["bet"].(map[string]any)
	assert.Equal(t, "250.00", bet["potential_win_display"])
	assert.Equal(t, "Flamengo × Palmeiras", bet["tip_title"])
	assert.Equal(t, "Ana", bet["user_name"])
	betID := bet["id"].(string)

	code, resp = e.do(t, http.MethodPost, "/admin/bets/"+betID+"/resolve", adminToken, gin.H{"outcome": "lost"})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, 400.0, resp["balance"])
	assert.Equal(t, 0.0, resp["credited"])

	code, _ = e.do(t, http.MethodPost, "/admin/bets/"+betID+"/resolve", adminToken, gin.H{"outcome": "won"})
	assert.Equal(t, http.StatusConflict, code)

	code, resp = e.do(t, http.MethodGet, "/me", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 400.0, resp["user"].(map[string]any)["coins"])

	code, resp = e.do(t, http.MethodGet, "/bets", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	summary := resp["summary"].(map[string]any)
	assert.Equal(t, 1.0, summary["lost"])
	assert.Equal(t, -100.0, summary["profit"])

	code, resp = e.do(t, http.MethodGet, "/me/transactions", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2.0, resp["total"]) // bonus and stake
}

func TestWinCreditsPayout(t *testing.T) {
	e := newEnv(t)
	adminToken := e.login(t, adminEmail, adminPassword)
	_, token := e.activeUser(t, adminToken, "bia@x.com")
	tipID := e.createTip(t, adminToken, 1.85)

	code, resp := e.do(t, http.MethodPost, "/bets", token, gin.H{"tip_id": tipID, "amount": "50"})
	require.Equal(t, http.StatusCreated, code, resp)
	betID := resp["bet"].(map[string]any)["id"].(string)

	code, resp = e.do(t, http.MethodPost, "/admin/bets/"+betID+"/resolve", adminToken, gin.H{"outcome": "won"})
	require.Equal(t, http.StatusOK, code, resp)
	assert.InDelta(t, 92.5, resp["credited"], 1e-9)
	assert.InDelta(t, 542.5, resp["balance"], 1e-9)
}

func TestPlaceBetRejections(t *testing.T) {
	e := newEnv(t)
	adminToken := e.login(t, adminEmail, adminPassword)
	_, token := e.activeUser(t, adminToken, "caio@x.com")
	tipID := e.createTip(t, adminToken, 2)

	cases := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"non numeric", gin.H{"tip_id": tipID, "amount": "abc"}, http.StatusBadRequest},
		{"zero", gin.H{"tip_id": tipID, "amount": 0}, http.StatusBadRequest},
		{"negative", gin.H{"tip_id": tipID, "amount": -5}, http.StatusBadRequest},
		{"over balance", gin.H{"tip_id": tipID, "amount": 600}, http.StatusBadRequest},
		{"missing tip", gin.H{"amount": 10}, http.StatusBadRequest},
		{"unknown tip", gin.H{"tip_id": "nope", "amount": 10}, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := e.do(t, http.MethodPost, "/bets", token, tc.body)
			assert.Equal(t, tc.status, code, resp)
		})
	}

	code, resp := e.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 500.0, resp["user"].(map[string]any)["coins"])

	// Closed tips no longer accept bets
	code, _ = e.do(t, http.MethodPatch, "/admin/tips/"+tipID+"/status", adminToken, gin.H{"status": "inactive"})
	require.Equal(t, http.StatusOK, code)
	code, _ = e.do(t, http.MethodPost, "/bets", token, gin.H{"tip_id": tipID, "amount": 10})
	assert.Equal(t, http.StatusConflict, code)
}

func TestActiveTipsCache(t *testing.T) {
	e := newEnv(t)
	adminToken := e.login(t, adminEmail, adminPassword)
	e.createTip(t, adminToken, 2)

	_, resp := e.do(t, http.MethodGet, "/tips", adminToken, nil)
	assert.Equal(t, false, resp["cached"])
	_, resp = e.do(t, http.MethodGet, "/tips", adminToken, nil)
	assert.Equal(t, true, resp["cached"])

	e.createTip(t, adminToken, 3)
	_, resp = e.do(t, http.MethodGet, "/tips", adminToken, nil)
	assert.Equal(t, false, resp["cached"])
	assert.Len(t, resp["tips"], 2)
}

func TestAdminRoutesRequireRole(t *testing.T) {
	e := newEnv(t)
	adminToken := e.login(t, adminEmail, adminPassword)
	_, token := e.activeUser(t, adminToken, "dani@x.com")

	for _, path := range []string{"/admin/users", "/admin/bets", "/admin/tips"} {
		code, _ := e.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusForbidden, code, path)
		code, _ = e.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
	}

	code, resp := e.do(t, http.MethodGet, "/admin/users?status=active&page_size=1", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2.0, resp["total"])
	assert.Equal(t, 2.0, resp["total_pages"])
	assert.Len(t, resp["users"], 1)

	code, _ = e.do(t, http.MethodGet, "/admin/users?status=banned", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = e.do(t, http.MethodGet, "/admin/bets?status=void", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, resp = e.do(t, http.MethodGet, "/admin/bets?status=pending", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, resp["total"])
}

func TestAdminBetsNeedActiveAccount(t *testing.T) {
	e := newEnv(t)
	adminToken := e.login(t, adminEmail, adminPassword)
	tipID := e.createTip(t, adminToken, 2)
	require.NoError(t, e.store.DB().Model(&domain.User{}).Where("email = ?", adminEmail).
		Updates(map[string]any{"status": domain.UserPending, "coins": 100}).Error)

	// The admin role opens the dashboard, the ledger still debits active accounts only
	code, _ := e.do(t, http.MethodGet, "/tips", adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
	code, resp := e.do(t, http.MethodPost, "/bets", adminToken, gin.H{"tip_id": tipID, "amount": 10})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, ledger.ErrAccountInactive.Error(), resp["error"])
}

func TestUserStatusTransitions(t *testing.T) {
	e := newEnv(t)
	adminToken := e.login(t, adminEmail, adminPassword)
	id, token := e.activeUser(t, adminToken, "edu@x.com")

	code, _ := e.do(t, http.MethodPatch, "/admin/users/"+id+"/status", adminToken, gin.H{"status": "active"})
	assert.Equal(t, http.StatusConflict, code)

	code, resp := e.do(t, http.MethodPatch, "/admin/users/"+id+"/status", adminToken, gin.H{"status": "inactive"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Usuário desativado com sucesso!", resp["message"])

	code, resp = e.do(t, http.MethodGet, "/bets", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, auth.NoticeInactive, resp["access"].(map[string]any)["notice"])

	code, _ = e.do(t, http.MethodPatch, "/admin/users/missing/status", adminToken, gin.H{"status": "active"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRegisterAndLoginErrors(t *testing.T) {
	e := newEnv(t)
	e.register(t, "Fabi", "fabi@x.com")

	code, _ := e.do(t, http.MethodPost, "/auth/register", "", gin.H{"name": "Fabi", "email": "FABI@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = e.do(t, http.MethodPost, "/auth/register", "", gin.H{"name": "Fabi", "email": "not-an-email", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = e.do(t, http.MethodPost, "/auth/register", "", gin.H{"name": "Fabi", "email": "f2@x.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = e.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "fabi@x.com", "password": "wrong!!"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLogoutRevokesToken(t *testing.T) {
	e := newEnv(t)
	e.register(t, "Gabi", "gabi@x.com")
	token := e.login(t, "gabi@x.com", "secret1")

	code, _ := e.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = e.do(t, http.MethodGet, "/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

type sseReader struct {
	scanner *bufio.Scanner
}

// next returns the data of the next event frame
func (r *sseReader) next(t *testing.T) map[string]any {
	t.Helper()
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if data, ok := strings.CutPrefix(line, "data:"); ok {
			out := map[string]any{}
			require.NoError(t, json.Unmarshal([]byte(data), &out))
			return out
		}
	}
	t.Fatalf("stream ended: %v", r.scanner.Err())
	return nil
}

// openEvents connects to the session stream with token; the body is closed at cleanup
func openEvents(t *testing.T, srv *httptest.Server, token string) *sseReader {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/session/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	require.Equal(t, http.StatusOK, res.StatusCode)
	return &sseReader{scanner: bufio.NewScanner(res.Body)}
}

func TestSessionEventsStream(t *testing.T) {
	e := newEnv(t)
	adminToken := e.login(t, adminEmail, adminPassword)
	id := e.register(t, "Hugo", "hugo@x.com")
	token := e.login(t, "hugo@x.com", "secret1")

	srv := httptest.NewServer(e.router)
	t.Cleanup(srv.Close)

	stream := openEvents(t, srv, token)
	ev := stream.next(t)
	assert.Equal(t, "pending", ev["status"])
	assert.Equal(t, true, ev["signed_in"])

	code, _ := e.do(t, http.MethodPatch, "/admin/users/"+id+"/status", adminToken, gin.H{"status": "active"})
	require.Equal(t, http.StatusOK, code)
	ev = stream.next(t)
	assert.Equal(t, "active", ev["status"])

	code, _ = e.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)
	ev = stream.next(t)
	assert.Equal(t, false, ev["signed_in"])
}

func TestSessionEventsIgnoreOtherSessions(t *testing.T) {
	e := newEnv(t)
	adminToken := e.login(t, adminEmail, adminPassword)
	id := e.register(t, "Ivo", "ivo@x.com")
	laptop := e.login(t, "ivo@x.com", "secret1")
	phone := e.login(t, "ivo@x.com", "secret1")

	srv := httptest.NewServer(e.router)
	t.Cleanup(srv.Close)

	stream := openEvents(t, srv, phone)
	ev := stream.next(t)
	assert.Equal(t, true, ev["signed_in"])

	code, _ := e.do(t, http.MethodPost, "/auth/logout", laptop, nil)
	require.Equal(t, http.StatusOK, code)

	// The phone stream skips the laptop sign-out and still delivers later changes
	code, _ = e.do(t, http.MethodPatch, "/admin/users/"+id+"/status", adminToken, gin.H{"status": "active"})
	require.Equal(t, http.StatusOK, code)
	ev = stream.next(t)
	assert.Equal(t, true, ev["signed_in"])
	assert.Equal(t, "active", ev["status"])
	assert.NotContains(t, ev, "token_id")

	code, _ = e.do(t, http.MethodGet, "/session", phone, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = e.do(t, http.MethodPost, "/auth/logout", phone, nil)
	require.Equal(t, http.StatusOK, code)
	ev = stream.next(t)
	assert.Equal(t, false, ev["signed_in"])
}
