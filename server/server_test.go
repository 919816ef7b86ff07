package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"melodex/config"
	"melodex/core/auth"
	"melodex/core/otc"
	"melodex/core/playlist"
	"melodex/db"
	"melodex/model"
	"melodex/repository"

	"github.com/gorilla/mux"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubMailer struct {
	mu   sync.Mutex
	sent int
}

func (m *stubMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	m.sent++
	m.mu.Unlock()
	return nil
}

type testEnv struct {
	router *mux.Router
	db     *gorm.DB
	tokens *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Hour, 24*time.Hour)
	otcService := otc.NewService(gdb, tokens, &stubMailer{}, nil, 3*time.Minute)

	h := NewAPIHandler(
		cfg,
		repository.NewUserRepository(gdb),
		repository.NewArtistRepository(gdb),
		repository.NewGenreRepository(gdb),
		repository.NewAlbumRepository(gdb),
		repository.NewSongRepository(gdb),
		repository.NewEngagementRepository(gdb),
		repository.NewBillingRepository(gdb),
		playlist.NewEngine(gdb),
		otcService,
		tokens,
		nil,
	)

	return &testEnv{router: newRouter(h), db: gdb, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", rec.Body.String(), err)
	}
	return env
}

// register creates a user through the API and returns an access token
// for it.
func (e *testEnv) register(t *testing.T, username, email, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/register/", "", map[string]string{
		"username":         username,
		"email":            email,
		"password":         password,
		"confirm_password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/api/login/", "", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]interface{})
	return data["access"].(string)
}

// adminToken promotes the named user to staff and issues a fresh token.
func (e *testEnv) adminToken(t *testing.T, username string) string {
	t.Helper()
	err := e.db.Model(&model.User{}).Where("username = ?", username).Update("is_staff", true).Error
	if err != nil {
		t.Fatalf("promote user: %v", err)
	}
	var user model.User
	if err := e.db.Where("username = ?", username).First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	pair, err := e.tokens.IssuePair(&user)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	return pair.Access
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("register then login", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
			"username":         "ana",
			"email":            "ana@example.com",
			"password":         "secret123",
			"confirm_password": "secret123",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeEnvelope(t, rec)
		data := body["data"].(map[string]interface{})
		if data["username"] != "ana" || data["is_premium"] != false {
			t.Fatalf("unexpected snapshot %v", data)
		}

		rec = env.do(t, http.MethodPost, "/api/login/", "", map[string]string{
			"username": "ana",
			"password": "secret123",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body = decodeEnvelope(t, rec)
		data = body["data"].(map[string]interface{})
		if data["access"] == "" || data["refresh"] == "" {
			t.Fatal("expected a token pair")
		}
	})

	t.Run("mismatched passwords are field-keyed errors", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
			"username":         "ben",
			"email":            "ben@example.com",
			"password":         "secret123",
			"confirm_password": "different",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		body := decodeEnvelope(t, rec)
		errs := body["errors"].(map[string]interface{})
		if _, ok := errs["password"]; !ok {
			t.Fatalf("expected a password error, got %v", errs)
		}
	})

	t.Run("invalid gender is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
			"username":         "cara",
			"email":            "cara@example.com",
			"password":         "secret123",
			"confirm_password": "secret123",
			"gender":           "X",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		body := decodeEnvelope(t, rec)
		errs := body["errors"].(map[string]interface{})
		if _, ok := errs["gender"]; !ok {
			t.Fatalf("expected a gender error, got %v", errs)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
			"username":         "ana",
			"email":            "other@example.com",
			"password":         "secret123",
			"confirm_password": "secret123",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		body := decodeEnvelope(t, rec)
		errs := body["errors"].(map[string]interface{})
		if _, ok := errs["username"]; !ok {
			t.Fatalf("expected a username error, got %v", errs)
		}
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login/", "", map[string]string{
			"username": "ana",
			"password": "wrong",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestEmailLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ana", "ana@example.com", "secret123")

	rec := env.do(t, http.MethodPost, "/api/login/email/", "", map[string]string{
		"email": "ana@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	// The code never appears in the response body.
	var record model.LoginCode
	if err := env.db.Where("email = ?", "ana@example.com").First(&record).Error; err != nil {
		t.Fatalf("load code: %v", err)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte(record.Code)) {
		t.Fatal("the login code leaked into the response")
	}

	rec = env.do(t, http.MethodPost, "/api/login/email/verify/", "", map[string]string{
		"email": "ana@example.com",
		"code":  record.Code,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	if user["email"] != "ana@example.com" || user["is_premium"] != false {
		t.Fatalf("unexpected user snapshot %v", user)
	}

	// Replaying the same code fails.
	rec = env.do(t, http.MethodPost, "/api/login/email/verify/", "", map[string]string{
		"email": "ana@example.com",
		"code":  record.Code,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on replay, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "ana", "ana@example.com", "secret123")

	t.Run("missing token is 401", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/playlists/", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/playlists/", "garbage", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("catalog reads require auth", func(t *testing.T) {
		for _, path := range []string{"/api/songs/", "/api/artists/", "/api/albums/", "/api/genres/", "/api/plans/"} {
			rec := env.do(t, http.MethodGet, path, "", nil)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 for %s, got %d", path, rec.Code)
			}
			rec = env.do(t, http.MethodGet, path, token, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200 for %s with a token, got %d", path, rec.Code)
			}
		}
	})

	t.Run("non-admin hits 403 on admin routes", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/users/", token, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		admin := env.adminToken(t, "ana")
		rec := env.do(t, http.MethodGet, "/api/users/", admin, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestPlaylistEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "ana", "ana@example.com", "secret123")
	admin := env.adminToken(t, "ana")

	// Seed two songs through the admin API.
	rec := env.do(t, http.MethodPost, "/api/artists/", admin, map[string]interface{}{"name": "Aurora Lane"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create artist: %d %s", rec.Code, rec.Body.String())
	}
	songIDs := make([]uint64, 0, 2)
	for _, title := range []string{"Afterglow", "Paper Moons"} {
		rec = env.do(t, http.MethodPost, "/api/songs/", admin, map[string]interface{}{
			"title": title, "artist_id": 1, "duration": 200,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create song: %d %s", rec.Code, rec.Body.String())
		}
		body := decodeEnvelope(t, rec)
		songIDs = append(songIDs, uint64(body["data"].(map[string]interface{})["id"].(float64)))
	}

	rec = env.do(t, http.MethodPost, "/api/playlists/", token, map[string]interface{}{
		"name":  "Mix",
		"songs": []uint64{songIDs[0]},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create playlist: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	plID := uint64(body["data"].(map[string]interface{})["id"].(float64))

	t.Run("add songs", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/api/playlists/%d/songs/", plID), token, map[string]interface{}{
			"songs": songIDs,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeEnvelope(t, rec)
		pl := body["data"].(map[string]interface{})
		if got := len(pl["songs"].([]interface{})); got != 2 {
			t.Fatalf("expected 2 songs, got %d", got)
		}
	})

	t.Run("delete with empty songs field removes nothing", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/playlists/%d/", plID), token, map[string]interface{}{
			"songs": []uint64{},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeEnvelope(t, rec)
		pl := body["data"].(map[string]interface{})
		if got := len(pl["songs"].([]interface{})); got != 2 {
			t.Fatalf("expected 2 songs to survive, got %d", got)
		}
	})

	t.Run("delete with malformed body is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/playlists/%d/", plID), bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}

		rec2 := env.do(t, http.MethodGet, fmt.Sprintf("/api/playlists/%d/", plID), token, nil)
		if rec2.Code != http.StatusOK {
			t.Fatalf("playlist must survive a malformed delete, got %d", rec2.Code)
		}
	})

	t.Run("legacy delete body removes a subset", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/playlists/%d/", plID), token, map[string]interface{}{
			"songs": []uint64{songIDs[1]},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		body := decodeEnvelope(t, rec)
		pl := body["data"].(map[string]interface{})
		if got := len(pl["songs"].([]interface{})); got != 1 {
			t.Fatalf("expected 1 song left, got %d", got)
		}
	})

	t.Run("bodyless delete removes the playlist", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/playlists/%d/", plID), token, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/playlists/%d/", plID), token, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", rec.Code)
		}
	})

}

func TestSubscriptionEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "ana", "ana@example.com", "secret123")
	admin := env.adminToken(t, "ana")

	rec := env.do(t, http.MethodPost, "/api/plans/", admin, map[string]interface{}{
		"name": "Individual", "plan_type": "INDIVIDUAL", "price": 9.99,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create plan: %d %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	planID := uint64(body["data"].(map[string]interface{})["id"].(float64))

	rec = env.do(t, http.MethodPost, "/api/subscribe/", token, map[string]interface{}{
		"plan_id": planID, "payment_method": "credit_card",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("subscribe: %d %s", rec.Code, rec.Body.String())
	}
	body = decodeEnvelope(t, rec)
	sub := body["data"].(map[string]interface{})
	if sub["status"] != "ACTIVE" {
		t.Fatalf("expected ACTIVE, got %v", sub["status"])
	}

	var user model.User
	if err := env.db.Where("username = ?", "ana").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !user.IsPremium {
		t.Fatal("subscription must grant premium")
	}

	subID := uint64(sub["id"].(float64))
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/subscriptions/%d/cancel/", subID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: %d %s", rec.Code, rec.Body.String())
	}
}
