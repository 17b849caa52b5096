package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/infrastructure/auth"
	"github.com/inkwell-press/inkwell/internal/infrastructure/config"
	"github.com/inkwell-press/inkwell/internal/infrastructure/migration"
	"github.com/inkwell-press/inkwell/internal/infrastructure/repository"
	sharedConfig "github.com/inkwell-press/inkwell/internal/shared/config"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

type testServer struct {
	container *Container
	database  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(database))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := &config.Config{
		Server: sharedConfig.ServerConfig{Mode: "test"},
		Auth: sharedConfig.AuthConfig{
			Password: sharedConfig.PasswordConfig{BcryptCost: 4},
			JWT:      sharedConfig.JWTConfig{Secret: "test-secret", AccessExpMinutes: 15},
		},
		Rental: sharedConfig.RentalConfig{DurationHours: 168},
		Cache:  sharedConfig.CacheConfig{SlugCacheSize: 64, SlugCacheTTLMinutes: 10, ChapterTTLMinutes: 30},
		Unlock: sharedConfig.UnlockConfig{MaxAttempts: 3, InitialBackoffMs: 1, MaxBackoffSeconds: 1},
	}

	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
	container := NewContainer(database, redisClient, cfg, log)

	return &testServer{container: container, database: database}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.container.Engine().ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

// seedAdmin creates an admin account directly and returns a login token.
func (ts *testServer) seedAdmin(t *testing.T) string {
	t.Helper()
	hasher := auth.NewBcryptPasswordHasher(4)
	hash, err := hasher.Hash("AdminPass123")
	require.NoError(t, err)

	admin, err := user.NewUser("siteadmin", "admin@example.com", hash)
	require.NoError(t, err)
	require.NoError(t, admin.SetRole(user.RoleAdmin))

	users := repository.NewUserRepository(ts.database)
	require.NoError(t, users.Create(t.Context(), admin))

	w := ts.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "siteadmin",
		"password": "AdminPass123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeData(t, w)["token"].(string)
}

func (ts *testServer) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "ReaderPass123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": username,
		"password": "ReaderPass123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeData(t, w)["token"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	token := ts.registerAndLogin(t, "casualreader")

	w := ts.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "casualreader", data["username"])
	assert.Equal(t, "reader", data["role"])

	// No token, no profile.
	w = ts.do(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReaderCannotCreateNovel(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "casualreader")

	w := ts.do(t, http.MethodPost, "/novels", token, map[string]any{
		"title": "Ashes of the Vanguard",
		"slug":  "ashes-of-the-vanguard",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPublishingAndPaidReadFlow(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.seedAdmin(t)

	// Admin builds out a novel with one volume and one chapter.
	w := ts.do(t, http.MethodPost, "/novels", adminToken, map[string]any{
		"title": "Ashes of the Vanguard",
		"slug":  "ashes-of-the-vanguard",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	novelSID := decodeData(t, w)["sid"].(string)

	w = ts.do(t, http.MethodPost, "/novels/"+novelSID+"/volumes", adminToken, map[string]any{
		"title": "Volume 1",
		"order": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	volumeSID := decodeData(t, w)["sid"].(string)

	w = ts.do(t, http.MethodPost, "/volumes/"+volumeSID+"/chapters", adminToken, map[string]any{
		"title":    "The Gate",
		"order":    1,
		"markdown": "The gate *creaked* open.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	chapterSID := decodeData(t, w)["sid"].(string)

	// Volume must leave draft before its chapters are reachable.
	w = ts.do(t, http.MethodPut, "/volumes/"+volumeSID+"/mode", adminToken, map[string]any{
		"mode": "published",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Draft chapter is invisible to everyone but staff.
	w = ts.do(t, http.MethodGet, "/chapters/"+chapterSID+"/read", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	// Price the chapter at 10 coins.
	w = ts.do(t, http.MethodPut, "/chapters/"+chapterSID+"/mode", adminToken, map[string]any{
		"mode":  "paid",
		"price": 10,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Anonymous read hits the paywall; metadata still comes back.
	w = ts.do(t, http.MethodGet, "/chapters/"+chapterSID+"/read", "", nil)
	require.Equal(t, http.StatusPaymentRequired, w.Code, w.Body.String())
	denial := decodeData(t, w)
	assert.Equal(t, false, denial["granted"])
	assert.Equal(t, float64(10), denial["price"])
	assert.Nil(t, denial["body"])

	// A reader funds their account through the top-up webhook and
	// contributes enough to unlock the chapter.
	readerToken := ts.registerAndLogin(t, "casualreader")

	w = ts.do(t, http.MethodPost, "/topups", readerToken, map[string]any{"amount": 50})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	providerRef := decodeData(t, w)["provider_ref"].(string)

	w = ts.do(t, http.MethodPost, "/webhooks/topup", "", map[string]any{
		"provider_ref": providerRef,
		"approved":     true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/novels/"+novelSID+"/contribute", readerToken, map[string]any{
		"amount": 10,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	contribution := decodeData(t, w)
	assert.Equal(t, float64(1), contribution["unlocked_count"])

	// The unlock flipped the chapter to published: now free for everyone.
	w = ts.do(t, http.MethodGet, "/chapters/"+chapterSID+"/read", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decodeData(t, w)
	assert.Equal(t, true, view["granted"])
	assert.Contains(t, view["body"], "<em>creaked</em>")

	// Reader spent 10 of the 50 coins.
	w = ts.do(t, http.MethodGet, "/auth/me", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(40), decodeData(t, w)["coins"])
}

func TestRentalFlow(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.seedAdmin(t)

	w := ts.do(t, http.MethodPost, "/novels", adminToken, map[string]any{
		"title": "Ashes of the Vanguard",
		"slug":  "ashes-of-the-vanguard",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	novelSID := decodeData(t, w)["sid"].(string)

	w = ts.do(t, http.MethodPost, "/novels/"+novelSID+"/volumes", adminToken, map[string]any{
		"title": "Volume 1",
		"order": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	volumeSID := decodeData(t, w)["sid"].(string)

	// Paid volume with a rent price is rentable.
	w = ts.do(t, http.MethodPut, "/volumes/"+volumeSID+"/mode", adminToken, map[string]any{
		"mode":       "paid",
		"price":      100,
		"rent_price": 5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	readerToken := ts.registerAndLogin(t, "casualreader")

	// Renting without coins fails.
	w = ts.do(t, http.MethodPost, "/volumes/"+volumeSID+"/rent", readerToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Fund and rent.
	w = ts.do(t, http.MethodPost, "/topups", readerToken, map[string]any{"amount": 20})
	require.Equal(t, http.StatusCreated, w.Code)
	providerRef := decodeData(t, w)["provider_ref"].(string)
	w = ts.do(t, http.MethodPost, "/webhooks/topup", "", map[string]any{
		"provider_ref": providerRef,
		"approved":     true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/volumes/"+volumeSID+"/rent", readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rental := decodeData(t, w)
	assert.Equal(t, volumeSID, rental["volume_sid"])

	w = ts.do(t, http.MethodGet, "/volumes/"+volumeSID+"/rental", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/rentals", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	ts := newTestServer(t)
	readerToken := ts.registerAndLogin(t, "casualreader")

	w := ts.do(t, http.MethodPost, "/topups", readerToken, map[string]any{"amount": 30})
	require.Equal(t, http.StatusCreated, w.Code)
	providerRef := decodeData(t, w)["provider_ref"].(string)

	for i := 0; i < 3; i++ {
		w = ts.do(t, http.MethodPost, "/webhooks/topup", "", map[string]any{
			"provider_ref": providerRef,
			"approved":     true,
		})
		require.Equal(t, http.StatusOK, w.Code, fmt.Sprintf("replay %d: %s", i, w.Body.String()))
	}

	w = ts.do(t, http.MethodGet, "/auth/me", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(30), decodeData(t, w)["coins"])
}
