package vendor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ouidb/feature/vendors/registry"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDump = `OUI/MA-L                                                    Organization
Company Id                                                  Organization
                                                            Address

00-22-72   (hex)		American Micro-Fuel Device Corp.
002272     (base 16)		American Micro-Fuel Device Corp.
				2181 Buchanan Loop
				Ferndale  WA  98248
				US
`

func setupTestApp(t *testing.T, source string) (*fiber.App, *registry.DB) {
	t.Helper()
	app := fiber.New()

	cfg := registry.Config{
		CacheDir:        "",
		CheckInterval:   time.Hour,
		RefreshInterval: 24 * time.Hour,
		Source:          source,
		SyncInitialLoad: true,
	}
	db, err := registry.New(cfg, registry.Options{})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	handler := NewHandler(NewService(db, zap.NewNop()))
	handler.RegisterRoutes(app)
	return app, db
}

func TestHandleLookup(t *testing.T) {
	app, _ := setupTestApp(t, "https://registry.invalid/oui.txt")

	req := httptest.NewRequest("GET", "/vendors/00:22:72:a1:b2:c3", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "00-22-72", body["prefix"])
	assert.Equal(t, "American Micro-Fuel Device Corp.", body["organization"])
	assert.Equal(t, "2181 Buchanan Loop\nFerndale  WA  98248\nUS", body["address"])
}

func TestHandleLookup_UnregisteredPrefix(t *testing.T) {
	app, _ := setupTestApp(t, "https://registry.invalid/oui.txt")

	req := httptest.NewRequest("GET", "/vendors/aa:bb:cc:dd:ee:ff", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleLookup_BadAddress(t *testing.T) {
	app, _ := setupTestApp(t, "https://registry.invalid/oui.txt")

	req := httptest.NewRequest("GET", "/vendors/not-a-mac", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleStats(t *testing.T) {
	app, db := setupTestApp(t, "https://registry.invalid/oui.txt")

	req := httptest.NewRequest("GET", "/vendors/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var stats Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, db.Count(), stats.Count)
	assert.False(t, stats.Version.IsZero())
}

func TestHandleRefresh(t *testing.T) {
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testDump))
	}))
	defer src.Close()

	app, db := setupTestApp(t, src.URL)
	require.Equal(t, 10, db.Count(), "starts on the embedded snapshot")

	req := httptest.NewRequest("POST", "/vendors/refresh?force=true", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, db.Count())
}

func TestHandleRefresh_SourceDown(t *testing.T) {
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer src.Close()

	app, db := setupTestApp(t, src.URL)

	req := httptest.NewRequest("POST", "/vendors/refresh?force=true", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)
	assert.Equal(t, 10, db.Count(), "failed refresh leaves the snapshot in service")
}
