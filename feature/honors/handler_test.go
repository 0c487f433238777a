package honors

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, allowWrites bool, ids ...string) *fiber.App {
	t.Helper()
	svc, _, _ := newTestService(t, ids...)
	app := fiber.New()
	f := NewFeature(svc, allowWrites)
	require.True(t, f.IsEnabled())
	require.NoError(t, f.Load(app))
	return app
}

func syncBody(extra string) string {
	return `{"award": "Spiel des Jahres", "records": ` + strings.TrimPrefix(strings.TrimSuffix(snapshot, "]}"), `{"honors": `) + `]` + extra + `}`
}

func TestHandleListAwards(t *testing.T) {
	app := newTestApp(t, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/honors/awards", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var views []AwardView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 4)
	for _, v := range views {
		if v.Name == "Spiel des Jahres" {
			assert.Equal(t, 1, v.Caps.Winner)
			assert.Equal(t, 3, v.Caps.NomineeDefault)
		}
	}
}

func TestHandleSync(t *testing.T) {
	t.Run("Dry run by default", func(t *testing.T) {
		app := newTestApp(t, false, "100", "101")
		req := httptest.NewRequest("POST", "/honors/sync", strings.NewReader(syncBody("")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["dry_run"])
		assert.EqualValues(t, 2, body["updated"])
	})

	t.Run("Writes disabled", func(t *testing.T) {
		app := newTestApp(t, false, "100")
		req := httptest.NewRequest("POST", "/honors/sync", strings.NewReader(syncBody(`, "dry_run": false`)))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("Writes enabled", func(t *testing.T) {
		app := newTestApp(t, true, "100")
		req := httptest.NewRequest("POST", "/honors/sync", strings.NewReader(syncBody(`, "dry_run": false`)))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["dry_run"])
		assert.EqualValues(t, 1, body["updated"])
	})

	t.Run("Unknown award", func(t *testing.T) {
		app := newTestApp(t, false)
		req := httptest.NewRequest("POST", "/honors/sync", strings.NewReader(`{"award": "Oscar", "records": []}`))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Malformed body", func(t *testing.T) {
		app := newTestApp(t, false)
		req := httptest.NewRequest("POST", "/honors/sync", strings.NewReader(`{"award":`))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		data, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(data), "invalid request body")
	})
}
