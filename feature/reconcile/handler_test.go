package reconcile

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/chafiq1992/shopify-to-sheets/core/ledger"
	sheetsmocks "github.com/chafiq1992/shopify-to-sheets/core/sheets/mocks"
	shopifymocks "github.com/chafiq1992/shopify-to-sheets/core/shopify/mocks"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRegistry(t *testing.T) *stores.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stores.json")
	content := `[{
		"name": "irrakids",
		"shop_domain": "irrakids.myshopify.com",
		"spreadsheet_id": "sheet-a",
		"api_key": "key-a",
		"password": "pass-a",
		"webhook_secret": "secret-a"
	}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	registry, err := stores.Load(path)
	require.NoError(t, err)
	return registry
}

func newSweepApp(t *testing.T, sweeper *Sweeper) *fiber.App {
	t.Helper()
	app := fiber.New()
	NewHandler(sweeper, testRegistry(t), zap.NewNop()).RegisterRoutes(app)
	return app
}

func TestHandleSweep(t *testing.T) {
	sheetsClient := new(sheetsmocks.Client)
	sheetsClient.On("ReadRange", mock.Anything, "sheet-a", ledger.DataRange).
		Return([][]string{ledger.Header()}, nil).Once()

	s := newTestSweeper(sheetsClient, new(shopifymocks.Client), nil, nil)
	app := newSweepApp(t, s)

	resp, err := app.Test(httptest.NewRequest("POST", "/reconcile/irrakids", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal(payload, &report))
	assert.Equal(t, "irrakids", report.Store)
}

func TestHandleSweep_UnknownStore(t *testing.T) {
	s := newTestSweeper(new(sheetsmocks.Client), new(shopifymocks.Client), nil, nil)
	app := newSweepApp(t, s)

	resp, err := app.Test(httptest.NewRequest("POST", "/reconcile/missing", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleSweep_AlreadyRunning(t *testing.T) {
	s := newTestSweeper(new(sheetsmocks.Client), new(shopifymocks.Client), nil, nil)
	app := newSweepApp(t, s)

	store := testStore()
	require.True(t, s.acquire(store))
	defer s.release(store)

	resp, err := app.Test(httptest.NewRequest("POST", "/reconcile/irrakids", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
