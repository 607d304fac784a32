package stores

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStoresFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stores.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validStores = `[
  {
    "name": "irrakids",
    "shop_domain": "irrakids.myshopify.com",
    "spreadsheet_id": "sheet-a",
    "api_key": "key-a",
    "password": "pass-a",
    "webhook_secret": "secret-a"
  },
  {
    "name": "irranova",
    "shop_domain": "irranova.myshopify.com",
    "spreadsheet_id": "sheet-b",
    "api_key": "key-b",
    "password": "pass-b",
    "webhook_secret": "secret-b"
  }
]`

func TestLoad(t *testing.T) {
	r, err := Load(writeStoresFile(t, validStores))
	require.NoError(t, err)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "irrakids", all[0].Name)
	assert.Equal(t, "irranova", all[1].Name)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "empty list",
			content: `[]`,
			errMsg:  "defines no stores",
		},
		{
			name:    "malformed json",
			content: `{not json`,
			errMsg:  "failed to parse",
		},
		{
			name: "missing webhook secret",
			content: `[{"name":"a","shop_domain":"a.myshopify.com",
				"spreadsheet_id":"s","api_key":"k","password":"p"}]`,
			errMsg: "missing webhook_secret",
		},
		{
			name: "missing credentials",
			content: `[{"name":"a","shop_domain":"a.myshopify.com",
				"spreadsheet_id":"s","webhook_secret":"w"}]`,
			errMsg: "missing API credentials",
		},
		{
			name: "duplicate shop domain",
			content: `[
				{"name":"a","shop_domain":"dup.myshopify.com","spreadsheet_id":"s1","api_key":"k","password":"p","webhook_secret":"w"},
				{"name":"b","shop_domain":"dup.myshopify.com","spreadsheet_id":"s2","api_key":"k","password":"p","webhook_secret":"w"}
			]`,
			errMsg: "duplicate shop domain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeStoresFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestByDomain(t *testing.T) {
	r, err := Load(writeStoresFile(t, validStores))
	require.NoError(t, err)

	s, err := r.ByDomain("irrakids.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "irrakids", s.Name)

	_, err = r.ByDomain("other.myshopify.com")
	assert.ErrorIs(t, err, ErrUnknownStore)
}

func TestByName(t *testing.T) {
	r, err := Load(writeStoresFile(t, validStores))
	require.NoError(t, err)

	s, err := r.ByName("irranova")
	require.NoError(t, err)
	assert.Equal(t, "irranova.myshopify.com", s.ShopDomain)

	_, err = r.ByName("missing")
	assert.ErrorIs(t, err, ErrUnknownStore)
}
