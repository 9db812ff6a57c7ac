package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "portfolio.csv")
	store := NewFileStore(path)

	p := &models.Portfolio{Holdings: []models.Holding{
		{Symbol: "AAPL", Quantity: 10.5, Price: 150.25},
		{Symbol: "MSFT", Quantity: 3, Price: 310},
	}}

	require.NoError(t, store.Save(p))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, p.Holdings, loaded.Holdings)
}

func TestLoad_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.csv"))

	p, err := store.Load()

	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLoad_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,quantity,price\n"), 0o644))
	store := NewFileStore(path)

	p, err := store.Load()

	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLoad_CorruptRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,quantity,price\nAAPL,many,150\n"), 0o644))
	store := NewFileStore(path)

	_, err := store.Load()

	assert.Error(t, err)
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	store := NewFileStore(path)

	first := &models.Portfolio{Holdings: []models.Holding{{Symbol: "AAPL", Quantity: 1, Price: 100}}}
	require.NoError(t, store.Save(first))

	second := &models.Portfolio{Holdings: []models.Holding{{Symbol: "TSLA", Quantity: 2, Price: 800}}}
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Holdings, 1)
	assert.Equal(t, "TSLA", loaded.Holdings[0].Symbol)
}
