package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ixoye/storefront/internal/domain/catalog"
)

func TestMergeFeeds(t *testing.T) {
	merged := mergeFeeds([][]catalog.Product{
		{
			{ID: "pan", Title: "Pan", Price: decimal.NewFromInt(2000)},
			{ID: "miel", Title: "Miel", Price: decimal.NewFromInt(3500)},
		},
		{
			{ID: "pan", Title: "Pan integral", Price: decimal.NewFromInt(2200)},
		},
	})

	require.Len(t, merged, 2)

	// Later feed wins, position of the first occurrence is kept.
	assert.Equal(t, "pan", merged[0].ID)
	assert.Equal(t, "Pan integral", merged[0].Title)
	assert.True(t, decimal.NewFromInt(2200).Equal(merged[0].Price))
	assert.Equal(t, "miel", merged[1].ID)
}

func TestFeedFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json.gz", "notes.txt", "c.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	files, err := feedFiles(dir)
	require.NoError(t, err)

	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "a.json.gz"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.json"), files[1])
	assert.Equal(t, filepath.Join(dir, "c.json"), files[2])
}
