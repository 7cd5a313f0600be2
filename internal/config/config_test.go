package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/payroll-pdf-extractor/internal/sites"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "./input", c.InputDir)
	assert.Equal(t, "./output", c.OutputDir)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "PDF_Extract_{timestamp}.xlsx", c.ReportNameFormat)
	assert.Equal(t, "xlsx", c.OutputFormat)
	assert.Equal(t, "native", c.TextEngine)
	assert.Equal(t, "€", c.CurrencySymbol)
	assert.Equal(t, "vergütung", c.Keywords.CompensationA)
	assert.Equal(t, "besoldung", c.Keywords.CompensationB)
	assert.True(t, c.CacheText)
	assert.True(t, c.WriteErrorLog)
	assert.False(t, c.ProbeDocuments)
	assert.Len(t, c.Sites, 14)
	assert.Equal(t, sites.MatchLenient, c.MatchMode())
	assert.True(t, c.WantsXLSX())
	assert.False(t, c.WantsCSV())
	require.NoError(t, c.Validate())
}

func TestParseMainConfig(t *testing.T) {
	data := []byte(`
input_dir: .data/12_2025
output_dir: .data/export
log_level: DEBUG
output_format: both
cache_text: false
site_matching: strict
keywords:
  compensation_a: entgelt
sites:
  - address: Herdweg 21
    site: Stuttgart (DHBW)
  - address: Erzbergstr. 121
    site: Karlsruhe
`)

	c, err := ParseMainConfig(data)
	require.NoError(t, err)

	assert.Equal(t, ".data/12_2025", c.InputDir)
	assert.Equal(t, ".data/export", c.OutputDir)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.WantsXLSX())
	assert.True(t, c.WantsCSV())
	assert.False(t, c.CacheText)
	assert.True(t, c.WriteErrorLog, "unset keys keep their default")
	assert.Equal(t, sites.MatchStrict, c.MatchMode())
	assert.Equal(t, "entgelt", c.PeriodKeywords().CompensationA)
	assert.Equal(t, "besoldung", c.PeriodKeywords().CompensationB)

	catalog, err := c.Catalog()
	require.NoError(t, err)
	entries := catalog.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Herdweg 21", entries[0].Address)
	assert.Equal(t, "Karlsruhe", entries[1].Site)
}

func TestParseMainConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"log level":      "log_level: verbose",
		"output format":  "output_format: pdf",
		"text engine":    "text_engine: ocr",
		"site matching":  "site_matching: fuzzy",
		"same keywords":  "keywords: {compensation_a: lohn, compensation_b: Lohn}",
		"duplicate site": "sites: [{address: Herdweg 21, site: A}, {address: Herdweg 21, site: B}]",
		"empty site":     "sites: [{address: Herdweg 21}]",
		"bad yaml":       "sites: [",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMainConfig([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMainConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_format: csv\n"), 0o644))

	c, err := LoadMainConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "csv", c.OutputFormat)
	assert.Len(t, c.Sites, 14)

	_, err = LoadMainConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	c, err := LoadMainConfig(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	d := Default()
	assert.Equal(t, d.Sites, c.Sites)
	assert.Equal(t, d.Keywords, c.Keywords)
	assert.Equal(t, d.ReportNameFormat, c.ReportNameFormat)
	assert.Equal(t, d.CacheText, c.CacheText)
}
