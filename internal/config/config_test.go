package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, 0.05, s.Matching.Tolerance)
	assert.Equal(t, "CHF", s.Parsing.DefaultCurrency)
	assert.Equal(t, 180, s.Parsing.ReferenceMax)
	assert.Equal(t, 220, s.Parsing.MessageMax)
	assert.Equal(t, 5, s.Report.PreviewLimit)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankrec.yaml")

	s := Default()
	s.Matching.Tolerance = 0.10
	s.Parsing.DefaultCurrency = "EUR"
	require.NoError(t, Save(path, s))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	s, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankrec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matching: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
