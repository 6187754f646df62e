package constraint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/clusterlesshq/conventions/internal/errors"
)

const sampleCatalog = `
[versions]
guava = "31.1-jre"
junit = { strictly = "5.9.3" }

[libraries]
guava = { module = "com.google.guava:guava", version.ref = "guava" }
annotations = "org.jetbrains:annotations:24.0.0"
junit-bom = { group = "org.junit", name = "junit-bom", version.ref = "junit" }
slf4j = { module = "org.slf4j:slf4j-api", version = "2.0.7" }
unversioned = "software.amazon.awssdk:s3"
`

func TestParseCatalog(t *testing.T) {
	got, err := ParseCatalog("libs.versions.toml", []byte(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"com.google.guava:guava":    "31.1-jre",
		"org.jetbrains:annotations": "24.0.0",
		"org.junit:junit-bom":       "5.9.3",
		"org.slf4j:slf4j-api":       "2.0.7",
	}, got)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{
			name:  "unknown version ref",
			data:  "[libraries]\nguava = { module = \"g:a\", version.ref = \"missing\" }\n",
			field: "libraries.guava",
		},
		{
			name:  "malformed string",
			data:  "[libraries]\nbad = \"only-one-part\"\n",
			field: "libraries.bad",
		},
		{
			name:  "missing module",
			data:  "[libraries]\nbad = { version = \"1\" }\n",
			field: "libraries.bad",
		},
		{
			name: "syntax error",
			data: "[libraries\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog("libs.versions.toml", []byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrValidation))

			var detail *oerrors.DetailError
			require.True(t, errors.As(err, &detail))
			assert.Equal(t, tt.field, detail.Field)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "libs.versions.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	got, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "24.0.0", got["org.jetbrains:annotations"])
}

func TestLoadCatalog_NotFound(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
}
