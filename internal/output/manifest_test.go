package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

func TestWriteDocuments_YAMLStream(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDocuments(&buf, FormatYAML, []any{doc{"core", "0.11"}, doc{"aws", "0.11"}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "name: core")
	assert.Contains(t, out, "---")
	assert.Contains(t, out, "name: aws")
}

func TestWriteDocuments_YAMLUsesJSONTags(t *testing.T) {
	type state struct {
		Name            string `json:"name"`
		LanguageVersion int    `json:"languageVersion"`
		Version         string `json:"version,omitempty"`
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDocuments(&buf, FormatYAML, []any{state{Name: "core", LanguageVersion: 11}}))

	assert.Equal(t, "name: core\nlanguageVersion: 11\n", buf.String())
}

func TestWriteDocuments_YAMLQuotesNumericStrings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocuments(&buf, FormatYAML, []any{doc{"core", "0.11"}}))
	assert.Contains(t, buf.String(), `version: "0.11"`)
}

func TestWriteDocuments_JSONArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocuments(&buf, FormatJSON, []any{doc{"core", "0.11"}}))

	var decoded []doc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []doc{{"core", "0.11"}}, decoded)
}

func TestWriteDocuments_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocuments(&buf, FormatJSON, nil))
	assert.JSONEq(t, "[]", buf.String())
}

func TestWriteDocuments_TableRejected(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteDocuments(&buf, FormatTable, []any{doc{}}))
}

func TestTable_String(t *testing.T) {
	tbl := NewTable("MODULE", "STATUS").Row("core", "configured").Row("aws", "failed")

	out := tbl.String()
	assert.Equal(t, 2, tbl.Len())
	assert.Contains(t, out, "MODULE")
	assert.Contains(t, out, "core")
	assert.Contains(t, out, "failed")
}
