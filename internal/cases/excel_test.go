package cases

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"league_smoke/internal/assertion"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{
		Headers[0], Headers[1], Headers[2], Headers[3], Headers[4], Headers[5], Headers[6],
	}))
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+2), &r))
	}

	path := filepath.Join(t.TempDir(), "cases.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadExcel(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Teams (no auth)", "get", "/api/league/teams", "page=1&size=20", "", "401", `[{"type":"json_path","target":"error","operator":"exists"}]`},
		{},
		{"", "POST", "/api/newsletter", "", `{"email":"a@b.c"}`, "200", ""},
	})

	got, err := LoadExcel(path, "Sheet1", 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Teams (no auth)", got[0].CaseName)
	assert.Equal(t, "GET", got[0].Method)
	assert.Equal(t, GroupExcel, got[0].Group)
	assert.Equal(t, map[string]string{"page": "1", "size": "20"}, got[0].QueryParams)
	assert.Equal(t, 401, got[0].Expected)
	assert.Equal(t, []assertion.Assertion{{Type: "json_path", Target: "error", Operator: "exists"}}, got[0].Assertions)
	assert.Nil(t, got[0].Body)

	assert.Equal(t, "POST /api/newsletter", got[1].CaseName)
	assert.Equal(t, map[string]any{"email": "a@b.c"}, got[1].Body)
}

func TestLoadExcelErrors(t *testing.T) {
	tests := []struct {
		name string
		row  []any
	}{
		{"bad status", []any{"x", "GET", "/", "", "", "ok", ""}},
		{"status out of range", []any{"x", "GET", "/", "", "", "42", ""}},
		{"missing path", []any{"x", "GET", "", "", "", "200", ""}},
		{"bad body", []any{"x", "POST", "/", "", "{", "200", ""}},
		{"bad assertions", []any{"x", "GET", "/", "", "", "200", "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWorkbook(t, [][]any{tt.row})
			_, err := LoadExcel(path, "Sheet1", 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "row 2")
		})
	}
}

func TestLoadExcelMissingFile(t *testing.T) {
	_, err := LoadExcel(filepath.Join(t.TempDir(), "missing.xlsx"), "Sheet1", 1)
	assert.Error(t, err)
}

func TestParseParams(t *testing.T) {
	assert.Empty(t, parseParams(""))
	assert.Equal(t, map[string]string{"a": "1", "b": ""}, parseParams("a=1&b=&=x&c"))
}
