package cases

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"league_smoke/internal/assertion"
	"league_smoke/internal/model"
)

// 用例表的列顺序
const (
	colName = iota
	colMethod
	colPath
	colQuery
	colBody
	colExpected
	colAssertions
)

// Headers 是用例表的表头，写模板或校验时使用
var Headers = []string{"用例名称", "请求方法", "请求路径", "查询参数", "请求体", "期望状态码", "断言"}

const GroupExcel = "excel"

// LoadExcel 从工作表读取额外的用例，跳过前 headerRow 行和空行。
func LoadExcel(path, sheet string, headerRow int) ([]model.TestCase, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if headerRow > len(rows) {
		return nil, nil
	}

	var out []model.TestCase
	for i, row := range rows[headerRow:] {
		if isBlank(row) {
			continue
		}
		tc, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", sheet, headerRow+i+1, err)
		}
		out = append(out, tc)
	}
	return out, nil
}

func parseRow(row []string) (model.TestCase, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	tc := model.TestCase{
		CaseName:    cell(colName),
		Group:       GroupExcel,
		Method:      strings.ToUpper(cell(colMethod)),
		Path:        cell(colPath),
		QueryParams: parseParams(cell(colQuery)),
	}
	if tc.Method == "" {
		tc.Method = http.MethodGet
	}
	if tc.Path == "" {
		return tc, fmt.Errorf("path is required")
	}
	if tc.CaseName == "" {
		tc.CaseName = tc.Method + " " + tc.Path
	}

	expected, err := strconv.Atoi(cell(colExpected))
	if err != nil || expected < 100 || expected > 599 {
		return tc, fmt.Errorf("invalid expected status %q", cell(colExpected))
	}
	tc.Expected = expected

	if body := cell(colBody); body != "" {
		var payload any
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			return tc, fmt.Errorf("body is not valid JSON: %w", err)
		}
		tc.Body = payload
	}

	if raw := cell(colAssertions); raw != "" {
		var assertions []assertion.Assertion
		if err := json.Unmarshal([]byte(raw), &assertions); err != nil {
			return tc, fmt.Errorf("assertions are not valid JSON: %w", err)
		}
		tc.Assertions = assertions
	}

	return tc, nil
}

func parseParams(paramStr string) map[string]string {
	params := make(map[string]string)
	if paramStr == "" {
		return params
	}

	for _, pair := range strings.Split(paramStr, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if ok && k != "" {
			params[k] = v
		}
	}
	return params
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
