package reporter

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/xuri/excelize/v2"

	"league_smoke/internal/model"
)

const (
	// Excel 相关
	defaultSheetNameFormat = "测试报告_%s"
	timeFormat             = "2006-01-02_15-04-05"
	defaultColumnWidth     = 14

	// 样式相关
	patternType    = "pattern"
	patternValue   = 1
	errorBgColor   = "FF5900"
	warningBgColor = "FFEB9C"

	// 慢请求阈值
	slowTestThreshold = 300 * time.Millisecond
)

// 表头定义
var excelHeaders = []string{
	"用例编号", "用例名称", "分组", "请求方法", "请求URL", "请求体",
	"期望状态码", "实际状态码", "测试结果", "耗时(ms)", "错误信息", "CURL命令",
}

// 用于测试固定时间
var now = time.Now

// writeExcelReport 打开已有工作簿（不存在则新建），追加一个报告工作表，返回工作表名称。
func writeExcelReport(path string, report *model.Report) (string, error) {
	f, err := openOrCreate(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sheetName := fmt.Sprintf(defaultSheetNameFormat, now().Format(timeFormat))
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	lastCol, _ := excelize.ColumnNumberToName(len(excelHeaders))
	if err := f.SetColWidth(sheetName, "A", lastCol, defaultColumnWidth); err != nil {
		return "", fmt.Errorf("set column width: %w", err)
	}

	header := make([]any, len(excelHeaders))
	for i, h := range excelHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return "", err
	}

	for i, result := range report.Results {
		if err := writeTestResult(f, sheetName, i+2, result, st); err != nil {
			return "", err
		}
	}

	writeSummary(f, sheetName, len(report.Results)+3, report)

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}
	return sheetName, nil
}

func openOrCreate(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return f, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), nil
	}
	return nil, fmt.Errorf("open excel %s: %w", path, err)
}

type styles struct {
	failed int
	slow   int
}

func newStyles(f *excelize.File) (styles, error) {
	// 失败行红色背景
	failed, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{errorBgColor}},
	})
	if err != nil {
		return styles{}, fmt.Errorf("create style: %w", err)
	}
	// 慢请求黄色背景
	slow, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{warningBgColor}},
	})
	if err != nil {
		return styles{}, fmt.Errorf("create style: %w", err)
	}
	return styles{failed: failed, slow: slow}, nil
}

func writeTestResult(f *excelize.File, sheet string, row int, result model.TestResult, st styles) error {
	cells := []any{
		result.CaseNumber,
		result.CaseName,
		result.Group,
		result.Method,
		result.URL,
		result.RequestBody,
		result.ExpectedStatus,
		result.StatusCode,
		result.Success,
		float64(result.ExecutionTime.Microseconds()) / 1000,
		result.Error,
		result.Curl,
	}

	start := fmt.Sprintf("A%d", row)
	if err := f.SetSheetRow(sheet, start, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}

	end, _ := excelize.CoordinatesToCellName(len(cells), row)
	switch {
	case !result.Success:
		return f.SetCellStyle(sheet, start, end, st.failed)
	case result.ExecutionTime > slowTestThreshold:
		return f.SetCellStyle(sheet, start, end, st.slow)
	}
	return nil
}

func writeSummary(f *excelize.File, sheet string, startRow int, report *model.Report) {
	lines := []string{
		"测试汇总",
		fmt.Sprintf("总执行时间: %.3fms", float64(report.Duration.Microseconds())/1000),
		fmt.Sprintf("总用例数: %d", report.TestsRun),
		fmt.Sprintf("通过用例数: %d", report.TestsPassed),
		fmt.Sprintf("失败用例数: %d", report.Failed()),
		fmt.Sprintf("通过率: %.1f%%", report.SuccessRate()),
	}
	if report.Aborted {
		lines = append(lines, "健康检查失败，运行已终止")
	}
	for i, line := range lines {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", startRow+i), line)
	}
}
