package reporter

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"league_smoke/internal/config"
	"league_smoke/internal/model"
)

type Reporter struct {
	config *config.Config
	out    io.Writer
	logger *slog.Logger
}

func New(cfg *config.Config, out io.Writer, logger *slog.Logger) *Reporter {
	return &Reporter{config: cfg, out: out, logger: logger}
}

// GenerateReport 输出控制台汇总，并按配置写入 Excel 报告和指标文件。
func (r *Reporter) GenerateReport(report *model.Report) error {
	r.printConsoleReport(report)

	if path := r.config.Report.ExcelPath; path != "" {
		sheet, err := writeExcelReport(path, report)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "测试报告已保存到工作表: %s (%s)\n", sheet, path)
	}

	if path := r.config.Report.MetricsPath; path != "" {
		if err := writeMetrics(path, report); err != nil {
			return err
		}
		r.logger.Info("metrics written", "path", path)
	}
	return nil
}

func (r *Reporter) printConsoleReport(report *model.Report) {
	if report.Aborted {
		fmt.Fprintln(r.out, "\n服务未正常运行，停止后续测试")
	}

	fmt.Fprintf(r.out, "\n测试汇总\n%s\n", strings.Repeat("=", 30))
	fmt.Fprintf(r.out, "总执行时间: %.3fms\n", float64(report.Duration.Microseconds())/1000)
	fmt.Fprintf(r.out, "Tests run: %d\n", report.TestsRun)
	fmt.Fprintf(r.out, "Tests passed: %d\n", report.TestsPassed)
	fmt.Fprintf(r.out, "Success rate: %.1f%%\n", report.SuccessRate())

	switch {
	case report.AllPassed():
		fmt.Fprintln(r.out, "全部测试通过")
	case report.Failed() > 0:
		fmt.Fprintf(r.out, "\033[31m%d 个测试失败\033[0m\n", report.Failed())
	}
}
