package reporter

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"league_smoke/internal/model"
)

// writeMetrics 以 node_exporter textfile 格式写出本次运行的指标。
func writeMetrics(path string, report *model.Report) error {
	reg := prometheus.NewRegistry()

	testsRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smoke_tests_run",
		Help: "Number of checks executed in the last run",
	})
	testsPassed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smoke_tests_passed",
		Help: "Number of checks that passed in the last run",
	})
	aborted := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smoke_run_aborted",
		Help: "1 if the run stopped after a failed health check",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smoke_run_duration_seconds",
		Help: "Wall time of the last run",
	})
	checkSuccess := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "smoke_check_success",
		Help: "1 if the check passed",
	}, []string{"check", "method", "expected"})
	checkDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "smoke_check_duration_seconds",
		Help: "Request time of the check",
	}, []string{"check", "method", "expected"})

	reg.MustRegister(testsRun, testsPassed, aborted, duration, checkSuccess, checkDuration)

	testsRun.Set(float64(report.TestsRun))
	testsPassed.Set(float64(report.TestsPassed))
	if report.Aborted {
		aborted.Set(1)
	}
	duration.Set(report.Duration.Seconds())

	for _, res := range report.Results {
		labels := prometheus.Labels{
			"check":    res.CaseName,
			"method":   res.Method,
			"expected": fmt.Sprint(res.ExpectedStatus),
		}
		success := 0.0
		if res.Success {
			success = 1
		}
		checkSuccess.With(labels).Set(success)
		checkDuration.With(labels).Set(res.ExecutionTime.Seconds())
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
