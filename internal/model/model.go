package model

import (
	"time"

	"league_smoke/internal/assertion"
)

type TestCase struct {
	CaseName    string                // 测试用例名称
	Group       string                // 分组（控制台标题）
	Method      string                // HTTP方法
	Path        string                // 请求路径
	QueryParams map[string]string     // 查询参数
	Body        any                   // 请求体（JSON 编码）
	Headers     map[string]string     // 额外请求头
	Cookies     map[string]string     // 请求 Cookie
	Expected    int                   // 期望状态码
	Assertions  []assertion.Assertion // 响应体断言（可选）
	Critical    bool                  // 失败时终止整个运行
}

type TestResult struct {
	CaseNumber     int
	CaseName       string
	Group          string
	Method         string
	URL            string
	RequestBody    string
	Success        bool
	StatusCode     int
	ExpectedStatus int
	Response       any // 解析后的 JSON，解析失败时为原始文本
	RawBody        string
	Assertions     []assertion.Detail
	Error          string
	Curl           string
	ExecutionTime  time.Duration
}

// Report 是一次运行的汇总，TestsPassed 不会超过 TestsRun。
type Report struct {
	Results     []TestResult
	TestsRun    int
	TestsPassed int
	Aborted     bool
	Duration    time.Duration
}

func (r *Report) Record(result TestResult) {
	r.TestsRun++
	if result.Success {
		r.TestsPassed++
	}
	r.Results = append(r.Results, result)
}

func (r *Report) Failed() int {
	return r.TestsRun - r.TestsPassed
}

// SuccessRate 返回百分比，没有执行任何用例时为 0。
func (r *Report) SuccessRate() float64 {
	if r.TestsRun == 0 {
		return 0
	}
	return float64(r.TestsPassed) / float64(r.TestsRun) * 100
}

func (r *Report) AllPassed() bool {
	return !r.Aborted && r.TestsRun > 0 && r.TestsPassed == r.TestsRun
}
