package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"league_smoke/internal/assertion"
	"league_smoke/internal/config"
	"league_smoke/internal/model"
)

const (
	maxBodyRead    = 1 << 20 // 1MB
	maxTextPreview = 200
)

type Runner struct {
	config  *config.Config
	client  *http.Client
	limiter *rate.Limiter
	out     io.Writer
	logger  *slog.Logger
}

func New(cfg *config.Config, out io.Writer, logger *slog.Logger) *Runner {
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	return &Runner{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		out:     out,
		logger:  logger,
	}
}

// Run 按顺序执行所有用例。Critical 用例失败时立即停止，后续用例不再发出请求。
// 只有 ctx 被取消时才返回错误，单个用例的失败记录在报告里。
func (r *Runner) Run(ctx context.Context, cases []model.TestCase) (*model.Report, error) {
	report := &model.Report{}
	start := time.Now()
	defer func() { report.Duration = time.Since(start) }()

	fmt.Fprintf(r.out, "测试目标: %s\n", r.config.BaseURL)

	group := ""
	for i, tc := range cases {
		if err := r.limiter.Wait(ctx); err != nil {
			return report, fmt.Errorf("wait for rate limiter: %w", err)
		}

		if tc.Group != "" && tc.Group != group {
			group = tc.Group
			fmt.Fprintf(r.out, "\n--- %s ---\n", group)
		}

		result := r.executeTest(ctx, i+1, tc)
		report.Record(result)

		r.logger.Debug("check finished",
			"case", result.CaseNumber,
			"name", result.CaseName,
			"status", result.StatusCode,
			"success", result.Success,
			"elapsed", result.ExecutionTime,
		)

		if err := ctx.Err(); err != nil {
			return report, err
		}

		if tc.Critical && !result.Success {
			report.Aborted = true
			r.logger.Warn("critical check failed, skipping remaining checks",
				"case", tc.CaseName, "remaining", len(cases)-i-1)
			break
		}
	}

	return report, nil
}

func (r *Runner) executeTest(ctx context.Context, caseNumber int, tc model.TestCase) model.TestResult {
	result := model.TestResult{
		CaseNumber:     caseNumber,
		CaseName:       tc.CaseName,
		Group:          tc.Group,
		Method:         tc.Method,
		ExpectedStatus: tc.Expected,
	}

	fmt.Fprintf(r.out, "\n=== 执行测试用例 #%d: %s ===\n", caseNumber, tc.CaseName)

	target, err := JoinURL(r.config.BaseURL, tc.Path, tc.QueryParams)
	if err != nil {
		return r.fail(result, fmt.Sprintf("构建URL失败: %v", err))
	}
	result.URL = target
	fmt.Fprintf(r.out, "URL: %s\n", target)

	var payload []byte
	if tc.Body != nil {
		payload, err = json.Marshal(tc.Body)
		if err != nil {
			return r.fail(result, fmt.Sprintf("编码请求体失败: %v", err))
		}
		result.RequestBody = string(payload)
	}

	req, err := http.NewRequestWithContext(ctx, tc.Method, target, bytes.NewReader(payload))
	if err != nil {
		return r.fail(result, fmt.Sprintf("创建请求失败: %v", err))
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range r.config.Headers {
		req.Header.Set(key, value)
	}
	for key, value := range tc.Headers {
		req.Header.Set(key, value)
	}
	for _, name := range sortedKeys(tc.Cookies) {
		req.AddCookie(&http.Cookie{Name: name, Value: tc.Cookies[name]})
	}

	result.Curl = toCurl(req, result.RequestBody)
	fmt.Fprintln(r.out, result.Curl)

	start := time.Now()
	resp, err := r.client.Do(req)
	result.ExecutionTime = time.Since(start)
	if err != nil {
		return r.fail(result, fmt.Sprintf("网络错误: %v", describeTransportError(err)))
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	fmt.Fprintf(r.out, "状态码: %d\n", resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
	if err != nil {
		return r.fail(result, fmt.Sprintf("读取响应失败: %v", err))
	}
	result.RawBody = string(body)
	result.Response = r.printResponse(body)

	if resp.StatusCode != tc.Expected {
		return r.fail(result, fmt.Sprintf("期望状态码 %d, 实际 %d", tc.Expected, resp.StatusCode))
	}

	if len(tc.Assertions) > 0 {
		ar := assertion.Evaluate(tc.Assertions, result.RawBody)
		result.Assertions = ar.Details
		if !ar.Pass {
			return r.fail(result, fmt.Sprintf("响应体断言失败: %s", ar.Message))
		}
	}

	result.Success = true
	fmt.Fprintf(r.out, "通过 - 状态码: %d\n", resp.StatusCode)
	return result
}

func (r *Runner) fail(result model.TestResult, msg string) model.TestResult {
	result.Success = false
	result.Error = msg
	fmt.Fprintf(r.out, "失败 - %s\n", msg)
	return result
}

// printResponse 尝试按 JSON 解析并格式化输出，失败时退回原始文本。
func (r *Runner) printResponse(body []byte) any {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		pretty, _ := json.MarshalIndent(parsed, "", "  ")
		fmt.Fprintf(r.out, "响应: %s\n", pretty)
		return parsed
	}

	text := string(body)
	preview := text
	if len(preview) > maxTextPreview {
		preview = preview[:maxTextPreview]
	}
	fmt.Fprintf(r.out, "响应(文本): %s...\n", preview)
	return text
}

// JoinURL 用单个 "/" 连接 base 和 path，并附加查询参数。
func JoinURL(base, path string, query map[string]string) (string, error) {
	raw := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func describeTransportError(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Sprintf("请求超时: %v", err)
	}
	return err.Error()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
