package suite

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"league_smoke/internal/assertion"
	"league_smoke/internal/model"
)

const (
	GroupHealth = "health"
	GroupPages  = "pages"
	GroupRoutes = "routes"
	GroupAuth   = "auth"
	GroupSignup = "signup"

	organizationsPath = "/api/league/organizations"

	errorSchema = `{"type":"object","required":["error"],"properties":{"error":{"type":"string"}}}`
)

type Options struct {
	// NewID 生成组织名称和 slug 的后缀，默认取随机 UUID 的前 8 位十六进制
	NewID func() string
	// ErrorBodies 为 true 时同时校验 4xx 响应的错误体 {"error": "..."}
	ErrorBodies bool
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// League 返回固定顺序的联赛管理端检查列表，第一条健康检查失败时整个运行终止。
func League(opts Options) []model.TestCase {
	newID := opts.NewID
	if newID == nil {
		newID = shortID
	}

	cases := []model.TestCase{
		{
			CaseName: "Main page load",
			Group:    GroupHealth,
			Method:   http.MethodGet,
			Path:     "/",
			Expected: http.StatusOK,
			Critical: true,
		},
		{
			CaseName: "Login page loads",
			Group:    GroupPages,
			Method:   http.MethodGet,
			Path:     "/login",
			Expected: http.StatusOK,
		},
		{
			CaseName: "League API base access",
			Group:    GroupRoutes,
			Method:   http.MethodGet,
			Path:     "/api/league",
			Expected: http.StatusNotFound,
		},
		{
			CaseName:   "Organizations endpoint structure",
			Group:      GroupRoutes,
			Method:     http.MethodGet,
			Path:       organizationsPath,
			Expected:   http.StatusUnauthorized,
			Assertions: unauthorizedBody(opts.ErrorBodies),
		},
		{
			CaseName:   "Get organizations (no auth)",
			Group:      GroupAuth,
			Method:     http.MethodGet,
			Path:       organizationsPath,
			Expected:   http.StatusUnauthorized,
			Assertions: unauthorizedBody(opts.ErrorBodies),
		},
		{
			CaseName: "Create organization (no auth)",
			Group:    GroupAuth,
			Method:   http.MethodPost,
			Path:     organizationsPath,
			Body: map[string]string{
				"name": "Test Organization " + newID(),
				"slug": "test-org-" + newID(),
			},
			Expected:   http.StatusUnauthorized,
			Assertions: unauthorizedBody(opts.ErrorBodies),
		},
		{
			// 没有 code 参数的回调应返回 400
			CaseName: "Auth callback endpoint",
			Group:    GroupSignup,
			Method:   http.MethodGet,
			Path:     "/auth/callback",
			Expected: http.StatusBadRequest,
		},
	}

	return cases
}

func unauthorizedBody(enabled bool) []assertion.Assertion {
	if !enabled {
		return nil
	}
	return []assertion.Assertion{
		{Type: assertion.TypeJSONSchema, Value: errorSchema},
		{Type: assertion.TypeJSONPath, Target: "error", Operator: "eq", Value: "Unauthorized"},
	}
}
