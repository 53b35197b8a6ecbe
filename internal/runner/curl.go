package runner

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// toCurl 将请求转换为 curl 命令，请求头按名称排序
func toCurl(req *http.Request, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "curl -X %s", req.Method)

	names := make([]string, 0, len(req.Header))
	for name := range req.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " -H '%s: %s'", name, req.Header.Get(name))
	}

	if body != "" {
		fmt.Fprintf(&b, " -d '%s'", strings.ReplaceAll(body, "'", `'\''`))
	}

	fmt.Fprintf(&b, " '%s'", req.URL.String())
	return b.String()
}
