package assertion

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

// Evaluate 依次执行所有断言，全部通过才算通过。空列表视为通过。
func Evaluate(assertions []Assertion, body string) Result {
	result := Result{Pass: true}
	var failed []string

	for _, a := range assertions {
		d := evaluateSingle(a, body)
		result.Details = append(result.Details, d)
		if !d.Pass {
			result.Pass = false
			failed = append(failed, d.Message)
		}
	}

	if len(failed) > 0 {
		result.Message = strings.Join(failed, "; ")
	}
	return result
}

func evaluateSingle(a Assertion, body string) Detail {
	switch a.Type {
	case TypeJSONPath:
		return evalJSONPath(a, body)
	case TypeBodyContains:
		return evalBodyContains(a, body)
	case TypeBodyRegex:
		return evalBodyRegex(a, body)
	case TypeJSONSchema:
		return evalJSONSchema(a, body)
	default:
		return Detail{Assertion: a, Message: fmt.Sprintf("unknown assertion type: %s", a.Type)}
	}
}

func evalBodyContains(a Assertion, body string) Detail {
	contains := strings.Contains(body, a.Value)
	pass := contains
	if a.Operator == "not_contains" {
		pass = !contains
	}
	msg := ""
	if !pass {
		msg = fmt.Sprintf("body %s %q failed", opOrDefault(a.Operator, "contains"), a.Value)
	}
	return Detail{Assertion: a, Pass: pass, Actual: truncate(body, 100), Message: msg}
}

func evalBodyRegex(a Assertion, body string) Detail {
	re, err := regexp.Compile(a.Value)
	if err != nil {
		return Detail{Assertion: a, Message: fmt.Sprintf("invalid regex: %v", err)}
	}
	pass := re.MatchString(body)
	msg := ""
	if !pass {
		msg = fmt.Sprintf("body does not match %s", a.Value)
	}
	return Detail{Assertion: a, Pass: pass, Actual: truncate(body, 100), Message: msg}
}

func evalJSONPath(a Assertion, body string) Detail {
	val, err := walkJSONPath(body, a.Target)
	if err != nil {
		if a.Operator == "exists" {
			return Detail{Assertion: a, Message: fmt.Sprintf("json_path: %s does not exist", a.Target)}
		}
		return Detail{Assertion: a, Message: fmt.Sprintf("json_path: %v", err)}
	}

	actual := fmt.Sprintf("%v", val)
	if a.Operator == "exists" {
		return Detail{Assertion: a, Pass: true, Actual: actual}
	}

	pass, err := compareString(actual, a.Value, a.Operator)
	if err != nil {
		return Detail{Assertion: a, Actual: actual, Message: fmt.Sprintf("json_path %s: %v", a.Target, err)}
	}
	msg := ""
	if !pass {
		msg = fmt.Sprintf("json_path %s: expected %s %s, got %s", a.Target, opOrDefault(a.Operator, "eq"), a.Value, truncate(actual, 100))
	}
	return Detail{Assertion: a, Pass: pass, Actual: actual, Message: msg}
}

func evalJSONSchema(a Assertion, body string) Detail {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(a.Value))
	if err != nil {
		return Detail{Assertion: a, Message: fmt.Sprintf("compile schema: %v", err)}
	}

	res := schema.ValidateJSON([]byte(body))
	if res.IsValid() {
		return Detail{Assertion: a, Pass: true, Actual: truncate(body, 100)}
	}
	return Detail{
		Assertion: a,
		Actual:    truncate(body, 100),
		Message:   fmt.Sprintf("schema validation failed: %v", res.Errors),
	}
}

func compareString(actual, expected, op string) (bool, error) {
	switch op {
	case "eq", "":
		return actual == expected, nil
	case "neq":
		return actual != expected, nil
	case "contains":
		return strings.Contains(actual, expected), nil
	case "not_contains":
		return !strings.Contains(actual, expected), nil
	case "matches":
		re, err := regexp.Compile(expected)
		if err != nil {
			return false, fmt.Errorf("invalid regex: %w", err)
		}
		return re.MatchString(actual), nil
	default:
		return false, fmt.Errorf("unsupported operator: %s", op)
	}
}

func walkJSONPath(body string, path string) (any, error) {
	var root any
	if err := json.Unmarshal([]byte(body), &root); err != nil {
		return nil, fmt.Errorf("invalid JSON body")
	}

	current := root
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		key, idx, hasIdx := parsePathPart(part)

		if key != "" {
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("expected object at %s", key)
			}
			val, exists := obj[key]
			if !exists {
				return nil, fmt.Errorf("key %s not found", key)
			}
			current = val
		}

		if hasIdx {
			arr, ok := current.([]any)
			if !ok {
				return nil, fmt.Errorf("expected array at index %d", idx)
			}
			if idx < 0 || idx >= len(arr) {
				return nil, fmt.Errorf("index %d out of range (len=%d)", idx, len(arr))
			}
			current = arr[idx]
		}
	}

	return current, nil
}

// parsePathPart 把 "name[0]" 解析为 ("name", 0, true)，"name" 解析为 ("name", 0, false)
func parsePathPart(part string) (string, int, bool) {
	open := strings.Index(part, "[")
	if open == -1 || !strings.HasSuffix(part, "]") {
		return part, 0, false
	}
	idx, err := strconv.Atoi(part[open+1 : len(part)-1])
	if err != nil {
		return part, 0, false
	}
	return part[:open], idx, true
}

func opOrDefault(op, def string) string {
	if op == "" {
		return def
	}
	return op
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
