package assertion

// Assertion 描述对响应体的一条检查。
type Assertion struct {
	Type     string `json:"type" yaml:"type"`         // json_path, body_contains, body_regex, json_schema
	Operator string `json:"operator" yaml:"operator"` // eq, neq, contains, not_contains, matches, exists
	Target   string `json:"target" yaml:"target"`     // json_path 的路径，例如 data.items[0].id
	Value    string `json:"value" yaml:"value"`       // 期望值；json_schema 时为 schema 文档
}

// Result 是一组断言的整体结果。
type Result struct {
	Pass    bool
	Message string
	Details []Detail
}

// Detail 是单条断言的结果。
type Detail struct {
	Assertion Assertion
	Pass      bool
	Actual    string
	Message   string
}

const (
	TypeJSONPath     = "json_path"
	TypeBodyContains = "body_contains"
	TypeBodyRegex    = "body_regex"
	TypeJSONSchema   = "json_schema"
)
