package assertion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyAssertionsPass(t *testing.T) {
	result := Evaluate(nil, "anything")
	assert.True(t, result.Pass)
	assert.Empty(t, result.Details)
}

func TestJSONPathAssertion(t *testing.T) {
	body := `{"error":"Unauthorized","data":{"count":42},"items":[{"id":1},{"id":2}]}`

	tests := []struct {
		target   string
		operator string
		value    string
		pass     bool
	}{
		{"error", "eq", "Unauthorized", true},
		{"error", "", "Unauthorized", true},
		{"error", "neq", "Unauthorized", false},
		{"error", "contains", "auth", true},
		{"error", "matches", "^Un", true},
		{"data.count", "eq", "42", true},
		{"items[0].id", "eq", "1", true},
		{"items[1].id", "eq", "2", true},
		{"items[5].id", "eq", "2", false},
		{"missing", "exists", "", false},
		{"error", "exists", "", true},
		{"error", "gt", "1", false},
	}

	for _, tt := range tests {
		a := Assertion{Type: TypeJSONPath, Target: tt.target, Operator: tt.operator, Value: tt.value}
		result := Evaluate([]Assertion{a}, body)
		assert.Equal(t, tt.pass, result.Pass, "json_path %s %s %s: %s", tt.target, tt.operator, tt.value, result.Message)
	}
}

func TestJSONPathOnTextBody(t *testing.T) {
	a := Assertion{Type: TypeJSONPath, Target: "error", Operator: "exists"}
	result := Evaluate([]Assertion{a}, "<html>not json</html>")
	assert.False(t, result.Pass)
}

func TestBodyContainsAssertion(t *testing.T) {
	contains := Assertion{Type: TypeBodyContains, Value: "Sign in"}
	assert.True(t, Evaluate([]Assertion{contains}, "<h1>Sign in</h1>").Pass)
	assert.False(t, Evaluate([]Assertion{contains}, "<h1>Dashboard</h1>").Pass)

	notContains := Assertion{Type: TypeBodyContains, Operator: "not_contains", Value: "stack trace"}
	assert.True(t, Evaluate([]Assertion{notContains}, "ok").Pass)
}

func TestBodyRegexAssertion(t *testing.T) {
	a := Assertion{Type: TypeBodyRegex, Value: `\d{3}`}
	assert.True(t, Evaluate([]Assertion{a}, "code 401").Pass)
	assert.False(t, Evaluate([]Assertion{a}, "no numbers").Pass)

	bad := Assertion{Type: TypeBodyRegex, Value: `(`}
	assert.False(t, Evaluate([]Assertion{bad}, "x").Pass)
}

func TestJSONSchemaAssertion(t *testing.T) {
	a := Assertion{
		Type:  TypeJSONSchema,
		Value: `{"type":"object","required":["error"],"properties":{"error":{"type":"string"}}}`,
	}

	assert.True(t, Evaluate([]Assertion{a}, `{"error":"Unauthorized"}`).Pass)

	result := Evaluate([]Assertion{a}, `{"message":"Unauthorized"}`)
	require.False(t, result.Pass)
	assert.Contains(t, result.Message, "schema validation failed")
}

func TestUnknownAssertionTypeFails(t *testing.T) {
	result := Evaluate([]Assertion{{Type: "header"}}, "")
	require.False(t, result.Pass)
	assert.Contains(t, result.Message, "unknown assertion type")
}

func TestAllAssertionsMustPass(t *testing.T) {
	assertions := []Assertion{
		{Type: TypeJSONPath, Target: "error", Operator: "exists"},
		{Type: TypeJSONPath, Target: "error", Value: "Forbidden"},
	}
	result := Evaluate(assertions, `{"error":"Unauthorized"}`)
	assert.False(t, result.Pass)
	require.Len(t, result.Details, 2)
	assert.True(t, result.Details[0].Pass)
	assert.False(t, result.Details[1].Pass)
	assert.Equal(t, "Unauthorized", result.Details[1].Actual)
}
