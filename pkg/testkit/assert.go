package testkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code and prints the body on mismatch.
func AssertStatusCode(t *testing.T, s *Scenario, got int, body []byte) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] status code mismatch\nbody: %s", s.Name, string(body))
}

// AssertJSONBody deep-compares the response against expected after
// normalising both through json.Unmarshal, so key order and whitespace
// never matter.
func AssertJSONBody(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}
	expVal, actVal, ok := decodePair(t, s, expected, actual)
	if !ok {
		return
	}
	assert.Equal(t, expVal, actVal, "[%s] response body mismatch", s.Name)
}

// AssertJSONSubset checks that every key in expected is present in the
// response with the same value. Arrays must match element by element.
func AssertJSONSubset(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()
	expVal, actVal, ok := decodePair(t, s, expected, actual)
	if !ok {
		return
	}
	if diffs := DiffJSON("", expVal, actVal); len(diffs) > 0 {
		t.Errorf("[%s] response does not contain the expected values:\n%s\nbody: %s",
			s.Name, strings.Join(diffs, "\n"), string(actual))
	}
}

func decodePair(t *testing.T, s *Scenario, expected, actual []byte) (exp, act any, ok bool) {
	t.Helper()
	require.NoError(t, json.Unmarshal(expected, &exp), "[%s] expected value is not valid JSON", s.Name)
	if !assert.NoError(t, json.Unmarshal(actual, &act), "[%s] response is not valid JSON\nbody: %s", s.Name, string(actual)) {
		return nil, nil, false
	}
	return exp, act, true
}

// DiffJSON lists where actual departs from expected. Keys absent from
// expected are ignored.
func DiffJSON(path string, expected, actual any) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
