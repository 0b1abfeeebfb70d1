package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
)

// Run executes the scenarios in path against handler, in file order, each
// as a subtest. Captured values are written back into vars.
func Run(t *testing.T, handler http.Handler, path string, vars Vars) {
	t.Helper()
	list, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	runAll(t, handler, list, vars)
}

// RunDir runs every scenario file in dir, sharing vars across files.
func RunDir(t *testing.T, handler http.Handler, dir string, vars Vars) {
	t.Helper()
	list, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	runAll(t, handler, list, vars)
}

func runAll(t *testing.T, handler http.Handler, list []*Scenario, vars Vars) {
	if vars == nil {
		vars = Vars{}
	}
	for _, s := range list {
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s, vars)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario, vars Vars) {
	t.Helper()

	body, err := s.body(vars)
	if err != nil {
		t.Fatalf("[%s] request body: %v", s.Name, err)
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req := httptest.NewRequest(strings.ToUpper(s.Method), vars.expand(s.URL), reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, vars.expand(v))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())

	if len(s.Expect) > 0 {
		AssertJSONSubset(t, s, []byte(vars.expand(string(s.Expect))), rec.Body.Bytes())
	}
	if p := s.path(s.ResponseFile); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
		} else {
			AssertJSONBody(t, s, expected, rec.Body.Bytes())
		}
	}

	if len(s.Capture) > 0 {
		var doc any
		if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
			t.Fatalf("[%s] capture: response is not JSON: %s", s.Name, rec.Body.String())
		}
		for name, path := range s.Capture {
			v, ok := Lookup(doc, path)
			if !ok {
				t.Fatalf("[%s] capture %q: no value at %q", s.Name, name, path)
			}
			vars[name] = scalar(v)
		}
	}
}

// Lookup walks a decoded JSON document along a dotted path. Numeric segments
// index arrays: "data.variants.0.size".
func Lookup(doc any, path string) (any, bool) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// expand replaces placeholders in s. A placeholder that is a whole JSON
// string, e.g. "{{id}}", is replaced by the bare value when that value is a
// JSON number or boolean, so captured ids can be sent as numbers.
func (v Vars) expand(s string) string {
	if len(v) == 0 || !strings.Contains(s, "{{") {
		return s
	}
	pairs := make([]string, 0, len(v)*4)
	for name, val := range v {
		if isBareJSON(val) {
			pairs = append(pairs, fmt.Sprintf(`"{{%s}}"`, name), val)
		}
	}
	for name, val := range v {
		pairs = append(pairs, "{{"+name+"}}", val)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

func isBareJSON(s string) bool {
	if s == "true" || s == "false" {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
