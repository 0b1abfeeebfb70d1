// Package testkit drives REST API tests from JSON scenario files.
//
// A scenario file holds one scenario object or an array of them. Each
// describes a request, the expected status and, optionally, a JSON subset
// the response must contain:
//
//	[
//	  {
//	    "name": "create brand",
//	    "method": "POST",
//	    "url": "/api/admin/brands",
//	    "headers": {"Authorization": "Bearer {{admin_token}}"},
//	    "body": {"brand_name": "Acme"},
//	    "expectedCode": 201,
//	    "expect": {"data": {"brand_name": "Acme"}},
//	    "capture": {"brand_id": "data.brand_id"}
//	  }
//	]
//
// "{{name}}" placeholders in the url, headers and body are replaced from the
// Vars passed to Run. Values captured from a response become vars for the
// scenarios after it, so a file can create a record and then edit it.
package testkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
)

// Scenario is one request and its expected outcome.
type Scenario struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	Headers     map[string]string `json:"headers"`

	// Body is sent as JSON. BodyFile, relative to the scenario file, wins
	// when both are set.
	Body     json.RawMessage `json:"body"`
	BodyFile string          `json:"bodyFile"`

	ExpectedCode int `json:"expectedCode"`

	// Expect must be a subset of the response. ResponseFile, relative to the
	// scenario file, must match the response exactly.
	Expect       json.RawMessage `json:"expect"`
	ResponseFile string          `json:"responseFile"`

	// Capture maps a var name to a dotted path in the response.
	Capture map[string]string `json:"capture"`

	dir string
}

// Vars are substituted into "{{name}}" placeholders.
type Vars map[string]string

// Load reads the scenarios in path.
func Load(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var list []*Scenario
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &list)
	} else {
		var one Scenario
		err = json.Unmarshal(trimmed, &one)
		list = []*Scenario{&one}
	}
	if err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	for i, s := range list {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: %q scenario %d: %w", abs, i, err)
		}
		s.dir = filepath.Dir(abs)
	}
	return list, nil
}

// LoadDir reads every *.json file in dir in name order.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("testkit: no scenario files in %q", dir)
	}
	sort.Strings(paths)

	var all []*Scenario
	for _, p := range paths {
		list, err := Load(p)
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
	}
	return all, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.URL == "" {
		return errors.New("url is required")
	}
	if s.ExpectedCode == 0 {
		return errors.New("expectedCode is required")
	}
	if s.Method == "" {
		s.Method = http.MethodGet
	}
	return nil
}

func (s *Scenario) path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// body returns the request body with vars substituted, or nil.
func (s *Scenario) body(vars Vars) ([]byte, error) {
	var raw []byte
	switch {
	case s.BodyFile != "":
		data, err := os.ReadFile(s.path(s.BodyFile))
		if err != nil {
			return nil, err
		}
		raw = data
	case len(s.Body) > 0:
		raw = s.Body
	default:
		return nil, nil
	}
	return []byte(vars.expand(string(raw))), nil
}
