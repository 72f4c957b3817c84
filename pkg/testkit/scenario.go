// Package testkit runs JSON-scenario API tests. Each scenario file describes
// one request to fire at the handler under test, the expected status and
// body, and mocks for outgoing HTTP calls (the hosted catalog API, mainly).
//
// Scenario files live in a testdata directory next to the _test.go file:
//
//	testdata/
//	  cart_add.json           scenario
//	  cart_add_req.json       request body
//	  cart_add_res.json       expected response body
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, handler, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario describes a single API test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Request
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	RequestFile string            `json:"requestFile"` // JSON body, relative to the scenario file
	Headers     map[string]string `json:"headers"`

	// Assertions
	ExpectedCode int    `json:"expectedCode"`
	ResponseFile string `json:"responseFile"` // expected body, deep-compared as JSON

	// Outgoing HTTP mocks, matched by URL prefix in order.
	HTTPMocks []HTTPMock `json:"httpMocks"`

	// StrictMocks fails the test when an outgoing call matches no mock.
	StrictMocks bool `json:"strictMocks"`

	dir string
}

// HTTPMock intercepts one outgoing request on the shared HTTP client.
type HTTPMock struct {
	MatchURL   string `json:"matchUrl"`   // prefix match; empty matches anything
	StatusCode int    `json:"statusCode"` // 0 means 200
	BodyFile   string `json:"bodyFile"`   // JSON response body, relative to the scenario file
}

// LoadScenario parses a scenario file and remembers its directory so the
// request, response and mock body files resolve relative to it.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse scenario %s: %w", path, err)
	}

	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = 200
	}
	s.dir = filepath.Dir(path)
	return &s, nil
}

// readRelative loads a file path from the scenario's directory. An empty
// name returns nil bytes.
func (s *Scenario) readRelative(name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("testkit: read %s: %w", name, err)
	}
	return data, nil
}
