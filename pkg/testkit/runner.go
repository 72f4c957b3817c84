package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	jaivikhttp "github.com/citizenjaivik/jaivik/pkg/http"
)

// Run executes a single scenario file against the handler:
//
//  1. Load the scenario and its request body.
//  2. Install the mock transport on the shared outgoing HTTP client.
//  3. Fire the request through httptest.
//  4. Assert status code and, when a response file is set, the JSON body.
//  5. Verify every mock was matched, then restore the transport.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("%v", err)
	}

	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s)
	})
}

// RunDir discovers every *.json file directly in dir whose name does not end
// in _req.json or _res.json and runs each as a subtest.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}

	for _, path := range entries {
		base := filepath.Base(path)
		if isFixtureFile(base) {
			continue
		}
		Run(t, handler, path)
	}
}

func isFixtureFile(name string) bool {
	return hasSuffix(name, "_req.json") || hasSuffix(name, "_res.json") || hasSuffix(name, "_mock.json")
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	reqBody, err := s.readRelative(s.RequestFile)
	if err != nil {
		t.Fatalf("%v", err)
	}

	mt, err := NewMockTransport(s)
	if err != nil {
		t.Fatalf("%v", err)
	}
	jaivikhttp.DefaultClient.Transport = mt
	defer jaivikhttp.ResetTransport()

	method := s.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(reqBody) > 0 {
		body = bytes.NewReader(reqBody)
	}
	req := httptest.NewRequest(method, s.URL, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	expected, err := s.readRelative(s.ResponseFile)
	if err != nil {
		t.Fatalf("%v", err)
	}
	AssertJSONBody(t, s, expected, rec.Body.Bytes())
	AssertMocksAllCalled(t, s, mt)
}
