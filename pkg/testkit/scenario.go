package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// Scenario is an ordered list of HTTP steps loaded from a JSON file. Steps
// share variables: a step may save values from its response and later
// steps reference them as {{name}} in url, body or header values. Inside a
// body, the quoted form "{{#name}}" inserts the value unquoted so ids can
// be used as JSON numbers.
//
//	{
//	  "name": "owner can delete",
//	  "steps": [
//	    {"method": "POST", "url": "/auth/login", "body": {...},
//	     "expectedCode": 200, "save": {"token": "data.access_token"}},
//	    {"method": "DELETE", "url": "/products/1",
//	     "headers": {"Authorization": "Bearer {{token}}"}, "expectedCode": 200}
//	  ]
//	}
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`

	dir string
}

// Step is one request and its assertions.
type Step struct {
	Name string `json:"name"`
	// Client names a cookie jar; steps with the same client share cookies.
	// Empty means "default".
	Client   string            `json:"client"`
	Method   string            `json:"method"`
	URL      string            `json:"url"`
	Body     json.RawMessage   `json:"body"`
	BodyFile string            `json:"bodyFile"` // relative to the scenario file
	Headers  map[string]string `json:"headers"`

	ExpectedCode int `json:"expectedCode"`
	// Expect maps gjson paths to expected values. A null expects the path
	// to be absent or null.
	Expect map[string]any `json:"expect"`
	// Save maps a variable name to a gjson path, or to "cookie:<name>" to
	// capture a cookie the response set.
	Save map[string]string `json:"save"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}
	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.URL == "" {
			return fmt.Errorf("steps[%d].url is required", i)
		}
		if st.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if st.Method == "" {
			st.Method = http.MethodGet
		}
		if st.Name == "" {
			st.Name = fmt.Sprintf("%02d %s %s", i+1, st.Method, st.URL)
		}
	}
	return nil
}

// Run executes the scenario at path against the handler built by
// newHandler. Each scenario gets its own handler so state never leaks.
func Run(t *testing.T, scenarioPath string, newHandler func(t *testing.T) http.Handler) {
	t.Helper()
	s, err := LoadScenario(scenarioPath)
	require.NoError(t, err)
	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, newHandler(t), s)
	})
}

// RunDir runs every *.json scenario in dir as a subtest.
func RunDir(t *testing.T, dir string, newHandler func(t *testing.T) http.Handler) {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			t.Errorf("testkit: %v", err)
			continue
		}
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, newHandler(t), s)
		})
	}
}

var (
	placeholder    = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)
	rawPlaceholder = regexp.MustCompile(`"\{\{#([A-Za-z0-9_.-]+)\}\}"`)
)

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()
	vars := map[string]string{}
	clients := map[string]*Client{}

	lookup := func(re *regexp.Regexp) func(string) string {
		return func(m string) string {
			name := re.FindStringSubmatch(m)[1]
			v, ok := vars[name]
			if !ok {
				t.Fatalf("[%s] undefined variable %q", s.Name, name)
			}
			return v
		}
	}
	expand := func(in string) string {
		in = rawPlaceholder.ReplaceAllStringFunc(in, lookup(rawPlaceholder))
		return placeholder.ReplaceAllStringFunc(in, lookup(placeholder))
	}

	for i, st := range s.Steps {
		jar := st.Client
		if jar == "" {
			jar = "default"
		}
		c, ok := clients[jar]
		if !ok {
			c = NewClient(t, handler)
			clients[jar] = c
		}

		body, err := s.body(st)
		require.NoError(t, err, "[%s] step %d", s.Name, i+1)
		var payload any
		if len(body) > 0 {
			payload = []byte(expand(string(body)))
		}

		headers := make(map[string]string, len(st.Headers))
		for k, v := range st.Headers {
			headers[k] = expand(v)
		}

		res := c.Do(st.Method, expand(st.URL), payload, headers)

		if !assert.Equal(t, st.ExpectedCode, res.Code, "[%s] %s: status mismatch\nbody: %s", s.Name, st.Name, res) {
			return
		}
		for path, want := range st.Expect {
			assertField(t, fmt.Sprintf("[%s] %s: %s", s.Name, st.Name, path), res.JSON(path), want, expand)
		}
		for name, path := range st.Save {
			if cookie, ok := strings.CutPrefix(path, "cookie:"); ok {
				ck := res.Cookie(cookie)
				require.NotNil(t, ck, "[%s] %s: cookie %q not set", s.Name, st.Name, cookie)
				vars[name] = ck.Value
				continue
			}
			v := res.JSON(path)
			require.True(t, v.Exists(), "[%s] %s: nothing at %q to save\nbody: %s", s.Name, st.Name, path, res)
			vars[name] = v.String()
		}
	}
}

func (s *Scenario) body(st Step) ([]byte, error) {
	if st.BodyFile != "" {
		p := st.BodyFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(s.dir, p)
		}
		return os.ReadFile(p)
	}
	if len(st.Body) == 0 || string(st.Body) == "null" {
		return nil, nil
	}
	return st.Body, nil
}

func assertField(t *testing.T, label string, got gjson.Result, want any, expand func(string) string) {
	t.Helper()
	switch w := want.(type) {
	case nil:
		assert.True(t, !got.Exists() || got.Type == gjson.Null, "%s: want absent, got %s", label, got.Raw)
	case bool:
		assert.Equal(t, w, got.Bool(), "%s: got %s", label, got.Raw)
	case float64:
		assert.Equal(t, gjson.Number, got.Type, "%s: want number, got %s", label, got.Raw)
		assert.InDelta(t, w, got.Float(), 1e-9, label)
	case string:
		assert.Equal(t, expand(w), got.String(), label)
	default:
		data, err := json.Marshal(w)
		require.NoError(t, err)
		assert.JSONEq(t, string(data), got.Raw, label)
	}
}
