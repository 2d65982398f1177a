package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gvlayout/pkg/engine"
	errs "github.com/matzehuels/gvlayout/pkg/errors"
	"github.com/matzehuels/gvlayout/pkg/layout"
)

// fixedEngine answers every document with the same output and error, and
// remembers the last document it saw.
type fixedEngine struct {
	out  *engine.Output
	err  error
	last []byte
}

func (e *fixedEngine) Name() string { return "fixed" }

func (e *fixedEngine) Run(ctx context.Context, doc []byte) (*engine.Output, error) {
	e.last = doc
	return e.out, e.err
}

func newTestServer(t *testing.T, eng engine.Engine) *httptest.Server {
	t.Helper()
	s := New(Config{
		Runner: &layout.Runner{Engine: eng},
		Layout: layout.DefaultConfig(),
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postLayout(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/layout", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

const sampleRequest = `{
	"graph": {
		"nodes": [{"id": 1, "label": "app"}, {"id": 2, "label": "lib"}],
		"edges": [{"from": 1, "to": 2}]
	},
	"config": {"algorithm": "neato", "concentrate": true}
}`

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fixedEngine{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestLayout(t *testing.T) {
	eng := &fixedEngine{out: &engine.Output{
		Stdout: []byte(`digraph g { 1 [pos="10,20"]; 2 [pos="30,40"]; 7 [pos="1,1"]; }`),
		Stderr: []byte("Warning: fine"),
	}}
	ts := newTestServer(t, eng)

	resp := postLayout(t, ts, sampleRequest)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body LayoutResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.PassID)
	assert.Equal(t, 2, body.Updated)
	assert.Equal(t, []NodePosition{{ID: 1, X: 10, Y: 20}, {ID: 2, X: 30, Y: 40}}, body.Nodes)
	require.Len(t, body.Skipped, 1)
	assert.Equal(t, 7, body.Skipped[0].NodeID)
	assert.Equal(t, "Warning: fine", body.Diagnostics)

	doc := string(eng.last)
	assert.Contains(t, doc, `layout = "neato";`)
	assert.Contains(t, doc, "concentrate=true;")
	assert.Contains(t, doc, "1->2 [weight=1];")
}

func TestLayoutRequestID(t *testing.T) {
	ts := newTestServer(t, &fixedEngine{out: &engine.Output{}})

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/layout", strings.NewReader(`{"graph":{"nodes":[]}}`))
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-Id"))

	var body LayoutResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []NodePosition{}, body.Nodes)
	assert.Equal(t, []layout.Skip{}, body.Skipped)
}

func TestLayoutBadRequests(t *testing.T) {
	ts := newTestServer(t, &fixedEngine{out: &engine.Output{}})

	tests := []struct {
		name string
		body string
		code errs.Code
	}{
		{"malformed json", `{"graph":`, errs.ErrCodeInvalidInput},
		{"duplicate node", `{"graph":{"nodes":[{"id":1},{"id":1}]}}`, errs.ErrCodeInvalidGraph},
		{"dangling edge", `{"graph":{"nodes":[{"id":1}],"edges":[{"from":1,"to":2}]}}`, errs.ErrCodeInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postLayout(t, ts, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestLayoutBodyTooLarge(t *testing.T) {
	s := New(Config{
		Runner:       &layout.Runner{Engine: &fixedEngine{out: &engine.Output{}}},
		Layout:       layout.DefaultConfig(),
		MaxBodyBytes: 16,
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp := postLayout(t, ts, sampleRequest)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestLayoutEngineErrors(t *testing.T) {
	tests := []struct {
		code   errs.Code
		status int
	}{
		{errs.ErrCodeLaunch, http.StatusBadGateway},
		{errs.ErrCodeIO, http.StatusBadGateway},
		{errs.ErrCodeEngineExit, http.StatusBadGateway},
		{errs.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errs.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			eng := &fixedEngine{
				out: &engine.Output{Stderr: []byte("Error: bad"), ExitCode: 1},
				err: errs.New(tt.code, "engine trouble"),
			}
			ts := newTestServer(t, eng)

			resp := postLayout(t, ts, sampleRequest)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "engine trouble", body.Error)
			assert.Equal(t, "Error: bad", body.Diagnostics)
		})
	}
}

func TestLayoutMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &fixedEngine{})
	resp, err := http.Get(ts.URL + "/v1/layout")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestConfigForIgnoresEngineSettings(t *testing.T) {
	base := layout.DefaultConfig().WithBinary("/opt/dot").WithTimeout(time.Second)
	s := New(Config{Layout: base})

	yes := true
	cfg := s.configFor(&RequestConfig{RankDir: "TB", Overlap: "scale", Concentrate: &yes})
	assert.Equal(t, "/opt/dot", cfg.Binary())
	assert.Equal(t, time.Second, cfg.Timeout())
	assert.Equal(t, "TB", cfg.RankDir())
	assert.Equal(t, "scale", cfg.Overlap())
	assert.True(t, cfg.Concentrate())
	assert.Equal(t, "dot", cfg.Algorithm())

	assert.Equal(t, base, s.configFor(nil))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(Config{Runner: &layout.Runner{Engine: &fixedEngine{out: &engine.Output{}}}, Layout: layout.DefaultConfig()})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serveListener(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusTeapot, map[string]int{"a": 1})
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, rec.Body.String())
	assert.True(t, bytes.HasSuffix(rec.Body.Bytes(), []byte("\n")))
}
