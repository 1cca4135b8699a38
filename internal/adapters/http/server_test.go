package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/playgraph"
	adapter "github.com/aretw0/playgraph/internal/adapters/http"
	"github.com/aretw0/playgraph/internal/logging"
	"github.com/aretw0/playgraph/internal/presentation/graph"
)

const testPlaybook = `
- name: web servers
  hosts: all
  tasks:
    - name: copy config
      ansible.builtin.copy: {src: a, dest: b}
      notify: restart nginx
  handlers:
    - name: restart nginx
      ansible.builtin.service: {name: nginx, state: restarted}
`

func newTestServer(t *testing.T, playbook string) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "playbook.yml")
	require.NoError(t, os.WriteFile(path, []byte(playbook), 0o644))

	grapher := playgraph.New(playgraph.WithTitle("test book"))
	srv := adapter.NewServer(grapher, path, logging.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_Mermaid(t *testing.T) {
	ts := newTestServer(t, testPlaybook)

	code, body := get(t, ts, "/graph.mmd")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "graph LR")
	assert.Contains(t, body, `{{"restart nginx"}}`)
}

func TestServer_DOT(t *testing.T) {
	ts := newTestServer(t, testPlaybook)

	code, body := get(t, ts, "/graph.dot")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "digraph {")
	assert.Contains(t, body, "rankdir=LR")
}

func TestServer_JSON(t *testing.T) {
	ts := newTestServer(t, testPlaybook)

	code, body := get(t, ts, "/graph.json")
	require.Equal(t, http.StatusOK, code)

	var doc graph.Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, graph.DocumentVersion, doc.Version)
	assert.Equal(t, "test book", doc.Title)
	require.Len(t, doc.Graphs, 1)
}

func TestServer_IndexAndHealth(t *testing.T) {
	ts := newTestServer(t, testPlaybook)

	code, body := get(t, ts, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "mermaid")

	code, body = get(t, ts, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t, testPlaybook)

	code, _ := get(t, ts, "/graph.mmd")
	require.Equal(t, http.StatusOK, code)

	code, body := get(t, ts, "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `playgraph_renders_total{format="mermaid"} 1`)
}

func TestServer_RenderErrorIs500(t *testing.T) {
	ts := newTestServer(t, "- name: bad\n  tasks:\n    - notify: x\n")

	code, body := get(t, ts, "/graph.mmd")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, "failed to render playbook")

	_, metrics := get(t, ts, "/metrics")
	assert.Contains(t, metrics, "playgraph_render_errors_total 1")
}
