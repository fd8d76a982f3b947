package canary

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"gridcentric/canaryctl/internal/cache"
	"gridcentric/canaryctl/internal/canary/domain"
	"gridcentric/canaryctl/internal/config"
	"gridcentric/canaryctl/internal/services/auth"
	"gridcentric/canaryctl/internal/transport"
)

type reply struct {
	body string
	err  error
}

type call struct {
	method string
	path   string
	body   string
}

// mockTransport implements domain.Transport with canned replies keyed by
// "METHOD path".
type mockTransport struct {
	replies map[string]reply
	calls   []call
}

func (m *mockTransport) Get(_ context.Context, path string) (int, json.RawMessage, error) {
	return m.do("GET", path, nil)
}

func (m *mockTransport) Post(_ context.Context, path string, body any) (int, json.RawMessage, error) {
	return m.do("POST", path, body)
}

func (m *mockTransport) do(method, path string, body any) (int, json.RawMessage, error) {
	c := call{method: method, path: path}
	if body != nil {
		data, _ := json.Marshal(body)
		c.body = string(data)
	}
	m.calls = append(m.calls, c)

	r, ok := m.replies[method+" "+path]
	if !ok {
		return 404, nil, domain.ErrNotFound
	}
	if r.err != nil {
		return 500, nil, r.err
	}
	return 200, json.RawMessage(r.body), nil
}

// setupCommandEnv isolates config and the completion cache, and registers
// mock under the "mock" scheme.
func setupCommandEnv(t *testing.T, mock *mockTransport) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)

	prevCache := targetCache
	targetCache = cache.New(t.TempDir())
	t.Cleanup(func() { targetCache = prevCache })

	prevStore := newStore
	newStore = func() auth.Store { return auth.NewMockStore() }
	t.Cleanup(func() { newStore = prevStore })

	transport.Reset()
	t.Cleanup(transport.Reset)
	transport.Register("mock", func(*url.URL, auth.Store) (domain.Transport, error) {
		return mock, nil
	})

	return path
}

// execCanary runs the canary command with args and returns stdout and stderr.
func execCanary(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

// assertContainsAll verifies that output contains every expected substring.
func assertContainsAll(t *testing.T, output string, label string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %s output:\n%s", want, label, output)
		}
	}
}
