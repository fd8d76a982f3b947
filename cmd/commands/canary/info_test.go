package canary

import (
	"encoding/json"
	"strings"
	"testing"

	"gridcentric/canaryctl/internal/canary/domain"

	"github.com/google/go-cmp/cmp"
)

const infoBody = `{
  "mem.used": {"from_time": 1700000000, "to_time": 1700003600, "cfs": ["AVERAGE", "MAX"], "resolutions": [60, 300]},
  "cpu.usage": {"cfs": []}
}`

func TestInfo_TableInWireOrder(t *testing.T) {
	mock := &mockTransport{replies: map[string]reply{
		"GET /canary/h1:i-1/info": {body: infoBody},
	}}
	setupCommandEnv(t, mock)

	stdout, stderr := execCanary(t, "info", "h1:i-1", "--endpoint", "mock://nova")

	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), stdout)
	}
	assertContainsAll(t, lines[0], "header", []string{"METRIC", "FROM", "TO", "CFS", "RESOLUTIONS"})
	assertContainsAll(t, lines[2], "mem row", []string{"mem.used", "2023-11-14 22:13:20", "2023-11-14 23:13:20", "AVERAGE,MAX", "60,300"})
	if !strings.HasPrefix(lines[3], "cpu.usage") || strings.Count(lines[3], "-") != 4 {
		t.Errorf("expected cpu.usage row with four absent fields, got %q", lines[3])
	}
}

func TestInfo_JSONKeepsAbsentAndEmpty(t *testing.T) {
	mock := &mockTransport{replies: map[string]reply{
		"GET /canary/h1/info": {body: infoBody},
	}}
	setupCommandEnv(t, mock)

	stdout, _ := execCanary(t, "info", "h1", "-o", "json", "--endpoint", "mock://nova")

	var got []map[string]any
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(got))
	}
	if got[0]["metric"] != "mem.used" || got[1]["metric"] != "cpu.usage" {
		t.Errorf("expected wire order, got %v, %v", got[0]["metric"], got[1]["metric"])
	}
	if got[1]["from_time"] != nil || got[1]["resolutions"] != nil {
		t.Errorf("expected absent fields to be null, got %v", got[1])
	}
	if diff := cmp.Diff([]any{}, got[1]["cfs"]); diff != "" {
		t.Errorf("expected empty cfs to stay an empty array (-want +got):\n%s", diff)
	}
}

func TestInfo_ShowAliasLegacy(t *testing.T) {
	mock := &mockTransport{replies: map[string]reply{
		"POST /os-hosts/h1/action": {body: `{"cpu": {}}`},
	}}
	setupCommandEnv(t, mock)

	stdout, stderr := execCanary(t, "show", "h1", "--api-version", "v1", "--endpoint", "mock://nova")

	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "cpu") {
		t.Errorf("expected cpu row, got: %s", stdout)
	}
	want := []call{{method: "POST", path: "/os-hosts/h1/action", body: `{"canary-show":{}}`}}
	if diff := cmp.Diff(want, mock.calls, cmp.AllowUnexported(call{})); diff != "" {
		t.Errorf("unexpected requests (-want +got):\n%s", diff)
	}
}

func TestInfo_NoMetrics(t *testing.T) {
	mock := &mockTransport{replies: map[string]reply{
		"GET /canary/h1/info": {body: `{}`},
	}}
	setupCommandEnv(t, mock)

	stdout, _ := execCanary(t, "info", "h1", "--endpoint", "mock://nova")

	if !strings.Contains(stdout, "No metrics reported for h1.") {
		t.Errorf("expected empty message, got: %s", stdout)
	}
}

func TestInfo_NotFound(t *testing.T) {
	setupCommandEnv(t, &mockTransport{})

	_, stderr := execCanary(t, "info", "h9", "--endpoint", "mock://nova")

	if !strings.Contains(stderr, domain.ErrNotFound.Error()) {
		t.Errorf("expected not found error, got: %s", stderr)
	}
}
