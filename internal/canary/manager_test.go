package canary

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gridcentric/canaryctl/internal/canary/domain"

	"github.com/google/go-cmp/cmp"
)

// --- Test helpers ---

type call struct {
	method string
	path   string
	body   string
}

// fakeTransport records requests and replies with a canned body.
type fakeTransport struct {
	reply string
	err   error
	calls []call
}

func (f *fakeTransport) Get(_ context.Context, path string) (int, json.RawMessage, error) {
	f.calls = append(f.calls, call{method: "GET", path: path})
	if f.err != nil {
		return 0, nil, f.err
	}
	return 200, json.RawMessage(f.reply), nil
}

func (f *fakeTransport) Post(_ context.Context, path string, body any) (int, json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	f.calls = append(f.calls, call{method: "POST", path: path, body: string(data)})
	if f.err != nil {
		return 0, nil, f.err
	}
	return 200, json.RawMessage(f.reply), nil
}

func (f *fakeTransport) lastCall(t *testing.T) call {
	t.Helper()
	if len(f.calls) != 1 {
		t.Fatalf("expected exactly 1 request, got %d", len(f.calls))
	}
	return f.calls[0]
}

func ptr[T any](v T) *T { return &v }

// --- Path resolution ---

func TestQuery_PathForHost(t *testing.T) {
	ft := &fakeTransport{reply: `[]`}
	m := NewManager(ft, domain.APIv3)

	if _, err := m.Query(context.Background(), domain.Host("h1"), "cpu", domain.QueryOpts{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ft.lastCall(t)
	if got.method != "POST" || got.path != "/canary/h1/query" {
		t.Errorf("got %s %s, want POST /canary/h1/query", got.method, got.path)
	}
}

func TestQuery_PathForInstance(t *testing.T) {
	ft := &fakeTransport{reply: `[]`}
	m := NewManager(ft, domain.APIv3)

	if _, err := m.Query(context.Background(), domain.HostInstance("h1", "i1"), "cpu", domain.QueryOpts{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ft.lastCall(t).path; got != "/canary/h1:i1/query" {
		t.Errorf("path = %q, want /canary/h1:i1/query", got)
	}
}

func TestInfo_PathForInstance(t *testing.T) {
	ft := &fakeTransport{reply: `{}`}
	m := NewManager(ft, domain.APIv3)

	if _, err := m.Info(context.Background(), domain.HostInstance("h1", "i1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ft.lastCall(t)
	if got.method != "GET" || got.path != "/canary/h1:i1/info" {
		t.Errorf("got %s %s, want GET /canary/h1:i1/info", got.method, got.path)
	}
}

func TestInstanceTarget_UnsupportedBeforeV3(t *testing.T) {
	for _, v := range []domain.APIVersion{domain.APIv1, domain.APIv2} {
		t.Run(string(v), func(t *testing.T) {
			ft := &fakeTransport{reply: `[]`}
			m := NewManager(ft, v)

			_, err := m.Query(context.Background(), domain.HostInstance("h1", "i1"), "cpu", domain.QueryOpts{})
			if !errors.Is(err, domain.ErrUnsupported) {
				t.Errorf("expected ErrUnsupported, got %v", err)
			}
			if len(ft.calls) != 0 {
				t.Errorf("expected no request, got %d", len(ft.calls))
			}
		})
	}
}

// --- Query ---

func TestQuery_AttachesCFAndPreservesOrder(t *testing.T) {
	ft := &fakeTransport{reply: `[[100, 0.5], [200, 0.7]]`}
	m := NewManager(ft, domain.APIv3)

	got, err := m.Query(context.Background(), domain.Host("h1"), "cpu", domain.QueryOpts{CF: "MAX"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.DataPoint{
		{Timestamp: 100, CF: "MAX", Value: ptr(0.5)},
		{Timestamp: 200, CF: "MAX", Value: ptr(0.7)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Query mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_DoesNotResort(t *testing.T) {
	ft := &fakeTransport{reply: `[[300, 1], [100, 2], [200, 3]]`}
	m := NewManager(ft, domain.APIv3)

	got, err := m.Query(context.Background(), domain.Host("h1"), "cpu", domain.QueryOpts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var stamps []int64
	for _, p := range got {
		stamps = append(stamps, p.Timestamp)
	}
	if diff := cmp.Diff([]int64{300, 100, 200}, stamps); diff != "" {
		t.Errorf("timestamp order mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_NullValueIsGap(t *testing.T) {
	ft := &fakeTransport{reply: `[[100, null], [200.9, 4]]`}
	m := NewManager(ft, domain.APIv3)

	got, err := m.Query(context.Background(), domain.Host("h1"), "cpu", domain.QueryOpts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.DataPoint{
		{Timestamp: 100, CF: "AVERAGE", Value: nil},
		{Timestamp: 200, CF: "AVERAGE", Value: ptr(4.0)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Query mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_RequestBody(t *testing.T) {
	ft := &fakeTransport{reply: `[]`}
	m := NewManager(ft, domain.APIv3)

	opts := domain.QueryOpts{CF: "MIN", FromTime: ptr(int64(10)), Resolution: ptr(int64(60))}
	if _, err := m.Query(context.Background(), domain.Host("h1"), "mem", opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"args":{"metric":"mem","from_time":10,"to_time":null,"cf":"MIN","resolution":60}}`
	if got := ft.lastCall(t).body; got != want {
		t.Errorf("body = %s\nwant   %s", got, want)
	}
}

func TestQuery_DefaultsCF(t *testing.T) {
	ft := &fakeTransport{reply: `[]`}
	m := NewManager(ft, domain.APIv3)

	if _, err := m.Query(context.Background(), domain.Host("h1"), "cpu", domain.QueryOpts{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"args":{"metric":"cpu","from_time":null,"to_time":null,"cf":"AVERAGE","resolution":null}}`
	if got := ft.lastCall(t).body; got != want {
		t.Errorf("body = %s\nwant   %s", got, want)
	}
}

func TestQuery_V1ActionBody(t *testing.T) {
	ft := &fakeTransport{reply: `[[1, 2]]`}
	m := NewManager(ft, domain.APIv1)

	if _, err := m.Query(context.Background(), domain.Host("h1"), "cpu", domain.QueryOpts{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ft.lastCall(t)
	if got.path != "/os-hosts/h1/action" {
		t.Errorf("path = %q, want /os-hosts/h1/action", got.path)
	}
	want := `{"canary-query":{"args":{"metric":"cpu","from_time":null,"to_time":null,"cf":"AVERAGE","resolution":null}}}`
	if got.body != want {
		t.Errorf("body = %s\nwant   %s", got.body, want)
	}
}

func TestQuery_MetricRequired(t *testing.T) {
	ft := &fakeTransport{reply: `[]`}
	m := NewManager(ft, domain.APIv3)

	_, err := m.Query(context.Background(), domain.Host("h1"), "", domain.QueryOpts{})
	if !errors.Is(err, domain.ErrMetricRequired) {
		t.Errorf("expected ErrMetricRequired, got %v", err)
	}
	if len(ft.calls) != 0 {
		t.Errorf("expected no request, got %d", len(ft.calls))
	}
}

func TestQuery_TransportErrorPropagatesVerbatim(t *testing.T) {
	transportErr := errors.New("connection refused")
	ft := &fakeTransport{err: transportErr}
	m := NewManager(ft, domain.APIv3)

	_, err := m.Query(context.Background(), domain.Host("h1"), "cpu", domain.QueryOpts{})
	if err != transportErr {
		t.Errorf("expected transport error unchanged, got %v", err)
	}
	if len(ft.calls) != 1 {
		t.Errorf("expected a single attempt, got %d", len(ft.calls))
	}
}

func TestQuery_MalformedBody(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"not json", `<html>`},
		{"object instead of list", `{"cpu": 1}`},
		{"short pair", `[[100]]`},
		{"string value", `[[100, "x"]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(&fakeTransport{reply: tt.reply}, domain.APIv3)
			_, err := m.Query(context.Background(), domain.Host("h1"), "cpu", domain.QueryOpts{})
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestQuery_Idempotent(t *testing.T) {
	ft := &fakeTransport{reply: `[[100, 0.5], [200, null], [300, 0.7]]`}
	m := NewManager(ft, domain.APIv3)
	ctx := context.Background()

	first, err := m.Query(ctx, domain.Host("h1"), "cpu", domain.QueryOpts{CF: "MAX"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.Query(ctx, domain.Host("h1"), "cpu", domain.QueryOpts{CF: "MAX"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated query differs (-first +second):\n%s", diff)
	}
}

// --- Info ---

func TestInfo_MissingFieldsAreAbsent(t *testing.T) {
	ft := &fakeTransport{reply: `{"cpu": {"from_time": 0, "to_time": 100}}`}
	m := NewManager(ft, domain.APIv3)

	got, err := m.Info(context.Background(), domain.Host("h1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.MetricInfo{
		{Metric: "cpu", FromTime: ptr(int64(0)), ToTime: ptr(int64(100))},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Info mismatch (-want +got):\n%s", diff)
	}
	if got[0].CFs != nil || got[0].Resolutions != nil {
		t.Errorf("expected absent cfs and resolutions, got %v and %v", got[0].CFs, got[0].Resolutions)
	}
}

func TestInfo_PreservesWireOrder(t *testing.T) {
	ft := &fakeTransport{reply: `{
		"mem":  {"cfs": ["AVERAGE"], "resolutions": [60, 300]},
		"cpu":  {"cfs": ["MIN", "MAX"], "resolutions": []},
		"disk": null
	}`}
	m := NewManager(ft, domain.APIv3)

	got, err := m.Info(context.Background(), domain.Host("h1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.MetricInfo{
		{Metric: "mem", CFs: []string{"AVERAGE"}, Resolutions: []int64{60, 300}},
		{Metric: "cpu", CFs: []string{"MIN", "MAX"}, Resolutions: []int64{}},
		{Metric: "disk"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Info mismatch (-want +got):\n%s", diff)
	}
}

func TestInfo_V1ShowAction(t *testing.T) {
	ft := &fakeTransport{reply: `{"cpu": {}}`}
	m := NewManager(ft, domain.APIv1)

	if _, err := m.Info(context.Background(), domain.Host("h1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ft.lastCall(t)
	if got.method != "POST" || got.path != "/os-hosts/h1/action" {
		t.Errorf("got %s %s, want POST /os-hosts/h1/action", got.method, got.path)
	}
	if got.body != `{"canary-show":{}}` {
		t.Errorf("body = %s, want {\"canary-show\":{}}", got.body)
	}
}

func TestInfo_MalformedBody(t *testing.T) {
	m := NewManager(&fakeTransport{reply: `[1, 2]`}, domain.APIv3)

	_, err := m.Info(context.Background(), domain.Host("h1"))
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

// --- List ---

func TestList_NestedInstances(t *testing.T) {
	ft := &fakeTransport{reply: `{"h1": ["i1", "i2"], "h2": []}`}
	m := NewManager(ft, domain.APIv3)

	got, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.TargetInfo{
		{Host: "h1"},
		{Host: "h1", Instance: "i1"},
		{Host: "h1", Instance: "i2"},
		{Host: "h2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	if c := ft.lastCall(t); c.method != "GET" || c.path != "/canary" {
		t.Errorf("got %s %s, want GET /canary", c.method, c.path)
	}
}

func TestList_HostOrderFollowsWire(t *testing.T) {
	ft := &fakeTransport{reply: `{"zeta": ["b", "a"], "alpha": null, "mid": ["x"]}`}
	m := NewManager(ft, domain.APIv3)

	got, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.TargetInfo{
		{Host: "zeta"},
		{Host: "zeta", Instance: "b"},
		{Host: "zeta", Instance: "a"},
		{Host: "alpha"},
		{Host: "mid"},
		{Host: "mid", Instance: "x"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestList_FlatHosts(t *testing.T) {
	ft := &fakeTransport{reply: `["h2", "h1"]`}
	m := NewManager(ft, domain.APIv2)

	got, err := m.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.TargetInfo{{Host: "h2"}, {Host: "h1"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestList_UnsupportedInV1(t *testing.T) {
	ft := &fakeTransport{reply: `[]`}
	m := NewManager(ft, domain.APIv1)

	_, err := m.List(context.Background())
	if !errors.Is(err, domain.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if len(ft.calls) != 0 {
		t.Errorf("expected no request, got %d", len(ft.calls))
	}
}

func TestList_MalformedBody(t *testing.T) {
	for _, reply := range []string{`"h1"`, `{"h1": "i1"}`, `42`} {
		t.Run(reply, func(t *testing.T) {
			m := NewManager(&fakeTransport{reply: reply}, domain.APIv3)
			_, err := m.List(context.Background())
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestNewManager_DefaultVersion(t *testing.T) {
	if got := NewManager(&fakeTransport{}, "").Version(); got != domain.DefaultAPIVersion {
		t.Errorf("Version() = %q, want %q", got, domain.DefaultAPIVersion)
	}
}
