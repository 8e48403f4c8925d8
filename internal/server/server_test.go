package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkagesim/pkg/boundary"
	"github.com/matzehuels/linkagesim/pkg/cache"
)

func newTestServer(t *testing.T, c cache.Cache) *httptest.Server {
	t.Helper()
	s := New(Options{Cache: c, Logger: log.New(io.Discard)})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

const twoUnits = `[{"a":1,"b":1,"c":0.6,"d":0.4},{"a":1,"b":1,"c":0.6,"d":0.4}]`

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestSolve(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, data := post(t, ts, "/v1/solve", `{"units":`+twoUnits+`,"theta":1.5707963267948966}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}

	var got SolveResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != boundary.StatusOK || got.Code != "OK" {
		t.Errorf("status = %d %s", got.Status, got.Code)
	}
	if len(got.Segments) != 4 {
		t.Errorf("got %d segments, want 4", len(got.Segments))
	}
	if got.RequestID == "" || got.RequestID != resp.Header.Get(RequestIDHeader) {
		t.Errorf("request id %q vs header %q", got.RequestID, resp.Header.Get(RequestIDHeader))
	}
}

func TestSolveErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name     string
		body     string
		http     int
		status   boundary.Status
		code     string
		wantUnit int
	}{
		{
			name:     "invalid dimension",
			body:     `{"units":[{"a":1,"b":1,"c":0.5,"d":0.5},{"a":1,"b":1,"c":1.5,"d":0.5}],"theta":1}`,
			http:     http.StatusUnprocessableEntity,
			status:   boundary.StatusInvalidDimension,
			code:     "INVALID_DIMENSION",
			wantUnit: 1,
		},
		{
			name:     "degenerate",
			body:     `{"units":` + twoUnits + `,"theta":1.5,"mode":"span"}`,
			http:     http.StatusUnprocessableEntity,
			status:   boundary.StatusDegenerateGeometry,
			code:     "DEGENERATE_GEOMETRY",
			wantUnit: 0,
		},
		{
			name:     "bad mode",
			body:     `{"units":[],"mode":"ratio"}`,
			http:     http.StatusBadRequest,
			status:   boundary.StatusInternal,
			code:     "INVALID_INPUT",
			wantUnit: -1,
		},
		{
			name:     "unknown field",
			body:     `{"unitz":[]}`,
			http:     http.StatusBadRequest,
			status:   boundary.StatusInternal,
			code:     "INVALID_FORMAT",
			wantUnit: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := post(t, ts, "/v1/solve", tt.body)
			if resp.StatusCode != tt.http {
				t.Errorf("HTTP status = %d, want %d (%s)", resp.StatusCode, tt.http, data)
			}
			var body errorBody
			if err := json.Unmarshal(data, &body); err != nil {
				t.Fatal(err)
			}
			if body.Status != tt.status || body.Code != tt.code {
				t.Errorf("got %d %s, want %d %s", body.Status, body.Code, tt.status, tt.code)
			}
			switch {
			case tt.wantUnit < 0 && body.Unit != nil:
				t.Errorf("unexpected unit %d", *body.Unit)
			case tt.wantUnit >= 0 && (body.Unit == nil || *body.Unit != tt.wantUnit):
				t.Errorf("unit = %v, want %d", body.Unit, tt.wantUnit)
			}
		})
	}
}

func TestSolveCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, fc)
	body := `{"units":` + twoUnits + `,"theta":0.8}`

	var first, second SolveResponse
	_, data := post(t, ts, "/v1/solve", body)
	_ = json.Unmarshal(data, &first)
	_, data = post(t, ts, "/v1/solve", body)
	_ = json.Unmarshal(data, &second)

	if first.Cached || !second.Cached {
		t.Errorf("cached = %v then %v, want false then true", first.Cached, second.Cached)
	}
	for i := range first.Segments {
		if first.Segments[i] != second.Segments[i] {
			t.Errorf("segment %d differs between fresh and cached response", i)
		}
	}
}

func TestSweep(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, data := post(t, ts, "/v1/sweep", `{"units":`+twoUnits+`,"mode":"span","from":0.5,"to":1.5,"steps":3}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}

	var got SweepResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(got.Steps))
	}
	// 1.0 equals c+d (flat) and 1.5 exceeds it.
	if got.Steps[0].Status != boundary.StatusOK || got.Steps[0].Endpoint == nil {
		t.Errorf("step 0 = %+v", got.Steps[0])
	}
	for _, i := range []int{1, 2} {
		if got.Steps[i].Status != boundary.StatusDegenerateGeometry {
			t.Errorf("step %d status = %d, want DEGENERATE_GEOMETRY", i, got.Steps[i].Status)
		}
	}
	if got.Failed != 2 {
		t.Errorf("failed = %d, want 2", got.Failed)
	}
	if got.Steps[0].Segments != nil {
		t.Error("segments included without include_segments")
	}
}

func TestSweepBadSteps(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, _ := post(t, ts, "/v1/sweep", `{"units":[],"from":1,"to":0,"steps":0}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	ts := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1/solve", bytes.NewBufferString(`{"units":[],"theta":1}`))
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/v2/solve")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
