package webview

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeReader struct {
	counters map[string]int64
	names    []string
	err      error
}

func (f *fakeReader) DumpAll() (map[string]int64, error) { return f.counters, f.err }
func (f *fakeReader) DumpNames() ([]string, error)       { return f.names, f.err }

func serve(t *testing.T, r *fakeReader, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := NewRouter(NewHandler(r))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestIndex(t *testing.T) {
	w := serve(t, &fakeReader{counters: map[string]int64{"bar": 1234, "foo": 5678}}, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"<td>bar</td>", "<td>1234</td>", "<td>foo</td>", "<td>5678</td>"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestCountersJSON(t *testing.T) {
	w := serve(t, &fakeReader{counters: map[string]int64{"hits": 3}}, "/api/v1/counters")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Counters map[string]int64 `json:"counters"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Counters["hits"] != 3 {
		t.Errorf("counters = %v", resp.Counters)
	}
}

func TestNamesJSON(t *testing.T) {
	w := serve(t, &fakeReader{names: []string{"bar", "foo"}}, "/api/v1/names")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Names []string `json:"names"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Names) != 2 {
		t.Errorf("names = %v", resp.Names)
	}
}

func TestMonitorUnavailable(t *testing.T) {
	w := serve(t, &fakeReader{err: errors.New("down")}, "/api/v1/counters")
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}
