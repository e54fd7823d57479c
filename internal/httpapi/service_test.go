package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"pntools/internal/common/fsutil"
	"pntools/internal/filemanager"
	"pntools/pkg/broadcast"
	"pntools/pkg/types"
)

func logRefresh(broadcast.Observable) error { return nil }

func TestInspector_Channels(t *testing.T) {
	reg := broadcast.NewRegistry("httpapi-test")
	b, sub, err := broadcast.Attach(filemanager.Class, "Refresh", logRefresh, broadcast.After, broadcast.WithRegistry(reg))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	defer sub.Cancel()
	key := b.ID().String()

	r := NewMux(NewInspector(reg, nil, fsutil.MB))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channels", nil))
	var list types.ChannelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("json: %v", err)
	}
	if list.Namespace != "httpapi-test" || len(list.Channels) != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}
	ch := list.Channels[0]
	if ch.Key != key || ch.Parts.Class != "Manager" || ch.Parts.Kind != "method" || ch.Parts.Timing != "post" {
		t.Fatalf("unexpected channel: %+v", ch)
	}
	if len(ch.Receivers) != 1 || ch.Receivers[0].Name != "logRefresh" || ch.Receivers[0].Kind != "function" {
		t.Fatalf("unexpected receivers: %+v", ch.Receivers)
	}

	path := "/channels/" + url.PathEscape(key)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", w.Code)
	}
	if sub.Active() {
		t.Fatalf("subscription still active after delete")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after clear, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channels/"+url.PathEscape("during:m:C:x"), nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed key, got %d", w.Code)
	}
}

func TestInspector_Files(t *testing.T) {
	d := t.TempDir()
	if err := os.WriteFile(filepath.Join(d, "a.csv"), make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fm, err := filemanager.New(d)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := fm.Add("csv", []string{"*.csv"}, nil, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	s := NewInspector(nil, fm, 0)

	resp, err := s.Files("KB")
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if resp.Units != "KB" || len(resp.Groups) != 1 || resp.Groups[0].Size != 2 || resp.Groups[0].Human != "2.0 KiB" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp, _ := s.Files(""); resp.Units != "MB" {
		t.Fatalf("default unit = %q", resp.Units)
	}
	if _, err := s.Files("PB"); statusFor(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if _, err := NewInspector(nil, nil, 0).Files(""); statusFor(err) != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %v", err)
	}
}
