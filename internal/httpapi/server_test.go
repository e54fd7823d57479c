package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pntools/pkg/types"
)

type mockService struct {
	channels types.ChannelsResponse
	channel  types.Channel
	err      error
	cleared  string
	files    types.FilesResponse
	units    string
}

func (m *mockService) Channels() types.ChannelsResponse { return m.channels }
func (m *mockService) Channel(key string) (types.Channel, error) {
	if m.err != nil {
		return types.Channel{}, m.err
	}
	ch := m.channel
	ch.Key = key
	return ch, nil
}
func (m *mockService) ClearChannel(key string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.cleared = key
	return 1, nil
}
func (m *mockService) Files(units string) (types.FilesResponse, error) {
	m.units = units
	return m.files, m.err
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func TestChannelsHandler(t *testing.T) {
	svc := &mockService{channels: types.ChannelsResponse{Namespace: "ns", Channels: []types.Channel{{Key: "a"}, {Key: "b"}}}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channels", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing security header")
	}
	var body types.ChannelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Namespace != "ns" || len(body.Channels) != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestChannelHandler_KeyWithSlashes(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channels/post:pntools/internal/filemanager:Manager:Refresh", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.Channel
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Key != "post:pntools/internal/filemanager:Manager:Refresh" {
		t.Fatalf("key=%q", body.Key)
	}
}

func TestChannelHandler_PercentEncoded(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channels/pre%3Ageom%3APoint%3AX.set%28%2312%29", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.Channel
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Key != "pre:geom:Point:X.set(#12)" {
		t.Fatalf("key=%q", body.Key)
	}
}

func TestChannelHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{mockHTTPError{"bad key", http.StatusBadRequest}, http.StatusBadRequest},
		{mockHTTPError{"nope", http.StatusNotFound}, http.StatusNotFound},
		{errString("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := NewMux(&mockService{err: tc.err})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channels/x", nil))
		if w.Code != tc.want {
			t.Fatalf("%v: status=%d want %d", tc.err, w.Code, tc.want)
		}
		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("json: %v", err)
		}
		if body.Code != tc.want || body.Error != tc.err.Error() {
			t.Fatalf("unexpected error body: %+v", body)
		}
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestDeleteChannel(t *testing.T) {
	svc := &mockService{}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/channels/post:m:C:run", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	if svc.cleared != "post:m:C:run" {
		t.Fatalf("cleared=%q", svc.cleared)
	}
}

func TestChannelHandler_MalformedEscape(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/channels/x", nil)
	req.URL.Path = "/channels/%zz"
	req.URL.RawPath = "/channels/%zz"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestFilesHandler(t *testing.T) {
	svc := &mockService{files: types.FilesResponse{BaseDir: "/d", Units: "KB", Groups: []types.GroupReport{{Name: "video", Files: 2}}}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files?units=KB", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if svc.units != "KB" {
		t.Fatalf("units not forwarded: %q", svc.units)
	}
	var body types.FilesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.BaseDir != "/d" || len(body.Groups) != 1 || body.Groups[0].Files != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthz(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	SetCORSOptions(true, []string{"http://example.test"}, nil, []string{"Content-Type"})
	defer SetCORSOptions(false, nil, nil, nil)
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/channels", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.test" {
		t.Fatalf("allow-origin=%q", got)
	}
}
