package stdl_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"stdlnotify/internal/services"
	"stdlnotify/internal/stdl"
)

type capturedRequest struct {
	method      string
	path        string
	contentType string
	body        []byte
}

func newCaptureServer(t *testing.T, status int, reply string, captured *capturedRequest, calls *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			*calls++
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if captured != nil {
			captured.method = r.Method
			captured.path = r.URL.Path
			captured.contentType = r.Header.Get("Content-Type")
			captured.body = body
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNotifyDoneSendsNotice(t *testing.T) {
	var captured capturedRequest
	calls := 0
	server := newCaptureServer(t, http.StatusOK, `{"ok":true}`, &captured, &calls)

	client := stdl.NewClient()
	notice := stdl.NoticeFromArgs([]string{"done", "encode", "u1", "vid1"})
	resp, err := client.NotifyDone(context.Background(), server.URL, notice)
	if err != nil {
		t.Fatalf("NotifyDone returned error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected exactly one request, got %d", calls)
	}
	if captured.method != http.MethodPost {
		t.Fatalf("unexpected method: %s", captured.method)
	}
	if captured.path != "/api/stdl/done" {
		t.Fatalf("unexpected path: %s", captured.path)
	}
	if captured.contentType != "application/json" {
		t.Fatalf("unexpected content type: %q", captured.contentType)
	}
	var body map[string]any
	if err := json.Unmarshal(captured.body, &body); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	want := map[string]any{"status": "done", "ptype": "encode", "uid": "u1", "vidname": "vid1", "fstype": "local"}
	if !reflect.DeepEqual(body, want) {
		t.Fatalf("unexpected request body: %v", body)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if !reflect.DeepEqual(resp.Value, map[string]any{"ok": true}) {
		t.Fatalf("unexpected decoded value: %#v", resp.Value)
	}
}

func TestNotifyDoneDoesNotCheckStatusCode(t *testing.T) {
	server := newCaptureServer(t, http.StatusUnprocessableEntity, `{"detail":"invalid status"}`, nil, nil)

	resp, err := stdl.NewClient().NotifyDone(context.Background(), server.URL, stdl.NoticeFromArgs(nil))
	if err != nil {
		t.Fatalf("expected JSON error reply to decode, got %v", err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if !reflect.DeepEqual(resp.Value, map[string]any{"detail": "invalid status"}) {
		t.Fatalf("unexpected value: %#v", resp.Value)
	}
}

func TestNotifyDoneDecodeFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
	}{
		{name: "html error page", status: http.StatusBadGateway, reply: "<html>bad gateway</html>"},
		{name: "empty body", status: http.StatusOK, reply: ""},
		{name: "trailing data", status: http.StatusOK, reply: `{"ok":true} {"ok":false}`},
		{name: "plain text ok", status: http.StatusOK, reply: "ok"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := newCaptureServer(t, tc.status, tc.reply, nil, nil)
			resp, err := stdl.NewClient().NotifyDone(context.Background(), server.URL, stdl.NoticeFromArgs([]string{"complete"}))
			if !errors.Is(err, services.ErrDecode) {
				t.Fatalf("expected decode failure, got %v", err)
			}
			if resp == nil || resp.StatusCode != tc.status {
				t.Fatalf("expected response with status %d, got %+v", tc.status, resp)
			}
			if resp.Value != nil {
				t.Fatalf("expected no value on decode failure, got %#v", resp.Value)
			}
		})
	}
}

func TestNotifyDoneKeepsNumbersVerbatim(t *testing.T) {
	server := newCaptureServer(t, http.StatusOK, `{"queued":12345678901234567890,"ratio":0.10}`, nil, nil)
	resp, err := stdl.NewClient().NotifyDone(context.Background(), server.URL, stdl.NoticeFromArgs(nil))
	if err != nil {
		t.Fatalf("NotifyDone returned error: %v", err)
	}
	value := resp.Value.(map[string]any)
	if value["queued"] != json.Number("12345678901234567890") {
		t.Fatalf("expected json.Number, got %#v", value["queued"])
	}
	if value["ratio"] != json.Number("0.10") {
		t.Fatalf("expected verbatim ratio, got %#v", value["ratio"])
	}
}

type rejectingDoer struct {
	calls int
	url   string
}

func (d *rejectingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	d.url = req.URL.String()
	return nil, errors.New("dial tcp: connection refused")
}

func TestNotifyDoneTransportFailure(t *testing.T) {
	doer := &rejectingDoer{}
	client := stdl.NewClient(stdl.WithHTTPClient(doer))

	resp, err := client.NotifyDone(context.Background(), "http://example.test", stdl.NoticeFromArgs([]string{"done"}))
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if resp != nil {
		t.Fatalf("expected no response, got %+v", resp)
	}
	if doer.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", doer.calls)
	}
	if doer.url != "http://example.test/api/stdl/done" {
		t.Fatalf("unexpected url: %s", doer.url)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected cause in message, got %q", err.Error())
	}
}

func TestNotifyDoneInvalidEndpoint(t *testing.T) {
	_, err := stdl.NewClient().NotifyDone(context.Background(), "", stdl.NoticeFromArgs(nil))
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport failure for empty endpoint, got %v", err)
	}
}

func TestDoneURL(t *testing.T) {
	tests := map[string]string{
		"http://example.test":   "http://example.test/api/stdl/done",
		"http://example.test/":  "http://example.test//api/stdl/done",
		"https://h:8443/prefix": "https://h:8443/prefix/api/stdl/done",
		"":                      "/api/stdl/done",
	}
	for endpoint, want := range tests {
		if got := stdl.DoneURL(endpoint); got != want {
			t.Fatalf("DoneURL(%q) = %q, want %q", endpoint, got, want)
		}
	}
}

func TestUserAgentOption(t *testing.T) {
	var ua string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	client := stdl.NewClient(stdl.WithUserAgent("vtask/1.0"))
	if _, err := client.NotifyDone(context.Background(), server.URL, stdl.NoticeFromArgs(nil)); err != nil {
		t.Fatalf("NotifyDone returned error: %v", err)
	}
	if ua != "vtask/1.0" {
		t.Fatalf("unexpected user agent %q", ua)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/stdl/health" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"status":"UP"}`)
	}))
	defer server.Close()

	resp, err := stdl.NewClient().Health(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if !reflect.DeepEqual(resp.Value, map[string]any{"status": "UP"}) {
		t.Fatalf("unexpected health value: %#v", resp.Value)
	}
}

func TestHealthRejectsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := stdl.NewClient().Health(context.Background(), server.URL)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "down for maintenance") {
		t.Fatalf("expected status and body in error, got %q", err.Error())
	}
}

func TestStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stdl/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{
			"listening": true,
			"queue_size": 2,
			"queue_items": [
				{"status":"complete","platform":"chzzk","uid":"c1","videoName":"v2","fsName":"local"},
				{"status":"canceled","platform":null,"uid":"c2","videoName":"v1","fsName":"s3","conditionallyArchive":true}
			]
		}`)
	}))
	defer server.Close()

	stats, err := stdl.NewClient().Stats(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if !stats.Listening || stats.QueueSize != 2 || len(stats.QueueItems) != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	first := stats.QueueItems[0]
	if first.Status != "complete" || first.Platform != "chzzk" || first.VideoName != "v2" || first.FSName != "local" {
		t.Fatalf("unexpected first item: %+v", first)
	}
	second := stats.QueueItems[1]
	if second.Platform != "" || !second.ConditionallyArchive {
		t.Fatalf("unexpected second item: %+v", second)
	}
}

func TestStatsDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer server.Close()

	if _, err := stdl.NewClient().Stats(context.Background(), server.URL); !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
