package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"asset-library/internal/ingest"
)

func TestProgressHubDropsForSlowSubscriber(t *testing.T) {
	hub := NewProgressHub()
	ch := hub.subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer+10; i++ {
			hub.Report(&ingest.Progress{Current: i, Total: subscriberBuffer + 10})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Report blocked on a full subscriber")
	}
	if len(ch) != subscriberBuffer {
		t.Errorf("buffered events = %d, want %d", len(ch), subscriberBuffer)
	}

	hub.unsubscribe(ch)
	if n := hub.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d after unsubscribe", n)
	}
	hub.Report(nil)
}

func TestProgressHubQueuesEndMarkerForSlowSubscriber(t *testing.T) {
	hub := NewProgressHub()
	ch := hub.subscribe()
	defer hub.unsubscribe(ch)

	for i := 1; i <= 70; i++ {
		hub.Report(&ingest.Progress{Current: i, Total: 70})
	}
	hub.Report(nil)

	if len(ch) != subscriberBuffer {
		t.Fatalf("buffered events = %d, want %d", len(ch), subscriberBuffer)
	}
	var last []byte
	for len(ch) > 0 {
		last = <-ch
	}
	if string(last) != "null" {
		t.Errorf("last event = %s, want null", last)
	}
}

func TestStreamProgress(t *testing.T) {
	h := &Handlers{progress: NewProgressHub()}
	srv := httptest.NewServer(http.HandlerFunc(h.StreamProgress))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	r := bufio.NewReader(resp.Body)
	readEvent := func() string {
		t.Helper()
		var lines []string
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				t.Fatalf("read stream: %v", err)
			}
			line = strings.TrimRight(line, "\n")
			if line == "" {
				return strings.Join(lines, "\n")
			}
			lines = append(lines, line)
		}
	}

	if got := readEvent(); got != ": connected" {
		t.Fatalf("first frame = %q", got)
	}

	h.progress.Report(&ingest.Progress{Current: 10, Total: 25, Status: "Copying files (10/25)"})
	h.progress.Report(nil)

	want := []string{
		`data: {"current":10,"total":25,"status":"Copying files (10/25)"}`,
		"data: null",
	}
	for _, w := range want {
		if got := readEvent(); got != w {
			t.Errorf("event = %q, want %q", got, w)
		}
	}
}
