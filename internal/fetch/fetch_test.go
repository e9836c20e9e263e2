package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "idscan-test" {
			t.Errorf("User-Agent=%q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><body>حالة القيد: مقيد</body></html>"))
	}))
	defer srv.Close()

	c := &Client{UserAgent: "idscan-test", PerRequestTimeout: 2 * time.Second}
	body, ct, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type=%q", ct)
	}
	if !strings.Contains(string(body), "حالة القيد: مقيد") {
		t.Fatalf("body lost Arabic text: %q", body)
	}
}

func TestGet_NoRetryOn5xx(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(502)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	_, _, err := c.Get(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "unexpected status: 502") {
		t.Fatalf("expected status error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestGet_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	if _, _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 204")
	}
}

func TestGet_RejectsNonHTTP(t *testing.T) {
	c := &Client{PerRequestTimeout: 1 * time.Second}
	for _, u := range []string{"file:///etc/hosts", "STUDENT-20201234", ""} {
		if _, _, err := c.Get(context.Background(), u); err == nil {
			t.Fatalf("expected error for %q", u)
		}
	}
}

func TestGet_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	defer close(done)

	c := &Client{PerRequestTimeout: 100 * time.Millisecond}
	start := time.Now()
	if _, _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout not enforced")
	}
}

func TestGet_RedirectLimit(t *testing.T) {
	// First path redirects once to /next; with RedirectMaxHops=1 this should fail immediately
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/next", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second, RedirectMaxHops: 1}
	if _, _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected redirect limit error")
	}

	c = &Client{PerRequestTimeout: 2 * time.Second}
	body, _, err := c.Get(context.Background(), srv.URL)
	if err != nil || string(body) != "ok" {
		t.Fatalf("expected redirect to be followed, body=%q err=%v", body, err)
	}
}

func TestGet_TranscodesDeclaredCharset(t *testing.T) {
	// "حالة" in windows-1256
	payload := []byte{0xCD, 0xC7, 0xE1, 0xC9}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1256")
		_, _ = w.Write(append([]byte("<p>"), append(payload, []byte("</p>")...)...))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	body, _, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<p>حالة</p>" {
		t.Fatalf("body=%q", body)
	}
}

func TestGet_UndeclaredUTF8AfterLongASCIIHead(t *testing.T) {
	page := "<html><head>" + strings.Repeat(`<link rel="stylesheet" href="/static/site.css">`, 60) +
		"</head><body>حالة القيد: مقيد</body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	body, _, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != page {
		t.Fatalf("Arabic text garbled: %q", body[len(body)-60:])
	}
}

func TestGet_UndeclaredLegacyCharsetStillTranscodes(t *testing.T) {
	// <meta> declares windows-1256 and the body is not valid UTF-8
	page := append([]byte(`<html><head><meta charset="windows-1256"></head><body>`), 0xCD, 0xC7, 0xE1, 0xC9)
	page = append(page, []byte("</body></html>")...)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	body, _, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), "<body>حالة</body>") {
		t.Fatalf("body=%q", body)
	}
}
