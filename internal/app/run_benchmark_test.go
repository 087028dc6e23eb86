package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func BenchmarkRun(b *testing.B) {
	// A predictable local source: many live streams, some dead, some
	// redirecting, and some that only answer a ranged GET.
	mux := http.NewServeMux()

	okCount := 60
	deadCount := 20
	redirCount := 10
	rangeCount := 10

	var srv *httptest.Server
	mux.HandleFunc("/list.m3u", func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.WriteString("#EXTM3U\n")
		for i := 0; i < okCount; i++ {
			fmt.Fprintf(&body, "#EXTINF:-1,OK %d\n%s/ok/%d\n", i, srv.URL, i)
		}
		for i := 0; i < deadCount; i++ {
			fmt.Fprintf(&body, "#EXTINF:-1,Dead %d\n%s/dead/%d\n", i, srv.URL, i)
		}
		for i := 0; i < redirCount; i++ {
			fmt.Fprintf(&body, "#EXTINF:-1,Redir %d\n%s/redir/%d\n", i, srv.URL, i)
		}
		for i := 0; i < rangeCount; i++ {
			fmt.Fprintf(&body, "#EXTINF:-1,Range %d\n%s/range/%d\n", i, srv.URL, i)
		}
		_, _ = w.Write(body.Bytes())
	})
	mux.HandleFunc("/ok/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/dead/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/redir/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok/0", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/range/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusPartialContent)
	})

	srv = httptest.NewServer(mux)
	defer srv.Close()

	dir := b.TempDir()
	cfg := DefaultConfig()
	cfg.FeedPath = filepath.Join(dir, "feed.txt")
	cfg.CustomPath = ""
	cfg.OutputPath = filepath.Join(dir, "all.m3u")
	cfg.ProbeTimeout = 2 * time.Second
	cfg.LogLevel = "error"
	cfg.UserAgent = "streamcheck-bench/0.1"
	if err := os.WriteFile(cfg.FeedPath, []byte(srv.URL+"/list.m3u\n"), 0o644); err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	// Avoid measuring output overhead: discard by writing to buffers.
	var out bytes.Buffer
	var errOut bytes.Buffer

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		out.Reset()
		errOut.Reset()

		if err := Run(ctx, cfg, &out, &errOut); err != nil {
			b.Fatalf("Run error: %v", err)
		}
	}
}
