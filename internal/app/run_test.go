package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// newStreamServer serves one playlist at /list.m3u with three streams:
// /a answers HEAD, /b only answers a ranged GET, /dead answers nothing useful.
func newStreamServer(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/list.m3u", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/x-mpegurl")
		_, _ = w.Write([]byte("#EXTM3U\n" +
			"#EXTINF:-1,Alpha\n" + srv.URL + "/a\n" +
			"#EXTINF:-1 group-title=\"News\",Bravo\n" + srv.URL + "/b\n" +
			srv.URL + "/dead\n"))
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Range") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(make([]byte, 16))
	})
	mux.HandleFunc("/dead", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, dir string) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.FeedPath = filepath.Join(dir, "feed.txt")
	cfg.CustomPath = filepath.Join(dir, "custom_entries.txt")
	cfg.OutputPath = filepath.Join(dir, "out", "all.m3u")
	cfg.ProbeTimeout = 2 * time.Second
	cfg.FetchTimeout = 2 * time.Second
	cfg.LogLevel = "debug"
	return cfg
}

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun_CombinesWorkingStreams(t *testing.T) {
	srv := newStreamServer(t)
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.ReportPath = filepath.Join(dir, "report.xlsx")

	write(t, cfg.FeedPath, "# sources\n"+srv.URL+"/list.m3u\n\n"+srv.URL+"/missing.m3u\n")
	write(t, cfg.CustomPath, "#EXTINF:-1,Custom\nhttp://c.test/x.ts\n")

	var out, errOut bytes.Buffer
	if err := Run(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("Run: %v\nlogs:\n%s", err, errOut.String())
	}

	got, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "#EXTM3U\n" +
		"#EXTINF:-1 group-title=\"All Channels\",Custom\nhttp://c.test/x.ts\n" +
		"#EXTINF:-1 group-title=\"All Channels\",Alpha\n" + srv.URL + "/a\n" +
		"#EXTINF:-1 group-title=\"News\",Bravo\n" + srv.URL + "/b\n"
	if string(got) != want {
		t.Fatalf("output mismatch\n got: %q\nwant: %q", got, want)
	}

	stdout := out.String()
	if !strings.Contains(stdout, "Total unique working streams: 2 (removed 0 duplicates)") {
		t.Fatalf("missing totals line: %q", stdout)
	}
	if !strings.Contains(stdout, "(1 custom + 2 checked)") {
		t.Fatalf("missing saved line: %q", stdout)
	}
	if !strings.Contains(errOut.String(), "run_id") {
		t.Fatalf("logs should carry run_id: %q", errOut.String())
	}
	if _, err := os.Stat(cfg.ReportPath); err != nil {
		t.Fatalf("report not written: %v", err)
	}
}

func TestRun_MissingFeed(t *testing.T) {
	cfg := testConfig(t, t.TempDir())

	var out, errOut bytes.Buffer
	if err := Run(context.Background(), cfg, &out, &errOut); err == nil {
		t.Fatal("expected error for missing feed")
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("no output expected, stat err=%v", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.Concurrency = 0

	if err := Run(context.Background(), cfg, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRun_AdaptiveConcurrency(t *testing.T) {
	srv := newStreamServer(t)
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.AdaptiveConcurrency = true
	cfg.CustomPath = ""

	write(t, cfg.FeedPath, srv.URL+"/list.m3u\n")

	var out, errOut bytes.Buffer
	if err := Run(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Total unique working streams: 2") {
		t.Fatalf("unexpected stdout: %q", out.String())
	}
}

func TestRunCheck_PrintsPerSource(t *testing.T) {
	srv := newStreamServer(t)
	dir := t.TempDir()
	cfg := testConfig(t, dir)

	write(t, cfg.FeedPath, srv.URL+"/list.m3u\n"+srv.URL+"/missing.m3u\n")

	var out, errOut bytes.Buffer
	if err := RunCheck(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("RunCheck: %v", err)
	}

	stdout := out.String()
	for _, want := range []string{
		"Working streams in " + srv.URL + "/list.m3u:",
		srv.URL + "/a\n",
		srv.URL + "/b\n",
		"No streams found in " + srv.URL + "/missing.m3u",
		strings.Repeat("-", 50),
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "/dead") {
		t.Fatalf("dead stream printed:\n%s", stdout)
	}
	if _, err := os.Stat(cfg.OutputPath); !os.IsNotExist(err) {
		t.Fatalf("check must not write output, stat err=%v", err)
	}
}
