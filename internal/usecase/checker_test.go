package usecase

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
)

func urlsOf(entries []domain.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.URL)
	}
	sort.Strings(out)
	return out
}

func TestChecker_CollectsOnlyWorking(t *testing.T) {
	p := &fakeProber{working: map[string]bool{"http://a.test/1": true, "http://a.test/3": true}}
	c := NewChecker(p, 4, zap.NewNop())

	entries := []domain.Entry{
		domain.NewEntry("", "http://a.test/1"),
		domain.NewEntry("", "http://a.test/2"),
		domain.NewEntry("", "http://a.test/3"),
	}

	rep := c.Check(context.Background(), entries)
	got := urlsOf(rep.Working)
	if len(got) != 2 || got[0] != "http://a.test/1" || got[1] != "http://a.test/3" {
		t.Fatalf("working: %#v", got)
	}
	if len(rep.Results) != 3 {
		t.Fatalf("expected a result per entry, got %d", len(rep.Results))
	}
	if rep.Failures[domain.FailureHTTPStatus] != 1 {
		t.Fatalf("failures: %#v", rep.Failures)
	}
}

func TestChecker_PanicIsIsolated(t *testing.T) {
	var entries []domain.Entry
	working := map[string]bool{}
	for i := 0; i < 20; i++ {
		u := fmt.Sprintf("http://a.test/%02d", i)
		entries = append(entries, domain.NewEntry("", u))
		working[u] = true
	}
	bad := "http://a.test/07"

	withPanic := NewChecker(&fakeProber{working: working, panics: map[string]bool{bad: true}}, 5, zap.NewNop())
	got := urlsOf(withPanic.CheckAll(context.Background(), entries))

	var without []domain.Entry
	for _, e := range entries {
		if e.URL != bad {
			without = append(without, e)
		}
	}
	want := urlsOf(NewChecker(&fakeProber{working: working}, 5, zap.NewNop()).CheckAll(context.Background(), without))

	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("panic must only drop %s\ngot:  %v\nwant: %v", bad, got, want)
	}

	rep := withPanic.Check(context.Background(), entries)
	if rep.Failures[domain.FailurePanic] != 1 {
		t.Fatalf("expected one panic failure, got %#v", rep.Failures)
	}
}

func TestChecker_BoundedConcurrency(t *testing.T) {
	p := &fakeProber{working: map[string]bool{}, delay: 20 * time.Millisecond}
	c := NewChecker(p, 3, zap.NewNop())

	var entries []domain.Entry
	for i := 0; i < 15; i++ {
		entries = append(entries, domain.NewEntry("", fmt.Sprintf("http://a.test/%d", i)))
	}

	rep := c.Check(context.Background(), entries)
	if int(p.calls.Load()) != len(entries) || len(rep.Results) != len(entries) {
		t.Fatalf("expected every entry probed before returning, calls=%d results=%d", p.calls.Load(), len(rep.Results))
	}
	if p.Peak() > 3 {
		t.Fatalf("expected at most 3 probes in flight, saw %d", p.Peak())
	}
}

func TestChecker_AdvisorShrinksPool(t *testing.T) {
	p := &fakeProber{working: map[string]bool{}, delay: 10 * time.Millisecond}
	c := NewChecker(p, 8, zap.NewNop()).WithAdvisor(fixedAdvisor(1))

	var entries []domain.Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, domain.NewEntry("", fmt.Sprintf("http://a.test/%d", i)))
	}
	c.Check(context.Background(), entries)

	if p.Peak() != 1 {
		t.Fatalf("expected serial probing, peak %d", p.Peak())
	}
}

func TestChecker_Empty(t *testing.T) {
	c := NewChecker(&fakeProber{}, 0, zap.NewNop())
	if got := c.CheckAll(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected nothing, got %#v", got)
	}
}
