package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/model"
	"github.com/theirongolddev/budgetpulse/internal/notify"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.Local)

type fakeLoader struct {
	mu   sync.Mutex
	rev  int64
	snap model.Snapshot
	err  error
}

func (f *fakeLoader) Revision(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rev, f.err
}

func (f *fakeLoader) LoadSnapshot(context.Context) (model.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.err
}

func (f *fakeLoader) addExpense(amount int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rev++
	f.snap.Expenses = append(f.snap.Expenses, model.Expense{
		ID:       "e" + decimal.NewFromInt(f.rev).String(),
		Amount:   decimal.NewFromInt(amount),
		Category: model.ByName("Food"),
		Date:     fixedNow,
	})
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (p *fakePublisher) Publish(_ context.Context, msg notify.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func newTestService(t *testing.T, pub notify.Publisher) (*Service, *fakeLoader) {
	t.Helper()
	loader := &fakeLoader{
		rev: 1,
		snap: model.Snapshot{
			MonthlyBudget: decimal.NewFromInt(2000),
			Categories:    []model.Category{{ID: "food", Name: "Food", Budget: decimal.NewFromInt(100)}},
		},
	}
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 10, Publisher: pub}, loader)
	s.now = func() time.Time { return fixedNow }
	return s, loader
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Income:      decimal.NewFromInt(2000),
		Expenses:    decimal.NewFromInt(250),
		Balance:     decimal.NewFromInt(1750),
		Obligations: decimal.NewFromInt(100),
		HealthScore: 90,
	}
	curr := Snapshot{
		Income:      decimal.NewFromInt(2000),
		Expenses:    decimal.NewFromInt(400),
		Balance:     decimal.NewFromInt(1600),
		Obligations: decimal.NewFromInt(100),
		HealthScore: 80,
	}

	delta := diffSnapshots(prev, curr)
	if !delta.Expenses.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("Expenses delta = %s, want 150", delta.Expenses)
	}
	if !delta.Balance.Equal(decimal.NewFromInt(-150)) {
		t.Fatalf("Balance delta = %s, want -150", delta.Balance)
	}
	if !delta.Income.IsZero() {
		t.Fatalf("Income delta = %s, want 0", delta.Income)
	}
	if delta.HealthScore != -10 {
		t.Fatalf("HealthScore delta = %d, want -10", delta.HealthScore)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("self diff should be zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 2}, &fakeLoader{})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnce_EmitsOnRevisionChange(t *testing.T) {
	pub := &fakePublisher{}
	s, loader := newTestService(t, pub)
	ctx := context.Background()

	s.pollOnce(ctx)
	s.pollOnce(ctx) // unchanged revision

	loader.addExpense(150)
	s.pollOnce(ctx)

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	polls, recomputes := s.pollCount, s.recomputeCount
	s.mu.RUnlock()

	if polls != 3 || recomputes != 2 {
		t.Errorf("polls=%d recomputes=%d, want 3 and 2", polls, recomputes)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != EventSnapshot || events[1].Type != EventInsightsChanged {
		t.Errorf("event types = %s, %s", events[0].Type, events[1].Type)
	}
	if !events[1].Delta.Expenses.Equal(decimal.NewFromInt(150)) {
		t.Errorf("delta expenses = %s, want 150", events[1].Delta.Expenses)
	}
	if got := events[1].Snapshot.OverBudget; len(got) != 1 || got[0] != "Food" {
		t.Errorf("over budget = %v, want [Food]", got)
	}
	if events[1].Snapshot.Revision != 2 || events[1].Snapshot.Month != "2026-03" {
		t.Errorf("snapshot = %+v", events[1].Snapshot)
	}

	if len(pub.msgs) != 2 || pub.msgs[1].Type != EventInsightsChanged || pub.msgs[1].Revision != 2 {
		t.Errorf("published = %+v", pub.msgs)
	}
}

func TestPollOnce_RecordsErrors(t *testing.T) {
	s, loader := newTestService(t, nil)
	loader.err = errors.New("database is locked")

	s.pollOnce(context.Background())

	st := s.snapshotStatus()
	if !strings.Contains(st.LastError, "database is locked") {
		t.Errorf("LastError = %q", st.LastError)
	}
	if st.EventCount != 0 {
		t.Errorf("EventCount = %d, want 0", st.EventCount)
	}
}

func TestHandler_Endpoints(t *testing.T) {
	s, _ := newTestService(t, nil)
	h := s.Handler()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	if rec := get("/healthz"); rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("/healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get("/v1/insights"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("/v1/insights before poll = %d, want 503", rec.Code)
	}

	s.pollOnce(context.Background())

	rec := get("/v1/insights")
	if rec.Code != http.StatusOK {
		t.Fatalf("/v1/insights = %d", rec.Code)
	}
	var ins InsightsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &ins); err != nil {
		t.Fatal(err)
	}
	if ins.Insights.HealthScore != 90 || ins.Month != "2026-03" || len(ins.Daily) != 31 {
		t.Errorf("insights = score %d month %s daily %d", ins.Insights.HealthScore, ins.Month, len(ins.Daily))
	}

	var st Status
	if err := json.Unmarshal(get("/v1/status").Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.PollCount != 1 || st.Summary.HealthScore != 90 || st.EventCount != 1 {
		t.Errorf("status = %+v", st)
	}

	var events []Event
	if err := json.Unmarshal(get("/v1/events").Body.Bytes(), &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("events = %d, want 1", len(events))
	}

	body := get("/metrics").Body.String()
	for _, want := range []string{"budgetpulse_health_score 90", `budgetpulse_category_percent_used{category="Food"} 0`, "budgetpulse_polls_total 1"} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %q", want)
		}
	}

	if rec := get("/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("/nope = %d, want 404", rec.Code)
	}
}

func TestHandleStream_SendsSnapshotThenEvents(t *testing.T) {
	s, loader := newTestService(t, nil)
	s.pollOnce(context.Background())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	first := readSSEEvent(t, reader)
	if first != EventSnapshot {
		t.Fatalf("first event = %q, want snapshot", first)
	}

	// Wait for the subscription to register before triggering a change.
	deadline := time.Now().Add(2 * time.Second)
	for s.snapshotStatus().SubscriberCount == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	loader.addExpense(40)
	s.pollOnce(context.Background())

	if next := readSSEEvent(t, reader); next != EventInsightsChanged {
		t.Fatalf("next event = %q, want insights_changed", next)
	}
}

func readSSEEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var name string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				t.Fatal("stream closed early")
			}
			t.Fatal(err)
		}
		line = strings.TrimRight(line, "\n")
		if after, ok := strings.CutPrefix(line, "event: "); ok {
			name = after
		}
		if line == "" && name != "" {
			return name
		}
	}
}

func TestRun_ShutdownEndsOpenStreams(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	s, _ := newTestService(t, nil)
	s.cfg.Addr = addr

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var resp *http.Response
	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err = http.Get("http://" + addr + "/v1/stream")
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("daemon never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	defer func() { _ = resp.Body.Close() }()

	if first := readSSEEvent(t, bufio.NewReader(resp.Body)); first != EventSnapshot {
		t.Fatalf("first event = %q, want snapshot", first)
	}

	start := time.Now()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("shutdown took %s with an open stream", elapsed)
		}
	case <-time.After(4 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
