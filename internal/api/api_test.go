package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/statustrackr/uptime-mon/internal/probe"
	"github.com/statustrackr/uptime-mon/internal/service"
	"github.com/statustrackr/uptime-mon/internal/testutil"
	"github.com/statustrackr/uptime-mon/pkg/types"
)

// fakeStore is an in-memory service.Store for handler tests.
type fakeStore struct {
	mu       sync.Mutex
	monitors map[string]*types.Monitor
	logs     map[string][]types.UptimeLog
	alerts   map[string]*types.AlertSettings
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		monitors: make(map[string]*types.Monitor),
		logs:     make(map[string][]types.UptimeLog),
		alerts:   make(map[string]*types.AlertSettings),
	}
}

func (f *fakeStore) CreateMonitor(ctx context.Context, m *types.Monitor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *m
	f.monitors[m.ID] = &c
	return nil
}

func (f *fakeStore) GetMonitor(ctx context.Context, id string) (*types.Monitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.monitors[id]
	if !ok {
		return nil, nil
	}
	c := *m
	return &c, nil
}

func (f *fakeStore) ListMonitors(ctx context.Context) ([]types.Monitor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Monitor
	for _, m := range f.monitors {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeStore) UpdateMonitor(ctx context.Context, m *types.Monitor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.monitors[m.ID]
	if !ok {
		return fmt.Errorf("monitor not found: %s", m.ID)
	}
	c := *m
	c.Status = existing.Status
	c.LastChecked = existing.LastChecked
	f.monitors[m.ID] = &c
	return nil
}

func (f *fakeStore) DeleteMonitor(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.monitors, id)
	delete(f.logs, id)
	delete(f.alerts, id)
	return nil
}

func (f *fakeStore) FindLogsSince(ctx context.Context, monitorID string, since time.Time) ([]types.UptimeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.UptimeLog
	for _, log := range f.logs[monitorID] {
		if !log.Timestamp.Before(since) {
			out = append(out, log)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateAlertSettings(ctx context.Context, settings *types.AlertSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *settings
	f.alerts[settings.MonitorID] = &c
	return nil
}

func (f *fakeStore) GetAlertSettingsByMonitor(ctx context.Context, monitorID string) (*types.AlertSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	settings, ok := f.alerts[monitorID]
	if !ok {
		return nil, nil
	}
	c := *settings
	return &c, nil
}

func (f *fakeStore) UpdateAlertSettings(ctx context.Context, settings *types.AlertSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *settings
	f.alerts[settings.MonitorID] = &c
	return nil
}

func (f *fakeStore) DeleteAlertSettings(ctx context.Context, monitorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.alerts, monitorID)
	return nil
}

// fakeChecker marks the monitor up, stamps LastChecked, and returns the
// probe outcome.
type fakeChecker struct {
	store  *fakeStore
	result *probe.Result
}

func (f *fakeChecker) CheckNow(ctx context.Context, id string) (*probe.Result, error) {
	m, _ := f.store.GetMonitor(ctx, id)
	if m == nil {
		return nil, nil
	}
	now := time.Now()
	m.Status = types.StatusUp
	m.LastChecked = &now
	f.store.mu.Lock()
	f.store.monitors[id] = m
	f.store.mu.Unlock()
	if f.result != nil {
		return f.result, nil
	}
	rt := 0.123
	return &probe.Result{
		Status:       types.StatusUp,
		ResponseTime: &rt,
		Details: types.ProbeDetails{
			APIStatusCode: testutil.Ptr(200),
		},
	}, nil
}

func newTestServer(store *fakeStore) *Server {
	logger := testutil.NewTestLogger()
	svc := service.NewService(store, &fakeChecker{store: store}, logger)
	return NewServer(svc, nil, nil, logger)
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](w *httptest.ResponseRecorder) T {
	var v T
	json.NewDecoder(w.Body).Decode(&v)
	return v
}
