package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterAndHelpers(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	// second call is a no-op
	if err := Register(reg); err != nil {
		t.Fatalf("second register: %v", err)
	}

	IncPollCycle("success")
	IncPollCycle("error")
	ObserveReconcileDuration(0.01)
	SetServicesTracked(3)
	SetServiceState("DS", "online", true)
	SetServiceState("DS", "offline", false)
	RecordStateTransition("DS", "online", "offline")
	SetAvailability("DS", 98.7)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"upmon_monitor_poll_cycles_total",
		"upmon_monitor_reconcile_duration_seconds",
		"upmon_monitor_services_tracked",
		"upmon_service_current_state",
		"upmon_service_state_transitions_total",
		"upmon_service_availability_percent",
	} {
		if !names[want] {
			t.Errorf("metric %s not gathered", want)
		}
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	_ = Register(prometheus.DefaultRegisterer)
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}
