package monitor

import (
	"time"

	"github.com/loykin/upmon/internal/enumerator"
	"github.com/loykin/upmon/internal/history"
	"github.com/loykin/upmon/internal/matcher"
	"github.com/loykin/upmon/internal/service"
)

// reconcile runs one cycle of the two-pass algorithm over a fresh process
// snapshot. Pass one resolves each live process to a lookup and creates or
// revives the corresponding service; pass two sweeps every service that was
// not matched this cycle to offline. The match pass must run before the
// sweep, otherwise newly discovered services would be swept immediately.
//
// services is the caller-owned live map keyed by service.Key; reconcile is
// its only mutator. resolvePort is consulted only when a service is created
// or comes back from offline, so a slow resolver cannot tax steady state.
// Returned events describe every status change in occurrence order.
func reconcile(procs []enumerator.Process, lookups []service.Lookup, services map[string]*service.Service, resolvePort func(pid int32) (int, bool), now time.Time) (bool, []history.Event) {
	changed := false
	var events []history.Event

	if len(procs) == 0 {
		for _, svc := range services {
			if svc.Status == service.StatusOffline {
				continue
			}
			prev := svc.Status
			if svc.MarkOffline(now) {
				changed = true
				events = append(events, transitionEvent(svc, prev, now))
			}
		}
		return changed, events
	}

	m := matcher.New(lookups)
	matched := make(map[string]bool)

	for _, p := range procs {
		if p.Exited {
			continue
		}
		l := m.ResolvePID(p.PID)
		if l == nil {
			l = m.Resolve(p.Name)
		}
		if l == nil || l.Name == "" {
			continue
		}
		key := service.Key(l.Name)
		if matched[key] {
			// another process already satisfied this lookup this cycle
			continue
		}
		matched[key] = true

		svc, ok := services[key]
		if !ok {
			svc = service.New(*l, observedAttrs(p, resolvePort))
			services[key] = svc
			changed = true
			events = append(events, transitionEvent(svc, "", now))
			continue
		}
		var attrs service.ProcessAttrs
		if svc.Status == service.StatusOffline {
			attrs = observedAttrs(p, resolvePort)
		}
		prev := svc.Status
		if svc.MarkOnline(attrs) {
			changed = true
			events = append(events, transitionEvent(svc, prev, now))
		}
	}

	for key, svc := range services {
		if matched[key] || svc.Status == service.StatusOffline {
			continue
		}
		prev := svc.Status
		if svc.MarkOffline(now) {
			changed = true
			events = append(events, transitionEvent(svc, prev, now))
		}
	}
	return changed, events
}

func observedAttrs(p enumerator.Process, resolvePort func(pid int32) (int, bool)) service.ProcessAttrs {
	attrs := service.ProcessAttrs{
		PID:         p.PID,
		ProcessName: p.Name,
		WindowTitle: p.WindowTitle,
		FileName:    p.ExePath,
		StartedAt:   p.StartTime,
	}
	if resolvePort != nil {
		if port, ok := resolvePort(p.PID); ok {
			attrs.Port = port
		}
	}
	return attrs
}

func transitionEvent(svc *service.Service, prev string, now time.Time) history.Event {
	return history.Event{
		Service:    svc.Name,
		Status:     svc.Status,
		Prev:       prev,
		PID:        svc.Process.PID,
		Port:       svc.Process.Port,
		OccurredAt: now,
	}
}
