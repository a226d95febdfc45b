package service

import (
	"strings"
	"time"
)

// Status values for a tracked service. A service is created as StatusStarted,
// moves to StatusOnline while its process keeps being observed, and to
// StatusOffline when no process matches its lookup. Offline is recoverable.
const (
	StatusStarted = "started"
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// ProcessAttrs carries the last observed OS attributes of the backing process.
// They are retained, not cleared, when the service goes offline.
type ProcessAttrs struct {
	PID         int32     `json:"pid"`
	ProcessName string    `json:"process_name"`
	WindowTitle string    `json:"window_title,omitempty"`
	FileName    string    `json:"file_name,omitempty"`
	Port        int       `json:"port,omitempty"`
	StartedAt   time.Time `json:"started_at"`
}

// Service is the tracked entity for one monitored logical service.
// Identity is the case-insensitive name; processes may restart under new
// PIDs without the service losing its history. UpTime and DownTime are
// append-only transition logs maintained exclusively by the reconciler.
type Service struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	AppIcon     string       `json:"app_icon,omitempty"`
	Status      string       `json:"status"`
	Process     ProcessAttrs `json:"process"`
	UpTime      []time.Time  `json:"up_time"`
	DownTime    []time.Time  `json:"down_time"`
}

// Key returns the case-insensitive identity key for a service name.
func Key(name string) string { return strings.ToLower(name) }

// New creates a service for its first successful match. The up time entry is
// the process start time, not the poll time.
func New(l Lookup, attrs ProcessAttrs) *Service {
	return &Service{
		Name:        l.Name,
		Description: l.Description,
		AppIcon:     l.AppIcon,
		Status:      StatusStarted,
		Process:     attrs,
		UpTime:      []time.Time{attrs.StartedAt},
	}
}

// MarkOnline transitions the service to online. Coming back from offline
// appends a new up time entry (the new process start time) and refreshes the
// observed attributes; a started or already-online service only changes
// status. It reports whether anything changed.
func (s *Service) MarkOnline(attrs ProcessAttrs) bool {
	switch s.Status {
	case StatusOffline:
		s.Status = StatusOnline
		s.Process = attrs
		s.UpTime = append(s.UpTime, attrs.StartedAt)
		return true
	case StatusStarted:
		s.Status = StatusOnline
		return true
	}
	return false
}

// MarkOffline transitions the service to offline, stamping now into the down
// time log. The stamp is skipped when the last down entry already covers the
// last up entry, so consecutive offline cycles never double-append.
func (s *Service) MarkOffline(now time.Time) bool {
	changed := false
	if s.Status != StatusOffline {
		s.Status = StatusOffline
		changed = true
	}
	if s.needsDownStamp() {
		s.DownTime = append(s.DownTime, now)
		changed = true
	}
	return changed
}

func (s *Service) needsDownStamp() bool {
	if len(s.UpTime) == 0 {
		return len(s.DownTime) == 0
	}
	if len(s.DownTime) == 0 {
		return true
	}
	return s.DownTime[len(s.DownTime)-1].Before(s.UpTime[len(s.UpTime)-1])
}

// Clone returns a deep copy safe to hand to concurrent readers.
func (s *Service) Clone() Service {
	out := *s
	out.UpTime = append([]time.Time(nil), s.UpTime...)
	out.DownTime = append([]time.Time(nil), s.DownTime...)
	return out
}
