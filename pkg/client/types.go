package client

import "time"

// ServiceStatus mirrors the daemon's service JSON shape.
type ServiceStatus struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	AppIcon     string       `json:"app_icon,omitempty"`
	Status      string       `json:"status"`
	Process     ProcessAttrs `json:"process"`
	UpTime      []time.Time  `json:"up_time"`
	DownTime    []time.Time  `json:"down_time"`
}

// ProcessAttrs mirrors the last observed process attributes.
type ProcessAttrs struct {
	PID         int32     `json:"pid"`
	ProcessName string    `json:"process_name"`
	WindowTitle string    `json:"window_title,omitempty"`
	FileName    string    `json:"file_name,omitempty"`
	Port        int       `json:"port,omitempty"`
	StartedAt   time.Time `json:"started_at"`
}

// AvailabilityResponse is the body of GET /availability.
type AvailabilityResponse struct {
	Name         string  `json:"name"`
	Availability float64 `json:"availability"`
}

// ErrorResponse is the daemon's error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
