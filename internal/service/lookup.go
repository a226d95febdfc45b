package service

// Lookup describes how to find the OS process backing a logical service.
// Either a fixed PID or an ordered list of name patterns may be given;
// patterns support '*' (any run of characters) and '?' (single character),
// matched case-insensitively against the full process name.
type Lookup struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	AppIcon      string   `json:"app_icon,omitempty"`
	ProcessID    int32    `json:"process_id,omitempty"`
	ProcessNames []string `json:"process_names,omitempty"`
}

// Matchable reports whether the lookup can ever match a process.
// A lookup with no PID and no non-empty pattern is skipped during reconcile.
func (l Lookup) Matchable() bool {
	if l.ProcessID > 0 {
		return true
	}
	for _, p := range l.ProcessNames {
		if p != "" {
			return true
		}
	}
	return false
}
