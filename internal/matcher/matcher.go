// Package matcher resolves process names to their configured lookups.
// Exact (wildcard-free) patterns are indexed up front for O(1) checks;
// wildcard patterns are scanned in lookup declaration order with
// first-match-wins semantics. Resolutions are cached for the lifetime of
// the matcher, which is one poll cycle, so repeated process names never
// trigger repeated wildcard scans.
package matcher

import (
	"strings"

	"github.com/loykin/upmon/internal/service"
)

// Matcher holds the per-cycle lookup indexes. It is not safe for concurrent
// use; build one per reconcile cycle.
type Matcher struct {
	exact   map[string]*service.Lookup
	byPID   map[int32]*service.Lookup
	ordered []*service.Lookup
	cache   map[string]*service.Lookup
}

// New builds a matcher from the lookup set. Lookups that can never match are
// dropped here so the reconcile loop does not have to care.
func New(lookups []service.Lookup) *Matcher {
	m := &Matcher{
		exact: make(map[string]*service.Lookup),
		byPID: make(map[int32]*service.Lookup),
		cache: make(map[string]*service.Lookup),
	}
	for i := range lookups {
		l := &lookups[i]
		if !l.Matchable() {
			continue
		}
		if l.ProcessID > 0 {
			if _, ok := m.byPID[l.ProcessID]; !ok {
				m.byPID[l.ProcessID] = l
			}
		}
		for _, p := range l.ProcessNames {
			if p == "" || strings.ContainsAny(p, "*?") {
				continue
			}
			key := strings.ToLower(p)
			if _, ok := m.exact[key]; !ok {
				m.exact[key] = l
			}
		}
		m.ordered = append(m.ordered, l)
	}
	return m
}

// ResolvePID returns the lookup pinned to the given PID, if any.
func (m *Matcher) ResolvePID(pid int32) *service.Lookup {
	return m.byPID[pid]
}

// Resolve returns the first lookup whose patterns match the process name, or
// nil when no lookup matches. Exact patterns win over wildcard ones.
func (m *Matcher) Resolve(processName string) *service.Lookup {
	if processName == "" {
		return nil
	}
	key := strings.ToLower(processName)
	if l, ok := m.cache[key]; ok {
		return l
	}
	l := m.resolve(key)
	m.cache[key] = l
	return l
}

func (m *Matcher) resolve(lowerName string) *service.Lookup {
	if l, ok := m.exact[lowerName]; ok {
		return l
	}
	for _, l := range m.ordered {
		for _, p := range l.ProcessNames {
			if p == "" || !strings.ContainsAny(p, "*?") {
				continue
			}
			if wildcardMatch(lowerName, strings.ToLower(p)) {
				return l
			}
		}
	}
	return nil
}

// wildcardMatch matches name against pattern where '*' matches any run of
// characters (including none) and '?' matches exactly one character. The
// match is anchored to the full string and operates on runes so '?' covers
// multi-byte names; both inputs must already be lowercased.
func wildcardMatch(name, pattern string) bool {
	n, p := []rune(name), []rune(pattern)
	var ni, pi int
	star, match := -1, 0
	for ni < len(n) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == n[ni]):
			ni++
			pi++
		case pi < len(p) && p[pi] == '*':
			star = pi
			match = ni
			pi++
		case star >= 0:
			// backtrack: let the last '*' swallow one more character
			pi = star + 1
			match++
			ni = match
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}
