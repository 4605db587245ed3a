package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

type ruleKind int

const (
	ruleOff ruleKind = iota
	ruleOn
	rulePercent
)

// rule is a parsed flag value.
type rule struct {
	kind ruleKind
	pct  int
	raw  string
}

// Manager evaluates FEATURE_FLAGS, a comma-separated list of name=value pairs
// such as "live_counts=25%". Values are on/true/1, off/false/0 or N%.
//
// Percentage rollouts bucket signed-in viewers by a hash of flag name and
// viewer id, so a viewer sees the same variant on every page. Anonymous
// viewers get a percentage flag only at 100%.
type Manager struct {
	rules    map[string]rule
	problems []string
}

// NewManager parses raw. Unknown names and malformed values are dropped and
// listed by Problems.
func NewManager(raw string) *Manager {
	m := &Manager{rules: make(map[string]rule)}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		name, value = normalize(name), normalize(value)
		if !ok || name == "" || value == "" {
			m.problems = append(m.problems, fmt.Sprintf("malformed entry %q, want name=value", pair))
			continue
		}
		if !known(name) {
			m.problems = append(m.problems, fmt.Sprintf("unknown flag %q", name))
			continue
		}
		r, err := parseRule(value)
		if err != nil {
			m.problems = append(m.problems, fmt.Sprintf("flag %q: %v", name, err))
			continue
		}
		m.rules[name] = r
	}

	return m
}

func parseRule(value string) (rule, error) {
	switch value {
	case "on", "true", "1":
		return rule{kind: ruleOn, raw: value}, nil
	case "off", "false", "0":
		return rule{kind: ruleOff, raw: value}, nil
	}
	pctRaw, ok := strings.CutSuffix(value, "%")
	if !ok {
		return rule{}, fmt.Errorf("value %q is not on, off or a percentage", value)
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct < 0 || pct > 100 {
		return rule{}, fmt.Errorf("percentage %q must be between 0%% and 100%%", value)
	}
	return rule{kind: rulePercent, pct: pct, raw: value}, nil
}

// Problems lists the entries NewManager could not use.
func (m *Manager) Problems() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.problems...)
}

// Enabled reports whether name is on for viewerID. Zero means anonymous.
func (m *Manager) Enabled(name string, viewerID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}

	switch r.kind {
	case ruleOn:
		return true
	case rulePercent:
		if r.pct >= 100 {
			return true
		}
		if r.pct == 0 || viewerID == 0 {
			return false
		}
		return rolloutBucket(name, viewerID) < r.pct
	default:
		return false
	}
}

// Raw returns the accepted flag values as configured.
func (m *Manager) Raw() map[string]string {
	if m == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(m.rules))
	for k, r := range m.rules {
		out[k] = r.raw
	}
	return out
}

// Snapshot evaluates every known flag for viewerID.
func (m *Manager) Snapshot(viewerID uint) map[string]bool {
	out := make(map[string]bool, len(Known))
	for _, d := range Known {
		out[d.Name] = m.Enabled(d.Name, viewerID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, viewerID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + ":" + strconv.FormatUint(uint64(viewerID), 10)))
	return int(h.Sum32() % 100)
}
