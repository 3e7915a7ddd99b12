package roster

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"flatbot/internal/config"
)

var ErrUnknownDutyType = errors.New("unknown duty type")

// Engine derives rotating duty assignments from immutable config. Same
// duty type and period index always yield the same member, which keeps
// announcements reproducible.
type Engine struct {
	duties       map[string][]string
	periodBase   time.Time
	periodLength time.Duration
}

func New(cfg config.Roster) (*Engine, error) {
	if len(cfg.Duties) == 0 {
		return nil, errors.New("no duty types configured")
	}
	if cfg.PeriodLength <= 0 {
		return nil, errors.New("period length must be positive")
	}

	duties := make(map[string][]string, len(cfg.Duties))
	for duty, members := range cfg.Duties {
		if len(members) == 0 {
			return nil, fmt.Errorf("duty %q has no members", duty)
		}
		duties[duty] = append([]string(nil), members...)
	}

	return &Engine{
		duties:       duties,
		periodBase:   cfg.PeriodBase,
		periodLength: cfg.PeriodLength,
	}, nil
}

// AssignmentFor returns the member on duty for the given rotation window.
func (e *Engine) AssignmentFor(dutyType string, periodIndex int) (string, error) {
	members, ok := e.duties[dutyType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDutyType, dutyType)
	}
	i := periodIndex % len(members)
	if i < 0 {
		i += len(members)
	}
	return members[i], nil
}

// PeriodIndex maps a wall-clock time onto the rotation window containing
// it. Times before the base reference clamp to window 0.
func (e *Engine) PeriodIndex(now time.Time) int {
	d := now.Sub(e.periodBase)
	if d < 0 {
		return 0
	}
	return int(d / e.periodLength)
}

func (e *Engine) PeriodStart(periodIndex int) time.Time {
	return e.periodBase.Add(time.Duration(periodIndex) * e.periodLength)
}

func (e *Engine) DutyTypes() []string {
	types := make([]string, 0, len(e.duties))
	for duty := range e.duties {
		types = append(types, duty)
	}
	sort.Strings(types)
	return types
}

// PeriodAssignments is one rotation window with every duty resolved.
type PeriodAssignments struct {
	Index  int               `json:"index"`
	Start  time.Time         `json:"start"`
	Duties map[string]string `json:"duties"`
}

// Upcoming resolves the current window and the n-1 after it, for roster
// answers and the weekly announcement.
func (e *Engine) Upcoming(now time.Time, n int) []PeriodAssignments {
	current := e.PeriodIndex(now)
	periods := make([]PeriodAssignments, 0, n)
	for i := current; i < current+n; i++ {
		p := PeriodAssignments{Index: i, Start: e.PeriodStart(i), Duties: make(map[string]string, len(e.duties))}
		for _, duty := range e.DutyTypes() {
			member, err := e.AssignmentFor(duty, i)
			if err != nil {
				continue
			}
			p.Duties[duty] = member
		}
		periods = append(periods, p)
	}
	return periods
}
