package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flatbot/internal/roster"
	"flatbot/pkg/models"
)

// ScheduleTool answers cleaning-roster questions from the RosterEngine.
// Input is a duty type for a single lookup, or empty for the upcoming
// summary across every duty.
type ScheduleTool struct {
	engine *roster.Engine
	now    func() time.Time
}

func NewScheduleTool(engine *roster.Engine, now func() time.Time) *ScheduleTool {
	if now == nil {
		now = time.Now
	}
	return &ScheduleTool{engine: engine, now: now}
}

func (s *ScheduleTool) Name() string { return "schedule" }

func (s *ScheduleTool) Description() string {
	return fmt.Sprintf("look up the cleaning roster; input is a duty type (%s) or empty for the full upcoming schedule",
		strings.Join(s.engine.DutyTypes(), ", "))
}

func (s *ScheduleTool) Invoke(_ context.Context, input string) models.ToolResult {
	duty := strings.ToLower(strings.TrimSpace(input))
	if duty == "" {
		return models.Success(s.Name(), s.upcoming())
	}

	period := s.engine.PeriodIndex(s.now())
	member, err := s.engine.AssignmentFor(duty, period)
	if err != nil {
		if errors.Is(err, roster.ErrUnknownDutyType) {
			return models.Failure(s.Name(), models.UnknownDutyType,
				fmt.Sprintf("no duty type %q; configured: %s", duty, strings.Join(s.engine.DutyTypes(), ", ")))
		}
		return models.Failure(s.Name(), models.UnknownDutyType, err.Error())
	}
	return models.Success(s.Name(), fmt.Sprintf("%s this week: %s", duty, member))
}

func (s *ScheduleTool) upcoming() string {
	var b strings.Builder
	b.WriteString("upcoming cleaning schedule:\n")
	for _, period := range s.engine.Upcoming(s.now(), 3) {
		fmt.Fprintf(&b, "week of %s:\n", period.Start.Format("Jan 02"))
		for _, duty := range s.engine.DutyTypes() {
			fmt.Fprintf(&b, "  %s: %s\n", duty, period.Duties[duty])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
