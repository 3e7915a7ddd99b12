package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"flatbot/internal/scheduler"
	"flatbot/pkg/models"
)

// ParseDelay converts a user-worded delay into a duration. It is a
// swappable collaborator: the default understands bare minutes ("30")
// and Go durations ("10m", "1h30m"), with an optional leading "in".
type ParseDelay func(string) (time.Duration, error)

func DefaultParseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "in "))
	if s == "" {
		return 0, errors.New("empty delay")
	}
	if minutes, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(minutes * float64(time.Minute)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("cannot parse delay %q", s)
	}
	return d, nil
}

// RemindTool schedules a delayed notification for the utterance's sender.
// Input format: "<delay> <message>", e.g. "30 turn off the oven".
type RemindTool struct {
	sched *scheduler.Scheduler
	parse ParseDelay
}

func NewRemindTool(sched *scheduler.Scheduler, parse ParseDelay) *RemindTool {
	if parse == nil {
		parse = DefaultParseDelay
	}
	return &RemindTool{sched: sched, parse: parse}
}

func (r *RemindTool) Name() string { return "remind" }

func (r *RemindTool) Description() string {
	return "set a reminder; input is \"<minutes or duration> <message>\", e.g. \"30 turn off the oven\""
}

func (r *RemindTool) Invoke(ctx context.Context, input string) models.ToolResult {
	delayText, message, _ := strings.Cut(strings.TrimSpace(input), " ")
	message = strings.TrimSpace(message)
	if message == "" {
		message = "timer"
	}

	delay, err := r.parse(delayText)
	if err != nil {
		return models.Failure(r.Name(), models.InvalidDelay,
			fmt.Sprintf("bad delay: %v; use \"<minutes> <message>\"", err))
	}

	id, err := r.sched.Schedule(SenderFromContext(ctx), delay, message)
	if err != nil {
		if errors.Is(err, scheduler.ErrInvalidDelay) {
			return models.Failure(r.Name(), models.InvalidDelay,
				fmt.Sprintf("delay %s is out of range", delay))
		}
		return models.Failure(r.Name(), models.InvalidDelay, err.Error())
	}

	return models.Success(r.Name(), fmt.Sprintf("reminder %s set, firing in %s", id, delay))
}
