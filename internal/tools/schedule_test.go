package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatbot/internal/config"
	"flatbot/internal/roster"
	"flatbot/pkg/models"
)

func testEngine(t *testing.T) *roster.Engine {
	t.Helper()
	e, err := roster.New(config.Roster{
		Duties: map[string][]string{
			"kitchen":  {"alice", "bob"},
			"bathroom": {"bob", "alice"},
		},
		PeriodBase:   time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		PeriodLength: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return e
}

func TestScheduleToolLookup(t *testing.T) {
	// three full weeks after the base -> period 3 -> index 1
	now := time.Date(2026, 1, 24, 12, 0, 0, 0, time.UTC)
	tool := NewScheduleTool(testEngine(t), func() time.Time { return now })

	res := tool.Invoke(context.Background(), "kitchen")
	assert.True(t, res.Succeeded)
	assert.Equal(t, "kitchen this week: bob", res.Output)
}

func TestScheduleToolUnknownDuty(t *testing.T) {
	tool := NewScheduleTool(testEngine(t), nil)

	res := tool.Invoke(context.Background(), "garden")
	assert.False(t, res.Succeeded)
	assert.Equal(t, models.UnknownDutyType, res.ErrorKind)
	assert.Contains(t, res.Output, "kitchen")
}

func TestScheduleToolUpcomingSummary(t *testing.T) {
	now := time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC)
	tool := NewScheduleTool(testEngine(t), func() time.Time { return now })

	res := tool.Invoke(context.Background(), "")
	assert.True(t, res.Succeeded)
	assert.Contains(t, res.Output, "week of Jan 03")
	assert.Contains(t, res.Output, "week of Jan 10")
	assert.Contains(t, res.Output, "kitchen: alice")
	assert.Contains(t, res.Output, "bathroom: bob")
}
