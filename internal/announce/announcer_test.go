package announce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatbot/internal/config"
	"flatbot/internal/roster"
)

type fakeDeliverer struct {
	targets  []string
	messages []string
}

func (f *fakeDeliverer) Deliver(target, message string) error {
	f.targets = append(f.targets, target)
	f.messages = append(f.messages, message)
	return nil
}

func newAnnouncer(t *testing.T, d *fakeDeliverer) *Announcer {
	t.Helper()
	engine, err := roster.New(config.Roster{
		Duties: map[string][]string{
			"kitchen": {"alice", "bob"},
		},
		PeriodBase:   time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		PeriodLength: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	return New(engine, d, config.Announce{
		Enabled: true,
		Target:  "flat-group",
		Weekday: time.Saturday,
		At:      10 * time.Hour,
	})
}

func TestNextRun(t *testing.T) {
	a := newAnnouncer(t, &fakeDeliverer{})

	// Thursday -> upcoming Saturday 10:00
	now := time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC), a.nextRun(now))

	// Saturday 09:59 -> same day
	now = time.Date(2026, 1, 3, 9, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC), a.nextRun(now))

	// Saturday 10:00 sharp -> a week later, never the instant itself
	now = time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC), a.nextRun(now))
}

func TestAnnounceDeliversRoster(t *testing.T) {
	d := &fakeDeliverer{}
	a := newAnnouncer(t, d)
	a.now = func() time.Time { return time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC) }

	a.Announce()

	require.Len(t, d.messages, 1)
	assert.Equal(t, "flat-group", d.targets[0])
	assert.Contains(t, d.messages[0], "Week of Jan 10")
	assert.Contains(t, d.messages[0], "kitchen: bob")
}
