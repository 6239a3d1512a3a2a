package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/common"
)

func testSchedule(name string) common.ScheduleConfig {
	return common.ScheduleConfig{
		Name:      name,
		Cron:      "0 * * * *",
		AccountID: "acct_test",
		Platform:  "instagram",
		Depth:     "light",
		Handles:   []string{"alice"},
	}
}

func TestRegisterRejectsInvalidCron(t *testing.T) {
	service := NewService(nil, arbor.NewLogger())

	config := testSchedule("hourly")
	config.Cron = "not a cron expression"
	err := service.Register(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")
}

func TestRegisterRejectsDuplicateNames(t *testing.T) {
	service := NewService(nil, arbor.NewLogger())

	require.NoError(t, service.Register(testSchedule("hourly")))
	err := service.Register(testSchedule("hourly"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestStartRequiresSchedules(t *testing.T) {
	service := NewService(nil, arbor.NewLogger())

	err := service.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schedules registered")
}

func TestStartTwiceFails(t *testing.T) {
	service := NewService(nil, arbor.NewLogger())
	require.NoError(t, service.Register(testSchedule("hourly")))

	require.NoError(t, service.Start())
	defer service.Stop()

	err := service.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}
