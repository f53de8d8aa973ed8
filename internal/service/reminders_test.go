package service

import (
	"context"
	"testing"
	"time"

	"smarthealth-state/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpcomingReminders(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepo{})
	now := time.Date(2026, 10, 18, 21, 0, 0, 0, time.UTC)

	// 首次运行数据中未服的是 20:00 和 22:00
	got := svc.UpcomingReminders(now)
	require.Len(t, got, 2)
	assert.Equal(t, "Calcium", got[0].Medication.Name)
	assert.Equal(t, time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC), got[0].DueAt)
	assert.Equal(t, "Blood Pressure Med", got[1].Medication.Name)
	assert.Equal(t, time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC), got[1].DueAt)
}

func TestUpcomingReminders_SkipsUnparseableAndRespectsPreference(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeRepo{})
	require.NoError(t, svc.UpdateMedications(ctx, []domain.Medication{
		{ID: 1, Name: "A", Time: "after lunch"},
		{ID: 2, Name: "B", Time: "06:15"},
		{ID: 3, Name: "C", Time: "7:00"},
	}))

	now := time.Date(2026, 10, 18, 6, 15, 0, 0, time.UTC)
	got := svc.UpcomingReminders(now)
	require.Len(t, got, 1)
	assert.Equal(t, now, got[0].DueAt)

	require.NoError(t, svc.UpdateProfileSection(ctx, domain.SectionNotifications, map[string]any{"medicineReminders": false}))
	got = svc.UpcomingReminders(now)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
