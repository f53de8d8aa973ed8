package service

import (
	"context"
	"testing"

	"smarthealth-state/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = "2026-10-18"

func TestEnsureJournalEntry(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t, &fakeRepo{})

	entry, err := svc.EnsureJournalEntry(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Mood.Rating)
	assert.Equal(t, 5, entry.Sleep.Quality)
	assert.NotNil(t, entry.Symptoms)
	assert.Empty(t, entry.Symptoms)

	// 已存在时原样返回，不提交
	require.NoError(t, svc.UpdateJournalEntry(ctx, day, domain.JournalEntry{Mood: domain.Mood{Rating: 8}, Sleep: domain.SleepLog{Quality: 4}, Notes: "good day"}))
	n := len(pub.events)
	entry, err = svc.EnsureJournalEntry(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "good day", entry.Notes)
	assert.Len(t, pub.events, n)

	_, err = svc.EnsureJournalEntry(ctx, "18-10-2026")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateJournalEntry(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeRepo{})

	entry := domain.NewJournalEntry()
	entry.Vitals.BloodPressure = "121/79"
	require.NoError(t, svc.UpdateJournalEntry(ctx, day, entry))

	got, ok := svc.JournalEntry(day)
	require.True(t, ok)
	assert.Equal(t, "121/79", got.Vitals.BloodPressure)

	// 未提供的列表补成空列表
	require.NoError(t, svc.UpdateJournalEntry(ctx, day, domain.JournalEntry{Mood: domain.Mood{Rating: 1}, Sleep: domain.SleepLog{Quality: 1}}))
	got, _ = svc.JournalEntry(day)
	assert.NotNil(t, got.Meals)
	assert.NotNil(t, got.Medications)

	assert.ErrorIs(t, svc.UpdateJournalEntry(ctx, "2026-13-01", entry), ErrInvalidInput)
	entry.Mood.Rating = 11
	assert.ErrorIs(t, svc.UpdateJournalEntry(ctx, day, entry), ErrInvalidInput)
	entry.Mood.Rating = 5
	entry.Sleep.Quality = 0
	assert.ErrorIs(t, svc.UpdateJournalEntry(ctx, day, entry), ErrInvalidInput)

	_, ok = svc.JournalEntry("2026-10-19")
	assert.False(t, ok)
}

func TestAddJournalItems(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeRepo{})

	symptom, err := svc.AddJournalSymptom(ctx, day, domain.Symptom{Name: "Headache", Severity: "mild"})
	require.NoError(t, err)
	assert.Equal(t, "item-1", symptom.ID)
	assert.Equal(t, "09:30", symptom.Time)

	meal, err := svc.AddJournalMeal(ctx, day, domain.Meal{Name: "Dal", Time: "13:00", Calories: "450"})
	require.NoError(t, err)
	assert.Equal(t, "13:00", meal.Time)

	ex, err := svc.AddJournalExercise(ctx, day, domain.Exercise{Activity: "Yoga", Duration: "30"})
	require.NoError(t, err)

	med, err := svc.AddJournalMedication(ctx, day, domain.JournalMedication{Name: "Vitamin D", Time: "09:00", Taken: true})
	require.NoError(t, err)
	assert.False(t, med.Taken)

	entry, ok := svc.JournalEntry(day)
	require.True(t, ok)
	assert.Equal(t, 5, entry.Mood.Rating, "entry auto-initialised")
	assert.Equal(t, []domain.Symptom{symptom}, entry.Symptoms)
	assert.Equal(t, []domain.Meal{meal}, entry.Meals)
	assert.Equal(t, []domain.Exercise{ex}, entry.Exercise)
	assert.Equal(t, []domain.JournalMedication{med}, entry.Medications)
}

func TestAddJournalItems_Validation(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t, &fakeRepo{})

	_, err := svc.AddJournalSymptom(ctx, day, domain.Symptom{Name: "Headache"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddJournalMeal(ctx, day, domain.Meal{Calories: "100"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddJournalExercise(ctx, day, domain.Exercise{Activity: "Run"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddJournalMedication(ctx, day, domain.JournalMedication{Name: "Iron"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AddJournalMeal(ctx, "yesterday", domain.Meal{Name: "Toast"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, pub.events)
	_, ok := svc.JournalEntry(day)
	assert.False(t, ok)
}

func TestRemoveJournalItem(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t, &fakeRepo{})

	a, err := svc.AddJournalSymptom(ctx, day, domain.Symptom{Name: "Cough", Severity: "mild"})
	require.NoError(t, err)
	b, err := svc.AddJournalSymptom(ctx, day, domain.Symptom{Name: "Fever", Severity: "moderate"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveJournalItem(ctx, day, domain.JournalSymptoms, a.ID))
	entry, _ := svc.JournalEntry(day)
	assert.Equal(t, []domain.Symptom{b}, entry.Symptoms)

	n := len(pub.events)
	require.NoError(t, svc.RemoveJournalItem(ctx, day, domain.JournalSymptoms, "missing"))
	require.NoError(t, svc.RemoveJournalItem(ctx, day, domain.JournalMeals, b.ID))
	require.NoError(t, svc.RemoveJournalItem(ctx, "2026-01-01", domain.JournalSymptoms, b.ID))
	assert.Len(t, pub.events, n)

	assert.ErrorIs(t, svc.RemoveJournalItem(ctx, day, "moods", b.ID), ErrInvalidInput)
}

func TestToggleJournalMedication(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &fakeRepo{})

	med, err := svc.AddJournalMedication(ctx, day, domain.JournalMedication{Name: "Iron", Time: "08:00", Dose: "1 tab"})
	require.NoError(t, err)

	require.NoError(t, svc.ToggleJournalMedication(ctx, day, med.ID))
	entry, _ := svc.JournalEntry(day)
	assert.True(t, entry.Medications[0].Taken)

	require.NoError(t, svc.ToggleJournalMedication(ctx, day, med.ID))
	entry, _ = svc.JournalEntry(day)
	assert.False(t, entry.Medications[0].Taken)

	require.NoError(t, svc.ToggleJournalMedication(ctx, "2026-02-02", med.ID))
	assert.ErrorIs(t, svc.ToggleJournalMedication(ctx, "2026/02/02", med.ID), ErrInvalidInput)
}
