package service

import (
	"context"
	"strings"

	"smarthealth-state/internal/domain"

	"github.com/samber/lo"
)

// journalTimeLayout 子项未填时间时使用当前时间
const journalTimeLayout = "15:04"

func validateJournalDate(date string) error {
	if _, err := domain.ParseJournalDate(date); err != nil {
		return invalid("journal date must be YYYY-MM-DD, got %q", date)
	}
	return nil
}

func journalEntries(d *domain.UserData) map[string]domain.JournalEntry {
	if d.HealthData.JournalEntries == nil {
		d.HealthData.JournalEntries = map[string]domain.JournalEntry{}
	}
	return d.HealthData.JournalEntries
}

// JournalEntry 读取某天的日记
func (s *UserDataService) JournalEntry(date string) (domain.JournalEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.HealthData.JournalEntries[date]
	if !ok {
		return domain.JournalEntry{}, false
	}
	return e.Clone(), true
}

// EnsureJournalEntry 当天没有日记时创建默认条目，返回当前条目
func (s *UserDataService) EnsureJournalEntry(ctx context.Context, date string) (domain.JournalEntry, error) {
	if err := validateJournalDate(date); err != nil {
		return domain.JournalEntry{}, err
	}

	var entry domain.JournalEntry
	err := s.mutate(ctx, "ensure_journal_entry", func(d *domain.UserData) error {
		entries := journalEntries(d)
		if existing, ok := entries[date]; ok {
			entry = existing
			return errNoop
		}
		entry = domain.NewJournalEntry()
		entries[date] = entry
		return nil
	})
	return entry.Clone(), err
}

// UpdateJournalEntry 整体替换某天的日记
func (s *UserDataService) UpdateJournalEntry(ctx context.Context, date string, entry domain.JournalEntry) error {
	if err := validateJournalDate(date); err != nil {
		return err
	}
	if entry.Mood.Rating < 1 || entry.Mood.Rating > 10 {
		return invalid("mood rating must be in 1..10, got %d", entry.Mood.Rating)
	}
	if entry.Sleep.Quality < 1 || entry.Sleep.Quality > 5 {
		return invalid("sleep quality must be in 1..5, got %d", entry.Sleep.Quality)
	}

	entry = entry.Clone()
	if entry.Symptoms == nil {
		entry.Symptoms = []domain.Symptom{}
	}
	if entry.Meals == nil {
		entry.Meals = []domain.Meal{}
	}
	if entry.Exercise == nil {
		entry.Exercise = []domain.Exercise{}
	}
	if entry.Medications == nil {
		entry.Medications = []domain.JournalMedication{}
	}

	return s.mutate(ctx, "update_journal_entry", func(d *domain.UserData) error {
		journalEntries(d)[date] = entry
		return nil
	})
}

// editJournal 在某天的日记上执行 apply，当天没有日记时先创建默认条目
func (s *UserDataService) editJournal(ctx context.Context, op, date string, apply func(e *domain.JournalEntry)) error {
	return s.mutate(ctx, op, func(d *domain.UserData) error {
		entries := journalEntries(d)
		e, ok := entries[date]
		if !ok {
			e = domain.NewJournalEntry()
		}
		apply(&e)
		entries[date] = e
		return nil
	})
}

func (s *UserDataService) defaultItemTime(t string) string {
	if strings.TrimSpace(t) != "" {
		return t
	}
	return s.now().Format(journalTimeLayout)
}

func (s *UserDataService) AddJournalSymptom(ctx context.Context, date string, item domain.Symptom) (domain.Symptom, error) {
	if err := validateJournalDate(date); err != nil {
		return domain.Symptom{}, err
	}
	if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Severity) == "" {
		return domain.Symptom{}, invalid("symptom name and severity are required")
	}
	item.ID = s.newItemID()
	item.Time = s.defaultItemTime(item.Time)

	err := s.editJournal(ctx, "add_journal_symptom", date, func(e *domain.JournalEntry) {
		e.Symptoms = append(e.Symptoms, item)
	})
	return item, err
}

func (s *UserDataService) AddJournalMeal(ctx context.Context, date string, item domain.Meal) (domain.Meal, error) {
	if err := validateJournalDate(date); err != nil {
		return domain.Meal{}, err
	}
	if strings.TrimSpace(item.Name) == "" {
		return domain.Meal{}, invalid("meal name is required")
	}
	item.ID = s.newItemID()
	item.Time = s.defaultItemTime(item.Time)

	err := s.editJournal(ctx, "add_journal_meal", date, func(e *domain.JournalEntry) {
		e.Meals = append(e.Meals, item)
	})
	return item, err
}

func (s *UserDataService) AddJournalExercise(ctx context.Context, date string, item domain.Exercise) (domain.Exercise, error) {
	if err := validateJournalDate(date); err != nil {
		return domain.Exercise{}, err
	}
	if strings.TrimSpace(item.Activity) == "" || strings.TrimSpace(item.Duration) == "" {
		return domain.Exercise{}, invalid("exercise activity and duration are required")
	}
	item.ID = s.newItemID()
	item.Time = s.defaultItemTime(item.Time)

	err := s.editJournal(ctx, "add_journal_exercise", date, func(e *domain.JournalEntry) {
		e.Exercise = append(e.Exercise, item)
	})
	return item, err
}

func (s *UserDataService) AddJournalMedication(ctx context.Context, date string, item domain.JournalMedication) (domain.JournalMedication, error) {
	if err := validateJournalDate(date); err != nil {
		return domain.JournalMedication{}, err
	}
	if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Time) == "" {
		return domain.JournalMedication{}, invalid("medication name and time are required")
	}
	item.ID = s.newItemID()
	item.Taken = false

	err := s.editJournal(ctx, "add_journal_medication", date, func(e *domain.JournalEntry) {
		e.Medications = append(e.Medications, item)
	})
	return item, err
}

// RemoveJournalItem 删除某天某类子项；日记或 id 不存在时为 no-op
func (s *UserDataService) RemoveJournalItem(ctx context.Context, date, kind, id string) error {
	if err := validateJournalDate(date); err != nil {
		return err
	}
	switch kind {
	case domain.JournalSymptoms, domain.JournalMeals, domain.JournalExercise, domain.JournalMedications:
	default:
		return invalid("unknown journal item kind %q", kind)
	}

	return s.mutate(ctx, "remove_journal_item", func(d *domain.UserData) error {
		e, ok := d.HealthData.JournalEntries[date]
		if !ok {
			return errNoop
		}
		var removed bool
		switch kind {
		case domain.JournalSymptoms:
			e.Symptoms, removed = removeWhere(e.Symptoms, func(it domain.Symptom) bool { return it.ID == id })
		case domain.JournalMeals:
			e.Meals, removed = removeWhere(e.Meals, func(it domain.Meal) bool { return it.ID == id })
		case domain.JournalExercise:
			e.Exercise, removed = removeWhere(e.Exercise, func(it domain.Exercise) bool { return it.ID == id })
		case domain.JournalMedications:
			e.Medications, removed = removeWhere(e.Medications, func(it domain.JournalMedication) bool { return it.ID == id })
		}
		if !removed {
			return errNoop
		}
		d.HealthData.JournalEntries[date] = e
		return nil
	})
}

// ToggleJournalMedication 切换日记中某条服药记录的 taken
func (s *UserDataService) ToggleJournalMedication(ctx context.Context, date, id string) error {
	if err := validateJournalDate(date); err != nil {
		return err
	}
	return s.mutate(ctx, "toggle_journal_medication", func(d *domain.UserData) error {
		e, ok := d.HealthData.JournalEntries[date]
		if !ok {
			return errNoop
		}
		_, i, found := lo.FindIndexOf(e.Medications, func(m domain.JournalMedication) bool { return m.ID == id })
		if !found {
			return errNoop
		}
		e.Medications[i].Taken = !e.Medications[i].Taken
		d.HealthData.JournalEntries[date] = e
		return nil
	})
}
