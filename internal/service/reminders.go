package service

import (
	"sort"
	"time"

	"smarthealth-state/internal/domain"

	"github.com/samber/lo"
)

// Reminder 未服药的下一次提醒时间
type Reminder struct {
	Medication domain.Medication `json:"medication"`
	DueAt      time.Time         `json:"dueAt"`
}

// UpcomingReminders 未服的药按下一次到点时间排序
// 今天的时间已过则顺延到明天；用户关闭服药提醒时返回空列表
func (s *UserDataService) UpcomingReminders(now time.Time) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Reminder{}
	if !s.data.Profile.Notifications.MedicineReminders {
		return out
	}

	pending := lo.Filter(s.data.HealthData.Medications, func(m domain.Medication, _ int) bool { return !m.Taken })
	for _, m := range pending {
		due, ok := nextDue(now, m.Time)
		if !ok {
			continue
		}
		out = append(out, Reminder{Medication: m, DueAt: due})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out
}

func nextDue(now time.Time, hhmm string) (time.Time, bool) {
	t, err := parseClock(hhmm)
	if err != nil {
		return time.Time{}, false
	}
	due := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	if due.Before(now) {
		due = due.AddDate(0, 0, 1)
	}
	return due, true
}
