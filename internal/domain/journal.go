package domain

import "time"

// JournalDateLayout 日记 key 格式
const JournalDateLayout = "2006-01-02"

// JournalEntry 每天一条健康日记
type JournalEntry struct {
	Symptoms    []Symptom           `json:"symptoms"`
	Mood        Mood                `json:"mood"`
	Meals       []Meal              `json:"meals"`
	Exercise    []Exercise          `json:"exercise"`
	Vitals      JournalVitals       `json:"vitals"`
	Sleep       SleepLog            `json:"sleep"`
	Medications []JournalMedication `json:"medications"`
	Notes       string              `json:"notes"`
}

type Symptom struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Notes    string `json:"notes"`
	Time     string `json:"time"`
}

// Mood rating 1-10
type Mood struct {
	Rating int    `json:"rating"`
	Notes  string `json:"notes"`
}

type Meal struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Time     string `json:"time"`
	Calories string `json:"calories"`
	Notes    string `json:"notes"`
}

type Exercise struct {
	ID        string `json:"id"`
	Activity  string `json:"activity"`
	Duration  string `json:"duration"`
	Intensity string `json:"intensity"`
	Notes     string `json:"notes"`
	Time      string `json:"time"`
}

// JournalVitals 当天手工记录的体征快照（表单原样保存为字符串）
type JournalVitals struct {
	Weight        string `json:"weight"`
	BloodPressure string `json:"bloodPressure"`
	HeartRate     string `json:"heartRate"`
	Temperature   string `json:"temperature"`
	BloodSugar    string `json:"bloodSugar"`
}

// SleepLog quality 1-5
type SleepLog struct {
	Bedtime  string `json:"bedtime"`
	WakeTime string `json:"wakeTime"`
	Quality  int    `json:"quality"`
	Notes    string `json:"notes"`
}

type JournalMedication struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Time  string `json:"time"`
	Dose  string `json:"dose"`
	Taken bool   `json:"taken"`
}

// 日记子列表类型
const (
	JournalSymptoms    = "symptoms"
	JournalMeals       = "meals"
	JournalExercise    = "exercise"
	JournalMedications = "medications"
)

// NewJournalEntry 首次选中某天时的初始条目
func NewJournalEntry() JournalEntry {
	return JournalEntry{
		Symptoms:    []Symptom{},
		Mood:        Mood{Rating: 5},
		Meals:       []Meal{},
		Exercise:    []Exercise{},
		Sleep:       SleepLog{Quality: 5},
		Medications: []JournalMedication{},
	}
}

// ParseJournalDate 校验 YYYY-MM-DD
func ParseJournalDate(date string) (time.Time, error) {
	return time.Parse(JournalDateLayout, date)
}

func (e JournalEntry) Clone() JournalEntry {
	out := e
	if e.Symptoms != nil {
		out.Symptoms = append(make([]Symptom, 0, len(e.Symptoms)), e.Symptoms...)
	}
	if e.Meals != nil {
		out.Meals = append(make([]Meal, 0, len(e.Meals)), e.Meals...)
	}
	if e.Exercise != nil {
		out.Exercise = append(make([]Exercise, 0, len(e.Exercise)), e.Exercise...)
	}
	if e.Medications != nil {
		out.Medications = append(make([]JournalMedication, 0, len(e.Medications)), e.Medications...)
	}
	return out
}
