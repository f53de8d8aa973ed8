package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// HealthData 健康数据
type HealthData struct {
	Vitals         []Vital                 `json:"vitals"`
	Goals          []Goal                  `json:"goals"`
	Medications    []Medication            `json:"medications"`
	JournalEntries map[string]JournalEntry `json:"journalEntries"` // key: YYYY-MM-DD
	WeeklyStats    WeeklyStats             `json:"weeklyStats"`
}

// Vital 生命体征（固定列表，按下标原地修改）
type Vital struct {
	Name   string     `json:"name"`
	Value  VitalValue `json:"value"`
	Unit   string     `json:"unit"`
	Status string     `json:"status"` // normal | stable | 其他自由文本
	Icon   string     `json:"icon"`
}

// VitalValue 数值或字符串（如血压 "120/80"）
type VitalValue struct {
	Number float64
	Text   string
	IsText bool
}

func NumberValue(v float64) VitalValue { return VitalValue{Number: v} }
func TextValue(s string) VitalValue    { return VitalValue{Text: s, IsText: true} }

func (v VitalValue) String() string {
	if v.IsText {
		return v.Text
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

func (v VitalValue) MarshalJSON() ([]byte, error) {
	if v.IsText {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Number)
}

func (v *VitalValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = VitalValue{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("vital value must be a number or string: %w", err)
	}
	*v = NumberValue(n)
	return nil
}

// Goal 每日目标
type Goal struct {
	ID       int64   `json:"id"`
	Text     string  `json:"text"`
	Done     bool    `json:"done"`
	Progress float64 `json:"progress"`
	Target   float64 `json:"target"` // >0 时百分比才有意义（不强制）
}

// Medication 服药提醒
type Medication struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Time      string `json:"time"` // HH:MM
	Notes     string `json:"notes"`
	Taken     bool   `json:"taken"`
	Frequency string `json:"frequency"`
}

// Clone 深拷贝
func (h HealthData) Clone() HealthData {
	out := h
	if h.Vitals != nil {
		out.Vitals = append(make([]Vital, 0, len(h.Vitals)), h.Vitals...)
	}
	if h.Goals != nil {
		out.Goals = append(make([]Goal, 0, len(h.Goals)), h.Goals...)
	}
	if h.Medications != nil {
		out.Medications = append(make([]Medication, 0, len(h.Medications)), h.Medications...)
	}
	out.JournalEntries = cloneJournalMap(h.JournalEntries)
	return out
}

func cloneJournalMap(m map[string]JournalEntry) map[string]JournalEntry {
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = v.Clone()
	}
	return out
}
