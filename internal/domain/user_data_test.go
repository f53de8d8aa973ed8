package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVitalValue_JSON(t *testing.T) {
	var vitals []Vital
	require.NoError(t, json.Unmarshal([]byte(`[
		{"name":"Heart Rate","value":72,"unit":"bpm"},
		{"name":"Blood Pressure","value":"120/80","unit":"mmHg"},
		{"name":"Unknown","value":null}
	]`), &vitals))

	require.Len(t, vitals, 3)
	assert.Equal(t, NumberValue(72), vitals[0].Value)
	assert.Equal(t, TextValue("120/80"), vitals[1].Value)
	assert.Equal(t, VitalValue{}, vitals[2].Value)
	assert.Equal(t, "72", vitals[0].Value.String())
	assert.Equal(t, "120/80", vitals[1].Value.String())

	raw, err := json.Marshal(vitals[:2])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"value":72`)
	assert.Contains(t, string(raw), `"value":"120/80"`)

	var bad VitalValue
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &bad))
}

func TestUserData_RoundTrip(t *testing.T) {
	for name, data := range map[string]UserData{
		"first-run": FirstRunUserData(),
		"empty":     EmptyUserData(),
	} {
		data.HealthData.JournalEntries["2026-10-18"] = JournalEntry{
			Symptoms: []Symptom{{ID: "s1", Name: "Headache", Severity: "mild"}},
			Mood:     Mood{Rating: 7},
			Sleep:    SleepLog{Quality: 4, Bedtime: "23:00"},
		}
		data.Appointments = append(data.Appointments, Appointment{
			ID: 99, Doctor: Doctor{Name: "Dr. Priya Sharma", Rating: 4.8}, Urgency: UrgencyRoutine, Status: AppointmentPending,
		})
		data.UserArticles = append(data.UserArticles, Article{ID: 7, Title: "t", Tags: []string{"sleep"}, IsUserCreated: true})
		data.SavedArticles = append(data.SavedArticles, 7, 7)

		raw, err := json.Marshal(data)
		require.NoError(t, err, name)

		var decoded UserData
		require.NoError(t, json.Unmarshal(raw, &decoded), name)
		if diff := cmp.Diff(data, decoded); diff != "" {
			t.Fatalf("%s: round trip mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestUserData_PersistedLayout(t *testing.T) {
	raw, err := json.Marshal(FirstRunUserData())
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	for _, key := range []string{"profile", "healthData", "appointments", "userArticles", "savedArticles"} {
		assert.Contains(t, generic, key)
	}
	health := generic["healthData"].(map[string]any)
	for _, key := range []string{"vitals", "goals", "medications", "journalEntries", "weeklyStats"} {
		assert.Contains(t, health, key)
	}
	// 空集合序列化为 [] 而不是 null
	assert.Equal(t, []any{}, generic["appointments"])
}

func TestUserData_CloneIsIndependent(t *testing.T) {
	orig := FirstRunUserData()
	orig.HealthData.JournalEntries["2026-10-18"] = NewJournalEntry()
	orig.UserArticles = []Article{{ID: 1, Tags: []string{"a"}}}

	c := orig.Clone()
	c.Profile.Allergies[0] = "Pollen"
	c.HealthData.Goals[0].Done = false
	c.HealthData.Vitals[0].Value = NumberValue(90)
	c.HealthData.WeeklyStats.Steps[0] = 1
	e := c.HealthData.JournalEntries["2026-10-18"]
	e.Symptoms = append(e.Symptoms, Symptom{ID: "x"})
	c.HealthData.JournalEntries["2026-10-18"] = e
	c.UserArticles[0].Tags[0] = "b"

	assert.Equal(t, "Peanuts", orig.Profile.Allergies[0])
	assert.True(t, orig.HealthData.Goals[0].Done)
	assert.Equal(t, NumberValue(72), orig.HealthData.Vitals[0].Value)
	assert.Equal(t, 8500.0, orig.HealthData.WeeklyStats.Steps[0])
	assert.Empty(t, orig.HealthData.JournalEntries["2026-10-18"].Symptoms)
	assert.Equal(t, "a", orig.UserArticles[0].Tags[0])
}

func TestDefaults_AreDistinct(t *testing.T) {
	first := FirstRunUserData()
	empty := EmptyUserData()

	assert.NotEqual(t, first.Profile.Name, empty.Profile.Name)
	assert.NotEmpty(t, first.HealthData.Goals)
	assert.Empty(t, empty.HealthData.Goals)
	assert.Empty(t, empty.HealthData.Vitals)
	assert.Empty(t, empty.HealthData.Medications)
	assert.Zero(t, empty.Profile.Age)
	assert.Zero(t, empty.Profile.Weight)
	assert.Zero(t, empty.Profile.Height)
	assert.Zero(t, empty.Profile.HealthScore)
	assert.Equal(t, WeeklyStats{}, empty.HealthData.WeeklyStats)

	// 每次调用返回新的副本
	first.Profile.Allergies[0] = "changed"
	assert.Equal(t, "Peanuts", FirstRunUserData().Profile.Allergies[0])
}

func TestUserData_MaxID(t *testing.T) {
	d := FirstRunUserData()
	assert.Equal(t, int64(5), d.MaxID())

	d.Appointments = append(d.Appointments, Appointment{ID: 1700000000000})
	assert.Equal(t, int64(1700000000000), d.MaxID())
	assert.Zero(t, EmptyUserData().MaxID())
}

func TestParseJournalDate(t *testing.T) {
	_, err := ParseJournalDate("2026-10-18")
	assert.NoError(t, err)
	_, err = ParseJournalDate("18/10/2026")
	assert.Error(t, err)
}
