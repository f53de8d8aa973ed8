package domain

// 两份默认快照：
//   FirstRunUserData 冷启动时的演示数据
//   EmptyUserData    登出后的空白数据
// 两者刻意不同，不要合并。

// FirstRunUserData 冷启动默认快照（演示数据）
func FirstRunUserData() UserData {
	return UserData{
		Profile: UserProfile{
			Name:        "Sudit",
			Email:       "sudit@health.com",
			Phone:       "+91 9876543210",
			Age:         25,
			Gender:      "male",
			DateOfBirth: "1999-01-15",
			Weight:      70,
			Height:      175,
			BloodType:   "O+",
			LastCheckup: "2024-01-15",
			HealthScore: 85,

			Allergies:          []string{"Peanuts", "Shellfish"},
			ChronicConditions:  []string{"Hypertension"},
			CurrentMedications: []string{"Lisinopril 10mg"},
			MedicalHistory:     "No major surgeries. Regular checkups.",

			EmergencyContact: EmergencyContact{
				Name:         "John Doe",
				Relationship: "Brother",
				Phone:        "+91 9876543211",
			},
			Units:         UnitsMetric,
			Notifications: defaultNotifications(),
			HealthGoals: HealthGoals{
				TargetWeight: 68,
				DailySteps:   10000,
				SleepHours:   8,
				WaterIntake:  8,
			},
		},
		HealthData: HealthData{
			Vitals: []Vital{
				{Name: "Heart Rate", Value: NumberValue(72), Unit: "bpm", Status: "normal", Icon: "💓"},
				{Name: "Blood Pressure", Value: TextValue("120/80"), Unit: "mmHg", Status: "normal", Icon: "🩸"},
				{Name: "Temperature", Value: NumberValue(98.6), Unit: "°F", Status: "normal", Icon: "🌡️"},
				{Name: "Weight", Value: NumberValue(70), Unit: "kg", Status: "stable", Icon: "⚖️"},
			},
			Goals: []Goal{
				{ID: 1, Text: "Walk 10,000 steps", Done: true, Progress: 8500, Target: 10000},
				{ID: 2, Text: "Drink 8 glasses of water", Done: false, Progress: 5, Target: 8},
				{ID: 3, Text: "Sleep at least 7 hours", Done: true, Progress: 7.5, Target: 7},
				{ID: 4, Text: "Meditate for 15 minutes", Done: false, Progress: 8, Target: 15},
				{ID: 5, Text: "Eat 5 servings of fruits/vegetables", Done: true, Progress: 6, Target: 5},
			},
			Medications: []Medication{
				{ID: 1, Name: "Vitamin D", Time: "09:00", Notes: "After breakfast", Taken: true, Frequency: "Daily"},
				{ID: 2, Name: "Blood Pressure Med", Time: "20:00", Notes: "Before dinner", Taken: false, Frequency: "Daily"},
				{ID: 3, Name: "Omega-3", Time: "12:00", Notes: "With lunch", Taken: true, Frequency: "Daily"},
				{ID: 4, Name: "Calcium", Time: "22:00", Notes: "Before bed", Taken: false, Frequency: "Daily"},
			},
			JournalEntries: map[string]JournalEntry{},
			WeeklyStats: WeeklyStats{
				Steps:    [DaysPerWeek]float64{8500, 9200, 7800, 10500, 9800, 8900, 10200},
				Water:    [DaysPerWeek]float64{6, 8, 7, 9, 8, 6, 7},
				Sleep:    [DaysPerWeek]float64{7.2, 6.8, 8.1, 7.5, 6.9, 8.2, 7.8},
				Exercise: [DaysPerWeek]float64{30, 45, 0, 60, 30, 45, 40},
			},
		},
		Appointments:  []Appointment{},
		UserArticles:  []Article{},
		SavedArticles: []int64{},
	}
}

// EmptyUserData 登出后的空白快照：数值为 0、字符串为空、集合为空
// units / notifications / healthGoals 的步数、睡眠、饮水保留产品默认值
func EmptyUserData() UserData {
	return UserData{
		Profile: UserProfile{
			Allergies:          []string{},
			ChronicConditions:  []string{},
			CurrentMedications: []string{},
			Units:              UnitsMetric,
			Notifications:      defaultNotifications(),
			HealthGoals: HealthGoals{
				TargetWeight: 0,
				DailySteps:   10000,
				SleepHours:   8,
				WaterIntake:  8,
			},
		},
		HealthData: HealthData{
			Vitals:         []Vital{},
			Goals:          []Goal{},
			Medications:    []Medication{},
			JournalEntries: map[string]JournalEntry{},
		},
		Appointments:  []Appointment{},
		UserArticles:  []Article{},
		SavedArticles: []int64{},
	}
}

func defaultNotifications() NotificationPreferences {
	return NotificationPreferences{
		MedicineReminders:    true,
		AppointmentReminders: true,
		HealthTips:           true,
		WeeklyReports:        false,
	}
}
