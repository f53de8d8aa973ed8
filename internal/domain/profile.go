package domain

// UserProfile 个人资料
// JSON 字段名与前端 localStorage 中的快照保持一致（camelCase）
type UserProfile struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Age         int     `json:"age"`
	Gender      string  `json:"gender"`
	DateOfBirth string  `json:"dateOfBirth"`
	Weight      float64 `json:"weight"` // kg
	Height      float64 `json:"height"` // cm
	BloodType   string  `json:"bloodType"`
	LastCheckup string  `json:"lastCheckup"`
	HealthScore int     `json:"healthScore"` // 0-100

	Allergies          []string `json:"allergies"`
	ChronicConditions  []string `json:"chronicConditions"`
	CurrentMedications []string `json:"currentMedications"`
	MedicalHistory     string   `json:"medicalHistory"`

	EmergencyContact EmergencyContact        `json:"emergencyContact"`
	Units            string                  `json:"units"` // metric | imperial
	Notifications    NotificationPreferences `json:"notifications"`
	HealthGoals      HealthGoals             `json:"healthGoals"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type NotificationPreferences struct {
	MedicineReminders    bool `json:"medicineReminders"`
	AppointmentReminders bool `json:"appointmentReminders"`
	HealthTips           bool `json:"healthTips"`
	WeeklyReports        bool `json:"weeklyReports"`
}

type HealthGoals struct {
	TargetWeight float64 `json:"targetWeight"`
	DailySteps   int     `json:"dailySteps"`
	SleepHours   float64 `json:"sleepHours"`
	WaterIntake  int     `json:"waterIntake"` // 杯/天
}

// 可整体合并的 profile 子对象（updateProfileSection 的 section 名）
const (
	SectionEmergencyContact = "emergencyContact"
	SectionNotifications    = "notifications"
	SectionHealthGoals      = "healthGoals"
)

const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// Clone 深拷贝
func (p UserProfile) Clone() UserProfile {
	p.Allergies = cloneStrings(p.Allergies)
	p.ChronicConditions = cloneStrings(p.ChronicConditions)
	p.CurrentMedications = cloneStrings(p.CurrentMedications)
	return p
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
