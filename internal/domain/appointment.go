package domain

// 就诊紧急程度
const (
	UrgencyRoutine   = "routine"
	UrgencyUrgent    = "urgent"
	UrgencyEmergency = "emergency"
)

// 预约状态
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

// Doctor 预约时嵌入的医生信息（来自医生列表，只读）
type Doctor struct {
	Name      string  `json:"name"`
	Specialty string  `json:"specialty"`
	Location  string  `json:"location"`
	Rating    float64 `json:"rating"`
	Reviews   int     `json:"reviews"`
}

type Appointment struct {
	ID          int64  `json:"id"`
	Doctor      Doctor `json:"doctor"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Reason      string `json:"reason"`
	Symptoms    string `json:"symptoms"`
	Urgency     string `json:"urgency"`
	PatientName string `json:"patientName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	BookedAt    string `json:"bookedAt"` // RFC 3339
}

// ValidUrgency 是否为合法紧急程度
func ValidUrgency(u string) bool {
	switch u {
	case UrgencyRoutine, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}
