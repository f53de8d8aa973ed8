package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"smarthealth-state/internal/domain"
	"smarthealth-state/internal/service"

	"go.uber.org/zap"
)

// UserDataHandler 用户数据 Handler
type UserDataHandler struct {
	svc    *service.UserDataService
	logger *zap.Logger
	now    func() time.Time
}

// NewUserDataHandler 创建 Handler
func NewUserDataHandler(svc *service.UserDataService, logger *zap.Logger) *UserDataHandler {
	return &UserDataHandler{svc: svc, logger: logger, now: time.Now}
}

// UserDataView GET /api/v1/userdata 的响应体
type UserDataView struct {
	UserData      domain.UserData `json:"userData"`
	Authenticated bool            `json:"authenticated"`
	Derived       domain.Derived  `json:"derived"`
}

// fail 按错误类型映射状态码：参数错误 400，其余（持久化失败）500
func (h *UserDataHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, service.ErrInvalidInput) {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	h.logger.Error(op+" failed",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
}

func badRequest(w http.ResponseWriter, format string, args ...any) {
	writeJSON(w, http.StatusBadRequest, Fail(fmt.Sprintf(format, args...)))
}

// decode 读取 JSON body；失败时已写 400
func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := readBodyJSON(r, maxBodyBytes, out); err != nil {
		badRequest(w, "invalid request body: %v", err)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "%v", err)
		return 0, false
	}
	return id, true
}

func (h *UserDataHandler) GetUserData(w http.ResponseWriter, r *http.Request) {
	data, authenticated, derived := h.svc.State()
	writeJSON(w, http.StatusOK, Ok(UserDataView{UserData: data, Authenticated: authenticated, Derived: derived}))
}

func (h *UserDataHandler) GetDerived(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Derived()))
}

// ============================================
// 会话
// ============================================

func (h *UserDataHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginData
	if !decode(w, r, &in) {
		return
	}
	if err := h.svc.LoginUser(r.Context(), in); err != nil {
		h.fail(w, r, "Login", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"authenticated": true}))
}

func (h *UserDataHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.LogoutUser(r.Context()); err != nil {
		h.fail(w, r, "Logout", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]bool{"authenticated": false}))
}

// ============================================
// Profile / Vitals
// ============================================

func (h *UserDataHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if !decode(w, r, &updates) {
		return
	}
	if err := h.svc.UpdateProfile(r.Context(), updates); err != nil {
		h.fail(w, r, "UpdateProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().Profile))
}

func (h *UserDataHandler) UpdateProfileSection(w http.ResponseWriter, r *http.Request) {
	var updates map[string]any
	if !decode(w, r, &updates) {
		return
	}
	if err := h.svc.UpdateProfileSection(r.Context(), r.PathValue("section"), updates); err != nil {
		h.fail(w, r, "UpdateProfileSection", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().Profile))
}

func (h *UserDataHandler) UpdateVital(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndex(r.PathValue("index"))
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	var body struct {
		Value *domain.VitalValue `json:"value"`
	}
	if !decode(w, r, &body) {
		return
	}
	if body.Value == nil {
		badRequest(w, "value is required")
		return
	}
	if err := h.svc.UpdateVitals(r.Context(), index, *body.Value); err != nil {
		h.fail(w, r, "UpdateVitals", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().HealthData.Vitals))
}

// ============================================
// Goals / Medications
// ============================================

func (h *UserDataHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().HealthData.Goals))
}

func (h *UserDataHandler) AddGoal(w http.ResponseWriter, r *http.Request) {
	var in service.GoalInput
	if !decode(w, r, &in) {
		return
	}
	goal, err := h.svc.AddGoal(r.Context(), in)
	if err != nil {
		h.fail(w, r, "AddGoal", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(goal))
}

func (h *UserDataHandler) ReplaceGoals(w http.ResponseWriter, r *http.Request) {
	var goals *[]domain.Goal
	if !decode(w, r, &goals) {
		return
	}
	if goals == nil {
		badRequest(w, "request body must be a JSON array of goals")
		return
	}
	if err := h.svc.UpdateGoals(r.Context(), *goals); err != nil {
		h.fail(w, r, "UpdateGoals", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().HealthData.Goals))
}

func (h *UserDataHandler) ToggleGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.ToggleGoal(r.Context(), id); err != nil {
		h.fail(w, r, "ToggleGoal", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().HealthData.Goals))
}

func (h *UserDataHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteGoal(r.Context(), id); err != nil {
		h.fail(w, r, "DeleteGoal", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().HealthData.Goals))
}

func (h *UserDataHandler) ListMedications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().HealthData.Medications))
}

func (h *UserDataHandler) UpcomingReminders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.UpcomingReminders(h.now())))
}

func (h *UserDataHandler) AddMedication(w http.ResponseWriter, r *http.Request) {
	var in service.MedicationInput
	if !decode(w, r, &in) {
		return
	}
	med, err := h.svc.AddMedication(r.Context(), in)
	if err != nil {
		h.fail(w, r, "AddMedication", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(med))
}

func (h *UserDataHandler) ReplaceMedications(w http.ResponseWriter, r *http.Request) {
	var meds *[]domain.Medication
	if !decode(w, r, &meds) {
		return
	}
	if meds == nil {
		badRequest(w, "request body must be a JSON array of medications")
		return
	}
	if err := h.svc.UpdateMedications(r.Context(), *meds); err != nil {
		h.fail(w, r, "UpdateMedications", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().HealthData.Medications))
}

func (h *UserDataHandler) ToggleMedication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.ToggleMedication(r.Context(), id); err != nil {
		h.fail(w, r, "ToggleMedication", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().HealthData.Medications))
}

func (h *UserDataHandler) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteMedication(r.Context(), id); err != nil {
		h.fail(w, r, "DeleteMedication", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().HealthData.Medications))
}

// ============================================
// Journal
// ============================================

func (h *UserDataHandler) GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := domain.ParseJournalDate(date); err != nil {
		badRequest(w, "journal date must be YYYY-MM-DD, got %q", date)
		return
	}
	entry, ok := h.svc.JournalEntry(date)
	if !ok {
		writeJSON(w, http.StatusNotFound, Fail("journal entry not found"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(entry))
}

func (h *UserDataHandler) EnsureJournalEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.EnsureJournalEntry(r.Context(), r.PathValue("date"))
	if err != nil {
		h.fail(w, r, "EnsureJournalEntry", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(entry))
}

func (h *UserDataHandler) UpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var entry domain.JournalEntry
	if !decode(w, r, &entry) {
		return
	}
	date := r.PathValue("date")
	if err := h.svc.UpdateJournalEntry(r.Context(), date, entry); err != nil {
		h.fail(w, r, "UpdateJournalEntry", err)
		return
	}
	saved, _ := h.svc.JournalEntry(date)
	writeJSON(w, http.StatusOK, Ok(saved))
}

// AddJournalItem body 按 kind 解码为对应子项
func (h *UserDataHandler) AddJournalItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	date := r.PathValue("date")

	var (
		item any
		err  error
	)
	switch kind := r.PathValue("kind"); kind {
	case domain.JournalSymptoms:
		var in domain.Symptom
		if !decode(w, r, &in) {
			return
		}
		item, err = h.svc.AddJournalSymptom(ctx, date, in)
	case domain.JournalMeals:
		var in domain.Meal
		if !decode(w, r, &in) {
			return
		}
		item, err = h.svc.AddJournalMeal(ctx, date, in)
	case domain.JournalExercise:
		var in domain.Exercise
		if !decode(w, r, &in) {
			return
		}
		item, err = h.svc.AddJournalExercise(ctx, date, in)
	case domain.JournalMedications:
		var in domain.JournalMedication
		if !decode(w, r, &in) {
			return
		}
		item, err = h.svc.AddJournalMedication(ctx, date, in)
	default:
		badRequest(w, "unknown journal item kind %q", kind)
		return
	}
	if err != nil {
		h.fail(w, r, "AddJournalItem", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(item))
}

func (h *UserDataHandler) RemoveJournalItem(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if err := h.svc.RemoveJournalItem(r.Context(), date, r.PathValue("kind"), r.PathValue("id")); err != nil {
		h.fail(w, r, "RemoveJournalItem", err)
		return
	}
	entry, _ := h.svc.JournalEntry(date)
	writeJSON(w, http.StatusOK, Ok(entry))
}

func (h *UserDataHandler) ToggleJournalMedication(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if err := h.svc.ToggleJournalMedication(r.Context(), date, r.PathValue("id")); err != nil {
		h.fail(w, r, "ToggleJournalMedication", err)
		return
	}
	entry, _ := h.svc.JournalEntry(date)
	writeJSON(w, http.StatusOK, Ok(entry))
}

// ============================================
// Appointments / Articles / Weekly stats
// ============================================

func (h *UserDataHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().Appointments))
}

func (h *UserDataHandler) AddAppointment(w http.ResponseWriter, r *http.Request) {
	var in service.AppointmentInput
	if !decode(w, r, &in) {
		return
	}
	appt, err := h.svc.AddAppointment(r.Context(), in)
	if err != nil {
		h.fail(w, r, "AddAppointment", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(appt))
}

func (h *UserDataHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.CancelAppointment(r.Context(), id); err != nil {
		h.fail(w, r, "CancelAppointment", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().Appointments))
}

func (h *UserDataHandler) AddArticle(w http.ResponseWriter, r *http.Request) {
	var in service.ArticleInput
	if !decode(w, r, &in) {
		return
	}
	article, err := h.svc.AddUserArticle(r.Context(), in)
	if err != nil {
		h.fail(w, r, "AddUserArticle", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(article))
}

func (h *UserDataHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteUserArticle(r.Context(), id); err != nil {
		h.fail(w, r, "DeleteUserArticle", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().UserArticles))
}

func (h *UserDataHandler) SaveArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.SaveArticle(r.Context(), id); err != nil {
		h.fail(w, r, "SaveArticle", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().SavedArticles))
}

func (h *UserDataHandler) UpdateWeeklyStat(w http.ResponseWriter, r *http.Request) {
	day, err := parseIndex(r.PathValue("day"))
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	var body struct {
		Value *float64 `json:"value"`
	}
	if !decode(w, r, &body) {
		return
	}
	if body.Value == nil {
		badRequest(w, "value is required")
		return
	}
	if err := h.svc.UpdateWeeklyStat(r.Context(), r.PathValue("metric"), day, *body.Value); err != nil {
		h.fail(w, r, "UpdateWeeklyStat", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Snapshot().HealthData.WeeklyStats))
}

// ExportReport 导出 Excel 报表
func (h *UserDataHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	data, _, derived := h.svc.State()
	excelData, err := GenerateReport(data, derived)
	if err != nil {
		h.fail(w, r, "ExportReport", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=smarthealth-report.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(excelData)
}
