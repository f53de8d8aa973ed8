package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（方法 + 路径通配符）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	withRequestLog(r.mux, r.logger).ServeHTTP(w, req)
}

// RegisterHealthRoutes 存活检查
func (r *Router) RegisterHealthRoutes() {
	r.Handle("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
}

// RegisterUserDataRoutes 注册全部用户数据路由
func (r *Router) RegisterUserDataRoutes(h *UserDataHandler) {
	// 快照 / 派生指标
	r.Handle("GET /api/v1/userdata", h.GetUserData)
	r.Handle("GET /api/v1/userdata/derived", h.GetDerived)

	// 会话
	r.Handle("POST /api/v1/auth/login", h.Login)
	r.Handle("POST /api/v1/auth/logout", h.Logout)

	// profile
	r.Handle("PATCH /api/v1/profile", h.UpdateProfile)
	r.Handle("PATCH /api/v1/profile/{section}", h.UpdateProfileSection)

	r.Handle("PUT /api/v1/vitals/{index}", h.UpdateVital)

	// goals
	r.Handle("GET /api/v1/goals", h.ListGoals)
	r.Handle("POST /api/v1/goals", h.AddGoal)
	r.Handle("PUT /api/v1/goals", h.ReplaceGoals)
	r.Handle("POST /api/v1/goals/{id}/toggle", h.ToggleGoal)
	r.Handle("DELETE /api/v1/goals/{id}", h.DeleteGoal)

	// medications
	r.Handle("GET /api/v1/medications", h.ListMedications)
	r.Handle("GET /api/v1/medications/upcoming", h.UpcomingReminders)
	r.Handle("POST /api/v1/medications", h.AddMedication)
	r.Handle("PUT /api/v1/medications", h.ReplaceMedications)
	r.Handle("POST /api/v1/medications/{id}/toggle", h.ToggleMedication)
	r.Handle("DELETE /api/v1/medications/{id}", h.DeleteMedication)

	// journal
	r.Handle("GET /api/v1/journal/{date}", h.GetJournalEntry)
	r.Handle("POST /api/v1/journal/{date}", h.EnsureJournalEntry)
	r.Handle("PUT /api/v1/journal/{date}", h.UpdateJournalEntry)
	r.Handle("POST /api/v1/journal/{date}/{kind}", h.AddJournalItem)
	r.Handle("DELETE /api/v1/journal/{date}/{kind}/{id}", h.RemoveJournalItem)
	r.Handle("POST /api/v1/journal/{date}/medications/{id}/toggle", h.ToggleJournalMedication)

	// appointments
	r.Handle("GET /api/v1/appointments", h.ListAppointments)
	r.Handle("POST /api/v1/appointments", h.AddAppointment)
	r.Handle("DELETE /api/v1/appointments/{id}", h.CancelAppointment)

	// articles
	r.Handle("POST /api/v1/articles", h.AddArticle)
	r.Handle("DELETE /api/v1/articles/{id}", h.DeleteArticle)
	r.Handle("POST /api/v1/articles/{id}/save", h.SaveArticle)

	r.Handle("PUT /api/v1/weekly-stats/{metric}/{day}", h.UpdateWeeklyStat)

	r.Handle("GET /api/v1/export/report.xlsx", h.ExportReport)
}
