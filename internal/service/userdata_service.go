package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"smarthealth-state/internal/domain"
	"smarthealth-state/internal/events"
	"smarthealth-state/internal/repository"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrInvalidInput 调用方传入的数据不合法，状态未做任何修改
var ErrInvalidInput = errors.New("invalid input")

// errNoop 目标不存在（未知 id / 越界下标），不提交、不持久化
var errNoop = errors.New("no change")

// medicationTimeLayout 服药时间 HH:MM
const medicationTimeLayout = "15:04"

// Option 构造选项
type Option func(*UserDataService)

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(s *UserDataService) { s.now = now }
}

// WithIDGenerator 注入 id 生成器
func WithIDGenerator(g *IDGenerator) Option {
	return func(s *UserDataService) { s.ids = g }
}

// WithItemIDs 注入日记子项 id 生成函数（默认 uuid）
func WithItemIDs(fn func() string) Option {
	return func(s *UserDataService) { s.newItemID = fn }
}

// UserDataService 应用状态：聚合快照 + 登录标志
// 所有修改在互斥锁内完成：状态转换、持久化、事件发布
type UserDataService struct {
	mu        sync.Mutex
	repo      repository.SnapshotRepo
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
	ids       *IDGenerator
	newItemID func() string

	data          domain.UserData
	authenticated bool
}

// NewUserDataService 创建实例；初始状态为首次运行默认数据、未登录，调用 Load 读取持久化数据
func NewUserDataService(repo repository.SnapshotRepo, publisher events.Publisher, logger *zap.Logger, opts ...Option) *UserDataService {
	s := &UserDataService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newItemID: uuid.NewString,
		data:      domain.FirstRunUserData(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher == nil {
		s.publisher = events.NopPublisher{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.ids == nil {
		s.ids = NewIDGenerator(s.now)
	}
	s.ids.Observe(s.data.MaxID())
	return s
}

// Load 读取两个槽位；任何失败都回退到首次运行默认数据且未登录，不向调用方返回错误
func (s *UserDataService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, authenticated, err := s.repo.Load(ctx, domain.FirstRunUserData())
	if err != nil {
		s.logger.Warn("Failed to load persisted snapshot, using first-run defaults", zap.Error(err))
		s.data = domain.FirstRunUserData()
		s.authenticated = false
		s.ids.Observe(s.data.MaxID())
		return
	}

	s.data = data
	s.authenticated = authenticated
	s.ids.Observe(data.MaxID())
	s.logger.Info("Persisted snapshot loaded",
		zap.Bool("authenticated", authenticated),
		zap.Int("goals", len(data.HealthData.Goals)),
		zap.Int("medications", len(data.HealthData.Medications)),
		zap.Int("journal_entries", len(data.HealthData.JournalEntries)),
	)
}

// Snapshot 深拷贝
func (s *UserDataService) Snapshot() domain.UserData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

func (s *UserDataService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Derived 每次调用重新计算
func (s *UserDataService) Derived() domain.Derived {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ComputeDerived(s.data)
}

// State 一次加锁读取快照、登录标志和派生指标，三者互相一致
func (s *UserDataService) State() (domain.UserData, bool, domain.Derived) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone(), s.authenticated, domain.ComputeDerived(s.data)
}

// mutate 在副本上执行 fn，成功后整体替换当前状态（不会出现部分修改）
func (s *UserDataService) mutate(ctx context.Context, op string, fn func(d *domain.UserData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	if err := fn(&next); err != nil {
		if errors.Is(err, errNoop) {
			s.logger.Debug("Mutation had no target", zap.String("op", op))
			return nil
		}
		return err
	}
	s.data = next
	return s.commitLocked(ctx, op)
}

// commitLocked 已登录时整份写入快照槽位，然后发布事件
// 写入失败时内存状态仍然保留
func (s *UserDataService) commitLocked(ctx context.Context, op string) error {
	var persistErr error
	if s.authenticated {
		if err := s.repo.SaveUserData(ctx, s.data); err != nil {
			s.logger.Error("Failed to persist snapshot", zap.String("op", op), zap.Error(err))
			persistErr = fmt.Errorf("persist snapshot: %w", err)
		}
	}
	s.publishLocked(ctx, op)
	return persistErr
}

func (s *UserDataService) publishLocked(ctx context.Context, op string) {
	ev := events.ChangeEvent{
		Op:            op,
		OccurredAt:    s.now().UTC(),
		Authenticated: s.authenticated,
		Derived:       domain.ComputeDerived(s.data),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish change event", zap.String("op", op), zap.Error(err))
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// parseClock 严格解析 HH:MM（小时必须两位）
func parseClock(s string) (time.Time, error) {
	if len(s) != len(medicationTimeLayout) {
		return time.Time{}, fmt.Errorf("want HH:MM, got %q", s)
	}
	return time.Parse(medicationTimeLayout, s)
}

// ============================================
// Vitals / Goals / Medications
// ============================================

// UpdateVitals 替换指定下标体征的 value；越界为 no-op
func (s *UserDataService) UpdateVitals(ctx context.Context, index int, value domain.VitalValue) error {
	return s.mutate(ctx, "update_vitals", func(d *domain.UserData) error {
		if index < 0 || index >= len(d.HealthData.Vitals) {
			return errNoop
		}
		d.HealthData.Vitals[index].Value = value
		return nil
	})
}

// GoalInput 新建目标
type GoalInput struct {
	Text   string  `json:"text"`
	Target float64 `json:"target"`
}

// UpdateGoals 整体替换目标列表
func (s *UserDataService) UpdateGoals(ctx context.Context, goals []domain.Goal) error {
	if dup := lo.FindDuplicatesBy(goals, func(g domain.Goal) int64 { return g.ID }); len(dup) > 0 {
		return invalid("duplicate goal id %d", dup[0].ID)
	}
	return s.mutate(ctx, "update_goals", func(d *domain.UserData) error {
		d.HealthData.Goals = append(make([]domain.Goal, 0, len(goals)), goals...)
		for _, g := range goals {
			s.ids.Observe(g.ID)
		}
		return nil
	})
}

func (s *UserDataService) AddGoal(ctx context.Context, in GoalInput) (domain.Goal, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return domain.Goal{}, invalid("goal text is required")
	}

	var goal domain.Goal
	err := s.mutate(ctx, "add_goal", func(d *domain.UserData) error {
		goal = domain.Goal{ID: s.ids.Next(), Text: text, Target: in.Target}
		d.HealthData.Goals = append(d.HealthData.Goals, goal)
		return nil
	})
	return goal, err
}

func (s *UserDataService) ToggleGoal(ctx context.Context, id int64) error {
	return s.mutate(ctx, "toggle_goal", func(d *domain.UserData) error {
		_, i, ok := lo.FindIndexOf(d.HealthData.Goals, func(g domain.Goal) bool { return g.ID == id })
		if !ok {
			return errNoop
		}
		d.HealthData.Goals[i].Done = !d.HealthData.Goals[i].Done
		return nil
	})
}

func (s *UserDataService) DeleteGoal(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete_goal", func(d *domain.UserData) error {
		goals, ok := removeWhere(d.HealthData.Goals, func(g domain.Goal) bool { return g.ID == id })
		if !ok {
			return errNoop
		}
		d.HealthData.Goals = goals
		return nil
	})
}

// MedicationInput 新建服药提醒
type MedicationInput struct {
	Name      string `json:"name"`
	Time      string `json:"time"` // HH:MM
	Notes     string `json:"notes"`
	Frequency string `json:"frequency"` // 默认 Daily
}

// UpdateMedications 整体替换服药列表
func (s *UserDataService) UpdateMedications(ctx context.Context, meds []domain.Medication) error {
	if dup := lo.FindDuplicatesBy(meds, func(m domain.Medication) int64 { return m.ID }); len(dup) > 0 {
		return invalid("duplicate medication id %d", dup[0].ID)
	}
	return s.mutate(ctx, "update_medications", func(d *domain.UserData) error {
		d.HealthData.Medications = append(make([]domain.Medication, 0, len(meds)), meds...)
		for _, m := range meds {
			s.ids.Observe(m.ID)
		}
		return nil
	})
}

func (s *UserDataService) AddMedication(ctx context.Context, in MedicationInput) (domain.Medication, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Medication{}, invalid("medication name is required")
	}
	if _, err := parseClock(in.Time); err != nil {
		return domain.Medication{}, invalid("medication time must be HH:MM, got %q", in.Time)
	}
	frequency := in.Frequency
	if frequency == "" {
		frequency = "Daily"
	}

	var med domain.Medication
	err := s.mutate(ctx, "add_medication", func(d *domain.UserData) error {
		med = domain.Medication{
			ID:        s.ids.Next(),
			Name:      name,
			Time:      in.Time,
			Notes:     in.Notes,
			Frequency: frequency,
		}
		d.HealthData.Medications = append(d.HealthData.Medications, med)
		return nil
	})
	return med, err
}

func (s *UserDataService) ToggleMedication(ctx context.Context, id int64) error {
	return s.mutate(ctx, "toggle_medication", func(d *domain.UserData) error {
		_, i, ok := lo.FindIndexOf(d.HealthData.Medications, func(m domain.Medication) bool { return m.ID == id })
		if !ok {
			return errNoop
		}
		d.HealthData.Medications[i].Taken = !d.HealthData.Medications[i].Taken
		return nil
	})
}

func (s *UserDataService) DeleteMedication(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete_medication", func(d *domain.UserData) error {
		meds, ok := removeWhere(d.HealthData.Medications, func(m domain.Medication) bool { return m.ID == id })
		if !ok {
			return errNoop
		}
		d.HealthData.Medications = meds
		return nil
	})
}

// ============================================
// Appointments / Articles
// ============================================

// AppointmentInput 预约表单
type AppointmentInput struct {
	Doctor      domain.Doctor `json:"doctor"`
	Date        string        `json:"date"` // YYYY-MM-DD
	Time        string        `json:"time"`
	Reason      string        `json:"reason"`
	Symptoms    string        `json:"symptoms"`
	Urgency     string        `json:"urgency"` // 默认 routine
	PatientName string        `json:"patientName"`
	Phone       string        `json:"phone"`
	Email       string        `json:"email"`
}

func (s *UserDataService) AddAppointment(ctx context.Context, in AppointmentInput) (domain.Appointment, error) {
	// 1. 参数验证
	if strings.TrimSpace(in.Doctor.Name) == "" {
		return domain.Appointment{}, invalid("doctor is required")
	}
	if _, err := time.Parse(domain.JournalDateLayout, in.Date); err != nil {
		return domain.Appointment{}, invalid("appointment date must be YYYY-MM-DD, got %q", in.Date)
	}
	if strings.TrimSpace(in.Time) == "" {
		return domain.Appointment{}, invalid("appointment time is required")
	}
	urgency := in.Urgency
	if urgency == "" {
		urgency = domain.UrgencyRoutine
	}
	if !domain.ValidUrgency(urgency) {
		return domain.Appointment{}, invalid("unknown urgency %q", in.Urgency)
	}

	// 2. 追加
	var appt domain.Appointment
	err := s.mutate(ctx, "add_appointment", func(d *domain.UserData) error {
		appt = domain.Appointment{
			ID:          s.ids.Next(),
			Doctor:      in.Doctor,
			Date:        in.Date,
			Time:        in.Time,
			Reason:      in.Reason,
			Symptoms:    in.Symptoms,
			Urgency:     urgency,
			PatientName: in.PatientName,
			Phone:       in.Phone,
			Email:       in.Email,
			Status:      domain.AppointmentPending,
			BookedAt:    s.now().UTC().Format(time.RFC3339),
		}
		d.Appointments = append(d.Appointments, appt)
		return nil
	})
	return appt, err
}

// CancelAppointment 直接移除（不保留 cancelled 记录）
func (s *UserDataService) CancelAppointment(ctx context.Context, id int64) error {
	return s.mutate(ctx, "cancel_appointment", func(d *domain.UserData) error {
		appts, ok := removeWhere(d.Appointments, func(a domain.Appointment) bool { return a.ID == id })
		if !ok {
			return errNoop
		}
		d.Appointments = appts
		return nil
	})
}

// ArticleInput 用户撰写文章
type ArticleInput struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// AddUserArticle 新文章放在最前面；作者取当前 profile 名字
func (s *UserDataService) AddUserArticle(ctx context.Context, in ArticleInput) (domain.Article, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Article{}, invalid("article title is required")
	}
	tags := lo.Compact(lo.Map(in.Tags, func(t string, _ int) string { return strings.TrimSpace(t) }))

	var article domain.Article
	err := s.mutate(ctx, "add_user_article", func(d *domain.UserData) error {
		article = domain.Article{
			ID:            s.ids.Next(),
			Title:         title,
			Summary:       in.Summary,
			Content:       in.Content,
			Category:      in.Category,
			Tags:          tags,
			Author:        d.Profile.Name,
			Date:          s.now().UTC().Format(domain.JournalDateLayout),
			IsUserCreated: true,
		}
		d.UserArticles = append([]domain.Article{article}, d.UserArticles...)
		return nil
	})
	return article.Clone(), err
}

func (s *UserDataService) DeleteUserArticle(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete_user_article", func(d *domain.UserData) error {
		articles, ok := removeWhere(d.UserArticles, func(a domain.Article) bool { return a.ID == id })
		if !ok {
			return errNoop
		}
		d.UserArticles = articles
		return nil
	})
}

// SaveArticle 追加到收藏列表（不去重）
func (s *UserDataService) SaveArticle(ctx context.Context, id int64) error {
	return s.mutate(ctx, "save_article", func(d *domain.UserData) error {
		d.SavedArticles = append(d.SavedArticles, id)
		return nil
	})
}

// UpdateWeeklyStat 设置某指标某天（0=Mon..6=Sun）的值
func (s *UserDataService) UpdateWeeklyStat(ctx context.Context, metric string, day int, value float64) error {
	if day < 0 || day >= domain.DaysPerWeek {
		return invalid("day must be in 0..%d, got %d", domain.DaysPerWeek-1, day)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return invalid("weekly stat value must be a non-negative number")
	}
	probe := domain.WeeklyStats{}
	if _, ok := probe.Series(metric); !ok {
		return invalid("unknown weekly metric %q", metric)
	}

	return s.mutate(ctx, "update_weekly_stat", func(d *domain.UserData) error {
		series, _ := d.HealthData.WeeklyStats.Series(metric)
		series[day] = value
		return nil
	})
}

// ============================================
// Session
// ============================================

// LoginData 登录时带入的数据；nil 表示该部分不覆盖
type LoginData struct {
	Profile       *domain.UserProfile  `json:"profile,omitempty"`
	HealthData    *domain.HealthData   `json:"healthData,omitempty"`
	Appointments  []domain.Appointment `json:"appointments,omitempty"`
	UserArticles  []domain.Article     `json:"userArticles,omitempty"`
	SavedArticles []int64              `json:"savedArticles,omitempty"`
}

// LoginUser 顶层浅合并 + 置登录态，两个槽位都写入
func (s *UserDataService) LoginUser(ctx context.Context, in LoginData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	if in.Profile != nil {
		next.Profile = in.Profile.Clone()
	}
	if in.HealthData != nil {
		next.HealthData = in.HealthData.Clone()
		if next.HealthData.JournalEntries == nil {
			next.HealthData.JournalEntries = map[string]domain.JournalEntry{}
		}
	}
	if in.Appointments != nil {
		next.Appointments = append(make([]domain.Appointment, 0, len(in.Appointments)), in.Appointments...)
	}
	if in.UserArticles != nil {
		next.UserArticles = lo.Map(in.UserArticles, func(a domain.Article, _ int) domain.Article { return a.Clone() })
	}
	if in.SavedArticles != nil {
		next.SavedArticles = append(make([]int64, 0, len(in.SavedArticles)), in.SavedArticles...)
	}

	s.data = next
	s.authenticated = true
	s.ids.Observe(next.MaxID())
	s.logger.Info("User logged in", zap.String("name", next.Profile.Name))

	var errs []error
	if err := s.repo.SaveAuth(ctx, true); err != nil {
		s.logger.Error("Failed to persist auth flag", zap.Error(err))
		errs = append(errs, fmt.Errorf("persist auth: %w", err))
	}
	if err := s.repo.SaveUserData(ctx, s.data); err != nil {
		s.logger.Error("Failed to persist snapshot", zap.String("op", "login"), zap.Error(err))
		errs = append(errs, fmt.Errorf("persist snapshot: %w", err))
	}
	s.publishLocked(ctx, "login")
	return errors.Join(errs...)
}

// LogoutUser 清除两个槽位并重置为空白数据
func (s *UserDataService) LogoutUser(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = domain.EmptyUserData()
	s.authenticated = false
	s.logger.Info("User logged out")

	var persistErr error
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear persisted slots", zap.Error(err))
		persistErr = fmt.Errorf("clear slots: %w", err)
	}
	s.publishLocked(ctx, "logout")
	return persistErr
}

// removeWhere 删除所有匹配项；没有匹配时返回 false
func removeWhere[T any](items []T, match func(T) bool) ([]T, bool) {
	if !lo.ContainsBy(items, match) {
		return items, false
	}
	return lo.Reject(items, func(it T, _ int) bool { return match(it) }), true
}
