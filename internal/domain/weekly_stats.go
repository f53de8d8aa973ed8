package domain

// DaysPerWeek 周统计固定长度
const DaysPerWeek = 7

// WeekdayLabels 下标 0..6 对应的星期标签
var WeekdayLabels = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// 周统计指标名
const (
	MetricSteps    = "steps"
	MetricWater    = "water"
	MetricSleep    = "sleep"
	MetricExercise = "exercise"
)

// WeeklyMetrics 按展示顺序排列
var WeeklyMetrics = []string{MetricSteps, MetricWater, MetricSleep, MetricExercise}

// WeeklyStats 每个指标固定 7 个值（数组，值拷贝即深拷贝）
type WeeklyStats struct {
	Steps    [DaysPerWeek]float64 `json:"steps"`
	Water    [DaysPerWeek]float64 `json:"water"`
	Sleep    [DaysPerWeek]float64 `json:"sleep"`
	Exercise [DaysPerWeek]float64 `json:"exercise"` // 分钟
}

// Series 按指标名取序列；未知指标返回 false
func (w *WeeklyStats) Series(metric string) (*[DaysPerWeek]float64, bool) {
	switch metric {
	case MetricSteps:
		return &w.Steps, true
	case MetricWater:
		return &w.Water, true
	case MetricSleep:
		return &w.Sleep, true
	case MetricExercise:
		return &w.Exercise, true
	}
	return nil, false
}
