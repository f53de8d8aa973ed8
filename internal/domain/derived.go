package domain

import "math"

// WeeklyExerciseTargetMinutes 每周运动目标（分钟）
const WeeklyExerciseTargetMinutes = 150

// Derived 由聚合快照实时计算的指标，每次读取重新计算，不缓存
type Derived struct {
	CompletedGoals      int     `json:"completedGoals"`
	TotalGoals          int     `json:"totalGoals"`
	GoalCompletionRate  int     `json:"goalCompletionRate"`
	TakenMedications    int     `json:"takenMedications"`
	TotalMedications    int     `json:"totalMedications"`
	MedicationAdherence int     `json:"medicationAdherence"`
	BMI                 float64 `json:"bmi"`
	BMICategory         string  `json:"bmiCategory"`

	Weekly []WeeklySummary `json:"weekly"`
}

// WeeklySummary 单个指标的周汇总
type WeeklySummary struct {
	Metric   string  `json:"metric"`
	Total    float64 `json:"total"`
	Average  float64 `json:"average"` // 一位小数
	Max      float64 `json:"max"`
	Target   float64 `json:"target"`   // 0 表示无目标
	Progress int     `json:"progress"` // 0-100
}

// ComputeDerived 纯函数
func ComputeDerived(d UserData) Derived {
	out := Derived{}

	for _, g := range d.HealthData.Goals {
		if g.Done {
			out.CompletedGoals++
		}
	}
	out.TotalGoals = len(d.HealthData.Goals)
	out.GoalCompletionRate = Percent(out.CompletedGoals, out.TotalGoals, 0)

	for _, m := range d.HealthData.Medications {
		if m.Taken {
			out.TakenMedications++
		}
	}
	out.TotalMedications = len(d.HealthData.Medications)
	// 没有药就没有漏服，按 100% 计
	out.MedicationAdherence = Percent(out.TakenMedications, out.TotalMedications, 100)

	out.BMI = BMI(d.Profile.Weight, d.Profile.Height)
	out.BMICategory = BMICategory(out.BMI)

	out.Weekly = SummarizeWeek(d.HealthData.WeeklyStats, d.Profile.HealthGoals)
	return out
}

// Percent round(100*part/total)；total 为 0 时返回 whenEmpty
func Percent(part, total, whenEmpty int) int {
	if total <= 0 {
		return whenEmpty
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// BMI weight(kg) / (height(m))^2，保留一位小数；身高 <= 0 时为 0
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	h := heightCm / 100
	return round1(weightKg / (h * h))
}

// BMICategory WHO 分级；bmi <= 0 视为未定义
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return ""
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

// SummarizeWeek 按 WeeklyMetrics 顺序汇总
// steps/water/sleep 以日均值对比每日目标，exercise 以周总量对比每周目标
func SummarizeWeek(w WeeklyStats, goals HealthGoals) []WeeklySummary {
	out := make([]WeeklySummary, 0, len(WeeklyMetrics))
	for _, metric := range WeeklyMetrics {
		series, _ := w.Series(metric)
		s := WeeklySummary{Metric: metric}
		for i, v := range series {
			s.Total += v
			if i == 0 || v > s.Max {
				s.Max = v
			}
		}
		s.Total = round1(s.Total)
		s.Average = round1(s.Total / DaysPerWeek)

		actual := s.Average
		switch metric {
		case MetricSteps:
			s.Target = float64(goals.DailySteps)
		case MetricWater:
			s.Target = float64(goals.WaterIntake)
		case MetricSleep:
			s.Target = goals.SleepHours
		case MetricExercise:
			s.Target = WeeklyExerciseTargetMinutes
			actual = s.Total
		}
		if s.Target > 0 {
			s.Progress = int(math.Min(math.Round(actual/s.Target*100), 100))
		}
		out = append(out, s)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
