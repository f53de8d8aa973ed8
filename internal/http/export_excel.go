package httpapi

import (
	"fmt"

	"smarthealth-state/internal/domain"

	"github.com/xuri/excelize/v2"
)

// 报表工作表名
const (
	SheetSummary     = "Summary"
	SheetWeekly      = "Weekly Stats"
	SheetGoals       = "Goals"
	SheetMedications = "Medications"
)

var (
	WeeklyHeader     = []string{"Day", "Steps", "Water (glasses)", "Sleep (h)", "Exercise (min)"}
	GoalsHeader      = []string{"ID", "Goal", "Done", "Progress", "Target"}
	MedicationHeader = []string{"ID", "Name", "Time", "Frequency", "Taken", "Notes"}
)

// GenerateReport 生成健康报表：汇总、周统计、目标、服药
func GenerateReport(data domain.UserData, derived domain.Derived) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// 1. 汇总
	summary := [][]any{
		{"Name", data.Profile.Name},
		{"Health Score", data.Profile.HealthScore},
		{"BMI", derived.BMI},
		{"BMI Category", derived.BMICategory},
		{"Goals Completed", fmt.Sprintf("%d/%d", derived.CompletedGoals, derived.TotalGoals)},
		{"Goal Completion Rate (%)", derived.GoalCompletionRate},
		{"Medications Taken", fmt.Sprintf("%d/%d", derived.TakenMedications, derived.TotalMedications)},
		{"Medication Adherence (%)", derived.MedicationAdherence},
	}
	for _, s := range derived.Weekly {
		summary = append(summary, []any{fmt.Sprintf("Weekly %s progress (%%)", s.Metric), s.Progress})
	}
	if err := writeSheet(f, SheetSummary, []string{"Metric", "Value"}, summary, headerStyle); err != nil {
		return nil, err
	}

	// 2. 周统计（7 行 + 合计 + 平均）
	w := data.HealthData.WeeklyStats
	weekly := make([][]any, 0, domain.DaysPerWeek+2)
	for i, label := range domain.WeekdayLabels {
		weekly = append(weekly, []any{label, w.Steps[i], w.Water[i], w.Sleep[i], w.Exercise[i]})
	}
	totals := []any{"Total"}
	averages := []any{"Average"}
	for _, s := range derived.Weekly {
		totals = append(totals, s.Total)
		averages = append(averages, s.Average)
	}
	weekly = append(weekly, totals, averages)
	if err := writeSheet(f, SheetWeekly, WeeklyHeader, weekly, headerStyle); err != nil {
		return nil, err
	}

	// 3. 目标
	goals := make([][]any, 0, len(data.HealthData.Goals))
	for _, g := range data.HealthData.Goals {
		goals = append(goals, []any{g.ID, g.Text, yesNo(g.Done), g.Progress, g.Target})
	}
	if err := writeSheet(f, SheetGoals, GoalsHeader, goals, headerStyle); err != nil {
		return nil, err
	}

	// 4. 服药
	meds := make([][]any, 0, len(data.HealthData.Medications))
	for _, m := range data.HealthData.Medications {
		meds = append(meds, []any{m.ID, m.Name, m.Time, m.Frequency, yesNo(m.Taken), m.Notes})
	}
	if err := writeSheet(f, SheetMedications, MedicationHeader, meds, headerStyle); err != nil {
		return nil, err
	}

	// 删除默认的 Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2) // 第 1 行是表头
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("failed to convert column number: %w", err)
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
