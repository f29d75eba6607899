package business

import (
	"context"
	"fmt"
	"time"
)

// ProblemOverdueDetector 问题逾期检测器
// 扫描当前逾期的整改问题，逾期天数超过阈值即产生异常
type ProblemOverdueDetector struct {
	problems OverdueProblemReader
	now      func() time.Time
}

// NewProblemOverdueDetector 创建问题逾期检测器
func NewProblemOverdueDetector(problems OverdueProblemReader) *ProblemOverdueDetector {
	return &ProblemOverdueDetector{
		problems: problems,
		now:      time.Now,
	}
}

// Category 检测类别
func (d *ProblemOverdueDetector) Category() string {
	return CategoryProblemOverdue
}

// Detect 执行检测
// 逾期以当前时刻为基准，与 start/end 区间无关
func (d *ProblemOverdueDetector) Detect(ctx context.Context, start, end time.Time, thresholds Thresholds) ([]Anomaly, error) {
	threshold, err := thresholds.Value(ThresholdKeyProblemOverdueDays)
	if err != nil {
		return nil, err
	}

	now := d.now()
	overdue, err := d.problems.FindOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	anomalies := make([]Anomaly, 0)
	for _, p := range overdue {
		remaining := RemainingDays(p, now)
		overdueDays := remaining
		if overdueDays < 0 {
			overdueDays = -overdueDays
		}

		if float64(overdueDays) <= threshold {
			continue
		}

		severity, err := Classify(float64(overdueDays), threshold)
		if err != nil {
			return nil, err
		}

		anomalies = append(anomalies, Anomaly{
			Type:          CategoryProblemOverdue,
			Severity:      severity,
			Date:          p.CorrectionDeadline,
			ObservedValue: float64(overdueDays),
			Threshold:     threshold,
			Description: fmt.Sprintf("problem %d correction overdue by %d days, responsible: %s",
				p.ID, overdueDays, p.ResponsiblePerson),
			Details: map[string]float64{
				"problem_id":   float64(p.ID),
				"overdue_days": float64(overdueDays),
			},
		})
	}

	return anomalies, nil
}
