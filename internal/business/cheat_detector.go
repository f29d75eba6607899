package business

import (
	"context"
	"fmt"
	"time"
)

// CheatRateDetector 作弊率检测器
// 按天计算 作弊次数/学习人次 百分比，超过阈值即产生异常
type CheatRateDetector struct {
	metrics MetricsReader
}

// NewCheatRateDetector 创建作弊率检测器
func NewCheatRateDetector(metrics MetricsReader) *CheatRateDetector {
	return &CheatRateDetector{metrics: metrics}
}

// Category 检测类别
func (d *CheatRateDetector) Category() string {
	return CategoryCheatRate
}

// Detect 执行检测
func (d *CheatRateDetector) Detect(ctx context.Context, start, end time.Time, thresholds Thresholds) ([]Anomaly, error) {
	threshold, err := thresholds.Value(ThresholdKeyCheatRate)
	if err != nil {
		return nil, err
	}

	records, err := d.metrics.ListByDateRange(ctx, start, end, "")
	if err != nil {
		return nil, err
	}

	anomalies := make([]Anomaly, 0)
	for _, rec := range records {
		// 无学习行为的记录不参与计算
		if rec.LearnCount <= 0 {
			continue
		}

		cheatRate := rec.CheatRate()
		if cheatRate <= threshold {
			continue
		}

		severity, err := Classify(cheatRate, threshold)
		if err != nil {
			return nil, err
		}

		anomalies = append(anomalies, Anomaly{
			Type:          CategoryCheatRate,
			Severity:      severity,
			ProviderName:  rec.ProviderName,
			Date:          rec.StatDate,
			ObservedValue: cheatRate,
			Threshold:     threshold,
			Description: fmt.Sprintf("cheat rate %.2f%% exceeds threshold %.2f%%",
				cheatRate, threshold),
			Details: map[string]float64{
				"learn_count": float64(rec.LearnCount),
				"cheat_count": float64(rec.CheatCount),
			},
		})
	}

	return anomalies, nil
}
