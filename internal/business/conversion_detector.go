package business

import (
	"context"
	"fmt"
	"time"
)

// 转化率缺口分级的固定分母（百分点）
// 分级衡量的是缺口大小而非观测值与阈值的比值
const conversionShortfallDenominator = 10.0

// LearnConversionDetector 学习转化率检测器
// 按天计算 学习人次/登录人次 百分比，低于阈值即产生异常
// 分级依据为 (阈值-转化率)/10，即每低 10 个百分点升一档
type LearnConversionDetector struct {
	metrics MetricsReader
}

// NewLearnConversionDetector 创建学习转化率检测器
func NewLearnConversionDetector(metrics MetricsReader) *LearnConversionDetector {
	return &LearnConversionDetector{metrics: metrics}
}

// Category 检测类别
func (d *LearnConversionDetector) Category() string {
	return CategoryLearnConversion
}

// Detect 执行检测
func (d *LearnConversionDetector) Detect(ctx context.Context, start, end time.Time, thresholds Thresholds) ([]Anomaly, error) {
	threshold, err := thresholds.Value(ThresholdKeyLearnConversionRate)
	if err != nil {
		return nil, err
	}

	records, err := d.metrics.ListByDateRange(ctx, start, end, "")
	if err != nil {
		return nil, err
	}

	anomalies := make([]Anomaly, 0)
	for _, rec := range records {
		// 登录或学习为 0 的记录不参与计算
		if rec.LoginCount <= 0 || rec.LearnCount <= 0 {
			continue
		}

		conversionRate := rec.LearnConversionRate()
		if conversionRate >= threshold {
			continue
		}

		severity, err := Classify(threshold-conversionRate, conversionShortfallDenominator)
		if err != nil {
			return nil, err
		}

		anomalies = append(anomalies, Anomaly{
			Type:          CategoryLearnConversion,
			Severity:      severity,
			ProviderName:  rec.ProviderName,
			Date:          rec.StatDate,
			ObservedValue: conversionRate,
			Threshold:     threshold,
			Description: fmt.Sprintf("learn conversion rate %.2f%% below threshold %.2f%%",
				conversionRate, threshold),
			Details: map[string]float64{
				"login_count": float64(rec.LoginCount),
				"learn_count": float64(rec.LearnCount),
			},
		})
	}

	return anomalies, nil
}
