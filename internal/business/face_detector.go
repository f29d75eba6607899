package business

import (
	"context"
	"fmt"
	"time"
)

// FaceFailRateDetector 人脸识别失败率检测器
// 按天计算 失败次数/(成功+失败) 百分比，超过阈值即产生异常
type FaceFailRateDetector struct {
	metrics MetricsReader
}

// NewFaceFailRateDetector 创建人脸识别失败率检测器
func NewFaceFailRateDetector(metrics MetricsReader) *FaceFailRateDetector {
	return &FaceFailRateDetector{metrics: metrics}
}

// Category 检测类别
func (d *FaceFailRateDetector) Category() string {
	return CategoryFaceFailRate
}

// Detect 执行检测
func (d *FaceFailRateDetector) Detect(ctx context.Context, start, end time.Time, thresholds Thresholds) ([]Anomaly, error) {
	threshold, err := thresholds.Value(ThresholdKeyFaceFailRate)
	if err != nil {
		return nil, err
	}

	records, err := d.metrics.ListByDateRange(ctx, start, end, "")
	if err != nil {
		return nil, err
	}

	anomalies := make([]Anomaly, 0)
	for _, rec := range records {
		total := rec.FaceSuccessCount + rec.FaceFailCount
		// 当日无识别记录不参与计算
		if total <= 0 {
			continue
		}

		failRate := rec.FaceFailRate()
		if failRate <= threshold {
			continue
		}

		severity, err := Classify(failRate, threshold)
		if err != nil {
			return nil, err
		}

		anomalies = append(anomalies, Anomaly{
			Type:          CategoryFaceFailRate,
			Severity:      severity,
			ProviderName:  rec.ProviderName,
			Date:          rec.StatDate,
			ObservedValue: failRate,
			Threshold:     threshold,
			Description: fmt.Sprintf("face detection failure rate %.2f%% exceeds threshold %.2f%%",
				failRate, threshold),
			Details: map[string]float64{
				"success_count": float64(rec.FaceSuccessCount),
				"fail_count":    float64(rec.FaceFailCount),
			},
		})
	}

	return anomalies, nil
}
