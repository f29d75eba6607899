package business

import (
	"context"
	"time"

	"tsp/supwatch/pkg/logger"
)

// DetectService 异常检测聚合服务
// 持有静态检测器列表，按注册顺序运行并拼接结果
type DetectService struct {
	detectors []Detector
	logger    logger.Logger
}

// NewDetectService 创建检测聚合服务
// detectors 一般来自 DefaultDetectors；顺序即运行顺序
func NewDetectService(detectors []Detector, log logger.Logger) *DetectService {
	return &DetectService{
		detectors: detectors,
		logger:    log,
	}
}

// DetectAnomalies 执行一次异常检测
// category 为 "all" 时运行全部检测器，否则只运行类别完全匹配的检测器
// 结果保持检测器注册顺序与检测器内部遍历顺序，不去重、不重排
func (s *DetectService) DetectAnomalies(ctx context.Context, start, end time.Time, category string, thresholds Thresholds) ([]Anomaly, error) {
	anomalies := make([]Anomaly, 0)

	for _, detector := range s.detectors {
		if category != CategoryAll && category != detector.Category() {
			continue
		}

		result, err := detector.Detect(ctx, start, end, thresholds)
		if err != nil {
			// 阈值缺失或读取失败立即上抛，不静默跳过
			return nil, err
		}

		s.logger.Debugf(ctx, "[DetectService] detector %s found %d anomalies",
			detector.Category(), len(result))

		anomalies = append(anomalies, result...)
	}

	return anomalies, nil
}

// CountBySeverity 按严重程度统计（供回调与通知使用）
func CountBySeverity(anomalies []Anomaly) map[string]int {
	counts := make(map[string]int)
	for _, a := range anomalies {
		counts[string(a.Severity)]++
	}
	return counts
}
