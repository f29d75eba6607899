package business

import (
	"context"
	"time"

	"tsp/supwatch/internal/domains/entity/etmetric"
	"tsp/supwatch/internal/domains/entity/etproblem"
)

// MetricsReader 监管指标读取接口
// 由 rpmetric 仓储实现，检测器只读不写
type MetricsReader interface {
	ListByDateRange(ctx context.Context, start, end time.Time, providerID string) ([]*etmetric.MetricRecord, error)
}

// OverdueProblemReader 逾期问题读取接口
// 由 rpproblem 仓储实现
type OverdueProblemReader interface {
	FindOverdue(ctx context.Context, now time.Time) ([]*etproblem.Problem, error)
}

// Detector 异常检测器接口
// 检测器相互独立、只读，不修改指标与问题数据
type Detector interface {
	// Category 检测类别（聚合时按类别过滤）
	Category() string

	// Detect 扫描日期区间内的数据，返回零或多条异常
	// 区间内无匹配数据不是错误，返回空列表
	Detect(ctx context.Context, start, end time.Time, thresholds Thresholds) ([]Anomaly, error)
}

// DefaultDetectors 构造标准检测器列表（静态注册表）
// 聚合时按此顺序运行：作弊率 → 人脸失败率 → 学习转化率 → 问题逾期
func DefaultDetectors(metrics MetricsReader, problems OverdueProblemReader) []Detector {
	return []Detector{
		NewCheatRateDetector(metrics),
		NewFaceFailRateDetector(metrics),
		NewLearnConversionDetector(metrics),
		NewProblemOverdueDetector(problems),
	}
}
