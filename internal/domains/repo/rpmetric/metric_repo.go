package rpmetric

import (
	"context"
	"time"

	"tsp/supwatch/internal/domains/entity/etmetric"
)

// MetricRepository 监管指标仓储接口（只定义，不实现）
// 实现在同包 *_impl.go，指标由采集侧写入，本服务只读
type MetricRepository interface {
	// ListByDateRange 查询日期区间内的指标记录
	// providerID 为空时查询全部机构
	ListByDateRange(ctx context.Context, start, end time.Time, providerID string) ([]*etmetric.MetricRecord, error)
}
