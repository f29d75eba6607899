package rpmetric

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tsp/supwatch/internal/domains/entity/etmetric"
	"tsp/supwatch/internal/domains/entity/po"
)

// MetricRepositoryImpl 监管指标仓储实现（MySQL）
type MetricRepositoryImpl struct {
	db *gorm.DB
}

// NewMetricRepository 创建监管指标仓储实例
func NewMetricRepository(db *gorm.DB) MetricRepository {
	return &MetricRepositoryImpl{db: db}
}

// ListByDateRange 查询日期区间内的指标记录
func (r *MetricRepositoryImpl) ListByDateRange(ctx context.Context, start, end time.Time, providerID string) ([]*etmetric.MetricRecord, error) {
	var pos []po.SupervisionMetric

	query := r.db.WithContext(ctx).
		Where("stat_date >= ? AND stat_date <= ?", start, end)
	if providerID != "" {
		query = query.Where("provider_id = ?", providerID)
	}

	if err := query.Order("stat_date ASC, provider_id ASC").Find(&pos).Error; err != nil {
		return nil, err
	}

	records := make([]*etmetric.MetricRecord, 0, len(pos))
	for i := range pos {
		records = append(records, r.toDomainModel(&pos[i]))
	}

	return records, nil
}

// toDomainModel GORM 模型转换为领域对象
func (r *MetricRepositoryImpl) toDomainModel(p *po.SupervisionMetric) *etmetric.MetricRecord {
	return &etmetric.MetricRecord{
		ProviderID:       p.ProviderID,
		ProviderName:     p.ProviderName,
		StatDate:         p.StatDate,
		LoginCount:       p.LoginCount,
		LearnCount:       p.LearnCount,
		FinishCount:      p.FinishCount,
		CheatCount:       p.CheatCount,
		FaceSuccessCount: p.FaceSuccessCount,
		FaceFailCount:    p.FaceFailCount,
		ClassroomTotal:   p.ClassroomTotal,
		ClassroomNew:     p.ClassroomNew,
	}
}
