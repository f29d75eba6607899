package po

import "time"

// SupervisionMetric 监管日指标表（GORM 模型）
type SupervisionMetric struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProviderID   string    `gorm:"column:provider_id;type:varchar(64);not null;index:idx_provider_date"`
	ProviderName string    `gorm:"column:provider_name;type:varchar(128);not null"`
	StatDate     time.Time `gorm:"column:stat_date;type:date;not null;index:idx_provider_date;index:idx_stat_date"`

	LoginCount       int `gorm:"column:login_count;not null;default:0"`
	LearnCount       int `gorm:"column:learn_count;not null;default:0"`
	FinishCount      int `gorm:"column:finish_count;not null;default:0"`
	CheatCount       int `gorm:"column:cheat_count;not null;default:0"`
	FaceSuccessCount int `gorm:"column:face_success_count;not null;default:0"`
	FaceFailCount    int `gorm:"column:face_fail_count;not null;default:0"`
	ClassroomTotal   int `gorm:"column:classroom_total;not null;default:0"`
	ClassroomNew     int `gorm:"column:classroom_new;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName 指定表名
func (SupervisionMetric) TableName() string {
	return "supervision_metrics"
}
