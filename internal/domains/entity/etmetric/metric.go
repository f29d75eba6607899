package etmetric

import "time"

// MetricRecord 机构监管日指标（值对象）
// 由采集侧按机构按天上报，核心侧只读
type MetricRecord struct {
	ProviderID   string    // 机构ID
	ProviderName string    // 机构名称
	StatDate     time.Time // 统计日期（按天）

	LoginCount       int // 当日登录人次
	LearnCount       int // 当日学习人次
	FinishCount      int // 当日完成课程人次
	CheatCount       int // 当日作弊告警次数
	FaceSuccessCount int // 人脸识别成功次数
	FaceFailCount    int // 人脸识别失败次数
	ClassroomTotal   int // 开设教室总数
	ClassroomNew     int // 新增教室数
}

// CheatRate 作弊率（百分比）
// 学习人次为 0 时返回 0
func (m *MetricRecord) CheatRate() float64 {
	if m.LearnCount <= 0 {
		return 0
	}
	return float64(m.CheatCount) / float64(m.LearnCount) * 100
}

// FaceFailRate 人脸识别失败率（百分比）
// 无识别记录时返回 0
func (m *MetricRecord) FaceFailRate() float64 {
	total := m.FaceSuccessCount + m.FaceFailCount
	if total <= 0 {
		return 0
	}
	return float64(m.FaceFailCount) / float64(total) * 100
}

// LearnConversionRate 登录转化学习率（百分比）
// 登录人次为 0 时返回 0
func (m *MetricRecord) LearnConversionRate() float64 {
	if m.LoginCount <= 0 {
		return 0
	}
	return float64(m.LearnCount) / float64(m.LoginCount) * 100
}
