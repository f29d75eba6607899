package business

import "time"

// 检测类别（同时作为异常类型标签）
const (
	CategoryAll             = "all"                   // 聚合时运行全部检测器
	CategoryCheatRate       = "cheat_rate"            // 作弊率检测
	CategoryFaceFailRate    = "face_fail_rate"        // 人脸识别失败率检测
	CategoryLearnConversion = "learn_conversion_rate" // 学习转化率检测
	CategoryProblemOverdue  = "problem_overdue"       // 问题逾期检测
)

// Anomaly 单条异常检测结果
// 仅由检测器创建，创建后不再修改；重复检测产生重复记录属预期行为
type Anomaly struct {
	Type          string             `json:"type"`           // 检测类别标签
	Severity      Severity           `json:"severity"`       // 严重程度
	ProviderName  string             `json:"provider_name"`  // 机构名称（非机构类异常为空）
	Date          time.Time          `json:"date"`           // 异常所属日期
	ObservedValue float64            `json:"observed_value"` // 观测值
	Threshold     float64            `json:"threshold"`      // 触发阈值
	Description   string             `json:"description"`    // 人类可读描述
	Details       map[string]float64 `json:"details"`        // 原始计数（供审计/导出）
}
