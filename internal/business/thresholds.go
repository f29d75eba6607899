package business

import "tsp/supwatch/pkg/errorx"

// 阈值配置键
const (
	ThresholdKeyCheatRate           = "cheat_rate"            // 作弊率上限（百分比）
	ThresholdKeyFaceFailRate        = "face_fail_rate"        // 人脸识别失败率上限（百分比）
	ThresholdKeyLearnConversionRate = "learn_conversion_rate" // 学习转化率下限（百分比）
	ThresholdKeyProblemOverdueDays  = "problem_overdue_days"  // 问题逾期天数上限
)

// Thresholds 检测阈值集合（扁平 键→数值 结构）
// 检测器使用前必须断言所需键存在
type Thresholds map[string]float64

// Value 读取阈值
// 键不存在视为调用方配置错误，返回前置条件错误
func (t Thresholds) Value(key string) (float64, error) {
	v, ok := t[key]
	if !ok {
		return 0, errorx.NewPrecondition(key, "required threshold is missing")
	}
	return v, nil
}
