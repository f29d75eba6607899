package business

import (
	"tsp/supwatch/pkg/errorx"
)

// Severity 异常严重程度
type Severity string

const (
	SeverityCritical  Severity = "CRITICAL"  // 严重
	SeverityImportant Severity = "IMPORTANT" // 重要
	SeverityModerate  Severity = "MODERATE"  // 中等
	SeverityMinor     Severity = "MINOR"     // 轻微
)

// 分级比值下界（含下界）
const (
	criticalRatio  = 3.0
	importantRatio = 2.0
	moderateRatio  = 1.5
)

// Classify 按观测值与阈值的比值分级
// 比值 >= 3.0 为 CRITICAL，>= 2.0 为 IMPORTANT，>= 1.5 为 MODERATE，其余为 MINOR
// threshold 必须为正数，否则返回前置条件错误
func Classify(observed, threshold float64) (Severity, error) {
	if threshold <= 0 {
		return "", errorx.NewPrecondition("", "severity threshold must be positive")
	}

	ratio := observed / threshold
	switch {
	case ratio >= criticalRatio:
		return SeverityCritical, nil
	case ratio >= importantRatio:
		return SeverityImportant, nil
	case ratio >= moderateRatio:
		return SeverityModerate, nil
	default:
		return SeverityMinor, nil
	}
}
