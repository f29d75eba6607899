package detect

import (
	"context"

	"tsp/supwatch/internal/business"
)

// DetectResulter 检测结果处理器
// 将业务结果格式化为对外输出结构
type DetectResulter struct {
	srcData interface{}
	dstData interface{}
}

// NewDetectResulter 创建检测结果处理器
func NewDetectResulter() *DetectResulter {
	return &DetectResulter{}
}

// Set 设置业务结果数据
func (r *DetectResulter) Set(ctx context.Context, data interface{}) error {
	r.srcData = data

	resultData := data.(*DetectResultData)

	r.dstData = &DetectOutput{
		Anomalies:   resultData.Anomalies,
		Category:    resultData.Category,
		Total:       len(resultData.Anomalies),
		BySeverity:  business.CountBySeverity(resultData.Anomalies),
		ProcessedAt: resultData.ProcessedAt,
	}

	return nil
}

// Get 获取格式化后的输出
func (r *DetectResulter) Get(ctx context.Context) interface{} {
	return r.dstData
}
