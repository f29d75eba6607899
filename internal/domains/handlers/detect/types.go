package detect

import "tsp/supwatch/internal/business"

// DetectPayload Job 消息中的业务数据
type DetectPayload struct {
	StartDate  string             `json:"start_date"` // 起始日期（2006-01-02）
	EndDate    string             `json:"end_date"`   // 结束日期（2006-01-02）
	Category   string             `json:"category"`   // 检测类别（空值按 all 处理）
	Thresholds map[string]float64 `json:"thresholds,omitempty"`
}

// DetectResultData 业务处理结果
type DetectResultData struct {
	Anomalies   []business.Anomaly
	Category    string
	ProcessedAt int64
}

// DetectOutput 最终输出结构
type DetectOutput struct {
	Anomalies   []business.Anomaly `json:"anomalies"`
	Category    string             `json:"category"`
	Total       int                `json:"total"`
	BySeverity  map[string]int     `json:"by_severity"`
	ProcessedAt int64              `json:"processed_at"`
}

// DetectCallback 回调队列消息
type DetectCallback struct {
	RequestID    string         `json:"request_id"`
	Category     string         `json:"category"`
	AnomalyCount int            `json:"anomaly_count"`
	BySeverity   map[string]int `json:"by_severity"`
	ProcessedAt  int64          `json:"processed_at"`
}
