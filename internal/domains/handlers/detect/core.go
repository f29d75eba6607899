package detect

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tsp/supwatch/internal/business"
	"tsp/supwatch/pkg/infra/redis"
)

// 日期格式
const dateLayout = "2006-01-02"

// PreProcess 预处理
func (h *DetectHandler) PreProcess(ctx context.Context) error {
	if h.payload.StartDate == "" || h.payload.EndDate == "" {
		return errors.New("start_date and end_date are required")
	}

	start, err := time.Parse(dateLayout, h.payload.StartDate)
	if err != nil {
		return errors.New("start_date is invalid")
	}
	end, err := time.Parse(dateLayout, h.payload.EndDate)
	if err != nil {
		return errors.New("end_date is invalid")
	}
	if end.Before(start) {
		return errors.New("end_date must not be before start_date")
	}

	if h.payload.Category == "" {
		h.payload.Category = business.CategoryAll
	}

	return nil
}

// Process 核心处理
func (h *DetectHandler) Process(ctx context.Context) error {
	start, _ := time.Parse(dateLayout, h.payload.StartDate)
	end, _ := time.Parse(dateLayout, h.payload.EndDate)

	// 任务未携带阈值时使用配置默认阈值
	thresholds := business.Thresholds(h.payload.Thresholds)
	if len(thresholds) == 0 {
		thresholds = h.deps.DefaultThresholds
	}

	anomalies, err := h.deps.DetectService.DetectAnomalies(ctx, start, end, h.payload.Category, thresholds)
	if err != nil {
		return err
	}

	h.detectResult = &DetectResultData{
		Anomalies: anomalies,
		Category:  h.payload.Category,
	}

	return nil
}

// PostProcess 后处理
func (h *DetectHandler) PostProcess(ctx context.Context) error {
	h.detectResult.ProcessedAt = time.Now().Unix()

	if err := h.GetResulter().Set(ctx, h.detectResult); err != nil {
		return err
	}
	h.SetOutput(h.GetResulter().Get(ctx))

	return h.notify(ctx)
}

// notify 发送回调与检测完成通知
// 回调/通知失败只记录日志，不影响检测结果返回
func (h *DetectHandler) notify(ctx context.Context) error {
	counts := business.CountBySeverity(h.detectResult.Anomalies)

	if h.deps.Callback != nil && h.deps.CallbackQueue != "" {
		callback := &DetectCallback{
			RequestID:    h.GetMeta().RequestID,
			Category:     h.detectResult.Category,
			AnomalyCount: len(h.detectResult.Anomalies),
			BySeverity:   counts,
			ProcessedAt:  h.detectResult.ProcessedAt,
		}

		data, err := json.Marshal(callback)
		if err != nil {
			return err
		}

		if err := h.deps.Callback.Publish(h.deps.CallbackQueue, data, 0, 0); err != nil {
			h.deps.Logger.Errorf(ctx, "[DetectHandler] publish callback failed: %v", err)
		}
	}

	if h.deps.Notifier != nil && h.deps.DetectionChannel != "" {
		notification := &redis.DetectionNotification{
			RequestID:    h.GetMeta().RequestID,
			Category:     h.detectResult.Category,
			AnomalyCount: len(h.detectResult.Anomalies),
			BySeverity:   counts,
			Timestamp:    h.detectResult.ProcessedAt,
		}

		if err := h.deps.Notifier.PublishDetectionComplete(ctx, h.deps.DetectionChannel, notification); err != nil {
			h.deps.Logger.Errorf(ctx, "[DetectHandler] publish notification failed: %v", err)
		}
	}

	return nil
}
