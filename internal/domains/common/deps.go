package common

import (
	"context"

	"tsp/supwatch/internal/business"
	"tsp/supwatch/internal/domains/services/svproblem"
	"tsp/supwatch/internal/framework"
	"tsp/supwatch/pkg/logger"
)

// NotificationPublisher 检测完成通知发布接口（Redis 实现）
type NotificationPublisher interface {
	PublishDetectionComplete(ctx context.Context, channel string, notification interface{}) error
}

// CallbackPublisher 回调队列发布接口（lmstfy 实现）
type CallbackPublisher interface {
	Publish(queue string, data []byte, ttl, delay uint32) error
}

// Deps Handler 依赖集合
// 由 Manager 初始化后注入到各 Handler
type Deps struct {
	DetectService     *business.DetectService
	ProblemService    *svproblem.ProblemService
	DefaultThresholds business.Thresholds

	Callback         CallbackPublisher // 回调队列客户端（可为 nil）
	CallbackQueue    string
	Notifier         NotificationPublisher // 检测完成通知（可为 nil）
	DetectionChannel string

	Logger logger.Logger
}

// HandlerFactory Handler 构造函数类型
type HandlerFactory func(ctx context.Context, baseHandler *framework.BaseHandler, deps *Deps) (framework.BusinessHandler, error)
