package domains

import (
	"context"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"tsp/supwatch/internal/domains/common"
	"tsp/supwatch/internal/framework"
	"tsp/supwatch/pkg/lmstfyx"
	"tsp/supwatch/pkg/logger"
)

// GetProcess 返回核心处理函数（注入到 Processor）
// 职责：解析 Job → 按 action_type 路由 → 调用 Handler → 生成 JobResp
func GetProcess(log logger.Logger, deps *common.Deps) lmstfyx.Proc {
	return func(ctx context.Context, lmstfyJob *client.Job) *lmstfyx.JobResp {
		startTime := time.Now()

		// 1. 解析 Job 标准结构
		baseHandler := &framework.BaseHandler{}
		if err := baseHandler.ParseJob(ctx, lmstfyJob.Data); err != nil {
			log.Errorf(ctx, "[GetProcess] parse job failed: %v", err)
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}

		meta := baseHandler.GetMeta()
		// RequestID 为空则生成一个
		if meta.RequestID == "" {
			meta.RequestID = uuid.New().String()
		}

		// 2. 注入 TraceID 到 Context
		ctx = context.WithValue(ctx, "trace_id", meta.RequestID)
		ctx = context.WithValue(ctx, "action_type", meta.ActionType)

		log.Infof(ctx, "[GetProcess] Processing job: action_type=%s, request_id=%s, id=%s",
			meta.ActionType, meta.RequestID, meta.ID)

		// 3. 从 HandlerMap 获取 Handler
		handlerFunc, ok := HandlerMap[meta.ActionType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for action_type: %s", meta.ActionType)
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}

		// 4. 调用 Handler（捕获 panic）
		var resp *lmstfyx.JobResp
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
					resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
				}
			}()

			handler, err := handlerFunc(ctx, baseHandler, deps)
			if err != nil {
				log.Errorf(ctx, "[GetProcess] handler creation failed: %v", err)
				resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
				return
			}

			data, err := handler.Handle(ctx)
			if err != nil {
				log.Errorf(ctx, "[GetProcess] handler failed: %v", err)
				resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury, Data: data}
				return
			}

			resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess, Data: data}
		}()

		// 5. 记录处理时长
		duration := time.Since(startTime)
		log.Infof(ctx, "[GetProcess] Processing complete: action=%d, duration=%v", resp.Action, duration)

		return resp
	}
}
