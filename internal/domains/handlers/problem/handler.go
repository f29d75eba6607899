package problem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tsp/supwatch/internal/domains/common"
	"tsp/supwatch/internal/domains/entity/etproblem"
	"tsp/supwatch/internal/framework"
)

// 批量操作类型
const (
	ActionUpdateStatus = "update_status" // 批量更新状态
	ActionAssign       = "assign"        // 批量变更责任人
)

// BatchUpdatePayload Job 消息中的业务数据
type BatchUpdatePayload struct {
	Action string  `json:"action"`           // update_status / assign
	IDs    []int64 `json:"ids"`              // 问题ID列表
	Status string  `json:"status,omitempty"` // 目标状态（update_status 时必填）
	Person string  `json:"person,omitempty"` // 责任人（assign 时必填）
}

// BatchUpdateOutput 最终输出结构
type BatchUpdateOutput struct {
	Action    string `json:"action"`
	Requested int    `json:"requested"` // 请求条数
	Updated   int    `json:"updated"`   // 实际更新条数
}

// BatchUpdateHandler 问题批量操作处理器
// 消费 problem_batch_update 任务：批量更新状态或批量改派责任人
type BatchUpdateHandler struct {
	framework.BaseHandler

	payload *BatchUpdatePayload
	deps    *common.Deps

	result *BatchUpdateOutput
}

// NewBatchUpdateHandler 创建问题批量操作处理器
func NewBatchUpdateHandler(
	ctx context.Context,
	baseHandler *framework.BaseHandler,
	deps *common.Deps,
) (framework.BusinessHandler, error) {
	bizPayload := baseHandler.GetBizPayload()

	payloadBytes, err := json.Marshal(bizPayload)
	if err != nil {
		return nil, err
	}

	var payload BatchUpdatePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return nil, err
	}

	return &BatchUpdateHandler{
		BaseHandler: *baseHandler,
		payload:     &payload,
		deps:        deps,
	}, nil
}

// Handle 处理入口
func (h *BatchUpdateHandler) Handle(ctx context.Context) ([]byte, error) {
	processFuncs := []framework.ProcessorFunc{
		h.PreProcess,
		h.Process,
	}

	preProcessor := framework.NewPreProcessor(processFuncs)
	if err := preProcessor.Run(ctx); err != nil {
		return h.WrapErrorResponse(ctx, err)
	}

	return h.WrapResponse(ctx, h.result)
}

// PreProcess 预处理
func (h *BatchUpdateHandler) PreProcess(ctx context.Context) error {
	if len(h.payload.IDs) == 0 {
		return errors.New("ids are required")
	}

	switch h.payload.Action {
	case ActionUpdateStatus:
		if !etproblem.Status(h.payload.Status).IsValid() {
			return fmt.Errorf("invalid status: %s", h.payload.Status)
		}
	case ActionAssign:
		if h.payload.Person == "" {
			return errors.New("person is required")
		}
	default:
		return fmt.Errorf("unknown action: %s", h.payload.Action)
	}

	return nil
}

// Process 核心处理
func (h *BatchUpdateHandler) Process(ctx context.Context) error {
	var updated int
	var err error

	switch h.payload.Action {
	case ActionUpdateStatus:
		updated, err = h.deps.ProblemService.BatchUpdateStatus(ctx, h.payload.IDs, etproblem.Status(h.payload.Status))
	case ActionAssign:
		updated, err = h.deps.ProblemService.BatchAssignResponsible(ctx, h.payload.IDs, h.payload.Person)
	}
	if err != nil {
		return err
	}

	h.result = &BatchUpdateOutput{
		Action:    h.payload.Action,
		Requested: len(h.payload.IDs),
		Updated:   updated,
	}

	return nil
}
