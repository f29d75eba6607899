package detect

import (
	"context"
	"encoding/json"

	"tsp/supwatch/internal/domains/common"
	"tsp/supwatch/internal/framework"
)

// DetectHandler 异常检测处理器
// 消费 supervision_detect 任务：按区间与类别运行检测器并回传异常列表
type DetectHandler struct {
	framework.BaseHandler

	payload *DetectPayload
	deps    *common.Deps

	detectResult *DetectResultData
}

// NewDetectHandler 创建异常检测处理器
func NewDetectHandler(
	ctx context.Context,
	baseHandler *framework.BaseHandler,
	deps *common.Deps,
) (framework.BusinessHandler, error) {
	bizPayload := baseHandler.GetBizPayload()

	payloadBytes, err := json.Marshal(bizPayload)
	if err != nil {
		return nil, err
	}

	var payload DetectPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return nil, err
	}

	handler := &DetectHandler{
		BaseHandler: *baseHandler,
		payload:     &payload,
		deps:        deps,
	}

	handler.SetResulter(NewDetectResulter())

	return handler, nil
}

// Handle 处理入口
func (h *DetectHandler) Handle(ctx context.Context) ([]byte, error) {
	processFuncs := []framework.ProcessorFunc{
		h.PreProcess,
		h.Process,
		h.PostProcess,
	}

	preProcessor := framework.NewPreProcessor(processFuncs)
	if err := preProcessor.Run(ctx); err != nil {
		return h.WrapErrorResponse(ctx, err)
	}

	output := h.GetOutput()
	return h.WrapResponse(ctx, output)
}
