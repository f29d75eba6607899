package domains

import (
	"tsp/supwatch/internal/domains/common"
	"tsp/supwatch/internal/domains/handlers/detect"
	"tsp/supwatch/internal/domains/handlers/problem"
)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]common.HandlerFactory{
	"supervision_detect":   detect.NewDetectHandler,
	"problem_batch_update": problem.NewBatchUpdateHandler,
}
