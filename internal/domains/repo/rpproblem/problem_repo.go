package rpproblem

import (
	"context"
	"time"

	"tsp/supwatch/internal/domains/entity/etproblem"
)

// ProblemRepository 问题整改仓储接口（只定义，不实现）
// 核心侧从不物理删除问题记录，删除属外部运维操作
type ProblemRepository interface {
	// Create 创建问题记录
	Create(ctx context.Context, problem *etproblem.Problem) error

	// GetByID 根据ID查询问题，未找到返回 errorx.ErrProblemNotFound
	GetByID(ctx context.Context, id int64) (*etproblem.Problem, error)

	// Save 保存整条问题记录（读-校验-写的写回步骤）
	Save(ctx context.Context, problem *etproblem.Problem) error

	// FindOverdue 查询已逾期的问题（整改期限早于 now 且仍在整改中）
	FindOverdue(ctx context.Context, now time.Time) ([]*etproblem.Problem, error)

	// FindDueBefore 查询整改期限不晚于 deadline 且仍在整改中的问题
	// 配合逾期判定用于即将逾期提醒
	FindDueBefore(ctx context.Context, deadline time.Time) ([]*etproblem.Problem, error)

	// ListByStatus 按状态查询问题列表，status 为空时查询全部
	ListByStatus(ctx context.Context, status etproblem.Status, page, limit int) ([]*etproblem.Problem, int64, error)
}
