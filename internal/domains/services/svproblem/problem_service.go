package svproblem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tsp/supwatch/internal/domains/entity/etproblem"
	"tsp/supwatch/internal/domains/repo/rpproblem"
	"tsp/supwatch/pkg/errorx"
	"tsp/supwatch/pkg/idgen"
	"tsp/supwatch/pkg/logger"
)

// ProblemService 问题整改服务，负责生命周期操作编排
// 每个操作遵循 读取 → 领域行为校验/变更 → 写回 的流程
// 状态流转逻辑全部在 etproblem 领域行为中，本层只做编排与持久化
type ProblemService struct {
	repo   rpproblem.ProblemRepository
	logger logger.Logger
}

// NewProblemService 创建问题整改服务实例
func NewProblemService(repo rpproblem.ProblemRepository, log logger.Logger) *ProblemService {
	return &ProblemService{
		repo:   repo,
		logger: log,
	}
}

// CreateInput 创建问题入参
type CreateInput struct {
	InspectionID *int64    // 关联检查ID（独立上报问题为 nil）
	Type         string    // 问题类型
	Description  string    // 问题描述
	Severity     string    // 严重程度
	Responsible  string    // 整改责任人
	Deadline     time.Time // 整改期限
	Measures     []string  // 整改措施（可选）
}

// Create 创建问题记录（初始状态 PENDING）
func (s *ProblemService) Create(ctx context.Context, input *CreateInput) (*etproblem.Problem, error) {
	if input == nil {
		return nil, errors.New("create input is required")
	}

	problem, err := etproblem.NewProblem(
		idgen.GenerateID(),
		input.Type,
		input.Description,
		input.Severity,
		input.Responsible,
		input.Deadline,
	)
	if err != nil {
		return nil, fmt.Errorf("create problem entity failed: %w", err)
	}

	problem.InspectionID = input.InspectionID
	if len(input.Measures) > 0 {
		problem.CorrectionMeasures = input.Measures
	}

	if err := s.repo.Create(ctx, problem); err != nil {
		return nil, fmt.Errorf("save problem failed: %w", err)
	}

	s.logger.Infof(ctx, "[ProblemService] problem created: id=%d, type=%s, severity=%s",
		problem.ID, problem.Type, problem.Severity)

	return problem, nil
}

// StartCorrection 开始整改
// measures 非空时替换整改措施
func (s *ProblemService) StartCorrection(ctx context.Context, id int64, measures []string) (*etproblem.Problem, error) {
	return s.mutate(ctx, id, func(p *etproblem.Problem) error {
		p.StartCorrection(measures)
		return nil
	})
}

// SubmitEvidence 提交整改证据
// date 为零值时取当前时间
func (s *ProblemService) SubmitEvidence(ctx context.Context, id int64, evidence map[string]string, date time.Time) (*etproblem.Problem, error) {
	return s.mutate(ctx, id, func(p *etproblem.Problem) error {
		p.SubmitEvidence(evidence, date)
		return nil
	})
}

// Verify 验证整改结果
// PASS 进入 VERIFIED，其余结论退回 IN_PROGRESS
func (s *ProblemService) Verify(ctx context.Context, id int64, result etproblem.VerificationResult, verifier string, date time.Time) (*etproblem.Problem, error) {
	return s.mutate(ctx, id, func(p *etproblem.Problem) error {
		p.Verify(result, verifier, date)
		return nil
	})
}

// Close 关闭问题
// 验证结论非 PASS 时返回非法流转错误
func (s *ProblemService) Close(ctx context.Context, id int64, remarks string) (*etproblem.Problem, error) {
	return s.mutate(ctx, id, func(p *etproblem.Problem) error {
		return p.Close(remarks)
	})
}

// Reopen 重新打开问题，reason 覆盖备注
func (s *ProblemService) Reopen(ctx context.Context, id int64, reason string) (*etproblem.Problem, error) {
	return s.mutate(ctx, id, func(p *etproblem.Problem) error {
		p.Reopen(reason)
		return nil
	})
}

// AssignResponsible 变更整改责任人
func (s *ProblemService) AssignResponsible(ctx context.Context, id int64, person string) (*etproblem.Problem, error) {
	return s.mutate(ctx, id, func(p *etproblem.Problem) error {
		return p.AssignResponsible(person)
	})
}

// ExtendDeadline 延长整改期限
func (s *ProblemService) ExtendDeadline(ctx context.Context, id int64, newDeadline time.Time, reason string) (*etproblem.Problem, error) {
	return s.mutate(ctx, id, func(p *etproblem.Problem) error {
		return p.ExtendDeadline(newDeadline, reason)
	})
}

// BatchUpdateStatus 批量更新状态
// 不存在的ID静默跳过，返回实际更新条数；逐条写回，无整批事务
func (s *ProblemService) BatchUpdateStatus(ctx context.Context, ids []int64, status etproblem.Status) (int, error) {
	return s.batchMutate(ctx, ids, "batch_update_status", func(p *etproblem.Problem) error {
		return p.SetStatus(status)
	})
}

// BatchAssignResponsible 批量变更责任人
// 不存在的ID与校验失败的记录均跳过，返回实际更新条数
func (s *ProblemService) BatchAssignResponsible(ctx context.Context, ids []int64, person string) (int, error) {
	return s.batchMutate(ctx, ids, "batch_assign", func(p *etproblem.Problem) error {
		return p.AssignResponsible(person)
	})
}

// GetByID 查询问题
func (s *ProblemService) GetByID(ctx context.Context, id int64) (*etproblem.Problem, error) {
	return s.repo.GetByID(ctx, id)
}

// mutate 读取-变更-写回
func (s *ProblemService) mutate(ctx context.Context, id int64, fn func(*etproblem.Problem) error) (*etproblem.Problem, error) {
	problem, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(problem); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, problem); err != nil {
		return nil, fmt.Errorf("save problem failed: %w", err)
	}

	return problem, nil
}

// batchMutate 逐条执行单记录变更
// 未命中记录跳过；业务校验失败跳过并记录日志；基础设施错误中断返回
func (s *ProblemService) batchMutate(ctx context.Context, ids []int64, action string, fn func(*etproblem.Problem) error) (int, error) {
	updated := 0
	for _, id := range ids {
		problem, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, errorx.ErrProblemNotFound) {
				continue
			}
			return updated, err
		}

		if err := fn(problem); err != nil {
			s.logger.Warnf(ctx, "[ProblemService] %s skipped: id=%d, reason=%v", action, id, err)
			continue
		}

		if err := s.repo.Save(ctx, problem); err != nil {
			return updated, fmt.Errorf("save problem failed: id=%d: %w", id, err)
		}
		updated++
	}
	return updated, nil
}
