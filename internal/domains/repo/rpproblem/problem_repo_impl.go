package rpproblem

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"tsp/supwatch/internal/domains/entity/etproblem"
	"tsp/supwatch/internal/domains/entity/po"
	"tsp/supwatch/pkg/errorx"
)

// ProblemRepositoryImpl 问题整改仓储实现（MySQL）
type ProblemRepositoryImpl struct {
	db *gorm.DB
}

// NewProblemRepository 创建问题整改仓储实例
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &ProblemRepositoryImpl{db: db}
}

// Create 创建问题记录
func (r *ProblemRepositoryImpl) Create(ctx context.Context, problem *etproblem.Problem) error {
	p, err := r.toGormModel(problem)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByID 根据ID查询问题
func (r *ProblemRepositoryImpl) GetByID(ctx context.Context, id int64) (*etproblem.Problem, error) {
	var p po.ProblemTracking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.ErrProblemNotFound
		}
		return nil, err
	}
	return r.toDomainModel(&p)
}

// Save 保存整条问题记录
func (r *ProblemRepositoryImpl) Save(ctx context.Context, problem *etproblem.Problem) error {
	p, err := r.toGormModel(problem)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(p).Error
}

// FindOverdue 查询已逾期的问题
// 逾期判定为严格早于 now，与 business 层 IsOverdue 保持一致
func (r *ProblemRepositoryImpl) FindOverdue(ctx context.Context, now time.Time) ([]*etproblem.Problem, error) {
	var pos []po.ProblemTracking
	err := r.db.WithContext(ctx).
		Where("correction_deadline < ?", now).
		Where("status NOT IN ?", []string{string(etproblem.StatusVerified), string(etproblem.StatusClosed)}).
		Order("correction_deadline ASC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainModels(pos)
}

// FindDueBefore 查询整改期限不晚于 deadline 且仍在整改中的问题
func (r *ProblemRepositoryImpl) FindDueBefore(ctx context.Context, deadline time.Time) ([]*etproblem.Problem, error) {
	var pos []po.ProblemTracking
	err := r.db.WithContext(ctx).
		Where("correction_deadline <= ?", deadline).
		Where("status NOT IN ?", []string{string(etproblem.StatusVerified), string(etproblem.StatusClosed)}).
		Order("correction_deadline ASC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainModels(pos)
}

// ListByStatus 按状态分页查询
func (r *ProblemRepositoryImpl) ListByStatus(ctx context.Context, status etproblem.Status, page, limit int) ([]*etproblem.Problem, int64, error) {
	var total int64
	var pos []po.ProblemTracking

	query := r.db.WithContext(ctx).Model(&po.ProblemTracking{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	problems, err := r.toDomainModels(pos)
	if err != nil {
		return nil, 0, err
	}

	return problems, total, nil
}

// toGormModel 领域对象转换为 GORM 模型
func (r *ProblemRepositoryImpl) toGormModel(problem *etproblem.Problem) (*po.ProblemTracking, error) {
	p := &po.ProblemTracking{
		ID:                 problem.ID,
		InspectionID:       problem.InspectionID,
		Type:               problem.Type,
		Description:        problem.Description,
		Severity:           problem.Severity,
		Status:             string(problem.Status),
		ResponsiblePerson:  problem.ResponsiblePerson,
		CorrectionDeadline: problem.CorrectionDeadline,
		CorrectionDate:     problem.CorrectionDate,
		VerificationResult: string(problem.VerificationResult),
		Verifier:           problem.Verifier,
		VerificationDate:   problem.VerificationDate,
		Remarks:            problem.Remarks,
		CreatedAt:          problem.CreatedAt,
		UpdatedAt:          problem.UpdatedAt,
	}

	if len(problem.CorrectionMeasures) > 0 {
		measuresJSON, err := json.Marshal(problem.CorrectionMeasures)
		if err != nil {
			return nil, err
		}
		p.CorrectionMeasures = measuresJSON
	}

	if len(problem.CorrectionEvidence) > 0 {
		evidenceJSON, err := json.Marshal(problem.CorrectionEvidence)
		if err != nil {
			return nil, err
		}
		p.CorrectionEvidence = evidenceJSON
	}

	return p, nil
}

// toDomainModel GORM 模型转换为领域对象
func (r *ProblemRepositoryImpl) toDomainModel(p *po.ProblemTracking) (*etproblem.Problem, error) {
	problem := &etproblem.Problem{
		ID:                 p.ID,
		InspectionID:       p.InspectionID,
		Type:               p.Type,
		Description:        p.Description,
		Severity:           p.Severity,
		Status:             etproblem.Status(p.Status),
		ResponsiblePerson:  p.ResponsiblePerson,
		CorrectionDeadline: p.CorrectionDeadline,
		CorrectionDate:     p.CorrectionDate,
		VerificationResult: etproblem.VerificationResult(p.VerificationResult),
		Verifier:           p.Verifier,
		VerificationDate:   p.VerificationDate,
		Remarks:            p.Remarks,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}

	if len(p.CorrectionMeasures) > 0 {
		if err := json.Unmarshal(p.CorrectionMeasures, &problem.CorrectionMeasures); err != nil {
			return nil, err
		}
	}

	if len(p.CorrectionEvidence) > 0 {
		if err := json.Unmarshal(p.CorrectionEvidence, &problem.CorrectionEvidence); err != nil {
			return nil, err
		}
	}

	return problem, nil
}

// toDomainModels 批量转换
func (r *ProblemRepositoryImpl) toDomainModels(pos []po.ProblemTracking) ([]*etproblem.Problem, error) {
	problems := make([]*etproblem.Problem, 0, len(pos))
	for i := range pos {
		problem, err := r.toDomainModel(&pos[i])
		if err != nil {
			return nil, err
		}
		problems = append(problems, problem)
	}
	return problems, nil
}
