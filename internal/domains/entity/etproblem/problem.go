package etproblem

import (
	"errors"
	"time"

	"tsp/supwatch/pkg/errorx"
)

// 错误定义
var (
	ErrInvalidProblemID    = errors.New("problem ID cannot be empty")
	ErrDescriptionRequired = errors.New("problem description cannot be empty")
	ErrDeadlineRequired    = errors.New("correction deadline is required")
	ErrResponsibleRequired = errors.New("responsible person is required")
	ErrInvalidSeverity     = errors.New("invalid problem severity")
	ErrInvalidStatus       = errors.New("invalid problem status")
)

// Status 问题整改状态
type Status string

const (
	StatusPending    Status = "PENDING"     // 待整改
	StatusInProgress Status = "IN_PROGRESS" // 整改中
	StatusCorrected  Status = "CORRECTED"   // 已整改（待验证）
	StatusVerified   Status = "VERIFIED"    // 验证通过
	StatusClosed     Status = "CLOSED"      // 已关闭
)

// IsValid 校验状态取值
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCorrected, StatusVerified, StatusClosed:
		return true
	}
	return false
}

// IsActive 是否仍在整改中（用于逾期判定）
// 验证通过与已关闭的问题不再计逾期
func (s Status) IsActive() bool {
	return s != StatusVerified && s != StatusClosed
}

// VerificationResult 验证结论
type VerificationResult string

const (
	VerificationPass    VerificationResult = "PASS"    // 验证通过
	VerificationFail    VerificationResult = "FAIL"    // 验证不通过
	VerificationPartial VerificationResult = "PARTIAL" // 部分通过
)

// Problem 问题整改记录（聚合根）
// 状态只通过下方领域行为流转，除 Reopen 外单向推进
type Problem struct {
	ID           int64  // 问题ID
	InspectionID *int64 // 关联检查ID（独立上报问题为 nil）
	Type         string // 问题类型（检测器类别或人工填报类型）
	Description  string // 问题描述
	Severity     string // 严重程度（CRITICAL/IMPORTANT/MODERATE/MINOR）
	Status       Status // 当前状态

	ResponsiblePerson  string    // 整改责任人
	CorrectionDeadline time.Time // 整改期限（必填）

	CorrectionMeasures []string          // 整改措施
	CorrectionEvidence map[string]string // 整改证据（名称→链接/说明）
	CorrectionDate     *time.Time        // 整改完成时间（提交证据时写入）

	VerificationResult VerificationResult // 验证结论
	Verifier           string             // 验证人
	VerificationDate   *time.Time         // 验证时间

	Remarks   string // 备注
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProblem 创建问题记录（工厂方法）
// 初始状态为 PENDING
func NewProblem(id int64, problemType, description, severity, responsible string, deadline time.Time) (*Problem, error) {
	if id <= 0 {
		return nil, ErrInvalidProblemID
	}
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if deadline.IsZero() {
		return nil, ErrDeadlineRequired
	}
	if responsible == "" {
		return nil, ErrResponsibleRequired
	}
	if severity == "" {
		return nil, ErrInvalidSeverity
	}

	now := time.Now()
	return &Problem{
		ID:                 id,
		Type:               problemType,
		Description:        description,
		Severity:           severity,
		Status:             StatusPending,
		ResponsiblePerson:  responsible,
		CorrectionDeadline: deadline,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// StartCorrection 开始整改（领域行为）
// 任意状态均可进入整改中；measures 非空时替换整改措施
func (p *Problem) StartCorrection(measures []string) {
	if len(measures) > 0 {
		p.CorrectionMeasures = measures
	}
	p.Status = StatusInProgress
	p.UpdatedAt = time.Now()
}

// SubmitEvidence 提交整改证据（领域行为）
// 状态进入 CORRECTED，date 为零值时取当前时间
func (p *Problem) SubmitEvidence(evidence map[string]string, date time.Time) {
	if date.IsZero() {
		date = time.Now()
	}
	p.CorrectionEvidence = evidence
	p.CorrectionDate = &date
	p.Status = StatusCorrected
	p.UpdatedAt = time.Now()
}

// Verify 验证整改结果（领域行为）
// PASS 进入 VERIFIED，其余结论（FAIL/PARTIAL/未知）退回 IN_PROGRESS
// 对当前状态不做限制：重复验证总是以最新结论为准
func (p *Problem) Verify(result VerificationResult, verifier string, date time.Time) {
	if date.IsZero() {
		date = time.Now()
	}
	p.VerificationResult = result
	p.Verifier = verifier
	p.VerificationDate = &date

	if result == VerificationPass {
		p.Status = StatusVerified
	} else {
		p.Status = StatusInProgress
	}
	p.UpdatedAt = time.Now()
}

// Close 关闭问题（领域行为）
// 仅允许 VERIFIED 且验证结论为 PASS 的问题关闭
func (p *Problem) Close(remarks string) error {
	if p.Status != StatusVerified {
		return errorx.NewInvalidTransition("close", string(p.Status), "only verified problem can be closed")
	}
	if p.VerificationResult != VerificationPass {
		return errorx.NewInvalidTransition("close", string(p.Status), "verification result is not PASS")
	}

	if remarks != "" {
		p.Remarks = remarks
	}
	p.Status = StatusClosed
	p.UpdatedAt = time.Now()
	return nil
}

// Reopen 重新打开问题（领域行为）
// 任意状态均可退回 IN_PROGRESS，reason 覆盖备注
func (p *Problem) Reopen(reason string) {
	p.Remarks = reason
	p.Status = StatusInProgress
	p.UpdatedAt = time.Now()
}

// AssignResponsible 变更整改责任人（领域行为）
// 已关闭问题不允许改派；改派为当前责任人视为无效操作
func (p *Problem) AssignResponsible(person string) error {
	if person == "" {
		return ErrResponsibleRequired
	}
	if p.Status == StatusClosed {
		return errorx.NewInvalidTransition("assign", string(p.Status), "cannot reassign a closed problem")
	}
	if person == p.ResponsiblePerson {
		return errorx.NewInvalidTransition("assign", string(p.Status), "responsible person unchanged")
	}

	p.ResponsiblePerson = person
	p.UpdatedAt = time.Now()
	return nil
}

// ExtendDeadline 延长整改期限（领域行为）
// 任意状态均允许；reason 非空时覆盖备注
func (p *Problem) ExtendDeadline(newDeadline time.Time, reason string) error {
	if newDeadline.IsZero() {
		return ErrDeadlineRequired
	}

	p.CorrectionDeadline = newDeadline
	if reason != "" {
		p.Remarks = reason
	}
	p.UpdatedAt = time.Now()
	return nil
}

// SetStatus 直接设置状态（批量更新使用）
// 只校验状态取值合法，不校验流转方向
func (p *Problem) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}
