package po

import (
	"time"

	"gorm.io/datatypes"
)

// ProblemTracking 问题整改表（GORM 模型）
type ProblemTracking struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	InspectionID *int64 `gorm:"column:inspection_id;index:idx_inspection"`
	Type         string `gorm:"column:type;type:varchar(64);not null"`
	Description  string `gorm:"column:description;type:varchar(512);not null"`
	Severity     string `gorm:"column:severity;type:varchar(16);not null"`
	Status       string `gorm:"column:status;type:varchar(16);not null;default:'PENDING';index:idx_status_deadline"`

	ResponsiblePerson  string    `gorm:"column:responsible_person;type:varchar(64);not null"`
	CorrectionDeadline time.Time `gorm:"column:correction_deadline;not null;index:idx_status_deadline"`

	CorrectionMeasures datatypes.JSON `gorm:"column:correction_measures;type:json"`
	CorrectionEvidence datatypes.JSON `gorm:"column:correction_evidence;type:json"`
	CorrectionDate     *time.Time     `gorm:"column:correction_date"`

	VerificationResult string     `gorm:"column:verification_result;type:varchar(16)"`
	Verifier           string     `gorm:"column:verifier;type:varchar(64)"`
	VerificationDate   *time.Time `gorm:"column:verification_date"`

	Remarks string `gorm:"column:remarks;type:varchar(512)"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (ProblemTracking) TableName() string {
	return "problem_tracking"
}
