package errorx

import (
	"errors"
	"fmt"
)

// 业务错误定义
var (
	ErrProblemNotFound = errors.New("problem not found")
)

// PreconditionError 前置条件错误（配置/编程错误，不可重试）
// 例如检测器缺少阈值配置、阈值非正数等
type PreconditionError struct {
	Key    string // 相关配置键（可为空）
	Reason string
}

// Error 实现 error 接口
func (e *PreconditionError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("precondition violated: %s (key=%s)", e.Reason, e.Key)
	}
	return fmt.Sprintf("precondition violated: %s", e.Reason)
}

// NewPrecondition 创建前置条件错误
func NewPrecondition(key, reason string) *PreconditionError {
	return &PreconditionError{Key: key, Reason: reason}
}

// InvalidTransitionError 非法状态流转错误
// 记录被拒绝的动作、当前状态与校验失败原因
type InvalidTransitionError struct {
	Action string // 动作名称（close/assign 等）
	Status string // 当前状态
	Reason string
}

// Error 实现 error 接口
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: action=%s, status=%s, reason=%s", e.Action, e.Status, e.Reason)
}

// NewInvalidTransition 创建非法流转错误
func NewInvalidTransition(action, status, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{Action: action, Status: status, Reason: reason}
}

// IsInvalidTransition 判断是否为非法流转错误
func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}

// IsPrecondition 判断是否为前置条件错误
func IsPrecondition(err error) bool {
	var e *PreconditionError
	return errors.As(err, &e)
}
