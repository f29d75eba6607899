package errorx

import "fmt"

// JobError 任务错误结构（包含可重试标记）
// 用于 Worker 链路：可重试错误触发 Release，不可重试错误触发 Bury
type JobError struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`
}

// Error 实现 error 接口
func (e *JobError) Error() string {
	return e.Message
}

// Retriable 创建可重试错误（网络抖动、DB 临时故障等）
func Retriable(message string) *JobError {
	return &JobError{
		Code:      500,
		Message:   message,
		Retryable: true,
	}
}

// NonRetriable 创建不可重试错误（参数错误、业务规则错误等）
func NonRetriable(message string) *JobError {
	return &JobError{
		Code:      400,
		Message:   message,
		Retryable: false,
	}
}

// WrapJob 包装为任务错误
// 前置条件错误与非法流转错误均视为不可重试
func WrapJob(err error) *JobError {
	if err == nil {
		return nil
	}

	if e, ok := err.(*JobError); ok {
		return e
	}

	if IsPrecondition(err) || IsInvalidTransition(err) {
		return &JobError{
			Code:      400,
			Message:   err.Error(),
			Retryable: false,
		}
	}

	return &JobError{
		Code:       500,
		Message:    err.Error(),
		Retryable:  false,
		DevDetails: fmt.Sprintf("%+v", err),
	}
}
