package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	pre := NewPrecondition("cheat_rate", "threshold missing")
	assert.True(t, IsPrecondition(pre))
	assert.False(t, IsInvalidTransition(pre))
	assert.Contains(t, pre.Error(), "cheat_rate")

	trans := NewInvalidTransition("close", "PENDING", "only verified problem can be closed")
	assert.True(t, IsInvalidTransition(trans))
	assert.False(t, IsPrecondition(trans))

	// 包装后仍可识别
	wrapped := fmt.Errorf("handle failed: %w", trans)
	assert.True(t, IsInvalidTransition(wrapped))

	assert.False(t, IsPrecondition(errors.New("plain")))
}

func TestWrapJob(t *testing.T) {
	assert.Nil(t, WrapJob(nil))

	// 已是 JobError 时原样返回
	je := Retriable("redis timeout")
	assert.Same(t, je, WrapJob(je))
	assert.True(t, je.Retryable)
	assert.Equal(t, 500, je.Code)

	// 业务规则错误不可重试
	wrapped := WrapJob(NewInvalidTransition("close", "PENDING", "not verified"))
	assert.False(t, wrapped.Retryable)
	assert.Equal(t, 400, wrapped.Code)

	wrapped = WrapJob(NewPrecondition("face_fail_rate", "threshold missing"))
	assert.False(t, wrapped.Retryable)

	// 未知错误带上调试详情
	wrapped = WrapJob(errors.New("db gone"))
	assert.Equal(t, 500, wrapped.Code)
	assert.NotEmpty(t, wrapped.DevDetails)

	assert.False(t, NonRetriable("bad payload").Retryable)
}
