package service

import (
	"errors"
	"fmt"
)

// 错误分类:
//   - ErrNotFound           目标记录不存在
//   - ErrConflict           乐观并发令牌失配,调用方应刷新后重试
//   - ErrForbidden          操作者角色或归属不满足
//   - BlockedError          业务规则拦截,带具名原因,不属于异常
var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("record was modified by another user")
	ErrForbidden = errors.New("operation not permitted for this actor")
)

// BlockedError 业务规则拦截
// 输入合法但前置条件未满足(流程状态不符、依赖未完成、确认文本缺失等)
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return e.Reason
}

// Blocked 构造业务规则拦截错误
func Blocked(format string, args ...interface{}) error {
	return &BlockedError{Reason: fmt.Sprintf(format, args...)}
}

// IsBlocked 判断错误是否为业务规则拦截
func IsBlocked(err error) bool {
	var be *BlockedError
	return errors.As(err, &be)
}
