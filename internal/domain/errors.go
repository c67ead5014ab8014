package domain

import "errors"

// 业务上可预期的错误，调用方通过 errors.Is 区分处理
// 这些错误属于正常的业务冲突，和基础设施故障（ErrStoreUnavailable）必须区分开，
// 前者不应该重试，后者可以重试
var (
	ErrDateLocked       = errors.New("该日期已被锁定，禁止修改")
	ErrNotFound         = errors.New("记录不存在")
	ErrDuplicateBid     = errors.New("已对该班次提交过竞班申请")
	ErrShiftNotOpen     = errors.New("该班次已有人值守")
	ErrAlreadyResolved  = errors.New("该班次已被分配")
	ErrInvalidShift     = errors.New("休息时长不能大于等于班次时长")
	ErrPresetNotFound   = errors.New("可用时间模板不存在")
	ErrStoreUnavailable = errors.New("存储服务暂时不可用")
)
