package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid  = errors.New("参数错误")
	ErrUserNotFound  = errors.New("用户不存在")
	ErrNotFollowing  = errors.New("需要先关注对方才能发私信")
	ErrMessageEmpty  = errors.New("消息内容不能为空")
	ErrTargetInvalid = errors.New("目标用户无效")
	// 会话不存在与无权访问刻意不作区分，避免泄露会话是否存在
	ErrConversationNotFound = errors.New("会话不存在")
	UnauthorizedError       = errors.New("权限不足")
	UnExpectedError         = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrNotFollowing:         Forbidden,
	ErrMessageEmpty:         BadRequest,
	ErrTargetInvalid:        BadRequest,
	ErrConversationNotFound: NotFound,
	UnauthorizedError:       Unauthorized,
	UnExpectedError:         InternalServerError,
}
