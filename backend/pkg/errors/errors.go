// Package errors 定义跨层共享的错误分类。
//
// 各层返回的业务错误通过 %w 包装以下分类之一，Handler 层据此映射 HTTP 状态码。
package errors

import "errors"

var (
	// ErrUnauthenticated 缺少或无效的 Bearer Token
	ErrUnauthenticated = errors.New("non authentifié")
	// ErrForbidden 角色校验失败
	ErrForbidden = errors.New("accès refusé")
	// ErrInvalidInput 请求体或参数格式错误
	ErrInvalidInput = errors.New("paramètres invalides")
	// ErrUpstreamUnavailable 身份提供方或键值存储超时/出错
	ErrUpstreamUnavailable = errors.New("service indisponible")
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("ressource introuvable")
)

// Is 是标准库 errors.Is 的转发，便于调用方只导入本包
func Is(err, target error) bool {
	return errors.Is(err, target)
}
