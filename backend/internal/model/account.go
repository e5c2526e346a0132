package model

import (
	"strings"
	"time"
)

// Account 内置身份提供方的登录凭据：存储键 auth:account:<email>
// 与 User 档案分开存放，业务层只通过身份提供方访问
type Account struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccountKey 按规范化邮箱生成存储键
func AccountKey(email string) string {
	return "auth:account:" + NormalizeEmail(email)
}

// NormalizeEmail 去除首尾空白并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
