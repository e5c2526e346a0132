package model

import "time"

// 用户角色
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
)

// User 用户档案：存储键 user:<id>
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsManager 是否为管理者
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// UnknownUserName 排期条目对应的用户已不存在时显示的名称
const UnknownUserName = "Utilisateur inconnu"

// UserKey 用户档案的存储键
func UserKey(id string) string {
	return UserKeyPrefix + id
}

// UserKeyPrefix 所有用户档案的键前缀
const UserKeyPrefix = "user:"
