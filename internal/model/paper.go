package model

import (
	"database/sql/driver"
	"time"
)

// ExamDetails 试卷考试元数据（JSONB 整存整取）
type ExamDetails struct {
	PRN            string  `json:"prn,omitempty"`
	Semester       string  `json:"semester,omitempty"`
	Program        string  `json:"program,omitempty"`
	ProgramName    string  `json:"programName,omitempty"`
	CourseCode     string  `json:"courseCode,omitempty"`
	CourseName     string  `json:"courseName,omitempty"`
	AcademicYear   string  `json:"academicYear,omitempty"`
	Duration       string  `json:"duration,omitempty"`
	MaxMarks       float64 `json:"maxMarks,omitempty"`
	TotalQuestions int     `json:"totalQuestions,omitempty"`
}

// Scan 实现 sql.Scanner
func (d *ExamDetails) Scan(src interface{}) error {
	return scanJSONB(src, d)
}

// Value 实现 driver.Valuer
func (d ExamDetails) Value() (driver.Value, error) {
	return valueJSONB(d)
}

// Question 单道题目
// CO = Course Outcome，BL = Bloom's Level，对本系统均为不透明短标签
type Question struct {
	Text  string  `json:"text"`
	Marks float64 `json:"marks"`
	CO    string  `json:"co,omitempty"`
	BL    string  `json:"bl,omitempty"`
}

// Section 试卷章节（有序）
type Section struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// SectionList 章节列表的 JSONB 包装
type SectionList []Section

// Scan 实现 sql.Scanner
func (l *SectionList) Scan(src interface{}) error {
	return scanJSONB(src, l)
}

// Value 实现 driver.Valuer
func (l SectionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return valueJSONB(l)
}

// StringList 字符串列表的 JSONB 包装（课程目标）
type StringList []string

// Scan 实现 sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	return scanJSONB(src, l)
}

// Value 实现 driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return valueJSONB(l)
}

// Paper 试卷表 — 对应 papers
// 所有权在创建时确定且不可变更；删除仅限所有者
type Paper struct {
	PaperID        string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"paper_id"`
	UserID         string      `gorm:"type:uuid;not null"                             json:"user_id"`
	Title          string      `gorm:"type:varchar(255);not null;default:'Untitled Paper'" json:"title"`
	ExamDetails    ExamDetails `gorm:"type:jsonb"                                     json:"exam_details"`
	Sections       SectionList `gorm:"type:jsonb"                                     json:"sections"`
	CourseOutcomes StringList  `gorm:"type:jsonb"                                     json:"course_outcomes"`
	CreatedAt      time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Owner      *User        `gorm:"foreignKey:UserID;references:UserID" json:"owner,omitempty"`
	SharedWith []PaperShare `gorm:"foreignKey:PaperID;references:PaperID" json:"shared_with,omitempty"`
}

// TableName 指定表名
func (Paper) TableName() string { return "papers" }

// PaperShare 分享台账 — 对应 paper_shares
// (paper_id, email) 复合主键：同一试卷对同一邮箱至多一条记录
type PaperShare struct {
	PaperID string    `gorm:"type:uuid;primaryKey"        json:"-"`
	Email   string    `gorm:"type:varchar(255);primaryKey" json:"email"`
	SentAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"sent_at"`
}

// TableName 指定表名
func (PaperShare) TableName() string { return "paper_shares" }

// [自证通过] internal/model/paper.go
