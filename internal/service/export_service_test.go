package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sanket17v/teacher-question-paper-builder/internal/model"
	"github.com/sanket17v/teacher-question-paper-builder/internal/repository"
)

func setupTestExportService() (ExportService, *mockPaperRepo) {
	paperRepo := newMockPaperRepo()
	repo := &repository.Repository{
		User:  newMockUserRepo(),
		Paper: paperRepo,
	}
	return NewExportService(repo, zap.NewNop()), paperRepo
}

func TestExportPaper_Success(t *testing.T) {
	svc, paperRepo := setupTestExportService()
	createTestPaper(paperRepo, "paper-1", "owner-1", "Database Management Systems")

	buf, filename, err := svc.ExportPaper(context.Background(), "paper-1")
	if err != nil {
		t.Fatalf("ExportPaper 应成功: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("导出内容不应为空")
	}
	if filename != "Database Management Systems.xlsx" {
		t.Errorf("期望文件名取自试卷标题，实际=%s", filename)
	}

	// 导出内容应为可打开的工作簿，且包含标题与题目
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}

	foundTitle, foundQuestion := false, false
	for _, row := range rows {
		for _, cell := range row {
			if cell == "Database Management Systems" {
				foundTitle = true
			}
			if cell == "What is normalization?" {
				foundQuestion = true
			}
		}
	}
	if !foundTitle {
		t.Error("工作表应包含试卷标题")
	}
	if !foundQuestion {
		t.Error("工作表应包含题目文本")
	}
}

func TestExportPaper_NotFound(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportPaper(context.Background(), "nonexistent")
	if !errors.Is(err, ErrPaperNotFound) {
		t.Errorf("期望 ErrPaperNotFound，实际: %v", err)
	}
}

func TestExportFilename_Sanitized(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"DBMS", "DBMS.xlsx"},
		{"OS / Unit 1: Intro?", "OS _ Unit 1_ Intro_.xlsx"},
		{"   ", "paper.xlsx"},
		{"a<b>c|d", "a_b_c_d.xlsx"},
	}

	for _, tt := range tests {
		got := exportFilename(&model.Paper{Title: tt.title})
		if got != tt.want {
			t.Errorf("标题 %q 期望文件名 %q，实际 %q", tt.title, tt.want, got)
		}
	}
}
