package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/sanket17v/teacher-question-paper-builder/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id 或 "email:"+email
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	if user.Email != "" {
		m.users["email:"+user.Email] = user
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users["email:"+email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	if user.Email != "" {
		m.users["email:"+user.Email] = user
	}
	return nil
}

// ── Mock PaperRepository ──

type mockPaperRepo struct {
	papers    map[string]*model.Paper
	shares    []model.PaperShare
	idCounter int

	createErr error
	shareErr  error
}

func newMockPaperRepo() *mockPaperRepo {
	return &mockPaperRepo{papers: make(map[string]*model.Paper)}
}

func (m *mockPaperRepo) Create(_ context.Context, paper *model.Paper) error {
	if m.createErr != nil {
		return m.createErr
	}
	if paper.PaperID == "" {
		m.idCounter++
		paper.PaperID = fmt.Sprintf("paper-%d", m.idCounter)
	}
	if paper.CreatedAt.IsZero() {
		paper.CreatedAt = time.Now()
	}
	m.papers[paper.PaperID] = paper
	return nil
}

func (m *mockPaperRepo) GetByID(_ context.Context, id string) (*model.Paper, error) {
	p, ok := m.papers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	cp.SharedWith = m.sharesOf(id)
	return &cp, nil
}

func (m *mockPaperRepo) ListByOwner(_ context.Context, userID string) ([]model.Paper, error) {
	var result []model.Paper
	for _, p := range m.papers {
		if p.UserID == userID {
			cp := *p
			cp.SharedWith = m.sharesOf(p.PaperID)
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockPaperRepo) ListSharedWith(_ context.Context, email string) ([]model.Paper, error) {
	var matched []model.PaperShare
	for _, s := range m.shares {
		if s.Email == email {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SentAt.After(matched[j].SentAt)
	})

	var result []model.Paper
	for _, s := range matched {
		if p, ok := m.papers[s.PaperID]; ok {
			cp := *p
			cp.SharedWith = m.sharesOf(p.PaperID)
			result = append(result, cp)
		}
	}
	return result, nil
}

// AddShare 模拟 ON CONFLICT DO NOTHING：已存在时不更新、不刷新时间戳
func (m *mockPaperRepo) AddShare(_ context.Context, paperID, email string, sentAt time.Time) error {
	if m.shareErr != nil {
		return m.shareErr
	}
	for _, s := range m.shares {
		if s.PaperID == paperID && s.Email == email {
			return nil
		}
	}
	m.shares = append(m.shares, model.PaperShare{
		PaperID: paperID,
		Email:   email,
		SentAt:  sentAt,
	})
	return nil
}

func (m *mockPaperRepo) Delete(_ context.Context, id string) error {
	delete(m.papers, id)
	// 模拟外键级联清理台账
	var remaining []model.PaperShare
	for _, s := range m.shares {
		if s.PaperID != id {
			remaining = append(remaining, s)
		}
	}
	m.shares = remaining
	return nil
}

func (m *mockPaperRepo) sharesOf(paperID string) []model.PaperShare {
	var result []model.PaperShare
	for _, s := range m.shares {
		if s.PaperID == paperID {
			result = append(result, s)
		}
	}
	return result
}

// ── Mock Mailer ──

// mockMailer 驱动分享邮件的三种结果：sent / failed / skipped
type mockMailer struct {
	configured bool
	sendErr    error
	sentTo     []string
	lastBody   string
}

func (m *mockMailer) Configured() bool {
	return m.configured
}

func (m *mockMailer) Send(to, _, htmlBody string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentTo = append(m.sentTo, to)
	m.lastBody = htmlBody
	return nil
}

var errSMTPDown = errors.New("smtp: connection refused")
