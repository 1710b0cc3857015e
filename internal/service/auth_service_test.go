package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanket17v/teacher-question-paper-builder/config"
	"github.com/sanket17v/teacher-question-paper-builder/internal/dto"
	"github.com/sanket17v/teacher-question-paper-builder/internal/model"
	"github.com/sanket17v/teacher-question-paper-builder/internal/repository"
	"github.com/sanket17v/teacher-question-paper-builder/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *mockUserRepo) {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "test-secret-key-for-unit-testing-2026",
			TokenTTL:  720 * time.Hour,
		},
	}

	userRepo := newMockUserRepo()
	repo := &repository.Repository{
		User:  userRepo,
		Paper: newMockPaperRepo(),
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	logger := zap.NewNop()

	return NewAuthService(repo, jwtMgr, nil, logger), userRepo
}

func createTestUser(userRepo *mockUserRepo, email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "user-" + email,
		Name:         "测试教师",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "Faculty",
		Profile: model.Profile{
			Department:  "Computer Engineering",
			Designation: "Assistant Professor",
			Experience:  5,
		},
	}
	userRepo.users[user.UserID] = user
	userRepo.users["email:"+email] = user
	return user
}

// ── 注册测试 ──

func TestRegister_Success(t *testing.T) {
	svc, _ := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新教师",
		Email:    "teacher@test.com",
		Password: "password123",
	})

	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.Name != "新教师" {
		t.Errorf("期望 Name=新教师，实际=%s", result.Name)
	}
	if result.Email != "teacher@test.com" {
		t.Errorf("期望 Email=teacher@test.com，实际=%s", result.Email)
	}
	if result.Role != "Faculty" {
		t.Errorf("未指定角色时期望默认 Faculty，实际=%s", result.Role)
	}
	if result.Token == "" {
		t.Error("Token 不应为空")
	}
}

func TestRegister_EmailNormalized(t *testing.T) {
	svc, userRepo := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "新教师",
		Email:    "  Teacher@Test.COM  ",
		Password: "password123",
	})

	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.Email != "teacher@test.com" {
		t.Errorf("邮箱应转小写并去空白，实际=%s", result.Email)
	}
	if _, ok := userRepo.users["email:teacher@test.com"]; !ok {
		t.Error("存储的邮箱应为规范化形式")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "dup@test.com", "password123")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "重复用户",
		Email:    "dup@test.com",
		Password: "password123",
	})

	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestRegister_DuplicateEmail_CaseInsensitive(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "dup@test.com", "password123")

	// 大小写变体与空白包裹视为同一邮箱
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "重复用户",
		Email:    " DUP@Test.Com ",
		Password: "password123",
	})

	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("大小写变体期望 ErrEmailExists，实际: %v", err)
	}
}

func TestRegister_ExplicitRole(t *testing.T) {
	svc, _ := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "主任",
		Email:    "hod@test.com",
		Password: "password123",
		Role:     "HOD",
	})

	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.Role != "HOD" {
		t.Errorf("期望保留显式指定的角色 HOD，实际=%s", result.Role)
	}
}

// ── 登录测试 ──

func TestLogin_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "teacher@test.com", "password123")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "teacher@test.com",
		Password: "password123",
	})

	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.Token == "" {
		t.Error("Token 不应为空")
	}
	if result.Profile == nil || result.Profile.Department != "Computer Engineering" {
		t.Error("登录响应应携带完整档案")
	}
}

func TestLogin_MixedCaseEmail(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "teacher@test.com", "password123")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "TEACHER@test.com",
		Password: "password123",
	})

	if err != nil {
		t.Fatalf("大小写变体邮箱应能登录: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	createTestUser(userRepo, "teacher@test.com", "password123")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "teacher@test.com",
		Password: "wrong_password",
	})

	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@test.com",
		Password: "password123",
	})

	// 用户不存在与密码错误同错误，避免枚举邮箱
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── 修改密码测试 ──

func TestUpdatePassword_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "teacher@test.com", "password123")

	err := svc.UpdatePassword(context.Background(), user.UserID, &dto.UpdatePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpass456",
	})

	if err != nil {
		t.Fatalf("UpdatePassword 应成功: %v", err)
	}

	// 新密码应能登录
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "teacher@test.com",
		Password: "newpass456",
	}); err != nil {
		t.Fatalf("修改密码后应能用新密码登录: %v", err)
	}

	// 旧密码不再可用
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "teacher@test.com",
		Password: "password123",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码登录期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestUpdatePassword_WrongOldPassword(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "teacher@test.com", "password123")

	err := svc.UpdatePassword(context.Background(), user.UserID, &dto.UpdatePasswordRequest{
		OldPassword: "wrong_old",
		NewPassword: "newpass456",
	})

	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}
}

func TestUpdatePassword_UserNotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	err := svc.UpdatePassword(context.Background(), "nonexistent", &dto.UpdatePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpass456",
	})

	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── 更新档案测试 ──

func TestUpdateProfile_PartialMerge(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "teacher@test.com", "password123")

	bio := "更新后的简介"
	result, err := svc.UpdateProfile(context.Background(), user.UserID, &dto.UpdateProfileRequest{
		Profile: &dto.ProfileUpdate{
			Bio: &bio,
		},
	})

	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}
	if result.Profile.Bio != "更新后的简介" {
		t.Errorf("期望 Bio 已更新，实际=%s", result.Profile.Bio)
	}
	// 未提供的字段保留原值
	if result.Profile.Department != "Computer Engineering" {
		t.Errorf("未提供的 Department 应保留原值，实际=%s", result.Profile.Department)
	}
	if result.Profile.Experience != 5 {
		t.Errorf("未提供的 Experience 应保留原值，实际=%d", result.Profile.Experience)
	}
}

func TestUpdateProfile_TopLevelFields(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "teacher@test.com", "password123")

	result, err := svc.UpdateProfile(context.Background(), user.UserID, &dto.UpdateProfileRequest{
		Name:  "改名教师",
		Phone: "13800000000",
	})

	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}
	if result.Name != "改名教师" {
		t.Errorf("期望 Name=改名教师，实际=%s", result.Name)
	}
	if result.Phone != "13800000000" {
		t.Errorf("期望 Phone 已更新，实际=%s", result.Phone)
	}
	if result.Token == "" {
		t.Error("更新档案应返回新签发的 Token")
	}
}

func TestUpdateProfile_EmptyNameKeepsOld(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	user := createTestUser(userRepo, "teacher@test.com", "password123")

	result, err := svc.UpdateProfile(context.Background(), user.UserID, &dto.UpdateProfileRequest{
		Phone: "13800000000",
	})

	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}
	if result.Name != "测试教师" {
		t.Errorf("Name 空串视为未提供，应保留原值，实际=%s", result.Name)
	}
}

func TestUpdateProfile_UserNotFound(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.UpdateProfile(context.Background(), "nonexistent", &dto.UpdateProfileRequest{
		Name: "x",
	})

	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── 登出测试 ──

func TestLogout_NoRedis(t *testing.T) {
	svc, _ := setupTestAuthService()

	// Redis 未配置时登出降级为 no-op
	err := svc.Logout(context.Background(), "some-jti", time.Now().Add(time.Hour))
	if err != nil {
		t.Errorf("Redis 未配置时 Logout 应成功: %v", err)
	}
}
