package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/internal/repository"
)

// AuthAPI 认证相关的远程接口
type AuthAPI interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context) (*model.Landlord, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*model.Landlord, error)
}

// ==================== AuthService 会话 ====================

// AuthService 当前登录房东的唯一持有者
// 进程内只创建一个，由入口注入到各命令
type AuthService struct {
	api      AuthAPI
	sessions repository.SessionRepository
	logger   *zap.Logger

	mu      sync.Mutex
	current *model.Landlord
}

// NewAuthService 创建会话服务
func NewAuthService(api AuthAPI, sessions repository.SessionRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		api:      api,
		sessions: sessions,
		logger:   logger,
	}
}

// Login 手机号密码登录
// 失败时不修改已保存的会话，直接返回服务端错误
func (s *AuthService) Login(ctx context.Context, phone, password string) (*model.Landlord, error) {
	resp, err := s.api.Login(ctx, &dto.LoginRequest{Phone: phone, Password: password})
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, resp)
}

// Register 注册并登录
// 调用方负责先执行 ValidateRegistration
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.Landlord, error) {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, resp)
}

func (s *AuthService) establish(ctx context.Context, resp *dto.AuthResponse) (*model.Landlord, error) {
	if resp.Token == "" || resp.Landlord == nil {
		return nil, fmt.Errorf("%w: empty auth response", ErrSessionPersist)
	}
	if err := s.sessions.Save(ctx, resp.Token, resp.Landlord); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionPersist, err)
	}

	s.mu.Lock()
	s.current = resp.Landlord
	s.mu.Unlock()

	s.logger.Info("[Auth] 登录成功",
		zap.Int64("landlord_id", resp.Landlord.ID),
		zap.String("phone", resp.Landlord.Phone),
	)
	return copyLandlord(resp.Landlord), nil
}

// Logout 清除本地会话，幂等，不返回错误
func (s *AuthService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Error("[Auth] 清除本地会话失败", zap.Error(err))
		return
	}
	s.logger.Info("[Auth] 已退出登录")
}

// Bootstrap 启动时从本地存储恢复会话
// 凭证与房东信息必须同时存在，不检查过期 (由服务端 401 决定)
func (s *AuthService) Bootstrap(ctx context.Context) *model.Landlord {
	token, landlord, err := s.sessions.Load(ctx)
	if err != nil {
		s.logger.Warn("[Auth] 读取本地会话失败，按未登录处理", zap.Error(err))
		return nil
	}
	if token == "" || landlord == nil {
		return nil
	}

	s.mu.Lock()
	s.current = landlord
	s.mu.Unlock()
	return copyLandlord(landlord)
}

// Current 当前房东，未登录或凭证已被清除时为 nil
func (s *AuthService) Current(ctx context.Context) *model.Landlord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}

	// 传输层收到 401 会直接清空存储，这里同步内存状态
	token, err := s.sessions.Token(ctx)
	if err != nil {
		s.logger.Warn("[Auth] 读取凭证失败", zap.Error(err))
		return copyLandlord(s.current)
	}
	if token == "" {
		s.current = nil
		return nil
	}
	return copyLandlord(s.current)
}

// TokenExpiry 凭证过期时间 (不校验签名，仅用于展示)
func (s *AuthService) TokenExpiry(ctx context.Context) (time.Time, error) {
	token, err := s.sessions.Token(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if token == "" {
		return time.Time{}, ErrNotLoggedIn
	}
	return tokenExpiry(token)
}

func tokenExpiry(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrTokenUnreadable, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrTokenUnreadable
	}
	return exp.Time, nil
}

// ==================== 资料 ====================

// RefreshProfile 从服务端拉取最新资料并写回本地
func (s *AuthService) RefreshProfile(ctx context.Context) (*model.Landlord, error) {
	if s.Current(ctx) == nil {
		return nil, ErrNotLoggedIn
	}
	landlord, err := s.api.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, landlord)
}

// UpdateProfile 修改姓名、区域、邮箱，成功后刷新本地房东信息
func (s *AuthService) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*model.Landlord, error) {
	if s.Current(ctx) == nil {
		return nil, ErrNotLoggedIn
	}
	if err := ValidateProfile(req); err != nil {
		return nil, err
	}
	landlord, err := s.api.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, landlord)
}

func (s *AuthService) store(ctx context.Context, landlord *model.Landlord) (*model.Landlord, error) {
	if err := s.sessions.UpdateLandlord(ctx, landlord); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionPersist, err)
	}
	s.mu.Lock()
	s.current = landlord
	s.mu.Unlock()
	return copyLandlord(landlord), nil
}

func copyLandlord(l *model.Landlord) *model.Landlord {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}
