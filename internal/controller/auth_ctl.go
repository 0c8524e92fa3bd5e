package controller

import (
	"errors"
	"time"

	"github.com/urfave/cli/v2"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/service"
	"nhv_landlord_client/pkg/utils"
)

// AuthController 登录、注册、退出
type AuthController struct {
	authService *service.AuthService
	console     *Console
}

func NewAuthController(s *service.AuthService, console *Console) *AuthController {
	return &AuthController{authService: s, console: console}
}

// Register nhv register --name --location --phone [--email] --password --confirm
func (ctrl *AuthController) Register(c *cli.Context) error {
	form := &dto.RegistrationForm{
		Name:     c.String("name"),
		Location: c.String("location"),
		Phone:    c.String("phone"),
		Email:    c.String("email"),
		Password: c.String("password"),
		Confirm:  c.String("confirm"),
	}
	// 本地校验失败不发请求
	if err := service.ValidateRegistration(form); err != nil {
		return failWith(err, service.MsgRegisterFailed)
	}

	req := form.ToRequest()
	req.Phone = utils.StripSpaces(req.Phone)
	landlord, err := ctrl.authService.Register(c.Context, req)
	if err != nil {
		return failWith(err, service.MsgRegisterFailed)
	}

	ctrl.console.Success("Account created! Welcome to Nairobi Vacant Houses.")
	ctrl.console.Printf("Logged in as %s (%s)\n", landlord.Name, landlord.Phone)
	return nil
}

// Login nhv login --phone --password
func (ctrl *AuthController) Login(c *cli.Context) error {
	req := &dto.LoginRequest{
		Phone:    utils.StripSpaces(c.String("phone")),
		Password: c.String("password"),
	}
	if err := service.ValidateLogin(req); err != nil {
		return failWith(err, service.MsgLoginRequired)
	}

	landlord, err := ctrl.authService.Login(c.Context, req.Phone, req.Password)
	if err != nil {
		return failWith(err, service.MsgLoginFailed)
	}

	ctrl.console.Success("Welcome back!")
	ctrl.console.Printf("Logged in as %s (%s)\n", landlord.Name, landlord.Phone)
	return nil
}

// Logout nhv logout
func (ctrl *AuthController) Logout(c *cli.Context) error {
	ctrl.authService.Logout(c.Context)
	ctrl.console.Info("Logged out")
	return nil
}

// WhoAmI nhv whoami
func (ctrl *AuthController) WhoAmI(c *cli.Context) error {
	landlord := ctrl.authService.Current(c.Context)
	if landlord == nil {
		return errLoginFirst
	}

	ctrl.console.Printf("[%s] %s\n", landlord.Initial(), landlord.Name)
	ctrl.console.Printf("Phone:        %s\n", landlord.Phone)
	if landlord.Email != "" {
		ctrl.console.Printf("Email:        %s\n", landlord.Email)
	}
	ctrl.console.Printf("Location:     %s\n", landlord.Location)
	ctrl.console.Printf("Member since: %d\n", landlord.MemberSince())

	exp, err := ctrl.authService.TokenExpiry(c.Context)
	switch {
	case err == nil:
		ctrl.console.Printf("Session until: %s\n", exp.Local().Format(time.RFC1123))
	case errors.Is(err, service.ErrTokenUnreadable):
		// 非 JWT 凭证不展示过期时间
	default:
		return err
	}
	return nil
}
