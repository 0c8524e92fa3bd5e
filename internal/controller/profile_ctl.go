package controller

import (
	"errors"

	"github.com/urfave/cli/v2"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/service"
)

// ProfileController 房东资料
type ProfileController struct {
	authService *service.AuthService
	console     *Console
}

func NewProfileController(s *service.AuthService, console *Console) *ProfileController {
	return &ProfileController{authService: s, console: console}
}

// Show nhv profile show
func (ctrl *ProfileController) Show(c *cli.Context) error {
	if ctrl.authService.Current(c.Context) == nil {
		return errLoginFirst
	}
	landlord, err := ctrl.authService.RefreshProfile(c.Context)
	if err != nil {
		if ctrl.authService.Current(c.Context) == nil {
			return errLoginFirst
		}
		// 离线时展示本地缓存
		landlord = ctrl.authService.Current(c.Context)
	}

	ctrl.console.Printf("Name:     %s\n", landlord.Name)
	ctrl.console.Printf("Phone:    %s (cannot be changed)\n", landlord.Phone)
	ctrl.console.Printf("Email:    %s\n", landlord.Email)
	ctrl.console.Printf("Location: %s\n", landlord.Location)
	ctrl.console.Printf("Listings: %d · Rating: %.1f\n", landlord.TotalListings, landlord.Rating.Float64())
	return nil
}

// Update nhv profile update [--name] [--location] [--email]
// 未传的字段保留当前值
func (ctrl *ProfileController) Update(c *cli.Context) error {
	current := ctrl.authService.Current(c.Context)
	if current == nil {
		return errLoginFirst
	}

	req := &dto.UpdateProfileRequest{
		Name:     current.Name,
		Location: current.Location,
		Email:    current.Email,
	}
	if c.IsSet("name") {
		req.Name = c.String("name")
	}
	if c.IsSet("location") {
		req.Location = c.String("location")
	}
	if c.IsSet("email") {
		req.Email = c.String("email")
	}

	if _, err := ctrl.authService.UpdateProfile(c.Context, req); err != nil {
		if errors.Is(err, service.ErrNotLoggedIn) {
			return errLoginFirst
		}
		if service.IsValidation(err) {
			return failWith(err, service.MsgProfileFailed)
		}
		return fail(service.MsgProfileFailed)
	}
	ctrl.console.Success(service.MsgProfileUpdated)
	return nil
}
