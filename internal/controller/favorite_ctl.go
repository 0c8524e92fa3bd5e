package controller

import (
	"github.com/urfave/cli/v2"

	"nhv_landlord_client/internal/service"
)

// FavoriteController 本地收藏
type FavoriteController struct {
	favoriteService *service.FavoriteService
	console         *Console
}

func NewFavoriteController(s *service.FavoriteService, console *Console) *FavoriteController {
	return &FavoriteController{favoriteService: s, console: console}
}

// Toggle nhv favorite toggle <id>
func (ctrl *FavoriteController) Toggle(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	on, err := ctrl.favoriteService.Toggle(c.Context, id)
	if err != nil {
		return err
	}
	if on {
		ctrl.console.Success(service.MsgFavoriteAdded)
	} else {
		ctrl.console.Info(service.MsgFavoriteRemoved)
	}
	return nil
}

// Add nhv favorite add <id>
func (ctrl *FavoriteController) Add(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := ctrl.favoriteService.Add(c.Context, id); err != nil {
		return err
	}
	ctrl.console.Success(service.MsgFavoriteAdded)
	return nil
}

// Remove nhv favorite remove <id>
func (ctrl *FavoriteController) Remove(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := ctrl.favoriteService.Remove(c.Context, id); err != nil {
		return err
	}
	ctrl.console.Info(service.MsgFavoriteRemoved)
	return nil
}

// List nhv favorite list
func (ctrl *FavoriteController) List(c *cli.Context) error {
	listings, err := ctrl.favoriteService.Listings(c.Context)
	if err != nil {
		return failWith(err, service.MsgLoadListingsFailed)
	}
	if len(listings) == 0 {
		ctrl.console.Println("No favorites yet")
		return nil
	}
	ctrl.console.Table(listingHeader, listingRows(listings))
	return nil
}
