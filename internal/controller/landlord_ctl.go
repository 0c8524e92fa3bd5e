package controller

import (
	"errors"
	"strconv"

	"github.com/urfave/cli/v2"

	"nhv_landlord_client/internal/api/dto"
	"nhv_landlord_client/internal/service"
	"nhv_landlord_client/internal/task"
	"nhv_landlord_client/pkg/net"
)

// LandlordController 仪表盘与我的房源
type LandlordController struct {
	landlordService *service.LandlordService
	tasks           *task.TaskManager
	console         *Console
}

func NewLandlordController(s *service.LandlordService, tasks *task.TaskManager, console *Console) *LandlordController {
	return &LandlordController{landlordService: s, tasks: tasks, console: console}
}

func (ctrl *LandlordController) handle(err error, fallback string) error {
	// 401 时传输层已清除会话
	if errors.Is(err, service.ErrNotLoggedIn) || errors.Is(err, net.ErrUnauthorized) {
		return errLoginFirst
	}
	return failWith(err, fallback)
}

// Dashboard nhv dashboard [--watch]
func (ctrl *LandlordController) Dashboard(c *cli.Context) error {
	if !c.Bool("watch") {
		stats, err := ctrl.landlordService.Dashboard(c.Context)
		if err != nil {
			return ctrl.handle(err, service.MsgLoadListingsFailed)
		}
		ctrl.renderDashboard(stats)
		return nil
	}

	// 先确认已登录，避免定时任务反复报错
	if _, err := ctrl.landlordService.MyListings(c.Context); err != nil {
		return ctrl.handle(err, service.MsgLoadListingsFailed)
	}

	err := ctrl.tasks.WatchDashboard(func(stats *dto.DashboardStats, err error) {
		if err != nil {
			ctrl.console.Error(service.Message(err, service.MsgLoadListingsFailed))
			return
		}
		ctrl.renderDashboard(stats)
	})
	if err != nil {
		return err
	}
	defer ctrl.tasks.Stop()

	<-c.Context.Done()
	return nil
}

func (ctrl *LandlordController) renderDashboard(stats *dto.DashboardStats) {
	ctrl.console.Table(
		[]string{"TOTAL", "ACTIVE", "PENDING PAYMENT", "TOTAL VIEWS", "FEES PAID"},
		[][]string{{
			strconv.Itoa(stats.Total),
			strconv.Itoa(stats.Active),
			strconv.Itoa(stats.Pending),
			strconv.Itoa(stats.TotalViews),
			formatKES(int64(stats.Revenue)),
		}},
	)
	if len(stats.Recent) == 0 {
		ctrl.console.Println("\nNo listings yet. Post your first property with `post`.")
		return
	}
	ctrl.console.Println("\nRecent listings")
	ctrl.console.Table(listingHeader, listingRows(stats.Recent))
}

// MyListings nhv my-listings
func (ctrl *LandlordController) MyListings(c *cli.Context) error {
	listings, err := ctrl.landlordService.MyListings(c.Context)
	if err != nil {
		return ctrl.handle(err, service.MsgLoadListingsFailed)
	}
	if len(listings) == 0 {
		ctrl.console.Println("No listings yet")
		return nil
	}
	ctrl.console.Table(listingHeader, listingRows(listings))
	return nil
}

// Delete nhv my-listings delete <id>
func (ctrl *LandlordController) Delete(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := ctrl.landlordService.Delete(c.Context, id); err != nil {
		return ctrl.handle(err, service.MsgDeleteFailed)
	}
	ctrl.console.Success(service.MsgListingDeleted)
	return nil
}

// Activate nhv my-listings activate <id>
func (ctrl *LandlordController) Activate(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := ctrl.landlordService.Activate(c.Context, id); err != nil {
		return ctrl.handle(err, service.MsgActivateFailed)
	}
	ctrl.console.Success(service.MsgListingActivated)
	return nil
}
