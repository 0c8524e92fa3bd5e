package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"nhv_landlord_client/internal/api"
	"nhv_landlord_client/internal/config"
	"nhv_landlord_client/internal/controller"
	"nhv_landlord_client/internal/model"
	"nhv_landlord_client/internal/repository"
	"nhv_landlord_client/internal/router"
	"nhv_landlord_client/internal/service"
	"nhv_landlord_client/internal/task"
	"nhv_landlord_client/pkg/database"
	"nhv_landlord_client/pkg/logger"
	"nhv_landlord_client/pkg/net"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. 配置与日志
	cfg, err := config.Load(os.Getenv("NHV_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		return 1
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "日志初始化失败: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	// 2. 本地存储
	db, err := database.InitDB(cfg.Store.Path, cfg.API.Debug, &model.SessionRecord{}, &model.Favorite{})
	if err != nil {
		log.Error("[Main] 本地存储初始化失败", zap.Error(err))
		return 1
	}

	// 3. 依赖
	console := controller.NewConsole(os.Stdout, os.Stderr)
	deps := initDependencies(cfg, log, db, console)
	defer deps.Tasks.Stop()

	// 4. 恢复会话
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	deps.Services.Auth.Bootstrap(ctx)

	// 5. 执行命令
	app := router.NewApp(deps.Controllers)
	if err := app.RunContext(ctx, os.Args); err != nil {
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	API         *api.Client
	Services    *Services
	Tasks       *task.TaskManager
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Session  repository.SessionRepository
	Favorite repository.FavoriteRepository
}

// Services 服务集合
type Services struct {
	Auth     *service.AuthService
	Listing  *service.ListingService
	Landlord *service.LandlordService
	Favorite *service.FavoriteService
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, log *zap.Logger, db *gorm.DB, console *controller.Console) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Session:  repository.NewSessionRepository(db),
		Favorite: repository.NewFavoriteRepository(db),
	}

	// -------- 传输层 --------
	transport := net.NewClient(net.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Debug:   cfg.API.Debug,
	}, repos.Session, log)
	client := api.NewClient(transport)

	// -------- 业务服务 --------
	services := &Services{}
	services.Auth = service.NewAuthService(client, repos.Session, log)
	services.Listing = service.NewListingService(client, log)
	services.Landlord = service.NewLandlordService(client, services.Auth, log)
	services.Favorite = service.NewFavoriteService(repos.Favorite, client, log)

	// -------- 后台任务 --------
	tasks := task.NewTaskManager(&task.TaskManagerDeps{
		PaymentAPI: client,
		Dashboard:  services.Landlord,
		Logger:     log,
	}, &task.TaskManagerConfig{
		PollInterval:     cfg.Poll.Interval,
		PollMaxAttempts:  cfg.Poll.MaxAttempts,
		DashboardEnabled: true,
		DashboardSpec:    cfg.Dashboard.RefreshSpec,
	})

	newWizard := func(actor *model.Landlord) *service.ListingWizard {
		return service.NewListingWizard(service.WizardDeps{
			API:      client,
			Watcher:  tasks.PaymentPoller(),
			Notifier: console,
			Logger:   log,
		}, actor)
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:     controller.NewAuthController(services.Auth, console),
		Listing:  controller.NewListingController(services.Listing, services.Favorite, console),
		Favorite: controller.NewFavoriteController(services.Favorite, console),
		Post:     controller.NewPostController(services.Auth, services.Landlord, newWizard, console),
		Landlord: controller.NewLandlordController(services.Landlord, tasks, console),
		Profile:  controller.NewProfileController(services.Auth, console),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		API:         client,
		Services:    services,
		Tasks:       tasks,
		Controllers: controllers,
	}
}
