package server

import (
	"context"
	ers "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sndeals/config"
	"sndeals/data/db/basic"
	ormbasic "sndeals/data/orm/basic"
	"sndeals/logging"
	"sndeals/messaging"
)

// App sndeals HTTP 服务，实现 IServer
type App struct {
	configPath string

	cfg       *config.Config
	db        *basic.DB
	transport messaging.Transport
	services  *Services
	router    *gin.Engine
	http      *http.Server
	logger    logging.Logger
}

// NewApp configPath 为空时只使用默认值与环境变量
func NewApp(configPath string) *App {
	return &App{configPath: configPath, logger: logging.ComponentLogger("app")}
}

// NewAppWithConfig 使用已加载的配置，LoadConfig 不再读取文件
func NewAppWithConfig(cfg *config.Config) *App {
	a := NewApp("")
	a.cfg = cfg
	return a
}

func (a *App) Name() string { return "sndeals" }

func (a *App) LoadConfig() error {
	if a.cfg != nil {
		return a.cfg.Validate()
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *App) SetupDependencies(ctx context.Context) error {
	logging.SetLogger(logging.NewStdLoggerWithLevel("[sndeals] ", logging.ParseLevel(a.cfg.Log.Level), nil))
	a.logger = logging.ComponentLogger("app")

	db, err := OpenDatabase(a.cfg.Database, a.cfg.Database.Migrate)
	if err != nil {
		return err
	}
	a.db = db

	var publisher messaging.IPublisher = messaging.NopPublisher{}
	if a.transport, err = NewTransport(a.cfg.Events); err != nil {
		return err
	}
	if a.transport != nil {
		publisher = a.transport
	}
	a.services = NewServices(ormbasic.New(db), publisher)

	router, err := NewRouter(a.cfg.Server.Mode, a.cfg.Pagination, a.services, db.Ping)
	if err != nil {
		return err
	}
	a.router = router
	a.http = &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}
	return nil
}

func (a *App) StartBackgroundTasks(ctx context.Context) error {
	if a.transport == nil {
		return nil
	}
	if err := a.transport.Start(ctx); err != nil {
		return fmt.Errorf("start event transport %s: %w", a.cfg.Events.Transport, err)
	}
	return nil
}

// Run 阻塞监听，ctx 取消后由 Shutdown 关闭监听
func (a *App) Run(ctx context.Context) error {
	a.logger.Info(ctx, "http server listening", logging.String("addr", a.http.Addr))
	if err := a.http.ListenAndServe(); err != nil && !ers.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.http != nil {
		errs = append(errs, a.http.Shutdown(ctx))
	}
	if a.transport != nil {
		errs = append(errs, a.transport.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return ers.Join(errs...)
}

// Handler 组装完成的路由，测试中直接用于 httptest
func (a *App) Handler() http.Handler { return a.router }

// Services 组装完成的服务
func (a *App) Services() *Services { return a.services }
