package server

import (
	"context"
	"fmt"
	"os/signal"
	"sync/atomic"
	"syscall"

	"sndeals/logging"
)

// IServer 业务应用实现的生命周期步骤，由 Engine 按固定顺序调用
type IServer interface {
	Name() string

	// LoadConfig 解析配置文件与环境变量
	LoadConfig() error

	// SetupDependencies 打开数据库、执行迁移、组装服务与路由
	SetupDependencies(ctx context.Context) error

	// StartBackgroundTasks 启动事件传输等非阻塞任务
	StartBackgroundTasks(ctx context.Context) error

	// Run 阻塞运行主服务，ctx 取消时应返回
	Run(ctx context.Context) error

	// Shutdown 释放资源
	Shutdown(ctx context.Context) error
}

// Engine 启动流程：LoadConfig -> Setup -> Background -> Run -> 等待信号 -> Shutdown
type Engine struct {
	server  IServer
	options *Options
	state   atomic.Int32
	logger  logging.Logger
}

// NewEngine 创建一个启动引擎
func NewEngine(server IServer, opts ...Option) *Engine {
	options := DefaultOptions()
	if name := server.Name(); name != "" {
		options.Name = name
	}
	for _, o := range opts {
		o(options)
	}
	e := &Engine{
		server:  server,
		options: options,
		logger:  logging.ComponentLogger("server").WithFields(logging.String("app", options.Name)),
	}
	e.setState(StatePending)
	return e
}

// State 获取当前引擎状态
func (e *Engine) State() State { return State(e.state.Load()) }

func (e *Engine) setState(s State) { e.state.Store(int32(s)) }

// Start 运行完整生命周期；parent 取消或收到 SIGINT/SIGTERM 时开始优雅关闭
func (e *Engine) Start(parent context.Context) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	e.logger.Info(ctx, "starting application", logging.String("version", e.options.Version))

	e.setState(StateInitializing)
	if err := e.server.LoadConfig(); err != nil {
		e.setState(StateError)
		return fmt.Errorf("failed to load config: %w", err)
	}

	setupCtx, setupCancel := context.WithTimeout(ctx, e.options.StartupTimeout)
	defer setupCancel()
	if err := e.server.SetupDependencies(setupCtx); err != nil {
		e.setState(StateError)
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	e.setState(StatePrepared)

	for _, hook := range e.options.OnBeforeStart {
		if err := hook(ctx); err != nil {
			e.setState(StateError)
			return fmt.Errorf("OnBeforeStart hook failed: %w", err)
		}
	}

	if err := e.server.StartBackgroundTasks(ctx); err != nil {
		e.setState(StateError)
		return fmt.Errorf("failed to start background tasks: %w", err)
	}

	e.setState(StateRunning)
	errChan := make(chan error, 1)
	go func() { errChan <- e.server.Run(ctx) }()

	var runErr error
	select {
	case runErr = <-errChan:
		if runErr != nil {
			e.logger.Error(ctx, "server stopped with error", logging.Error(runErr))
		}
	case <-ctx.Done():
		e.logger.Info(context.Background(), "shutdown requested")
	}
	cancel()

	e.setState(StateStopping)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), e.options.ShutdownTimeout)
	defer shutdownCancel()

	if err := e.server.Shutdown(shutdownCtx); err != nil {
		e.setState(StateError)
		return fmt.Errorf("shutdown: %w", err)
	}
	for _, hook := range e.options.OnAfterStop {
		if err := hook(shutdownCtx); err != nil {
			e.logger.Warn(shutdownCtx, "OnAfterStop hook failed", logging.Error(err))
		}
	}

	if runErr != nil {
		e.setState(StateError)
		return fmt.Errorf("server execution error: %w", runErr)
	}
	e.setState(StateStopped)
	e.logger.Info(shutdownCtx, "shutdown complete")
	return nil
}
