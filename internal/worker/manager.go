package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"
	"gorm.io/gorm"

	"tsp/supwatch/internal/business"
	"tsp/supwatch/internal/domains"
	"tsp/supwatch/internal/domains/common"
	"tsp/supwatch/internal/domains/repo/rpmetric"
	"tsp/supwatch/internal/domains/repo/rpproblem"
	"tsp/supwatch/internal/domains/services/svproblem"
	"tsp/supwatch/internal/framework"
	"tsp/supwatch/pkg/config"
	"tsp/supwatch/pkg/infra/mysql"
	"tsp/supwatch/pkg/infra/redis"
	"tsp/supwatch/pkg/lmstfy"
	"tsp/supwatch/pkg/logger"
)

// Manager 接口
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance Manager 实例
type ManagerInstance struct {
	ctx          context.Context
	cfg          *config.Config
	lmstfyClient *lmstfy.Client
	db           *gorm.DB
	pubsub       *redis.PubSub
	deps         *common.Deps
	workers      []Worker
	closing      *atomic.Bool
	shutdownCh   chan struct{}
	wg           sync.WaitGroup
	logger       logger.Logger
}

// NewManagerInstance 创建 Manager
// 初始化基础设施（lmstfy/MySQL/Redis）与业务依赖后组装 Worker
func NewManagerInstance(cfg *config.Config, log logger.Logger) (Manager, error) {
	ctx := context.Background()

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create lmstfy client: %w", err)
	}

	db, err := mysql.Open(cfg.MySQL.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	pubsub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis pubsub: %w", err)
	}

	var callbackQueue string
	if len(cfg.Workers) > 0 {
		callbackQueue = cfg.Workers[0].CallbackQueue
	}
	if callbackQueue == "" {
		return nil, fmt.Errorf("callback_queue is required in worker config")
	}

	// 组装业务依赖
	metricRepo := rpmetric.NewMetricRepository(db)
	problemRepo := rpproblem.NewProblemRepository(db)

	deps := &common.Deps{
		DetectService:     business.NewDetectService(business.DefaultDetectors(metricRepo, problemRepo), log),
		ProblemService:    svproblem.NewProblemService(problemRepo, log),
		DefaultThresholds: business.Thresholds(cfg.Supervision.Thresholds),
		Callback:          lmstfyClient,
		CallbackQueue:     callbackQueue,
		Notifier:          pubsub,
		DetectionChannel:  cfg.Supervision.DetectionChannel,
		Logger:            log,
	}

	log.Infof(ctx, "[Manager] Initialized with callback_queue: %s", callbackQueue)

	return &ManagerInstance{
		ctx:          ctx,
		cfg:          cfg,
		lmstfyClient: lmstfyClient,
		db:           db,
		pubsub:       pubsub,
		deps:         deps,
		closing:      atomic.NewBool(false),
		shutdownCh:   make(chan struct{}),
		workers:      make([]Worker, 0),
		logger:       log,
	}, nil
}

// Start 启动 Manager
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	// 1. 加载所有 Worker
	if err := m.loadWorkers(); err != nil {
		return fmt.Errorf("failed to load workers: %w", err)
	}

	m.logger.Infof(m.ctx, "[Manager] All workers loaded, count: %d", len(m.workers))

	// 2. 启动所有 Worker（每个 Worker 在独立 goroutine）
	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	m.logger.Infof(m.ctx, "[Manager] Start success")

	// 3. 阻塞等待退出信号
	<-m.shutdownCh

	return nil
}

// Shutdown 优雅退出
func (m *ManagerInstance) Shutdown() {
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	if m.closing.CAS(false, true) {
		// 1. 所有 Worker 安全退出
		for _, worker := range m.workers {
			m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
			worker.Shutdown()
		}

		// 2. 等待所有 Worker 退出
		m.wg.Wait()

		// 3. 释放基础设施连接
		if err := m.pubsub.Close(); err != nil {
			m.logger.Warnf(m.ctx, "[Manager] close redis failed: %v", err)
		}
		if err := mysql.Close(m.db); err != nil {
			m.logger.Warnf(m.ctx, "[Manager] close mysql failed: %v", err)
		}

		close(m.shutdownCh)

		m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
	}
}

// loadWorkers 加载所有 Worker
func (m *ManagerInstance) loadWorkers() error {
	for _, workerCfg := range m.cfg.Workers {
		subCfg := &framework.SubscriberConfig{
			QueueName:    workerCfg.QueueName,
			Concurrency:  workerCfg.Subscriber.Threads,
			Rate:         workerCfg.Subscriber.Rate,
			Timeout:      workerCfg.Subscriber.Timeout,
			TTR:          workerCfg.Subscriber.TTR,
			ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
		}

		procCfg := &framework.ProcessorConfig{
			Concurrency: workerCfg.Processor.Threads,
			BufferSize:  workerCfg.Processor.BufferSize,
			Timeout:     workerCfg.Processor.Timeout,
		}

		getProcess := domains.GetProcess(m.logger, m.deps)

		worker, err := NewWorkerInstance(
			m.ctx,
			workerCfg.Name,
			subCfg,
			procCfg,
			m.lmstfyClient, // MessageSource
			getProcess,
			m.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create worker %s: %w", workerCfg.Name, err)
		}

		m.workers = append(m.workers, worker)
	}

	return nil
}
