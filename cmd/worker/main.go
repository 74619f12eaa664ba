// Package main - точка входа для фонового процесса (Worker) StudyPulse.
//
// Worker отвечает за периодические задачи:
// - Ежедневный пересчёт учебной нагрузки студентов
// - Предсказание риска выгорания по всем активным студентам
// - Обновление персональных базовых порогов нагрузки
//
// Философия: система вмешивается до перегрузки, а не после.
// Worker держит журнал предсказаний свежим, чтобы фильтр допуска
// задач всегда опирался на актуальную картину.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/studypulse/config"
	"github.com/studypulse/studypulse/internal/application/command"
	"github.com/studypulse/studypulse/internal/application/query"
	"github.com/studypulse/studypulse/internal/domain/burnout"
	domainsignal "github.com/studypulse/studypulse/internal/domain/signal"
	"github.com/studypulse/studypulse/internal/domain/workload"
	"github.com/studypulse/studypulse/internal/infrastructure/messaging"
	"github.com/studypulse/studypulse/internal/infrastructure/persistence/postgres"
	"github.com/studypulse/studypulse/internal/infrastructure/persistence/redis"
	"github.com/studypulse/studypulse/internal/infrastructure/scheduler"
	"github.com/studypulse/studypulse/internal/infrastructure/scheduler/jobs"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting StudyPulse worker",
		slog.String("env", string(cfg.App.Environment)),
		slog.Bool("debug", cfg.App.Debug),
		slog.String("timezone", cfg.App.Timezone),
		slog.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var analysisCache *redis.AnalysisCache
	var batchLock *redis.BatchLock

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, degrading to uncached mode",
				slog.String("error", err.Error()))
		} else {
			defer redisCache.Close()
			analysisCache = redis.NewAnalysisCache(redisCache, cfg.Redis.AnalysisTTL)
			batchLock = redis.NewBatchLock(redisCache, uuid.NewString(), redis.DefaultLockTTL)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	studentRepo := postgres.NewStudentRepository(dbConn)
	taskRepo := postgres.NewTaskRepository(dbConn)
	eventRepo := postgres.NewEventRepository(dbConn)
	gradeRepo := postgres.NewGradeRepository(dbConn)
	workloadRepo := postgres.NewWorkloadRepository(dbConn)
	signalRepo := postgres.NewSignalRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	eventBus := messaging.NewInMemoryEventBus(log)
	eventBus.Subscribe(messaging.NewRiskAlertHandler(signalRepo, log))

	// ─────────────────────────────────────────────────────────────────────────
	// 8. СБОРКА ДОМЕННОГО ЯДРА
	// ─────────────────────────────────────────────────────────────────────────
	thresholds := cfg.Thresholds.BurnoutConfig()
	weights := workload.DefaultWeights()

	scorer := workload.NewScorer(taskRepo, eventRepo, workloadRepo, weights, log)

	collision := burnout.NewCollisionDetector(taskRepo, eventRepo, thresholds, log)
	volatility := burnout.NewVolatilityDetector(workloadRepo, thresholds, log)
	recovery := burnout.NewRecoveryGapDetector(workloadRepo, thresholds, log)
	drift := burnout.NewPerformanceDriftDetector(gradeRepo, workloadRepo, thresholds, log)
	gradeAnalyzer := burnout.NewGradeAnalyzer(gradeRepo, thresholds, log)

	aggregator := burnout.NewAggregator(
		collision, volatility, recovery, drift, gradeAnalyzer,
		studentRepo, signalRepo, eventBus, thresholds, log,
	)
	admissionPolicy := burnout.NewAdmissionPolicy(aggregator, thresholds, log)
	baselineUpdater := burnout.NewBaselineUpdater(workloadRepo, studentRepo, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. СБОРКА ОБРАБОТЧИКОВ КОМАНД И ЗАПРОСОВ
	// ─────────────────────────────────────────────────────────────────────────
	computeWorkload := command.NewComputeWorkloadHandler(scorer, eventBus, log)
	predictBurnout := command.NewPredictBurnoutHandler(aggregator, log)
	refreshBaseline := command.NewRefreshBaselineHandler(baselineUpdater, eventBus, log)
	admitTask := command.NewAdmitTaskHandler(admissionPolicy, taskRepo, weights, computeWorkload, eventBus, log)
	completeTask := command.NewCompleteTaskHandler(taskRepo, computeWorkload, eventBus, log)
	deleteTask := command.NewDeleteTaskHandler(taskRepo, computeWorkload, eventBus, log)
	recordGrade := command.NewRecordGradeHandler(gradeRepo, eventBus, log)

	var signalCache domainsignal.Cache
	if analysisCache != nil {
		signalCache = analysisCache
	}
	latestSignal := query.NewGetLatestSignalHandler(signalRepo, signalCache, log)
	signalHistory := query.NewGetSignalHistoryHandler(signalRepo, log)
	workloadData := query.NewGetWorkloadDataHandler(workloadRepo, log)

	// Обработчики команд и запросов ниже подключаются транспортным слоем
	// (HTTP, CLI); worker использует только пакетные команды.
	_ = admitTask
	_ = completeTask
	_ = deleteTask
	_ = recordGrade
	_ = latestSignal
	_ = signalHistory
	_ = workloadData

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ПЛАНИРОВЩИК ФОНОВЫХ ЗАДАЧ
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
		Logger:   log,
		Timezone: cfg.App.Location,
	})

	if cfg.Scheduler.Enabled {
		analysisSchedule, err := scheduler.ParseDailySchedule(cfg.Scheduler.AnalysisTime)
		if err != nil {
			return fmt.Errorf("invalid analysis time: %w", err)
		}

		var locker jobs.StudentLocker
		if batchLock != nil {
			locker = batchLock
		}

		dailyAnalysis := jobs.NewDailyAnalysisJob(
			studentRepo, computeWorkload, refreshBaseline, predictBurnout,
			locker, log,
			jobs.DailyAnalysisConfig{
				Concurrency:  cfg.Scheduler.MaxConcurrentStudents,
				WorkloadDays: cfg.Scheduler.WorkloadDays,
				Timeout:      cfg.Scheduler.JobTimeout,
			},
		)
		if err := sched.Register(dailyAnalysis, analysisSchedule); err != nil {
			return fmt.Errorf("failed to register daily analysis job: %w", err)
		}

		refreshBaselines := jobs.NewRefreshBaselinesJob(studentRepo, refreshBaseline, locker, log)
		baselineSchedule := scheduler.NewIntervalSchedule(cfg.Scheduler.BaselineInterval)
		if err := sched.Register(refreshBaselines, baselineSchedule); err != nil {
			return fmt.Errorf("failed to register baseline refresh job: %w", err)
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		log.Info("scheduler started",
			slog.String("analysis_time", cfg.Scheduler.AnalysisTime),
			slog.String("baseline_interval", cfg.Scheduler.BaselineInterval.String()),
		)
	} else {
		log.Warn("scheduler disabled, worker will idle")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("StudyPulse worker is running", slog.String("timezone", cfg.App.Timezone))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", slog.String("signal", sig.String()))

	log.Info("starting graceful shutdown...",
		slog.String("timeout", cfg.App.ShutdownTimeout.String()))

	done := make(chan struct{})
	go func() {
		if cfg.Scheduler.Enabled {
			if err := sched.Stop(); err != nil {
				log.Error("scheduler stop failed", slog.String("error", err.Error()))
			}
		}
		close(done)
	}()

	select {
	case <-done:
		log.Info("shutdown completed successfully")
	case <-time.After(cfg.App.ShutdownTimeout):
		log.Warn("shutdown timed out, exiting anyway")
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsProduction() || cfg.Observability.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
