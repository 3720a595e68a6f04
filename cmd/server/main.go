package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-excavation/internal/api"
	"github.com/annel0/voxel-excavation/internal/config"
	"github.com/annel0/voxel-excavation/internal/eventbus"
	"github.com/annel0/voxel-excavation/internal/logging"
	"github.com/annel0/voxel-excavation/internal/observability"
	"github.com/annel0/voxel-excavation/internal/physics"
	"github.com/annel0/voxel-excavation/internal/world"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Инициализируем систему логирования
	if err := logging.Init("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.Close()
	defer logging.GetLoggerManager().CloseAll()

	logging.Info("⛏️  Запуск сервера раскопки воксельной структуры...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("❌ Ошибка чтения конфигурации: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{} // дефолты через геттеры
	}

	gridSize := cfg.Game.GetGridSize()
	voidRadius := cfg.Game.GetVoidRadius()
	anchorRadius := cfg.Game.GetAnchorRadius()

	restAddr := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	metricsAddr := fmt.Sprintf(":%d", cfg.Server.GetMetricsPort())

	logging.Info("📡 Конфигурация: grid=%d, void=%.2f, anchor=%.2f, REST=%s",
		gridSize, voidRadius, anchorRadius, restAddr)

	// === TELEMETRY ===
	ctx := context.Background()
	telemetryShutdown, err := observability.InitTelemetry(ctx, "voxel-excavation")
	if err != nil {
		logging.Warn("OpenTelemetry недоступен, трассировка отключена: %v", err)
		telemetryShutdown = func(context.Context) error { return nil }
	}

	// === ШИНА СОБЫТИЙ ===
	var bus eventbus.EventBus
	if cfg.EventBus.URL != "" {
		retention := time.Duration(cfg.EventBus.Retention) * time.Hour
		jsBus, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream, retention)
		if err != nil {
			log.Fatalf("❌ Ошибка подключения к NATS: %v", err)
		}
		bus = jsBus
		logging.Info("🚌 Шина событий: NATS JetStream (%s)", cfg.EventBus.URL)
	} else {
		bus = eventbus.NewMemoryBus(1024)
		logging.Info("🚌 Шина событий: in-memory")
	}
	defer bus.Close()
	eventbus.Init(bus)

	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("Не удалось запустить LoggingListener: %v", err)
	}

	busExporter := eventbus.NewMetricsExporter(bus)
	busExporter.StartHTTP(metricsAddr)

	// === ЯДРО ===
	var void world.VoidPredicate
	if cfg.Game.NoiseAmplitude > 0 {
		void = world.NoisyVoid(gridSize, voidRadius, cfg.Game.NoiseAmplitude, cfg.Game.NoiseSeed)
	} else {
		void = world.SphericalVoid(gridSize, voidRadius)
	}

	grid, err := world.NewVoxelGrid(gridSize, void)
	if err != nil {
		log.Fatalf("❌ Ошибка создания сетки: %v", err)
	}

	engine := world.NewExcavationEngine(
		grid,
		world.NewConnectivityAnalyzer(),
		world.SphericalAnchor(gridSize, anchorRadius),
		world.NewBusSink(bus, "excavation-core"),
	)
	engine.RegisterMetrics(prometheus.DefaultRegisterer)

	// Лог ядра уходит в отдельный файл компонента world
	logging.GetWorldLogger().Info("🧊 Сетка %d³ создана: %d вокселей", gridSize, grid.OccupiedCount())

	// === ВНЕШНИЕ КОЛЛАБОРАТОРЫ ===
	debris := physics.NewDebrisManager(time.Duration(cfg.Game.GetDebrisTTL()) * time.Second)
	if err := debris.Start(bus); err != nil {
		log.Fatalf("❌ Ошибка запуска DebrisManager: %v", err)
	}

	restServer := api.NewRestServer(api.Config{
		Port:   restAddr,
		Engine: engine,
	})
	go func() {
		if err := restServer.Start(); err != nil {
			logging.Error("❌ Ошибка REST сервера: %v", err)
		}
	}()

	logging.Info("✅ Все сервисы запущены")
	logging.Info("   🌐 REST API: http://localhost%s", restAddr)
	logging.Info("   📈 Метрики: http://localhost%s/metrics", metricsAddr)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restAddr)
	logging.Info("💡 Пример: curl -X POST http://localhost%s/api/excavate -H 'Content-Type: application/json' -d '{\"x\":0,\"y\":0,\"z\":0}'", restAddr)

	// Ожидаем сигнал завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)

	// === GRACEFUL SHUTDOWN ===
	debris.Stop()
	busExporter.Stop()
	if err := telemetryShutdown(ctx); err != nil {
		logging.Error("Ошибка остановки телеметрии: %v", err)
	}

	logging.Info("👋 Сервер остановлен")
}
