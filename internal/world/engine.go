package world

import (
	"context"
	"sync"
	"time"

	"github.com/annel0/voxel-excavation/internal/logging"
	"github.com/annel0/voxel-excavation/internal/vec"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ExcavationEngine оркестрирует протокол "удалить и переанализировать":
// по запросу раскопки удаляет целевой воксель, пересчитывает связность и
// отцепляет каждый занятый воксель, не достигнутый из зоны опоры.
//
// Движок монопольно владеет своей сеткой; внешние коллабораторы узнают о
// её состоянии только через события. Все зависимости передаются через
// конструктор.
type ExcavationEngine struct {
	mu       sync.Mutex
	grid     *VoxelGrid
	analyzer *ConnectivityAnalyzer
	anchor   AnchorPredicate
	sink     EventSink
	tracer   trace.Tracer

	destroyedTotal    prometheus.Counter
	detachedTotal     prometheus.Counter
	reanalyzeDuration prometheus.Histogram
}

// NewExcavationEngine создаёт движок раскопки над указанной сеткой.
// sink может быть nil — тогда события никуда не доставляются.
func NewExcavationEngine(grid *VoxelGrid, analyzer *ConnectivityAnalyzer, anchor AnchorPredicate, sink EventSink) *ExcavationEngine {
	return &ExcavationEngine{
		grid:     grid,
		analyzer: analyzer,
		anchor:   anchor,
		sink:     sink,
		tracer:   otel.Tracer("excavation-engine"),
		destroyedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "excavation",
			Name:      "voxels_destroyed_total",
			Help:      "Общее число вокселей, удалённых прямым действием.",
		}),
		detachedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "excavation",
			Name:      "voxels_detached_total",
			Help:      "Общее число вокселей, отцепившихся из-за потери опоры.",
		}),
		reanalyzeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "excavation",
			Name:      "reanalyze_duration_seconds",
			Help:      "Длительность пересчёта связности после удаления.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
}

// RegisterMetrics регистрирует метрики движка в указанном регистре.
// Вынесено из конструктора, чтобы тесты могли создавать движки без
// конфликтов в глобальном регистре Prometheus.
func (e *ExcavationEngine) RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(e.destroyedTotal, e.detachedTotal, e.reanalyzeDuration)
}

// Grid возвращает сетку движка для запросов только на чтение
func (e *ExcavationEngine) Grid() *VoxelGrid {
	return e.grid
}

// Excavate обрабатывает запрос на разрушение вокселя в указанной координате.
//
// Последовательность: валидация -> удаление -> пересчёт связности -> эмиссия
// событий отцепления. Вся последовательность синхронна и атомарна с точки
// зрения вызывающего; внутренний мьютекс сериализует конкурентные запросы.
//
// Координата вне сетки или уже пустой слот — тихий no-op: клик по уже
// исчезнувшему вокселю — штатная ситуация, а не ошибка.
func (e *ExcavationEngine) Excavate(ctx context.Context, pos vec.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Валидация.
	if !e.grid.InBounds(pos) || !e.grid.IsOccupied(pos) {
		logging.Trace("Раскопка %s пропущена: слот пуст или вне сетки", pos)
		return
	}

	_, span := e.tracer.Start(ctx, "engine.excavate",
		trace.WithAttributes(
			attribute.Int("voxel.x", pos.X),
			attribute.Int("voxel.y", pos.Y),
			attribute.Int("voxel.z", pos.Z),
		))
	defer span.End()

	// Удаление целевого вокселя: Intact -> Destroyed, слот освобождается.
	if voxel, ok := e.grid.Get(pos); ok {
		voxel.State = VoxelDestroyed
	}
	e.grid.Remove(pos)
	e.destroyedTotal.Inc()
	e.emit(VoxelEvent{EventType: EventTypeVoxelDestroyed, Pos: pos})

	// Пересчёт связности по всей сетке.
	started := time.Now()
	grounded := e.analyzer.FindGrounded(e.grid, e.anchor)
	e.reanalyzeDuration.Observe(time.Since(started).Seconds())

	// Отцепление неопёртых вокселей в детерминированном порядке сетки.
	detached := 0
	for _, candidate := range e.grid.OccupiedCoordinates() {
		if _, ok := grounded[candidate]; ok {
			continue
		}
		if voxel, ok := e.grid.Get(candidate); ok {
			voxel.State = VoxelDetached
		}
		e.grid.Remove(candidate)
		e.detachedTotal.Inc()
		e.emit(VoxelEvent{EventType: EventTypeVoxelDetached, Pos: candidate})
		detached++
	}

	span.SetAttributes(attribute.Int("voxel.detached", detached))
	if detached > 0 {
		logging.Debug("Раскопка %s: отцепилось %d вокселей, осталось %d",
			pos, detached, e.grid.OccupiedCount())
	} else {
		logging.Trace("Раскопка %s: структура устояла, осталось %d",
			pos, e.grid.OccupiedCount())
	}
}

// emit доставляет событие приёмнику, если он задан
func (e *ExcavationEngine) emit(ev VoxelEvent) {
	if e.sink != nil {
		e.sink.HandleVoxelEvent(ev)
	}
}
