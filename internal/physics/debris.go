package physics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/annel0/voxel-excavation/internal/eventbus"
	"github.com/annel0/voxel-excavation/internal/logging"
	"github.com/annel0/voxel-excavation/internal/vec"
	"github.com/annel0/voxel-excavation/internal/world"
)

const (
	gravity     = 9.8  // Ускорение падения, вокселей/с²
	groundLevel = -0.5 // Плоскость пола под сеткой
	stepPeriod  = 50 * time.Millisecond
)

// Debris представляет обломок: воксель, потерявший опору и ставший
// независимым физическим телом. Ядро про него больше не знает — обломок
// живёт только здесь, падает и удаляется по дедлайну.
type Debris struct {
	ID       string    // ID события отцепления
	Origin   vec.Vec3  // Координата в сетке на момент отцепления
	Height   float64   // Текущая высота нижней грани
	Velocity float64   // Текущая скорость падения (вниз положительная)
	Grounded bool      // Достиг ли обломок пола
	Deadline time.Time // Момент принудительного удаления
}

// DebrisManager — внешний коллаборатор физики: подписывается на события
// VoxelDetached в шине и ведёт падающие обломки до истечения их срока жизни.
type DebrisManager struct {
	mu     sync.RWMutex
	pieces map[string]*Debris
	ttl    time.Duration
	sub    eventbus.Subscription
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDebrisManager создаёт менеджер обломков с указанным временем жизни
func NewDebrisManager(ttl time.Duration) *DebrisManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &DebrisManager{
		pieces: make(map[string]*Debris),
		ttl:    ttl,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start подписывается на события отцепления и запускает цикл симуляции
func (dm *DebrisManager) Start(bus eventbus.EventBus) error {
	sub, err := bus.Subscribe(dm.ctx, eventbus.Filter{
		Types: []string{world.EventTypeVoxelDetached.String()},
	}, dm.handleDetached)
	if err != nil {
		return err
	}
	dm.sub = sub

	go dm.loop()

	logging.Info("🧱 DebrisManager запущен (ttl=%s)", dm.ttl)
	return nil
}

// Stop отписывается от шины и останавливает симуляцию
func (dm *DebrisManager) Stop() {
	if dm.sub != nil {
		dm.sub.Unsubscribe()
	}
	dm.cancel()
}

// ActiveCount возвращает число обломков в полёте или на полу
func (dm *DebrisManager) ActiveCount() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.pieces)
}

// handleDetached превращает событие отцепления в независимый обломок
func (dm *DebrisManager) handleDetached(ctx context.Context, ev *eventbus.Envelope) {
	var payload world.VoxelEventPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		logging.Error("DebrisManager: неразборчивое событие %s: %v", ev.ID, err)
		return
	}

	piece := &Debris{
		ID:       ev.ID,
		Origin:   vec.Vec3{X: payload.X, Y: payload.Y, Z: payload.Z},
		Height:   float64(payload.Y),
		Deadline: time.Now().Add(dm.ttl),
	}

	dm.mu.Lock()
	dm.pieces[piece.ID] = piece
	dm.mu.Unlock()

	logging.Trace("Обломок %s появился в %s", piece.ID, piece.Origin)
}

// loop продвигает симуляцию с фиксированным шагом
func (dm *DebrisManager) loop() {
	ticker := time.NewTicker(stepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-dm.ctx.Done():
			return
		case <-ticker.C:
			dm.Step(stepPeriod.Seconds())
		}
	}
}

// Step интегрирует падение всех обломков на dt секунд и удаляет просроченные.
// Вынесен отдельно, чтобы тесты могли продвигать симуляцию без таймера.
func (dm *DebrisManager) Step(dt float64) {
	now := time.Now()

	dm.mu.Lock()
	defer dm.mu.Unlock()

	for id, piece := range dm.pieces {
		if now.After(piece.Deadline) {
			delete(dm.pieces, id)
			logging.Trace("Обломок %s удалён по дедлайну", id)
			continue
		}
		if piece.Grounded {
			continue
		}

		piece.Velocity += gravity * dt
		piece.Height -= piece.Velocity * dt
		if piece.Height <= groundLevel {
			piece.Height = groundLevel
			piece.Velocity = 0
			piece.Grounded = true
		}
	}
}
