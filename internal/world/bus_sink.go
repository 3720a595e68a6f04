package world

import (
	"context"
	"encoding/json"
	"time"

	"github.com/annel0/voxel-excavation/internal/eventbus"
	"github.com/annel0/voxel-excavation/internal/logging"
	"github.com/google/uuid"
)

// VoxelEventPayload — сериализуемое тело события вокселя для внешних
// коллабораторов (визуализация, физика обломков).
type VoxelEventPayload struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Z    int    `json:"z"`
	Type string `json:"type"`
}

// BusSink публикует события движка в шину событий. Порядок эмиссии
// сохраняется: публикация происходит синхронно в вызове движка.
type BusSink struct {
	bus    eventbus.EventBus
	source string
}

// NewBusSink создаёт приёмник, публикующий события от имени source
func NewBusSink(bus eventbus.EventBus, source string) *BusSink {
	return &BusSink{
		bus:    bus,
		source: source,
	}
}

// HandleVoxelEvent упаковывает событие в Envelope и публикует его
func (s *BusSink) HandleVoxelEvent(ev VoxelEvent) {
	payload, err := json.Marshal(VoxelEventPayload{
		X:    ev.Pos.X,
		Y:    ev.Pos.Y,
		Z:    ev.Pos.Z,
		Type: ev.EventType.String(),
	})
	if err != nil {
		logging.Error("Ошибка сериализации события %s %s: %v", ev.EventType, ev.Pos, err)
		return
	}

	envelope := &eventbus.Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    s.source,
		EventType: ev.EventType.String(),
		Version:   1,
		Priority:  5,
		Payload:   payload,
	}

	if err := s.bus.Publish(context.Background(), envelope); err != nil {
		logging.Error("Ошибка публикации события %s %s: %v", ev.EventType, ev.Pos, err)
	}
}
