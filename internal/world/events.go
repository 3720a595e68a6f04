package world

import (
	"github.com/annel0/voxel-excavation/internal/vec"
)

// EventType определяет тип события
type EventType uint8

const (
	EventTypeVoxelDestroyed EventType = iota // Воксель удалён прямым действием
	EventTypeVoxelDetached                   // Воксель потерял опору
)

// String возвращает имя типа события (используется как subject в шине)
func (t EventType) String() string {
	switch t {
	case EventTypeVoxelDestroyed:
		return "VoxelDestroyed"
	case EventTypeVoxelDetached:
		return "VoxelDetached"
	default:
		return "Unknown"
	}
}

// VoxelEvent представляет событие, связанное с вокселем
type VoxelEvent struct {
	EventType EventType
	Pos       vec.Vec3 // Координата вокселя в сетке
}

// GetType возвращает тип события
func (e VoxelEvent) GetType() EventType {
	return e.EventType
}

// EventSink принимает события движка. Движок вызывает приёмник синхронно,
// в порядке эмиссии; приёмник не должен обращаться обратно к движку.
type EventSink interface {
	HandleVoxelEvent(ev VoxelEvent)
}

// SinkFunc адаптирует функцию под интерфейс EventSink
type SinkFunc func(ev VoxelEvent)

// HandleVoxelEvent вызывает функцию-приёмник
func (f SinkFunc) HandleVoxelEvent(ev VoxelEvent) {
	f(ev)
}

// MultiSink рассылает событие нескольким приёмникам по порядку
type MultiSink []EventSink

// HandleVoxelEvent передаёт событие каждому приёмнику
func (m MultiSink) HandleVoxelEvent(ev VoxelEvent) {
	for _, sink := range m {
		sink.HandleVoxelEvent(ev)
	}
}
