package world

import (
	"github.com/annel0/voxel-excavation/internal/vec"
)

// VoxelState определяет состояние жизненного цикла вокселя
type VoxelState uint8

const (
	VoxelIntact    VoxelState = iota // В сетке, участвует в структуре
	VoxelDestroyed                   // Удалён прямым действием игрока (терминальное)
	VoxelDetached                    // Потерял опору, передан внешней физике (терминальное)
)

// String возвращает строковое представление состояния
func (s VoxelState) String() string {
	switch s {
	case VoxelIntact:
		return "Intact"
	case VoxelDestroyed:
		return "Destroyed"
	case VoxelDetached:
		return "Detached"
	default:
		return "Unknown"
	}
}

// Voxel представляет один воксель структуры: координата и состояние.
// Координата вокселя всегда совпадает с ключом слота в сетке.
type Voxel struct {
	Pos   vec.Vec3
	State VoxelState
}

// NewVoxel создаёт новый воксель в состоянии Intact
func NewVoxel(pos vec.Vec3) *Voxel {
	return &Voxel{
		Pos:   pos,
		State: VoxelIntact,
	}
}
