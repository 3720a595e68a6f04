package world

import (
	"errors"

	"github.com/annel0/voxel-excavation/internal/vec"
)

// ErrInvalidGridSize возвращается при попытке создать сетку неположительного
// размера. Это единственная фатальная ошибка конфигурации ядра.
var ErrInvalidGridSize = errors.New("размер сетки должен быть положительным")

// VoxelGrid — куб size³ слотов вокселей. Сетка монопольно владеет
// существованием вокселей: слот либо пуст, либо содержит ровно один Intact
// воксель, чья координата совпадает с ключом слота.
type VoxelGrid struct {
	size   int
	voxels map[vec.Vec3]*Voxel
}

// NewVoxelGrid создаёт сетку и заполняет каждый слот куба [0,size)³ вокселем
// Intact, пропуская координаты, для которых void истинен (полая сердцевина).
// nil-предикат означает отсутствие пустой зоны.
func NewVoxelGrid(size int, void VoidPredicate) (*VoxelGrid, error) {
	if size <= 0 {
		return nil, ErrInvalidGridSize
	}
	if void == nil {
		void = NoVoid()
	}

	grid := &VoxelGrid{
		size:   size,
		voxels: make(map[vec.Vec3]*Voxel, size*size*size),
	}

	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			for z := 0; z < size; z++ {
				pos := vec.Vec3{X: x, Y: y, Z: z}
				if void(pos) {
					continue
				}
				grid.voxels[pos] = NewVoxel(pos)
			}
		}
	}

	return grid, nil
}

// Size возвращает размер ребра сетки
func (g *VoxelGrid) Size() int {
	return g.size
}

// InBounds проверяет, лежит ли координата внутри куба [0,size)³
func (g *VoxelGrid) InBounds(pos vec.Vec3) bool {
	return pos.X >= 0 && pos.X < g.size &&
		pos.Y >= 0 && pos.Y < g.size &&
		pos.Z >= 0 && pos.Z < g.size
}

// IsOccupied возвращает true, если слот содержит Intact воксель.
// Координаты вне сетки всегда свободны — это не ошибка, так проверки
// соседей на границе не требуют отдельной ветки.
func (g *VoxelGrid) IsOccupied(pos vec.Vec3) bool {
	_, exists := g.voxels[pos]
	return exists
}

// Get возвращает воксель слота, если он занят
func (g *VoxelGrid) Get(pos vec.Vec3) (*Voxel, bool) {
	v, exists := g.voxels[pos]
	return v, exists
}

// Remove освобождает слот. Идемпотентна: повторное удаление — no-op.
func (g *VoxelGrid) Remove(pos vec.Vec3) {
	delete(g.voxels, pos)
}

// OccupiedCount возвращает число занятых слотов
func (g *VoxelGrid) OccupiedCount() int {
	return len(g.voxels)
}

// OccupiedCoordinates возвращает все занятые координаты в построчном порядке
// (x, затем y, затем z по возрастанию). Порядок не зависит от истории
// удалений, что даёт детерминированные последовательности событий.
func (g *VoxelGrid) OccupiedCoordinates() []vec.Vec3 {
	out := make([]vec.Vec3, 0, len(g.voxels))
	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			for z := 0; z < g.size; z++ {
				pos := vec.Vec3{X: x, Y: y, Z: z}
				if _, exists := g.voxels[pos]; exists {
					out = append(out, pos)
				}
			}
		}
	}
	return out
}
