package world

import (
	"github.com/annel0/voxel-excavation/internal/vec"
)

// ConnectivityAnalyzer вычисляет множество опёртых вокселей: занятых ячеек,
// достижимых из какой-либо опорной ячейки по пути из занятых гранево-смежных
// соседей. Анализатор не хранит состояния между вызовами — каждый запуск
// полностью пересканирует сетку.
type ConnectivityAnalyzer struct{}

// NewConnectivityAnalyzer создаёт анализатор связности
func NewConnectivityAnalyzer() *ConnectivityAnalyzer {
	return &ConnectivityAnalyzer{}
}

// FindGrounded возвращает множество занятых координат, достижимых из опорных
// ячеек. Многоисточниковый BFS: затравка — все занятые ячейки, для которых
// anchor истинен; фронт расширяется на занятых непосещённых соседей.
// Чистая функция над текущим содержимым сетки: ничего не мутирует.
// Если опорных ячеек нет (или сетка пуста) — результат пуст: каждый
// оставшийся воксель считается неопёртым.
func (ca *ConnectivityAnalyzer) FindGrounded(grid *VoxelGrid, anchor AnchorPredicate) map[vec.Vec3]struct{} {
	visited := make(map[vec.Vec3]struct{})
	queue := make([]vec.Vec3, 0)

	// Затравка: все занятые опорные ячейки.
	for _, pos := range grid.OccupiedCoordinates() {
		if anchor(pos) {
			visited[pos] = struct{}{}
			queue = append(queue, pos)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range current.Neighbors6() {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			// Выход за границы сетки здесь просто "не занято".
			if !grid.IsOccupied(neighbor) {
				continue
			}
			visited[neighbor] = struct{}{}
			queue = append(queue, neighbor)
		}
	}

	return visited
}
