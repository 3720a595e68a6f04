package world

import (
	"github.com/annel0/voxel-excavation/internal/vec"
)

// CoreExposure — запрос внешнего коллаборатора условия победы: сколько из
// шести осевых лучей от центра сетки прокопаны насквозь до внешней границы.
// Луч считается открытым, если на нём не осталось ни одного занятого вокселя.
// Чистый запрос над IsOccupied; путь разрушения его не вызывает.
func CoreExposure(grid *VoxelGrid) (open int, fullyExposed bool) {
	size := grid.Size()
	center := vec.Vec3{X: size / 2, Y: size / 2, Z: size / 2}

	directions := [6]vec.Vec3{
		{X: 1}, {X: -1},
		{Y: 1}, {Y: -1},
		{Z: 1}, {Z: -1},
	}

	for _, dir := range directions {
		blocked := false
		for pos := center; grid.InBounds(pos); pos = pos.Add(dir) {
			if grid.IsOccupied(pos) {
				blocked = true
				break
			}
		}
		if !blocked {
			open++
		}
	}

	return open, open == len(directions)
}
