package world

import (
	"github.com/annel0/voxel-excavation/internal/util"
	"github.com/annel0/voxel-excavation/internal/vec"
)

// VoidPredicate решает, исключена ли координата из сетки при заполнении
// (постоянно полая сердцевина под ядро-сокровище).
type VoidPredicate func(pos vec.Vec3) bool

// AnchorPredicate решает, является ли занятая ячейка опорной
// (непосредственно удерживаемой неразрушимым ядром).
type AnchorPredicate func(pos vec.Vec3) bool

// distanceSquaredFromCenter возвращает квадрат евклидова расстояния от координаты до
// логического центра сетки (центр куба, не ячейки).
func distanceSquaredFromCenter(size int, pos vec.Vec3) float64 {
	c := float64(size-1) / 2.0
	dx := float64(pos.X) - c
	dy := float64(pos.Y) - c
	dz := float64(pos.Z) - c
	return dx*dx + dy*dy + dz*dz
}

// SphericalVoid возвращает предикат полой сердцевины: ячейки ближе radius
// к центру сетки никогда не заполняются.
func SphericalVoid(size int, radius float64) VoidPredicate {
	r2 := radius * radius
	return func(pos vec.Vec3) bool {
		return distanceSquaredFromCenter(size, pos) < r2
	}
}

// SphericalAnchor возвращает предикат зоны опоры: занятые ячейки ближе radius
// к центру считаются непосредственно удерживаемыми ядром.
// Радиус опоры и радиус пустоты — независимые настройки; опорный обычно больше,
// чтобы вокруг сердцевины оставалось кольцо заведомо опёртых ячеек.
func SphericalAnchor(size int, radius float64) AnchorPredicate {
	r2 := radius * radius
	return func(pos vec.Vec3) bool {
		return distanceSquaredFromCenter(size, pos) < r2
	}
}

// NoisyVoid возвращает предикат полой сердцевины с неровной поверхностью:
// порог радиуса возмущается шумом Перлина, чтобы сердцевина не была
// идеальной сферой. amplitude задаёт максимальное отклонение радиуса.
func NoisyVoid(size int, radius, amplitude float64, seed int64) VoidPredicate {
	noise := util.NewNoise(seed)
	return func(pos vec.Vec3) bool {
		// Шум сэмплируется в координатах ячейки, масштаб подобран так,
		// чтобы соседние ячейки давали заметно разные значения.
		n := noise.Noise3D(float64(pos.X)*0.35, float64(pos.Y)*0.35, float64(pos.Z)*0.35)
		r := radius + amplitude*(n*2.0-1.0)
		if r < 0 {
			r = 0
		}
		return distanceSquaredFromCenter(size, pos) < r*r
	}
}

// NoVoid возвращает предикат без полой сердцевины: сетка заполняется целиком.
func NoVoid() VoidPredicate {
	return func(vec.Vec3) bool { return false }
}

// NoAnchors возвращает предикат без опорных ячеек: любой воксель считается
// неопёртым. Полезен в тестах и для сценария полного обрушения.
func NoAnchors() AnchorPredicate {
	return func(vec.Vec3) bool { return false }
}
