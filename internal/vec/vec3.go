package vec

import "fmt"

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Используется как единственный идентификатор ячейки воксельной сетки.
type Vec3 struct {
	X int
	Y int
	Z int
}

// neighborOffsets — шесть гранево-смежных смещений (±1 по каждой оси).
var neighborOffsets = [6]Vec3{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// DistanceSquaredTo возвращает квадрат евклидова расстояния до другого вектора.
// Квадрат достаточен для сравнения с порогами радиусов — корень не извлекаем.
func (v Vec3) DistanceSquaredTo(other Vec3) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	dz := float64(v.Z - other.Z)
	return dx*dx + dy*dy + dz*dz
}

// Neighbors6 возвращает шесть гранево-смежных соседей ячейки.
func (v Vec3) Neighbors6() [6]Vec3 {
	var out [6]Vec3
	for i, off := range neighborOffsets {
		out[i] = v.Add(off)
	}
	return out
}

// String возвращает строковое представление вектора
func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}
