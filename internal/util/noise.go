package util

import (
	"github.com/aquilax/go-perlin"
)

// Noise инкапсулирует генератор шума Перлина с фиксированным сидом.
// Один и тот же сид даёт одну и ту же поверхность сердцевины.
type Noise struct {
	p *perlin.Perlin
}

// NewNoise создаёт генератор шума с указанным сидом
func NewNoise(seed int64) *Noise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Noise{p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Noise3D возвращает значение шума для указанных координат (от 0 до 1)
func (n *Noise) Noise3D(x, y, z float64) float64 {
	// Получаем значение шума (от -1 до 1) и приводим к диапазону от 0 до 1
	return (n.p.Noise3D(x, y, z) + 1.0) / 2.0
}
