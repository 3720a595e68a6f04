package vec

import "testing"

func TestVec3Add(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: -1, Y: 0, Z: 5}

	sum := a.Add(b)
	if !sum.Equals(Vec3{X: 0, Y: 2, Z: 8}) {
		t.Errorf("Неверная сумма: %s", sum)
	}
}

func TestVec3DistanceSquared(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 1, Y: 2, Z: 2}

	if d := a.DistanceSquaredTo(b); d != 9 {
		t.Errorf("Ожидался квадрат расстояния 9, получено %v", d)
	}
	if d := b.DistanceSquaredTo(a); d != 9 {
		t.Errorf("Квадрат расстояния должен быть симметричен, получено %v", d)
	}
}

func TestVec3Neighbors6(t *testing.T) {
	center := Vec3{X: 5, Y: 5, Z: 5}
	neighbors := center.Neighbors6()

	if len(neighbors) != 6 {
		t.Fatalf("Ожидалось 6 соседей, получено %d", len(neighbors))
	}

	seen := make(map[Vec3]struct{})
	for _, n := range neighbors {
		if n.DistanceSquaredTo(center) != 1 {
			t.Errorf("Сосед %s не гранево-смежен с %s", n, center)
		}
		seen[n] = struct{}{}
	}
	if len(seen) != 6 {
		t.Errorf("Соседи должны быть уникальны, уникальных %d", len(seen))
	}
}

func TestVec3String(t *testing.T) {
	v := Vec3{X: -1, Y: 0, Z: 42}
	if v.String() != "(-1,0,42)" {
		t.Errorf("Неверный формат строки: %s", v.String())
	}
}
