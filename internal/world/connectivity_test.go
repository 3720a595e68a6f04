package world

import (
	"testing"

	"github.com/annel0/voxel-excavation/internal/vec"
)

// shapeVoid возвращает предикат, оставляющий в сетке только указанные ячейки.
func shapeVoid(cells ...vec.Vec3) VoidPredicate {
	keep := make(map[vec.Vec3]struct{}, len(cells))
	for _, c := range cells {
		keep[c] = struct{}{}
	}
	return func(pos vec.Vec3) bool {
		_, ok := keep[pos]
		return !ok
	}
}

// anchorAt возвращает предикат, считающий опорными только указанные ячейки.
func anchorAt(cells ...vec.Vec3) AnchorPredicate {
	anchors := make(map[vec.Vec3]struct{}, len(cells))
	for _, c := range cells {
		anchors[c] = struct{}{}
	}
	return func(pos vec.Vec3) bool {
		_, ok := anchors[pos]
		return ok
	}
}

// faceNeighborsOfCenter — опорный предикат сценария с полым центром 3³:
// шесть гранево-смежных соседей ячейки (1,1,1).
func faceNeighborsOfCenter(pos vec.Vec3) bool {
	center := vec.Vec3{X: 1, Y: 1, Z: 1}
	for _, n := range center.Neighbors6() {
		if pos.Equals(n) {
			return true
		}
	}
	return false
}

func TestFindGroundedFullShell(t *testing.T) {
	// Сетка 3³ с полым центром: все 26 ячеек оболочки взаимно достижимы
	center := vec.Vec3{X: 1, Y: 1, Z: 1}
	grid, _ := NewVoxelGrid(3, func(pos vec.Vec3) bool { return pos.Equals(center) })

	analyzer := NewConnectivityAnalyzer()
	grounded := analyzer.FindGrounded(grid, faceNeighborsOfCenter)

	if len(grounded) != 26 {
		t.Errorf("Ожидалось 26 опёртых ячеек, получено %d", len(grounded))
	}

	// Каждый элемент результата занят в сетке, дубликатов в map быть не может
	for pos := range grounded {
		if !grid.IsOccupied(pos) {
			t.Errorf("Ячейка %s в результате, но не занята", pos)
		}
	}
}

func TestFindGroundedAnchorsAlwaysIncluded(t *testing.T) {
	grid, _ := NewVoxelGrid(4, nil)
	anchor := SphericalAnchor(4, 2.0)

	grounded := NewConnectivityAnalyzer().FindGrounded(grid, anchor)

	for _, pos := range grid.OccupiedCoordinates() {
		if !anchor(pos) {
			continue
		}
		if _, ok := grounded[pos]; !ok {
			t.Errorf("Опорная ячейка %s отсутствует в результате", pos)
		}
	}
}

func TestFindGroundedNoAnchors(t *testing.T) {
	grid, _ := NewVoxelGrid(3, nil)

	grounded := NewConnectivityAnalyzer().FindGrounded(grid, NoAnchors())

	if len(grounded) != 0 {
		t.Errorf("Без опорных ячеек результат должен быть пуст, получено %d", len(grounded))
	}
}

func TestFindGroundedEmptyGrid(t *testing.T) {
	// Сетка без единого вокселя
	grid, _ := NewVoxelGrid(2, func(vec.Vec3) bool { return true })

	grounded := NewConnectivityAnalyzer().FindGrounded(grid, func(vec.Vec3) bool { return true })

	if len(grounded) != 0 {
		t.Errorf("Для пустой сетки результат должен быть пуст, получено %d", len(grounded))
	}
}

func TestFindGroundedDisconnectedComponent(t *testing.T) {
	// Рука из пяти ячеек вдоль X с разрывом: (0,0,0)-(1,0,0) и (3,0,0)-(4,0,0)
	a0 := vec.Vec3{X: 0, Y: 0, Z: 0}
	a1 := vec.Vec3{X: 1, Y: 0, Z: 0}
	b0 := vec.Vec3{X: 3, Y: 0, Z: 0}
	b1 := vec.Vec3{X: 4, Y: 0, Z: 0}

	grid, _ := NewVoxelGrid(5, shapeVoid(a0, a1, b0, b1))

	grounded := NewConnectivityAnalyzer().FindGrounded(grid, anchorAt(a0))

	if len(grounded) != 2 {
		t.Fatalf("Ожидалось 2 опёртые ячейки, получено %d", len(grounded))
	}
	for _, pos := range []vec.Vec3{a0, a1} {
		if _, ok := grounded[pos]; !ok {
			t.Errorf("Ячейка %s должна быть опёртой", pos)
		}
	}
	for _, pos := range []vec.Vec3{b0, b1} {
		if _, ok := grounded[pos]; ok {
			t.Errorf("Ячейка %s за разрывом не должна быть опёртой", pos)
		}
	}
}

func TestFindGroundedIsPure(t *testing.T) {
	grid, _ := NewVoxelGrid(3, nil)
	analyzer := NewConnectivityAnalyzer()
	anchor := SphericalAnchor(3, 1.2)

	before := grid.OccupiedCount()
	first := analyzer.FindGrounded(grid, anchor)
	second := analyzer.FindGrounded(grid, anchor)

	if grid.OccupiedCount() != before {
		t.Error("FindGrounded не должен мутировать сетку")
	}
	if len(first) != len(second) {
		t.Errorf("Повторный вызов дал другой результат: %d и %d", len(first), len(second))
	}
}
