package world

import (
	"context"
	"testing"

	"github.com/annel0/voxel-excavation/internal/vec"
)

// recordingSink накапливает события движка в порядке эмиссии.
type recordingSink struct {
	events []VoxelEvent
}

func (r *recordingSink) HandleVoxelEvent(ev VoxelEvent) {
	r.events = append(r.events, ev)
}

func (r *recordingSink) countByType(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.EventType == t {
			n++
		}
	}
	return n
}

func (r *recordingSink) ofType(t EventType) []VoxelEvent {
	out := make([]VoxelEvent, 0)
	for _, ev := range r.events {
		if ev.EventType == t {
			out = append(out, ev)
		}
	}
	return out
}

func newTestEngine(grid *VoxelGrid, anchor AnchorPredicate) (*ExcavationEngine, *recordingSink) {
	sink := &recordingSink{}
	engine := NewExcavationEngine(grid, NewConnectivityAnalyzer(), anchor, sink)
	return engine, sink
}

func TestExcavateStableShell(t *testing.T) {
	// Сетка 3³ с полым центром и опорой на шести соседях центра:
	// удаление любой угловой ячейки не отцепляет оболочку
	center := vec.Vec3{X: 1, Y: 1, Z: 1}
	grid, _ := NewVoxelGrid(3, func(pos vec.Vec3) bool { return pos.Equals(center) })
	engine, sink := newTestEngine(grid, faceNeighborsOfCenter)

	engine.Excavate(context.Background(), vec.Vec3{X: 0, Y: 0, Z: 0})

	if n := sink.countByType(EventTypeVoxelDestroyed); n != 1 {
		t.Errorf("Ожидалось 1 событие VoxelDestroyed, получено %d", n)
	}
	if n := sink.countByType(EventTypeVoxelDetached); n != 0 {
		t.Errorf("Ожидалось 0 событий VoxelDetached, получено %d", n)
	}
	if grid.OccupiedCount() != 25 {
		t.Errorf("Ожидалось 25 вокселей, получено %d", grid.OccupiedCount())
	}
}

func TestExcavateSeversBranch(t *testing.T) {
	// Рука из пяти ячеек вдоль X, опора только в (0,0,0).
	// Удаление (2,0,0) отсекает ячейки (3,0,0) и (4,0,0).
	cells := []vec.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 3, Y: 0, Z: 0},
		{X: 4, Y: 0, Z: 0},
	}
	grid, _ := NewVoxelGrid(5, shapeVoid(cells...))
	engine, sink := newTestEngine(grid, anchorAt(cells[0]))

	engine.Excavate(context.Background(), vec.Vec3{X: 2, Y: 0, Z: 0})

	if n := sink.countByType(EventTypeVoxelDestroyed); n != 1 {
		t.Errorf("Ожидалось 1 событие VoxelDestroyed, получено %d", n)
	}

	detached := sink.ofType(EventTypeVoxelDetached)
	if len(detached) != 2 {
		t.Fatalf("Ожидалось 2 события VoxelDetached, получено %d", len(detached))
	}

	// Порядок отцепления — построчный порядок сетки
	if !detached[0].Pos.Equals(cells[3]) || !detached[1].Pos.Equals(cells[4]) {
		t.Errorf("Неверный порядок отцепления: %s, %s", detached[0].Pos, detached[1].Pos)
	}

	// Отцепившиеся ячейки покинули сетку
	for _, pos := range []vec.Vec3{cells[3], cells[4]} {
		if grid.IsOccupied(pos) {
			t.Errorf("Ячейка %s должна покинуть сетку после отцепления", pos)
		}
	}

	if grid.OccupiedCount() != 2 {
		t.Errorf("Ожидалось 2 вокселя, получено %d", grid.OccupiedCount())
	}
}

func TestExcavateSingleCellNoAnchors(t *testing.T) {
	// Сетка 1³ без пустой зоны и без опор: одно удаление, нечему отцепляться
	grid, _ := NewVoxelGrid(1, nil)
	engine, sink := newTestEngine(grid, NoAnchors())

	engine.Excavate(context.Background(), vec.Vec3{X: 0, Y: 0, Z: 0})

	if n := sink.countByType(EventTypeVoxelDestroyed); n != 1 {
		t.Errorf("Ожидалось 1 событие VoxelDestroyed, получено %d", n)
	}
	if n := sink.countByType(EventTypeVoxelDetached); n != 0 {
		t.Errorf("Ожидалось 0 событий VoxelDetached, получено %d", n)
	}
	if grid.OccupiedCount() != 0 {
		t.Errorf("Сетка должна опустеть, осталось %d", grid.OccupiedCount())
	}
}

func TestExcavateIdempotent(t *testing.T) {
	center := vec.Vec3{X: 1, Y: 1, Z: 1}
	grid, _ := NewVoxelGrid(3, func(pos vec.Vec3) bool { return pos.Equals(center) })
	engine, sink := newTestEngine(grid, faceNeighborsOfCenter)

	target := vec.Vec3{X: 2, Y: 2, Z: 2}
	engine.Excavate(context.Background(), target)
	engine.Excavate(context.Background(), target) // повторный вызов — no-op

	destroyed := 0
	for _, ev := range sink.events {
		if ev.EventType == EventTypeVoxelDestroyed && ev.Pos.Equals(target) {
			destroyed++
		}
	}
	if destroyed != 1 {
		t.Errorf("Ожидалось ровно 1 событие VoxelDestroyed для %s, получено %d", target, destroyed)
	}
}

func TestExcavateOutOfBoundsNoOp(t *testing.T) {
	grid, _ := NewVoxelGrid(2, nil)
	engine, sink := newTestEngine(grid, NoAnchors())

	engine.Excavate(context.Background(), vec.Vec3{X: -1, Y: 0, Z: 0})
	engine.Excavate(context.Background(), vec.Vec3{X: 2, Y: 2, Z: 2})

	if len(sink.events) != 0 {
		t.Errorf("Раскопка вне сетки не должна порождать события, получено %d", len(sink.events))
	}
	if grid.OccupiedCount() != 8 {
		t.Errorf("Сетка не должна измениться, осталось %d", grid.OccupiedCount())
	}
}

func TestExcavateDetachmentAccounting(t *testing.T) {
	// После каждой раскопки: занято' == занято - 1 - |отцепившиеся|
	cells := []vec.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 2, Y: 1, Z: 0},
		{X: 2, Y: 2, Z: 0},
	}
	grid, _ := NewVoxelGrid(3, shapeVoid(cells...))
	engine, sink := newTestEngine(grid, anchorAt(cells[0]))

	before := grid.OccupiedCount()
	engine.Excavate(context.Background(), vec.Vec3{X: 1, Y: 0, Z: 0})

	detached := sink.countByType(EventTypeVoxelDetached)
	after := grid.OccupiedCount()

	if after != before-1-detached {
		t.Errorf("Баланс нарушен: было %d, удалено 1, отцепилось %d, осталось %d",
			before, detached, after)
	}

	// Вся ветка за удалённой ячейкой отцепилась
	if detached != 3 {
		t.Errorf("Ожидалось 3 отцепившихся вокселя, получено %d", detached)
	}
	if after != 1 {
		t.Errorf("Должна остаться только опорная ячейка, осталось %d", after)
	}
}

func TestExcavateUntilEmpty(t *testing.T) {
	// Полное выкапывание: каждая координата порождает ровно одно событие
	center := vec.Vec3{X: 1, Y: 1, Z: 1}
	grid, _ := NewVoxelGrid(3, func(pos vec.Vec3) bool { return pos.Equals(center) })
	engine, sink := newTestEngine(grid, faceNeighborsOfCenter)

	ctx := context.Background()
	for grid.OccupiedCount() > 0 {
		coords := grid.OccupiedCoordinates()
		engine.Excavate(ctx, coords[0])
	}

	if grid.OccupiedCount() != 0 {
		t.Fatalf("Сетка должна опустеть, осталось %d", grid.OccupiedCount())
	}

	seen := make(map[vec.Vec3]int)
	for _, ev := range sink.events {
		seen[ev.Pos]++
	}

	if len(seen) != 26 {
		t.Errorf("Ожидались события для 26 координат, получено %d", len(seen))
	}
	for pos, count := range seen {
		if count != 1 {
			t.Errorf("Координата %s получила %d событий, ожидалось 1", pos, count)
		}
	}
}

func TestExcavateVoxelStateTransitions(t *testing.T) {
	// Состояния вокселей фиксируются до освобождения слота
	cells := []vec.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
	}
	grid, _ := NewVoxelGrid(3, shapeVoid(cells...))

	destroyed, _ := grid.Get(cells[1])
	detachedVoxel, _ := grid.Get(cells[2])

	engine, _ := newTestEngine(grid, anchorAt(cells[0]))
	engine.Excavate(context.Background(), cells[1])

	if destroyed.State != VoxelDestroyed {
		t.Errorf("Ожидалось состояние Destroyed, получено %s", destroyed.State)
	}
	if detachedVoxel.State != VoxelDetached {
		t.Errorf("Ожидалось состояние Detached, получено %s", detachedVoxel.State)
	}
}
