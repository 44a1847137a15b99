package box

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/period"
)

func TestBoxSealed(t *testing.T) {
	var _ Box = Time{}
	var _ Box = TBox{}
	var _ Box = STBox{}
}

func TestMakeDispatchesOnKind(t *testing.T) {
	p := period.MustNew(0, 10, true, false)

	tb := Make([]base.Value{base.Bool(true), base.Bool(false)}, p)
	assert.Equal(t, Time{Extent: p}, tb)

	nb := Make([]base.Value{base.Float(3), base.Float(-1), base.Float(7)}, p)
	assert.Equal(t, TBox{Extent: p, VMin: -1, VMax: 7}, nb)

	ib := Make([]base.Value{base.Int(4), base.Int(2)}, p)
	assert.Equal(t, TBox{Extent: p, VMin: 2, VMax: 4}, ib)

	sb := Make([]base.Value{base.Point{X: 1, Y: 5}, base.Point{X: -2, Y: 3}}, p)
	assert.Equal(t, STBox{Extent: p, XMin: -2, YMin: 3, XMax: 1, YMax: 5}, sb)
}

func TestMakeEmptyPanics(t *testing.T) {
	assert.Panics(t, func() { Make(nil, period.Instant(0)) })
}

func TestFromInstant(t *testing.T) {
	b := FromInstant(base.Float(2), 5)
	assert.Equal(t, TBox{Extent: period.Instant(5), VMin: 2, VMax: 2}, b)
}

func TestMerge(t *testing.T) {
	a := TBox{Extent: period.MustNew(0, 5, true, false), VMin: 1, VMax: 3}
	b := TBox{Extent: period.MustNew(5, 9, true, true), VMin: -4, VMax: 2}

	got := Merge(a, b)

	assert.Equal(t, TBox{Extent: period.MustNew(0, 9, true, true), VMin: -4, VMax: 3}, got)
}

func TestMergeMatchesMake(t *testing.T) {
	values := []base.Value{base.Point{X: 0, Y: 0}, base.Point{X: 4, Y: -1}, base.Point{X: 2, Y: 8}}
	whole := Make(values, period.MustNew(0, 2, true, true))

	merged := FromInstant(values[0], 0)
	for i, v := range values[1:] {
		merged = Merge(merged, FromInstant(v, period.Timestamp(i+1)))
	}

	assert.True(t, Equal(whole, merged))
}

func TestMergeMismatchedPanics(t *testing.T) {
	assert.Panics(t, func() {
		Merge(Time{Extent: period.Instant(0)}, TBox{Extent: period.Instant(0)})
	})
}

func TestContains(t *testing.T) {
	b := TBox{Extent: period.MustNew(0, 10, true, false), VMin: 0, VMax: 5}

	assert.True(t, Contains(b, base.Float(5), 0))
	assert.False(t, Contains(b, base.Float(5), 10), "exclusive upper bound")
	assert.False(t, Contains(b, base.Float(6), 3))
	assert.True(t, ContainsValue(b, base.Int(2)))

	s := STBox{Extent: period.MustNew(0, 10, false, true), XMin: 0, YMin: 0, XMax: 1, YMax: 1}
	assert.True(t, ContainsValue(s, base.Point{X: 0.5, Y: 1}))
	assert.False(t, Contains(s, base.Point{X: 0.5, Y: 1}, 0), "exclusive lower bound")
	assert.False(t, ContainsValue(s, base.Point{X: 2, Y: 0}))

	assert.True(t, Contains(Time{Extent: period.Instant(3)}, base.Text("x"), 3))
}

func TestOverlaps(t *testing.T) {
	a := TBox{Extent: period.MustNew(0, 10, true, true), VMin: 0, VMax: 5}
	b := TBox{Extent: period.MustNew(5, 15, true, true), VMin: 5, VMax: 9}
	c := TBox{Extent: period.MustNew(5, 15, true, true), VMin: 6, VMax: 9}
	d := TBox{Extent: period.MustNew(10, 15, false, true), VMin: 0, VMax: 5}

	assert.True(t, Overlaps(a, b))
	assert.False(t, Overlaps(a, c), "disjoint value ranges")
	assert.False(t, Overlaps(a, d), "touching exclusive bound")
}

func TestString(t *testing.T) {
	p := period.MustNew(0, 1, true, true)
	assert.Equal(t, "TBOX(1, 2.5, "+p.String()+")", TBox{Extent: p, VMin: 1, VMax: 2.5}.String())
	assert.Equal(t, "PERIOD("+p.String()+")", Time{Extent: p}.String())
}
