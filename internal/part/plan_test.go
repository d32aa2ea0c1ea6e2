package part

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_SinglePart(t *testing.T) {
	t.Run("duration shorter than part length", func(t *testing.T) {
		plan, err := Compute(100, 180, 1)
		require.NoError(t, err)
		require.Equal(t, 1, plan.Count())
		assert.Equal(t, 0.0, plan.Segments[0].Start)
		assert.Equal(t, 100.0, plan.Segments[0].End)
	})

	t.Run("duration equal to part length", func(t *testing.T) {
		plan, err := Compute(180, 180, 1)
		require.NoError(t, err)
		require.Equal(t, 1, plan.Count())
		assert.Equal(t, 180.0, plan.Segments[0].End)
	})
}

func TestCompute_InvalidDuration(t *testing.T) {
	_, err := Compute(0, 180, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = Compute(-5, 180, 1)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestCompute_Coverage(t *testing.T) {
	// One hour audio book, 3 minute parts, 1 second backshift.
	plan, err := Compute(3600, 180, 1)
	require.NoError(t, err)

	segs := plan.Segments
	require.NotEmpty(t, segs)

	assert.Equal(t, 0.0, segs[0].Start)
	assert.Equal(t, 3600.0, segs[len(segs)-1].End)

	for i, seg := range segs {
		assert.Less(t, seg.Start, seg.End, "segment %d must be non-empty", i)
		assert.LessOrEqual(t, seg.Length(), plan.PartLength+1e-9, "segment %d longer than part length", i)
		if i == 0 {
			continue
		}
		// Starts strictly increase and every part overlaps the previous
		// by exactly the backshift.
		assert.Greater(t, seg.Start, segs[i-1].Start, "segment %d start must increase", i)
		if i < len(segs)-1 {
			assert.InDelta(t, plan.Backshift, segs[i-1].End-seg.Start, 1e-9, "segment %d overlap", i)
		}
		// No gaps.
		assert.LessOrEqual(t, seg.Start, segs[i-1].End, "gap before segment %d", i)
	}
}

func TestCompute_LastPartBounds(t *testing.T) {
	// Awkward duration that does not divide evenly.
	plan, err := Compute(1000, 180, 5)
	require.NoError(t, err)

	last := plan.Segments[plan.Count()-1]
	assert.Equal(t, 1000.0, last.End)
	assert.LessOrEqual(t, last.Length(), 180.0+1e-9)
	assert.Greater(t, last.Length(), 5.0, "last part must outlast the backshift")
}

func TestCompute_ZeroBackshift(t *testing.T) {
	plan, err := Compute(600, 200, 0)
	require.NoError(t, err)
	require.Equal(t, 3, plan.Count())

	for i := 1; i < plan.Count(); i++ {
		assert.Equal(t, plan.Segments[i-1].End, plan.Segments[i].Start)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	a, err := Compute(7345.678, 240, 2)
	require.NoError(t, err)
	b, err := Compute(7345.678, 240, 2)
	require.NoError(t, err)
	assert.Equal(t, a.Segments, b.Segments)
}

func TestPlan_FileName(t *testing.T) {
	plan, err := Compute(3600, 180, 1)
	require.NoError(t, err)
	require.Equal(t, 21, plan.Count())

	assert.Equal(t, "01.mp3", plan.FileName(0, "mp3"))
	assert.Equal(t, "21.mp3", plan.FileName(20, "mp3"))

	single, err := Compute(100, 180, 1)
	require.NoError(t, err)
	assert.Equal(t, "1.ogg", single.FileName(0, "ogg"))
}
