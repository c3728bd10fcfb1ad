package bbox

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int) []float32 {
	signal := make([]float32, n)
	for i := range signal {
		signal[i] = float32(i) + 0.5
	}
	return signal
}

func TestRewriteSignal_WindowWithSuppression(t *testing.T) {
	input := ramp(300)
	output := RewriteSignal(input, MatchResult{InBox: true, TickStart: 100, TickEnd: 200}, true)

	require.Len(t, output, 300)
	for i, sample := range output {
		if i >= 100 && i <= 200 {
			assert.Equal(t, input[i], sample, "tick %d", i)
		} else {
			assert.Zero(t, sample, "tick %d", i)
		}
	}
}

func TestRewriteSignal_WindowWithoutSuppression(t *testing.T) {
	input := ramp(300)
	output := RewriteSignal(input, MatchResult{InBox: true, TickStart: 100, TickEnd: 200}, false)
	assert.Equal(t, input, output)
}

func TestRewriteSignal_OutsideBox(t *testing.T) {
	input := ramp(300)

	zeroed := RewriteSignal(input, MatchResult{InBox: false, TickStart: 100, TickEnd: 200}, true)
	assert.Equal(t, make([]float32, 300), zeroed)

	kept := RewriteSignal(input, MatchResult{InBox: false, TickStart: 100, TickEnd: 200}, false)
	assert.Equal(t, input, kept)
}

func TestRewriteSignal_ClampsTicks(t *testing.T) {
	input := ramp(10)

	output := RewriteSignal(input, MatchResult{InBox: true, TickStart: -20, TickEnd: 3}, true)
	assert.Equal(t, []float32{0.5, 1.5, 2.5, 3.5, 0, 0, 0, 0, 0, 0}, output)

	output = RewriteSignal(input, MatchResult{InBox: true, TickStart: 8, TickEnd: 500}, true)
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0, 0, 0, 8.5, 9.5}, output)
}

func TestRewriteSignal_WindowBeyondSignalKeepsEdgeTick(t *testing.T) {
	// both endpoints clamp to the last tick
	input := ramp(10)
	output := RewriteSignal(input, MatchResult{InBox: true, TickStart: 50, TickEnd: 60}, true)
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0, 0, 0, 0, 9.5}, output)
}

func TestRewriteSignal_InvertedWindow(t *testing.T) {
	input := ramp(10)
	match := MatchResult{InBox: true, TickStart: 7, TickEnd: 2}

	assert.Equal(t, make([]float32, 10), RewriteSignal(input, match, true))
	assert.Equal(t, input, RewriteSignal(input, match, false))
}

func TestRewriteSignal_EmptySignal(t *testing.T) {
	for _, match := range []MatchResult{
		{InBox: true, TickStart: 0, TickEnd: 10},
		{InBox: false},
	} {
		for _, zeroOutside := range []bool{true, false} {
			output := RewriteSignal([]float32{}, match, zeroOutside)
			assert.Empty(t, output)
		}
	}
}

func TestRewriteSignal_KeepsValuesVerbatim(t *testing.T) {
	nan := float32(math.NaN())
	input := []float32{-3, nan, float32(math.Inf(1)), -0.25}
	output := RewriteSignal(input, MatchResult{InBox: true, TickStart: 0, TickEnd: 3}, true)

	require.Len(t, output, 4)
	assert.Equal(t, float32(-3), output[0])
	assert.True(t, math.IsNaN(float64(output[1])))
	assert.True(t, math.IsInf(float64(output[2]), 1))
	assert.Equal(t, float32(-0.25), output[3])
}

func TestRewriteSignal_DoesNotModifyInput(t *testing.T) {
	input := ramp(20)
	original := append([]float32(nil), input...)

	output := RewriteSignal(input, MatchResult{InBox: true, TickStart: 5, TickEnd: 10}, true)
	output[7] = 1000

	assert.Equal(t, original, input)
}

func TestRewriteSignal_PreservesLength(t *testing.T) {
	matches := []MatchResult{
		{InBox: true, TickStart: 0, TickEnd: 0},
		{InBox: true, TickStart: -10, TickEnd: -5},
		{InBox: true, TickStart: 3, TickEnd: 1000},
		{InBox: false, TickStart: 3, TickEnd: 4},
	}
	for _, n := range []int{1, 2, 17, 300} {
		for _, match := range matches {
			for _, zeroOutside := range []bool{true, false} {
				assert.Len(t, RewriteSignal(ramp(n), match, zeroOutside), n)
			}
		}
	}
}
