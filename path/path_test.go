package path_test

import (
	"context"
	"math"
	"testing"

	"github.com/artuross/lepton/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid path", func(t *testing.T) {
		p, err := path.New([]string{"q1", "q2"}, "0.2 + 0.1*sin(q1) + 0.05*q2")
		require.NoError(t, err)

		assert.Equal(t, []string{"q1", "q2"}, p.Coordinates())
	})

	t.Run("length expression must use declared coordinates", func(t *testing.T) {
		_, err := path.New([]string{"q1"}, "0.2 + 0.1*sin(q_other)")
		require.Error(t, err)

		assert.Contains(t, err.Error(), "q_other")
	})

	t.Run("invalid length expression", func(t *testing.T) {
		_, err := path.New([]string{"q1"}, "0.2 +")
		assert.Error(t, err)
	})

	t.Run("moment arm count must match coordinates", func(t *testing.T) {
		_, err := path.New(
			[]string{"q1", "q2"},
			"q1 + q2",
			path.WithMomentArmExpressions([]string{"-1"}),
		)
		assert.Error(t, err)
	})

	t.Run("speed expression may use coordinate speeds", func(t *testing.T) {
		_, err := path.New(
			[]string{"q1"},
			"0.2 + 0.1*q1",
			path.WithSpeedExpression("0.1 * q1_u"),
		)
		assert.NoError(t, err)
	})

	t.Run("speed expression rejects unknown names", func(t *testing.T) {
		_, err := path.New(
			[]string{"q1"},
			"0.2 + 0.1*q1",
			path.WithSpeedExpression("0.1 * bogus_u"),
		)
		assert.Error(t, err)
	})
}

func TestPath_Length(t *testing.T) {
	p, err := path.New([]string{"q1"}, "0.2 + 0.1*sin(q1)")
	require.NoError(t, err)

	length, err := p.Length(context.Background(), map[string]float64{"q1": 0.5})
	require.NoError(t, err)

	assert.InDelta(t, 0.2+0.1*math.Sin(0.5), length, 1e-10)
}

func TestPath_MomentArm(t *testing.T) {
	t.Run("derived from the length function", func(t *testing.T) {
		// l = 0.2 + 0.1*sin(q1), so the moment arm about q1 is
		// -dl/dq1 = -0.1*cos(q1)
		p, err := path.New([]string{"q1"}, "0.2 + 0.1*sin(q1)")
		require.NoError(t, err)

		momentArm, err := p.MomentArm(context.Background(), "q1", map[string]float64{"q1": 0.5})
		require.NoError(t, err)

		assert.InDelta(t, -0.1*math.Cos(0.5), momentArm, 1e-10)
	})

	t.Run("explicit expressions take precedence", func(t *testing.T) {
		p, err := path.New(
			[]string{"q1"},
			"0.2 + 0.1*sin(q1)",
			path.WithMomentArmExpressions([]string{"-0.05"}),
		)
		require.NoError(t, err)

		momentArm, err := p.MomentArm(context.Background(), "q1", map[string]float64{"q1": 0.5})
		require.NoError(t, err)

		assert.InDelta(t, -0.05, momentArm, 1e-10)
	})

	t.Run("unknown coordinate", func(t *testing.T) {
		p, err := path.New([]string{"q1"}, "0.2 + 0.1*sin(q1)")
		require.NoError(t, err)

		_, err = p.MomentArm(context.Background(), "q2", map[string]float64{"q1": 0.5})
		assert.Error(t, err)
	})
}

func TestPath_MomentArms(t *testing.T) {
	t.Run("all coordinates in order", func(t *testing.T) {
		// l = 0.1*sin(q1) + q2^2, so the moment arms are
		// -0.1*cos(q1) and -2*q2
		p, err := path.New([]string{"q1", "q2"}, "0.1*sin(q1) + q2^2")
		require.NoError(t, err)

		momentArms, err := p.MomentArms(context.Background(), map[string]float64{"q1": 0.5, "q2": 3})
		require.NoError(t, err)

		require.Len(t, momentArms, 2)
		assert.InDelta(t, -0.1*math.Cos(0.5), momentArms[0], 1e-10)
		assert.InDelta(t, -6.0, momentArms[1], 1e-10)
	})

	t.Run("missing coordinate value", func(t *testing.T) {
		// the moment arm about q1 is -q2, so q2 must be bound
		p, err := path.New([]string{"q1", "q2"}, "q1 * q2")
		require.NoError(t, err)

		_, err = p.MomentArms(context.Background(), map[string]float64{"q1": 1})
		assert.Error(t, err)
	})
}

func TestPath_LengtheningSpeed(t *testing.T) {
	t.Run("chain rule over the length partials", func(t *testing.T) {
		// l = q1^2 + 3*q2, so ldot = 2*q1*q1dot + 3*q2dot
		p, err := path.New([]string{"q1", "q2"}, "q1^2 + 3*q2")
		require.NoError(t, err)

		speed, err := p.LengtheningSpeed(
			context.Background(),
			map[string]float64{"q1": 2, "q2": 5},
			map[string]float64{"q1": 0.5, "q2": 1},
		)
		require.NoError(t, err)

		assert.InDelta(t, 2*2*0.5+3*1, speed, 1e-10)
	})

	t.Run("explicit speed expression", func(t *testing.T) {
		p, err := path.New(
			[]string{"q1"},
			"q1^2",
			path.WithSpeedExpression("2 * q1 * q1_u"),
		)
		require.NoError(t, err)

		speed, err := p.LengtheningSpeed(
			context.Background(),
			map[string]float64{"q1": 3},
			map[string]float64{"q1": 0.25},
		)
		require.NoError(t, err)

		assert.InDelta(t, 1.5, speed, 1e-10)
	})

	t.Run("missing coordinate speed", func(t *testing.T) {
		p, err := path.New([]string{"q1"}, "q1^2")
		require.NoError(t, err)

		_, err = p.LengtheningSpeed(
			context.Background(),
			map[string]float64{"q1": 3},
			map[string]float64{},
		)
		assert.Error(t, err)
	})
}
