package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/handosc/internal/detector"
)

const delta = 1e-5

func TestFlipY(t *testing.T) {
	p := FlipY(detector.Point{X: 0.4, Y: 0.2})
	assert.InDelta(t, 0.4, p.X, delta)
	assert.InDelta(t, 0.8, p.Y, delta)

	t.Run("self-inverse", func(t *testing.T) {
		for _, y := range []float32{0, 0.2, 0.5, 0.73, 1} {
			orig := detector.Point{X: 0.1, Y: y}
			assert.InDelta(t, y, FlipY(FlipY(orig)).Y, delta)
		}
	})
}

func TestTransform_NilObservation(t *testing.T) {
	points := Transform(nil, Identity)
	require.NotNil(t, points)
	assert.Empty(t, points)
}

func TestTransform_IdentityProjection(t *testing.T) {
	hand := detector.UniformHand(0.9)
	obs := Gate(hand)
	require.NotNil(t, obs)

	points := Transform(obs, Identity)

	require.Len(t, points, detector.NumJoints)
	for i, p := range points {
		src := hand[detector.JointName(i)].Location
		assert.InDelta(t, src.X, p.X, delta)
		assert.InDelta(t, 1-src.Y, p.Y, delta)
	}
}

func TestTransform_ProjectorSeesFlippedPointsInOrder(t *testing.T) {
	obs := Gate(detector.UniformHand(0.9))
	require.NotNil(t, obs)

	var seen []detector.Point
	proj := ProjectorFunc(func(p detector.Point) detector.Point {
		seen = append(seen, p)
		return detector.Point{X: p.X * 100, Y: p.Y * 200}
	})

	points := Transform(obs, proj)

	require.Len(t, seen, detector.NumJoints)
	for i := range seen {
		assert.InDelta(t, 1-obs.Joints[i].Location.Y, seen[i].Y, delta)
		assert.InDelta(t, seen[i].X*100, points[i].X, delta)
		assert.InDelta(t, seen[i].Y*200, points[i].Y, delta)
	}
}

func TestTransform_NilProjectorIsIdentity(t *testing.T) {
	obs := Gate(detector.UniformHand(0.9))
	assert.Equal(t, Transform(obs, Identity), Transform(obs, nil))
}

func TestAspectFill(t *testing.T) {
	tests := []struct {
		name string
		proj *AspectFill
		in   detector.Point
		want detector.Point
	}{
		{
			name: "same size maps to pixels",
			proj: NewAspectFill(640, 480, 640, 480, false),
			in:   detector.Point{X: 0.25, Y: 0.5},
			want: detector.Point{X: 160, Y: 240},
		},
		{
			name: "center stays centered when cropping",
			proj: NewAspectFill(640, 480, 1280, 720, false),
			in:   detector.Point{X: 0.5, Y: 0.5},
			want: detector.Point{X: 640, Y: 360},
		},
		{
			name: "top edge is cropped on a wider view",
			proj: NewAspectFill(640, 480, 1280, 720, false),
			in:   detector.Point{X: 0, Y: 0},
			want: detector.Point{X: 0, Y: -120},
		},
		{
			name: "side edges are cropped on a taller view",
			proj: NewAspectFill(640, 480, 480, 480, false),
			in:   detector.Point{X: 0, Y: 1},
			want: detector.Point{X: -80, Y: 480},
		},
		{
			name: "mirror flips x",
			proj: NewAspectFill(640, 480, 640, 480, true),
			in:   detector.Point{X: 0.25, Y: 0.5},
			want: detector.Point{X: 480, Y: 240},
		},
		{
			name: "unknown frame size scales to view",
			proj: NewAspectFill(0, 0, 200, 100, false),
			in:   detector.Point{X: 0.5, Y: 0.5},
			want: detector.Point{X: 100, Y: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.proj.Project(tt.in)
			assert.InDelta(t, tt.want.X, got.X, 1e-3)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-3)
		})
	}
}
