package detector

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
)

const epsilon = 1e-6

func TestJointName_String(t *testing.T) {
	tests := []struct {
		joint JointName
		want  string
	}{
		{ThumbTip, "thumbTip"},
		{ThumbCMC, "thumbCMC"},
		{IndexPIP, "indexPIP"},
		{MiddleMCP, "middleMCP"},
		{RingDIP, "ringDIP"},
		{LittleTip, "littleTip"},
		{Wrist, "wrist"},
		{JointName(NumJoints), "unknown"},
		{JointName(-1), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.joint.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllJoints(t *testing.T) {
	joints := AllJoints()

	if len(joints) != NumJoints {
		t.Fatalf("expected %d joints, got %d", NumJoints, len(joints))
	}
	if joints[0] != ThumbTip {
		t.Errorf("first joint = %v, want thumbTip", joints[0])
	}
	if joints[NumJoints-1] != Wrist {
		t.Errorf("last joint = %v, want wrist", joints[NumJoints-1])
	}

	seen := make(map[JointName]bool)
	for _, j := range joints {
		if !j.Valid() {
			t.Errorf("joint %d should be valid", j)
		}
		if seen[j] {
			t.Errorf("joint %v listed twice", j)
		}
		seen[j] = true
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns no hand by default", func(t *testing.T) {
		mock := NewMockDetector()

		hand, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hand != nil {
			t.Errorf("expected nil hand, got %v", hand)
		}
	})

	t.Run("returns configured hand", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHand(OpenPalmHand())

		hand, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hand) != NumJoints {
			t.Errorf("expected %d joints, got %d", NumJoints, len(hand))
		}
	})

	t.Run("plays back a sequence then reports no hand", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetSequence([]Hand{nil, UniformHand(0.9)})

		first, _ := mock.Detect(nil)
		second, _ := mock.Detect(nil)
		third, _ := mock.Detect(nil)

		if first != nil {
			t.Error("first frame should have no hand")
		}
		if len(second) != NumJoints {
			t.Errorf("second frame should have %d joints, got %d", NumJoints, len(second))
		}
		if third != nil {
			t.Error("exhausted sequence should report no hand")
		}
		if mock.Calls() != 3 {
			t.Errorf("Calls() = %d, want 3", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hand, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hand != nil {
			t.Errorf("expected nil hand when error is set, got %v", hand)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		if err := NewMockDetector().Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestUniformHand(t *testing.T) {
	hand := UniformHand(0.75)

	if len(hand) != NumJoints {
		t.Fatalf("expected %d joints, got %d", NumJoints, len(hand))
	}
	for j, s := range hand {
		if s.Name != j {
			t.Errorf("sample keyed %v has name %v", j, s.Name)
		}
		if s.Confidence != 0.75 {
			t.Errorf("%v confidence = %f, want 0.75", j, s.Confidence)
		}
		if s.Location.X < 0 || s.Location.X > 1 || s.Location.Y < 0 || s.Location.Y > 1 {
			t.Errorf("%v location %v outside the unit square", j, s.Location)
		}
	}
}

func TestOpenPalmHand(t *testing.T) {
	hand := OpenPalmHand()

	if len(hand) != NumJoints {
		t.Fatalf("expected %d joints, got %d", NumJoints, len(hand))
	}

	t.Run("fingertips are above their knuckles", func(t *testing.T) {
		pairs := [][2]JointName{
			{IndexTip, IndexMCP},
			{MiddleTip, MiddleMCP},
			{RingTip, RingMCP},
			{LittleTip, LittleMCP},
		}
		for _, p := range pairs {
			// Detector space: larger Y is higher in the frame
			if hand[p[0]].Location.Y <= hand[p[1]].Location.Y {
				t.Errorf("%v should be above %v", p[0], p[1])
			}
		}
	})

	t.Run("wrist is the lowest joint", func(t *testing.T) {
		for j, s := range hand {
			if j != Wrist && s.Location.Y <= hand[Wrist].Location.Y {
				t.Errorf("%v should be above the wrist", j)
			}
		}
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("no hands", func(t *testing.T) {
		hand, err := parseResponse([]byte(`{"hands": []}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hand != nil {
			t.Errorf("expected nil hand, got %v", hand)
		}
	})

	t.Run("maps landmark order and flips y", func(t *testing.T) {
		var b strings.Builder
		b.WriteString(`{"hands": [{"handedness": "Right", "score": 0.8, "points": [`)
		for i := 0; i < NumJoints; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			// x encodes the landmark index, y is top-left based
			b.WriteString(`{"x": `)
			b.WriteString(strconv.FormatFloat(float64(i)/100, 'f', 2, 64))
			b.WriteString(`, "y": 0.25, "z": 0}`)
		}
		b.WriteString(`]}]}`)

		hand, err := parseResponse([]byte(b.String()))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hand) != NumJoints {
			t.Fatalf("expected %d joints, got %d", NumJoints, len(hand))
		}

		checks := map[JointName]int{
			Wrist:     0,
			ThumbCMC:  1,
			ThumbMP:   2,
			ThumbIP:   3,
			ThumbTip:  4,
			IndexMCP:  5,
			IndexTip:  8,
			MiddleTip: 12,
			RingMCP:   13,
			LittleMCP: 17,
			LittleTip: 20,
		}
		for joint, idx := range checks {
			got := hand[joint].Location.X
			if math.Abs(float64(got)-float64(idx)/100) > epsilon {
				t.Errorf("%v X = %f, want landmark %d", joint, got, idx)
			}
		}

		for j, s := range hand {
			if math.Abs(float64(s.Location.Y)-0.75) > epsilon {
				t.Errorf("%v Y = %f, want 0.75 after flip", j, s.Location.Y)
			}
			if s.Confidence != 0.8 {
				t.Errorf("%v confidence = %f, want hand score 0.8", j, s.Confidence)
			}
		}
	})

	t.Run("visibility overrides hand score", func(t *testing.T) {
		hand, err := parseResponse([]byte(`{"hands": [{"score": 0.9, "points": [{"x": 0.5, "y": 0.5, "visibility": 0.1}]}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hand) != 1 {
			t.Fatalf("expected 1 joint, got %d", len(hand))
		}
		if hand[Wrist].Confidence != 0.1 {
			t.Errorf("wrist confidence = %f, want 0.1", hand[Wrist].Confidence)
		}
	})

	t.Run("service error", func(t *testing.T) {
		_, err := parseResponse([]byte(`{"error": "model not loaded"}`))
		if err == nil || !strings.Contains(err.Error(), "model not loaded") {
			t.Errorf("expected service error, got %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := parseResponse([]byte(`{not json`)); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestError(t *testing.T) {
	cause := errors.New("vision request failed")
	err := error(&Error{Err: cause})

	if !errors.Is(err, cause) {
		t.Error("Error should unwrap to its cause")
	}

	var detErr *Error
	if !errors.As(err, &detErr) {
		t.Error("errors.As should find *Error")
	}
	if !strings.Contains(err.Error(), "vision request failed") {
		t.Errorf("message should include cause, got %q", err.Error())
	}
}
