// Package detector provides hand-pose detection interfaces and joint types.
package detector

// JointName identifies one of the 21 hand joints reported per frame.
// The numeric order is the order in which joints are gated, transformed
// and emitted.
type JointName int

// Joint names in emission order.
const (
	ThumbTip JointName = iota
	ThumbIP
	ThumbMP
	ThumbCMC
	IndexTip
	IndexDIP
	IndexPIP
	IndexMCP
	MiddleTip
	MiddleDIP
	MiddlePIP
	MiddleMCP
	RingTip
	RingDIP
	RingPIP
	RingMCP
	LittleTip
	LittleDIP
	LittlePIP
	LittleMCP
	Wrist
	NumJoints = 21
)

var jointNames = [NumJoints]string{
	"thumbTip", "thumbIP", "thumbMP", "thumbCMC",
	"indexTip", "indexDIP", "indexPIP", "indexMCP",
	"middleTip", "middleDIP", "middlePIP", "middleMCP",
	"ringTip", "ringDIP", "ringPIP", "ringMCP",
	"littleTip", "littleDIP", "littlePIP", "littleMCP",
	"wrist",
}

// String returns the camel-case joint identifier, e.g. "indexPIP".
func (j JointName) String() string {
	if j < 0 || int(j) >= NumJoints {
		return "unknown"
	}
	return jointNames[j]
}

// Valid reports whether j is one of the 21 defined joints.
func (j JointName) Valid() bool {
	return j >= 0 && int(j) < NumJoints
}

// AllJoints returns the joint names in emission order.
func AllJoints() []JointName {
	joints := make([]JointName, NumJoints)
	for i := range joints {
		joints[i] = JointName(i)
	}
	return joints
}

// Point is a 2D point. Detector output uses normalized coordinates with
// the origin at the bottom-left of the frame.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// JointSample is one joint's observation for a single frame.
type JointSample struct {
	Name       JointName `json:"name"`
	Location   Point     `json:"location"`
	Confidence float32   `json:"confidence"`
}

// Hand is the raw per-frame result of a detector, keyed by joint.
// A nil Hand means no hand was found in the frame.
type Hand map[JointName]JointSample
