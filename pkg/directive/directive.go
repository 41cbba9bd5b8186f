// Package directive extracts robot-control metadata from model replies.
//
// The dialogue model is instructed to end every reply with two trailer
// lines, "MOTION: <label>" and "FACE: <label>". Parse splits a raw reply
// into the text to speak out loud and the two labels. Parsing is
// deliberately permissive: it never fails, trailers may be missing or
// repeated, and labels outside the known vocabularies are passed through
// untouched so a model that improvises does not break the pipeline.
package directive

import "strings"

// Motion is a robot motion label.
type Motion string

// Face is a robot face-animation label.
type Face string

// Motion vocabulary understood by the device firmware.
const (
	MotionHi            Motion = "hi"
	MotionHandWave      Motion = "hand wave"
	MotionShakeHand     Motion = "shake hand"
	MotionHandsUp       Motion = "hands up"
	MotionHandsDown     Motion = "hands down"
	MotionDance         Motion = "dance"
	MotionJump          Motion = "jump"
	MotionExercise      Motion = "exercise"
	MotionForward       Motion = "forward"
	MotionBackward      Motion = "backward"
	MotionTurnRight     Motion = "turn right"
	MotionTurnLeft      Motion = "turn left"
	MotionSayYes        Motion = "say yes"
	MotionSayNo         Motion = "say no"
	MotionSayThankYou   Motion = "say thank you"
	MotionRightBendWave Motion = "right bend wave"
	MotionLeftBendWave  Motion = "left bend wave"
	MotionInitial       Motion = "initial position"
)

// Face vocabulary understood by the device firmware.
const (
	FaceTalking Face = "talking"
	FaceHappy   Face = "happy"
	FaceSad     Face = "sad"
	FaceAngry   Face = "angry"
	FaceCrying  Face = "crying"
	FaceBlink   Face = "blink"
	FaceInitial Face = "initial"
)

// Defaults used when a reply carries no trailer line.
const (
	DefaultMotion = MotionInitial
	DefaultFace   = FaceTalking
)

// knownMotions is the closed vocabulary the system prompt advertises.
var knownMotions = map[Motion]bool{
	MotionHi:            true,
	MotionHandWave:      true,
	MotionShakeHand:     true,
	MotionHandsUp:       true,
	MotionHandsDown:     true,
	MotionDance:         true,
	MotionJump:          true,
	MotionExercise:      true,
	MotionForward:       true,
	MotionBackward:      true,
	MotionTurnRight:     true,
	MotionTurnLeft:      true,
	MotionSayYes:        true,
	MotionSayNo:         true,
	MotionSayThankYou:   true,
	MotionRightBendWave: true,
	MotionLeftBendWave:  true,
	MotionInitial:       true,
}

var knownFaces = map[Face]bool{
	FaceTalking: true,
	FaceHappy:   true,
	FaceSad:     true,
	FaceAngry:   true,
	FaceCrying:  true,
	FaceBlink:   true,
	FaceInitial: true,
}

// Known reports whether the motion is part of the advertised vocabulary.
// Unknown motions are still valid pass-through values.
func (m Motion) Known() bool {
	return knownMotions[m]
}

// Known reports whether the face is part of the advertised vocabulary.
// Unknown faces are still valid pass-through values.
func (f Face) Known() bool {
	return knownFaces[f]
}

// Motions returns the full motion vocabulary.
func Motions() []Motion {
	return []Motion{
		MotionHi, MotionHandWave, MotionShakeHand, MotionHandsUp,
		MotionHandsDown, MotionDance, MotionJump, MotionExercise,
		MotionForward, MotionBackward, MotionTurnRight, MotionTurnLeft,
		MotionSayYes, MotionSayNo, MotionSayThankYou,
		MotionRightBendWave, MotionLeftBendWave, MotionInitial,
	}
}

// Faces returns the full face vocabulary.
func Faces() []Face {
	return []Face{
		FaceTalking, FaceHappy, FaceSad, FaceAngry,
		FaceCrying, FaceBlink, FaceInitial,
	}
}

// Directive is the decoded output of one model reply: the prose to speak
// plus the motion and face the device should play alongside it.
type Directive struct {
	// SpokenText is the reply with trailer lines removed and the
	// remaining lines joined with single spaces.
	SpokenText string

	// Motion to perform. DefaultMotion when the reply had no trailer.
	Motion Motion

	// Face to show. DefaultFace when the reply had no trailer.
	Face Face
}

const (
	motionPrefix = "MOTION:"
	facePrefix   = "FACE:"
)

// Parse extracts a Directive from a raw model reply.
//
// Lines are scanned top to bottom. A line whose trimmed, upper-cased form
// starts with "MOTION:" or "FACE:" sets the corresponding label (trimmed,
// lower-cased) and is dropped from the spoken text; when a trailer appears
// more than once the last occurrence wins. Every other line is kept in
// order. Parse never fails, whatever the input.
func Parse(raw string) Directive {
	d := Directive{
		Motion: DefaultMotion,
		Face:   DefaultFace,
	}

	var spoken []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		upper := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(upper, motionPrefix):
			_, value, _ := strings.Cut(line, ":")
			d.Motion = Motion(strings.ToLower(strings.TrimSpace(value)))
		case strings.HasPrefix(upper, facePrefix):
			_, value, _ := strings.Cut(line, ":")
			d.Face = Face(strings.ToLower(strings.TrimSpace(value)))
		default:
			spoken = append(spoken, line)
		}
	}

	d.SpokenText = strings.TrimSpace(strings.Join(spoken, " "))
	return d
}
