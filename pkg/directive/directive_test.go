package directive

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantSpoken string
		wantMotion Motion
		wantFace   Face
	}{
		{
			name:       "well-formed trailers",
			raw:        "Hello there!\nMOTION: dance\nFACE: happy",
			wantSpoken: "Hello there!",
			wantMotion: MotionDance,
			wantFace:   FaceHappy,
		},
		{
			name:       "no trailers",
			raw:        "Just text, no trailers",
			wantSpoken: "Just text, no trailers",
			wantMotion: DefaultMotion,
			wantFace:   DefaultFace,
		},
		{
			name:       "empty input",
			raw:        "",
			wantSpoken: "",
			wantMotion: DefaultMotion,
			wantFace:   DefaultFace,
		},
		{
			name:       "multiline prose joined with spaces",
			raw:        "First line.\nSecond line.\nMOTION: hi\nFACE: blink",
			wantSpoken: "First line. Second line.",
			wantMotion: MotionHi,
			wantFace:   FaceBlink,
		},
		{
			name:       "case-insensitive prefix, label folded to lowercase",
			raw:        "Hey!\nmotion: Hand Wave\nFace: HAPPY",
			wantSpoken: "Hey!",
			wantMotion: MotionHandWave,
			wantFace:   FaceHappy,
		},
		{
			name:       "last occurrence wins",
			raw:        "Hmm.\nMOTION: jump\nFACE: sad\nMOTION: dance\nFACE: happy",
			wantSpoken: "Hmm.",
			wantMotion: MotionDance,
			wantFace:   FaceHappy,
		},
		{
			name:       "trailers with surrounding whitespace",
			raw:        "Okay.\n  MOTION:   say yes  \n\tFACE: talking",
			wantSpoken: "Okay.",
			wantMotion: MotionSayYes,
			wantFace:   FaceTalking,
		},
		{
			name:       "unknown labels pass through",
			raw:        "Whee!\nMOTION: backflip\nFACE: mischievous",
			wantSpoken: "Whee!",
			wantMotion: Motion("backflip"),
			wantFace:   Face("mischievous"),
		},
		{
			name:       "trailers only",
			raw:        "MOTION: hi\nFACE: happy",
			wantSpoken: "",
			wantMotion: MotionHi,
			wantFace:   FaceHappy,
		},
		{
			name:       "missing value after colon",
			raw:        "Sure.\nMOTION:\nFACE:",
			wantSpoken: "Sure.",
			wantMotion: Motion(""),
			wantFace:   Face(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Parse(tt.raw)
			if d.SpokenText != tt.wantSpoken {
				t.Errorf("spoken text = %q, want %q", d.SpokenText, tt.wantSpoken)
			}
			if d.Motion != tt.wantMotion {
				t.Errorf("motion = %q, want %q", d.Motion, tt.wantMotion)
			}
			if d.Face != tt.wantFace {
				t.Errorf("face = %q, want %q", d.Face, tt.wantFace)
			}
		})
	}
}

func TestKnownVocabulary(t *testing.T) {
	t.Run("all advertised motions are known", func(t *testing.T) {
		motions := Motions()
		if len(motions) != 18 {
			t.Fatalf("expected 18 motions, got %d", len(motions))
		}
		for _, m := range motions {
			if !m.Known() {
				t.Errorf("motion %q should be known", m)
			}
		}
	})

	t.Run("all advertised faces are known", func(t *testing.T) {
		faces := Faces()
		if len(faces) != 7 {
			t.Fatalf("expected 7 faces, got %d", len(faces))
		}
		for _, f := range faces {
			if !f.Known() {
				t.Errorf("face %q should be known", f)
			}
		}
	})

	t.Run("pass-through labels are not known", func(t *testing.T) {
		if Motion("moonwalk").Known() {
			t.Error("moonwalk should not be a known motion")
		}
		if Face("smug").Known() {
			t.Error("smug should not be a known face")
		}
	})
}
