package platform

import (
	"bytes"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		id       string
		expected Kind
	}{
		{"darwin", KindDarwin},
		{"macOS", KindDarwin},
		{"linux", KindLinux},
		{" Linux ", KindLinux},
		{"freebsd", KindLinux},
		{"openbsd", KindLinux},
		{"windows", KindWindows},
		{"plan9", KindOther},
		{"js", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Classify(tt.id); got != tt.expected {
				t.Errorf("Classify(%q) = %v, expected %v", tt.id, got, tt.expected)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	expected := map[Kind]string{
		KindDarwin:  "darwin",
		KindLinux:   "linux",
		KindWindows: "windows",
		KindOther:   "other",
		Kind(42):    "other",
	}
	for kind, want := range expected {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, expected %q", int(kind), got, want)
		}
	}
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	NewWriterNotifier(&buf).Notify("playback is not supported")

	if buf.String() != "playback is not supported\n" {
		t.Errorf("WriterNotifier wrote %q", buf.String())
	}
}
