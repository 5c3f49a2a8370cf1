package rewrite

import "testing"

func TestDetectNewline(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"", "\n"},
		{"one line", "\n"},
		{"a\nb\n", "\n"},
		{"a\r\nb\r\n", "\r\n"},
		{"\n\r\n", "\n"},
	}

	for _, tt := range tests {
		if got := DetectNewline([]byte(tt.content)); got != tt.want {
			t.Errorf("DetectNewline(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestScannerRewriter(t *testing.T) {
	rw := NewScannerRewriter([]byte("keep\nswap\nrest 1\nrest 2"))

	if !rw.Scan() || rw.Text() != "keep" {
		t.Fatalf("first line = %q", rw.Text())
	}
	rw.CopyLine()

	if !rw.Scan() || rw.Text() != "swap" {
		t.Fatalf("second line = %q", rw.Text())
	}
	rw.ReplaceLine("swapped")

	if err := rw.CopyRemainingLines(); err != nil {
		t.Fatalf("CopyRemainingLines() error: %v", err)
	}
	if rw.Scan() {
		t.Error("Scan() after EOF returned true")
	}
	if rw.LineNo() != 4 {
		t.Errorf("LineNo() = %d, want 4", rw.LineNo())
	}

	want := "keep\nswapped\nrest 1\nrest 2"
	if got := string(rw.Bytes()); got != want {
		t.Errorf("Bytes() = %q, want %q", got, want)
	}
}

var _ LineRewriter = (*ScannerRewriter)(nil)

func TestScannerRewriterKeepsLineEndings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		replace int // 1-based line to replace, 0 for none
		want    string
	}{
		{
			name:    "mixed endings copied as read",
			content: "// a\n// b\r\nsentinel\ntail\r\n",
			want:    "// a\n// b\r\nsentinel\ntail\r\n",
		},
		{
			name:    "bare carriage return at end of file",
			content: "a\nb\r",
			want:    "a\nb\r",
		},
		{
			name:    "replacement uses the first line's ending",
			content: "a\r\nb\nc\r\n",
			replace: 2,
			want:    "a\r\nX\r\nc\r\n",
		},
		{
			name:    "replaced last line without ending stays without",
			content: "a\nb",
			replace: 2,
			want:    "a\nX",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw := NewScannerRewriter([]byte(tt.content))
			for rw.Scan() {
				if rw.LineNo() == tt.replace {
					rw.ReplaceLine("X")
				} else {
					rw.CopyLine()
				}
			}
			if err := rw.Err(); err != nil {
				t.Fatalf("Err() = %v", err)
			}
			if got := string(rw.Bytes()); got != tt.want {
				t.Errorf("Bytes() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScannerRewriterText(t *testing.T) {
	rw := NewScannerRewriter([]byte("one\r\ntwo\nthree"))
	var got []string
	for rw.Scan() {
		got = append(got, rw.Text())
	}
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i+1, got[i], want[i])
		}
	}
}
