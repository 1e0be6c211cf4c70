package ingest

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"crlf", "a\r\nb\rc", "a\nb\nc"},
		{"crlf blank runs", "a\r\n\r\n\r\nb", "a\n\nb"},
		{"trims", "  \n\nhello\n\n  ", "hello"},
		{"keeps single blank line", "a\n\nb", "a\n\nb"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"a\n\n\n\nb",
		"\r\n\r\n\r\n# Title\r\n\r\n\r\n\r\nbody  ",
		"x\n \n\n\ny",
		"   ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestChunk_FitsInOneChunk(t *testing.T) {
	text := strings.Repeat("a", 40)
	chunks := Chunk(text, 10)
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("expected exactly one chunk, got %d", len(chunks))
	}
}

func TestChunk_BlankInput(t *testing.T) {
	if chunks := Chunk("  \n ", 10); chunks != nil {
		t.Errorf("expected nil for blank input, got %v", chunks)
	}
}

func TestChunk_PrefersNewlineThenSpace(t *testing.T) {
	// budget = 2 tokens = 8 chars
	text := "abc\ndefgh ijklmnop"
	chunks := Chunk(text, 2)
	if chunks[0] != "abc" {
		t.Errorf("expected cut at newline, got %q", chunks[0])
	}

	text = "abc defghijklmnop"
	chunks = Chunk(text, 2)
	if chunks[0] != "abc" {
		t.Errorf("expected cut at space, got %q", chunks[0])
	}

	text = "abcdefghijklmnop"
	chunks = Chunk(text, 2)
	if chunks[0] != "abcdefgh" || chunks[1] != "ijklmnop" {
		t.Errorf("expected hard cuts, got %q", chunks)
	}
}

func TestChunk_ReconstructsContent(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("línea número ")
		b.WriteString(strings.Repeat("x", i%17))
		if i%5 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	text := b.String()

	chunks := Chunk(text, 25)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
		if n := len([]rune(c)); n > 25*CharsPerToken {
			t.Errorf("chunk %d exceeds budget: %d", i, n)
		}
	}

	if got, want := strings.Join(strings.Fields(strings.Join(chunks, " ")), " "), strings.Join(strings.Fields(text), " "); got != want {
		t.Errorf("chunks do not reconstruct the original content")
	}
}

func TestSplitWithOverlap(t *testing.T) {
	text := "This is a long sentence. This is another sentence that will be split."
	chunks := SplitWithOverlap(text, 30, 5)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[1], "tence. ") {
		t.Errorf("second chunk should start with the overlap, got %q", chunks[1])
	}
}

func TestJoinSections(t *testing.T) {
	got := JoinSections([]string{"a", "  ", "", "b"}, HorizontalRule)
	if got != "a"+HorizontalRule+"b" {
		t.Errorf("JoinSections = %q", got)
	}
}
