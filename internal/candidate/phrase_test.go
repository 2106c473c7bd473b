package candidate

import (
	"strings"
	"testing"

	"github.com/danmuck/seedhunt/internal/wordlist"
)

func TestAssembleOrder(t *testing.T) {
	if got := Assemble("b c", "a", true); got != "a b c" {
		t.Fatalf("unexpected head assembly: %q", got)
	}
	if got := Assemble("a b", "c", false); got != "a b c" {
		t.Fatalf("unexpected tail assembly: %q", got)
	}
}

func TestAssemblerRoundTrip(t *testing.T) {
	words := wordlist.English()
	known := strings.Fields("legal winner thank year wave sausage worth useful legal")
	pos := []int{5, 1999, 42}

	for _, head := range []bool{false, true} {
		asm := NewAssembler(known, head, words)
		phrase := asm.Phrase(pos)
		fields := strings.Fields(phrase)
		if len(fields) != 12 {
			t.Fatalf("head=%v: unexpected token count %d in %q", head, len(fields), phrase)
		}
		want := Assemble(strings.Join(known, " "), RenderString(pos, words), head)
		if phrase != want {
			t.Fatalf("head=%v: assembler/assemble mismatch %q != %q", head, phrase, want)
		}

		var gotKnown []string
		if head {
			gotKnown = fields[len(pos):]
		} else {
			gotKnown = fields[:len(known)]
		}
		if strings.Join(gotKnown, " ") != strings.Join(known, " ") {
			t.Fatalf("head=%v: known words not recovered: %v", head, gotKnown)
		}

		missing := asm.Missing(phrase, len(pos))
		for i, w := range missing {
			if w != words.Word(pos[i]) {
				t.Fatalf("head=%v: unexpected missing word %d: %q", head, i, w)
			}
		}
	}
}

func TestAssemblerReusesBufferSafely(t *testing.T) {
	asm := NewAssembler([]string{"x"}, false, wordlist.English())
	first := asm.Phrase([]int{0})
	second := asm.Phrase([]int{1})
	if first != "x abandon" || second != "x ability" {
		t.Fatalf("phrases aliased: %q %q", first, second)
	}
}
