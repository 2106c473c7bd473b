package candidate

import (
	"strings"

	"github.com/danmuck/seedhunt/internal/wordlist"
)

// Assemble joins the known words and the generated gap with one space.
// When head is set the gap comes first.
func Assemble(known, gap string, head bool) string {
	if head {
		return gap + " " + known
	}
	return known + " " + gap
}

// Assembler renders and assembles candidate phrases into a reused buffer.
// One Assembler belongs to one worker.
type Assembler struct {
	known string
	head  bool
	words wordlist.List
	buf   []byte
}

func NewAssembler(known []string, head bool, words wordlist.List) *Assembler {
	return &Assembler{
		known: strings.Join(known, " "),
		head:  head,
		words: words,
	}
}

// Phrase renders pos and joins it with the known words.
func (a *Assembler) Phrase(pos []int) string {
	buf := a.buf[:0]
	if !a.head {
		buf = append(buf, a.known...)
		buf = append(buf, ' ')
	}
	buf = appendWords(buf, pos, a.words)
	if a.head {
		buf = append(buf, ' ')
		buf = append(buf, a.known...)
	}
	a.buf = buf
	return string(buf)
}

// Missing extracts the generated words from an assembled phrase.
func (a *Assembler) Missing(phrase string, width int) []string {
	fields := strings.Fields(phrase)
	if width > len(fields) {
		return nil
	}
	if a.head {
		return fields[:width]
	}
	return fields[len(fields)-width:]
}

func appendWords(dst []byte, pos []int, words wordlist.List) []byte {
	for i, idx := range pos {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = append(dst, words.Word(idx)...)
	}
	return dst
}
