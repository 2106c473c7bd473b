// Package wordlist exposes the BIP-39 English dictionary as a read-only table.
package wordlist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"
)

// Size is the number of words in a BIP-39 dictionary.
const Size = 2048

var ErrUnknownWord = errors.New("wordlist: unknown word")

// List is an ordered, immutable word table.
type List struct {
	words []string
	index map[string]int
}

var english = mustBuild(wordlists.English)

// English returns the process-wide BIP-39 English table.
func English() List {
	return english
}

func mustBuild(words []string) List {
	list, err := New(words)
	if err != nil {
		panic(err)
	}
	return list
}

// New copies words into a List. Entries must be distinct and non-empty.
func New(words []string) (List, error) {
	out := List{
		words: make([]string, len(words)),
		index: make(map[string]int, len(words)),
	}
	for i, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			return List{}, fmt.Errorf("wordlist: empty entry at %d", i)
		}
		if _, dup := out.index[w]; dup {
			return List{}, fmt.Errorf("wordlist: duplicate entry %q", w)
		}
		out.words[i] = w
		out.index[w] = i
	}
	return out, nil
}

func (l List) Len() int {
	return len(l.words)
}

// Word returns the entry at idx. idx must be in [0, Len()).
func (l List) Word(idx int) string {
	return l.words[idx]
}

// Index returns the position of word in the table.
func (l List) Index(word string) (int, bool) {
	idx, ok := l.index[word]
	return idx, ok
}

// Check reports the first word not present in the table.
func (l List) Check(words []string) error {
	for i, w := range words {
		if _, ok := l.index[w]; !ok {
			return fmt.Errorf("%w: %q at position %d", ErrUnknownWord, w, i)
		}
	}
	return nil
}
