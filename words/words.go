// Package words supplies secret words for offline play from
// comma-separated libraries, one file per difficulty.
package words

import (
	"embed"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
)

//go:embed lists/*.txt
var embedded embed.FS

// Difficulty selects a library.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
	Brutal Difficulty = "brutal"
)

// Difficulties lists every difficulty, easiest first.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Normal, Hard, Brutal}
}

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Difficulties() {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or brutal)", s)
}

// FileName is the library file for d.
func (d Difficulty) FileName() string {
	return fmt.Sprintf("the_%s_library.txt", d)
}

// Library hands out secret words.
type Library interface {
	Word(d Difficulty) (string, error)
}

// FileLibrary reads word files from a filesystem and picks uniformly.
// Files are read once per difficulty.
type FileLibrary struct {
	fsys fs.FS
	rng  *rand.Rand

	mu    sync.Mutex
	cache map[Difficulty][]string
}

// NewFileLibrary returns a library over fsys.  A nil rng uses the
// global source.
func NewFileLibrary(fsys fs.FS, rng *rand.Rand) *FileLibrary {
	return &FileLibrary{fsys: fsys, rng: rng, cache: make(map[Difficulty][]string)}
}

// Embedded returns the libraries compiled into the binary.
func Embedded() *FileLibrary {
	sub, err := fs.Sub(embedded, "lists")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return NewFileLibrary(sub, nil)
}

// Dir returns a library reading the_<difficulty>_library.txt files
// from dir, or the embedded libraries when dir is empty.
func Dir(dir string) *FileLibrary {
	if dir == "" {
		return Embedded()
	}
	return NewFileLibrary(os.DirFS(dir), nil)
}

// Word picks a random word of difficulty d.
func (l *FileLibrary) Word(d Difficulty) (string, error) {
	list, err := l.Words(d)
	if err != nil {
		return "", err
	}
	var i int
	if l.rng != nil {
		i = l.rng.IntN(len(list))
	} else {
		i = rand.IntN(len(list))
	}
	return list[i], nil
}

// Words returns every word in the d library.
func (l *FileLibrary) Words(d Difficulty) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if list, ok := l.cache[d]; ok {
		return list, nil
	}
	data, err := fs.ReadFile(l.fsys, d.FileName())
	if err != nil {
		return nil, fmt.Errorf("words: %w", err)
	}
	list := Parse(string(data))
	if len(list) == 0 {
		return nil, fmt.Errorf("words: %s has no words", d.FileName())
	}
	l.cache[d] = list
	return list, nil
}

// Parse splits a comma-separated library, trimming whitespace and
// line breaks and dropping empty entries.  Words are lower-cased.
func Parse(data string) []string {
	var out []string
	for _, w := range strings.Split(data, ",") {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
