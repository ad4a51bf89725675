package dict

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultFile is the production dictionary, looked up in the working
// directory.
const DefaultFile = "dico_fr.txt"

// FileDict is a Dict loaded once from a newline-separated word file.
// Entries are transliterated to ASCII (é→e) and lowercased at load time.
type FileDict struct {
	words map[string]struct{}
}

// Load reads the dictionary at path. A missing file is an error; the caller
// treats it as fatal at startup.
func Load(path string) (*FileDict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary %s: %w", path, err)
	}
	return d, nil
}

// Read consumes one word per line from r.
func Read(r io.Reader) (*FileDict, error) {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := normalize(strings.TrimSpace(scanner.Text()))
		if w == "" {
			continue
		}
		words[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &FileDict{words: words}, nil
}

// Contains reports membership of the lowercase word.
func (d *FileDict) Contains(word string) bool {
	_, ok := d.words[word]
	return ok
}

// Len returns the number of distinct entries.
func (d *FileDict) Len() int { return len(d.words) }

// stripAccents decomposes to NFD and removes combining marks, mapping é→e,
// ç→c and so on.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalize(word string) string {
	folded, _, err := transform.String(stripAccents, word)
	if err != nil {
		folded = word
	}
	return strings.ToLower(folded)
}
