package paginate

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// errStop ends a scan once enough wrapped lines have been produced.
var errStop = errors.New("paginate: stop")

// wrapper greedily packs words into lines of at most width characters.
// Closed lines are handed to emit; returning errStop from emit ends the scan.
type wrapper struct {
	width   int
	line    strings.Builder
	lineLen int
	emit    func(string) error
}

func (w *wrapper) word(word string) error {
	n := utf8.RuneCountInString(word)
	if w.lineLen == 0 {
		w.line.WriteString(word)
		w.lineLen = n
		return nil
	}
	if w.lineLen+1+n <= w.width {
		w.line.WriteByte(' ')
		w.line.WriteString(word)
		w.lineLen += 1 + n
		return nil
	}
	if err := w.close(); err != nil {
		return err
	}
	w.line.WriteString(word)
	w.lineLen = n
	return nil
}

// close flushes the open line, if any.
func (w *wrapper) close() error {
	if w.lineLen == 0 {
		return nil
	}
	text := w.line.String()
	w.line.Reset()
	w.lineLen = 0
	return w.emit(text)
}

// scan streams r one raw line at a time. Raw line breaks always close the
// open wrapped line, so words never merge across them.
func scan(r io.Reader, width int, emit func(string) error) error {
	w := &wrapper{width: width, emit: emit}
	br := bufio.NewReader(r)
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return readErr
		}
		for _, word := range strings.Fields(raw) {
			if err := w.word(word); err != nil {
				return err
			}
		}
		if err := w.close(); err != nil {
			return err
		}
		if readErr == io.EOF {
			return nil
		}
	}
}

// Wrap word-wraps all of r to width characters per line. A word longer than
// width is kept whole on its own line.
func Wrap(r io.Reader, width int) ([]string, error) {
	var lines []string
	err := scan(r, width, func(line string) error {
		lines = append(lines, line)
		return nil
	})
	return lines, err
}

// WrapString is Wrap for in-memory text.
func WrapString(text string, width int) []string {
	lines, _ := Wrap(strings.NewReader(text), width)
	return lines
}
