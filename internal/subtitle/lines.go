package subtitle

import (
	"bufio"
	"io"
	"strings"
)

const byteOrderMark = "\ufeff"

// lineReader yields lines without their terminators and rejects input that
// mixes CRLF and LF endings.
type lineReader struct {
	r       *bufio.Reader
	text    string
	lineNum int
	err     error
	sawCRLF bool
	sawLF   bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) Scan() bool {
	if l.err != nil {
		return false
	}

	s, err := l.r.ReadString('\n')
	if err != nil && err != io.EOF {
		l.err = ioError(err, "failed to read subtitle input")
		return false
	}
	if s == "" && err == io.EOF {
		return false
	}
	l.lineNum++

	if strings.HasSuffix(s, "\n") {
		s = s[:len(s)-1]
		if strings.HasSuffix(s, "\r") {
			s = s[:len(s)-1]
			l.sawCRLF = true
		} else {
			l.sawLF = true
		}
		if l.sawCRLF && l.sawLF {
			l.err = structureError(l.lineNum, "mixed CRLF and LF line endings")
			return false
		}
	}

	l.text = s
	return true
}

func (l *lineReader) Text() string {
	return l.text
}

func (l *lineReader) Line() int {
	return l.lineNum
}

func (l *lineReader) Err() error {
	return l.err
}
