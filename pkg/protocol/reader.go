package protocol

import (
	"bufio"
	"errors"
	"io"
)

// LineReader yields protocol lines from a byte stream. Lines end with LF;
// CR bytes are tolerated and stripped, blank lines are skipped. Content
// beyond MaxLineLen is discarded through the next terminator and reported
// as a single ErrLineTooLong, after which reading resumes normally.
type LineReader struct {
	r *bufio.Reader
}

// NewLineReader wraps a byte stream in a line reader.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line, or ErrLineTooLong for an overlong one.
// A partial line at EOF is returned first; after that, io.EOF.
func (lr *LineReader) ReadLine() (string, error) {
	buf := make([]byte, 0, 64)
	overflow := false
	for {
		b, err := lr.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if overflow {
					return "", ErrLineTooLong
				}
				if len(buf) > 0 {
					return string(buf), nil
				}
			}
			return "", err
		}
		switch b {
		case '\n':
			if overflow {
				return "", ErrLineTooLong
			}
			if len(buf) == 0 {
				continue
			}
			return string(buf), nil
		case '\r':
			// stripped
		default:
			if overflow {
				continue
			}
			if len(buf) >= MaxLineLen {
				overflow = true
				buf = buf[:0]
				continue
			}
			buf = append(buf, b)
		}
	}
}
