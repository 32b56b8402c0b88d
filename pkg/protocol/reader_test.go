package protocol

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLineReader_Lines(t *testing.T) {
	lr := NewLineReader(strings.NewReader("HOME\nSTATUS\nJ1 90\n"))
	for _, want := range []string{"HOME", "STATUS", "J1 90"} {
		got, err := lr.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}
	if _, err := lr.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("after last line: err = %v, want EOF", err)
	}
}

func TestLineReader_StripsCRAndSkipsBlanks(t *testing.T) {
	lr := NewLineReader(strings.NewReader("\r\n\nHOME\r\n\r\nSTATUS\r\n"))
	for _, want := range []string{"HOME", "STATUS"} {
		got, err := lr.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}
	if _, err := lr.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want EOF", err)
	}
}

func TestLineReader_PartialLineAtEOF(t *testing.T) {
	lr := NewLineReader(strings.NewReader("STATUS"))
	got, err := lr.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	if got != "STATUS" {
		t.Errorf("ReadLine = %q, want STATUS", got)
	}
	if _, err := lr.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want EOF", err)
	}
}

func TestLineReader_OverlongLine(t *testing.T) {
	long := strings.Repeat("A", MaxLineLen+50)
	lr := NewLineReader(strings.NewReader(long + "\nHOME\n"))

	_, err := lr.ReadLine()
	if !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("err = %v, want ErrLineTooLong", err)
	}

	// The overlong line is consumed in full; reading resumes cleanly.
	got, err := lr.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine after overlong: %v", err)
	}
	if got != "HOME" {
		t.Errorf("ReadLine = %q, want HOME", got)
	}
}

func TestLineReader_MaxLengthBoundary(t *testing.T) {
	exact := strings.Repeat("A", MaxLineLen)
	lr := NewLineReader(strings.NewReader(exact + "\n"))
	got, err := lr.ReadLine()
	if err != nil {
		t.Fatalf("line of exactly MaxLineLen rejected: %v", err)
	}
	if len(got) != MaxLineLen {
		t.Errorf("len = %d, want %d", len(got), MaxLineLen)
	}

	lr = NewLineReader(strings.NewReader(strings.Repeat("A", MaxLineLen+1) + "\n"))
	if _, err := lr.ReadLine(); !errors.Is(err, ErrLineTooLong) {
		t.Errorf("MaxLineLen+1: err = %v, want ErrLineTooLong", err)
	}
}

func TestLineReader_OverlongAtEOF(t *testing.T) {
	lr := NewLineReader(strings.NewReader(strings.Repeat("A", MaxLineLen+1)))
	if _, err := lr.ReadLine(); !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("err = %v, want ErrLineTooLong", err)
	}
	if _, err := lr.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want EOF", err)
	}
}
