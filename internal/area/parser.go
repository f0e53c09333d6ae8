package area

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// minTokens type, x, y, width, height と名前の最初の1語
const minTokens = 6

var ErrMalformedRecord = errors.New("malformed area record")

// MalformedRecordError 解析できなかった行の情報
type MalformedRecordError struct {
	File   string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.File != "" {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	return fmt.Sprintf("%s: %s: %s (%q)", loc, ErrMalformedRecord, e.Reason, e.Text)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// ParseLine 1行分のレコードを解析する
func ParseLine(line string, lineNo int) (Area, error) {
	fields := strings.Fields(line)
	if len(fields) < minTokens {
		return Area{}, &MalformedRecordError{
			Line:   lineNo,
			Text:   line,
			Reason: fmt.Sprintf("expected at least %d fields, got %d", minTokens, len(fields)),
		}
	}

	var nums [4]int
	labels := [4]string{"x", "y", "width", "height"}
	for i := range nums {
		n, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return Area{}, &MalformedRecordError{
				Line:   lineNo,
				Text:   line,
				Reason: fmt.Sprintf("%s is not an integer: %q", labels[i], fields[i+1]),
			}
		}
		nums[i] = n
	}

	return Area{
		Type:   fields[0],
		X:      nums[0],
		Y:      nums[1],
		Width:  nums[2],
		Height: nums[3],
		Name:   strings.Join(fields[5:], " "),
		Line:   lineNo,
	}, nil
}

// Parse reads one record per line, in input order. Blank and
// whitespace-only lines are skipped. The first malformed line aborts the
// parse.
func Parse(r io.Reader) ([]Area, error) {
	var areas []Area
	err := scanLines(r, func(lineNo int, line string) error {
		a, err := ParseLine(line, lineNo)
		if err != nil {
			return err
		}
		areas = append(areas, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return areas, nil
}

// ParseLenient Parse と同じだが、壊れた行を飛ばして続行する
func ParseLenient(r io.Reader) ([]Area, []error) {
	var (
		areas []Area
		errs  []error
	)
	err := scanLines(r, func(lineNo int, line string) error {
		a, err := ParseLine(line, lineNo)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		areas = append(areas, a)
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return areas, errs
}

// ParseFile opens path and parses it. Record errors carry the file name.
func ParseFile(path string, lenient bool) ([]Area, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if lenient {
		areas, errs := ParseLenient(f)
		for _, e := range errs {
			setFile(e, path)
		}
		return areas, errs, nil
	}

	areas, err := Parse(f)
	if err != nil {
		setFile(err, path)
		return nil, nil, err
	}
	return areas, nil, nil
}

func setFile(err error, path string) {
	var mre *MalformedRecordError
	if errors.As(err, &mre) {
		mre.File = path
	}
}

func scanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	return sc.Err()
}
