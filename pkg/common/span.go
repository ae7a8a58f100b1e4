package common

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SourceRange is the region of the original source a dump node came from.
type SourceRange struct {
	LineStart   int // The starting line number
	ColumnStart int // The starting column number
	LineEnd     int // The ending line number
	ColumnEnd   int // The ending column number
}

func (x SourceRange) String() string {
	return fmt.Sprintf("%d:%d - %d:%d", x.LineStart, x.ColumnStart, x.LineEnd, x.ColumnEnd)
}

// MergeRange returns the smallest range covering both x and y.
func (x *SourceRange) MergeRange(y *SourceRange) SourceRange {
	if y == nil {
		return *x
	}
	sofar := *x
	if sofar.LineStart > y.LineStart || (sofar.LineStart == y.LineStart && sofar.ColumnStart > y.ColumnStart) {
		sofar.LineStart = y.LineStart
		sofar.ColumnStart = y.ColumnStart
	}
	if sofar.LineEnd < y.LineEnd || (sofar.LineEnd == y.LineEnd && sofar.ColumnEnd < y.ColumnEnd) {
		sofar.LineEnd = y.LineEnd
		sofar.ColumnEnd = y.ColumnEnd
	}
	return sofar
}

// ParseSourceRange reads the body of a dump range attribute, e.g.
// "/path/file.swift:1:1 - line:1:13".
func ParseSourceRange(text string) (SourceRange, bool) {
	text = strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
	start, end, found := strings.Cut(text, " - ")
	if !found {
		return SourceRange{}, false
	}
	startLine, startColumn, ok := parseLineColumnSuffix(start)
	if !ok {
		return SourceRange{}, false
	}
	endLine, endColumn, ok := parseLineColumnSuffix(end)
	if !ok {
		return SourceRange{}, false
	}
	return SourceRange{
		LineStart:   startLine,
		ColumnStart: startColumn,
		LineEnd:     endLine,
		ColumnEnd:   endColumn,
	}, true
}

// parseLineColumnSuffix reads the trailing ":line:column" of a location; the
// part before may itself contain colons.
func parseLineColumnSuffix(location string) (int, int, bool) {
	parts := strings.Split(strings.TrimSpace(location), ":")
	if len(parts) < 3 {
		return 0, 0, false
	}
	line, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return 0, 0, false
	}
	column, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, 0, false
	}
	return line, column, true
}

// MarshalJSON implements custom JSON marshaling for SourceRange.
func (s SourceRange) MarshalJSON() ([]byte, error) {
	arr := [4]int{s.LineStart, s.ColumnStart, s.LineEnd, s.ColumnEnd}
	return json.Marshal(arr)
}

// UnmarshalJSON implements custom JSON unmarshaling for SourceRange.
func (s *SourceRange) UnmarshalJSON(data []byte) error {
	var arr [4]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	s.LineStart = arr[0]
	s.ColumnStart = arr[1]
	s.LineEnd = arr[2]
	s.ColumnEnd = arr[3]
	return nil
}
