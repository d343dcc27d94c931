package fixedwidth

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var ErrFieldOverflow = errors.New("value exceeds field width")

type Justify int

const (
	Left Justify = iota
	Right
)

// Field is one column of a record. A Field with an empty Name renders Literal.
type Field struct {
	Name     string
	Width    int
	Pad      rune
	Justify  Justify
	Default  string
	Literal  string
	Truncate bool
}

// Filler is a run of spaces.
func Filler(width int) Field {
	return Field{Width: width, Pad: ' '}
}

// Const is fixed text occupying exactly its own length.
func Const(text string) Field {
	return Field{Literal: text, Width: utf8.RuneCountInString(text), Pad: ' '}
}

// OverflowError names the field whose value did not fit.
type OverflowError struct {
	Field string
	Value string
	Width int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("field %s: %q is longer than %d characters", e.Field, e.Value, e.Width)
}

func (e *OverflowError) Unwrap() error { return ErrFieldOverflow }

// Layout is an ordered list of fields terminated by LineEnding.
type Layout struct {
	Fields     []Field
	LineEnding string
}

// Width is the record length without the line ending.
func (l Layout) Width() int {
	total := 0
	for _, f := range l.Fields {
		total += f.Width
	}
	return total
}

// Offset returns the 1-based first column of the named field.
func (l Layout) Offset(name string) (int, bool) {
	col := 1
	for _, f := range l.Fields {
		if f.Name == name {
			return col, true
		}
		col += f.Width
	}
	return 0, false
}

// Format renders one record. Missing values fall back to the field default.
func (l Layout) Format(values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(l.Width() + len(l.LineEnding))

	for _, f := range l.Fields {
		value := f.Literal
		if f.Name != "" {
			value = values[f.Name]
			if value == "" {
				value = f.Default
			}
		}
		cell, err := f.render(value)
		if err != nil {
			return "", err
		}
		b.WriteString(cell)
	}
	b.WriteString(l.LineEnding)
	return b.String(), nil
}

func (f Field) render(value string) (string, error) {
	n := utf8.RuneCountInString(value)
	if n > f.Width {
		if !f.Truncate {
			return "", &OverflowError{Field: f.Name, Value: value, Width: f.Width}
		}
		value = string([]rune(value)[:f.Width])
		n = f.Width
	}

	pad := f.Pad
	if pad == 0 {
		pad = ' '
	}
	padding := strings.Repeat(string(pad), f.Width-n)
	if f.Justify == Right {
		return padding + value, nil
	}
	return value + padding, nil
}

// Writer streams records of one layout.
type Writer struct {
	w      io.Writer
	layout Layout
	count  int
}

func NewWriter(w io.Writer, layout Layout) *Writer {
	return &Writer{w: w, layout: layout}
}

func (w *Writer) Write(values map[string]string) error {
	line, err := w.layout.Format(values)
	if err != nil {
		return fmt.Errorf("record %d: %w", w.count+1, err)
	}
	if _, err := io.WriteString(w.w, line); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count is the number of records written.
func (w *Writer) Count() int {
	return w.count
}
