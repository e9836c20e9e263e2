package record

import (
	"bytes"
	"encoding/json"
	"io"
)

// Field keys of a personal data record, in the order they are populated.
const (
	KeyStudentName      = "student_name"
	KeyStudentNumber    = "student_number"
	KeyCollege          = "college"
	KeyYearLevel        = "year_level"
	KeyEnrollmentStatus = "enrollment_status"
	KeyURL              = "url"
	KeyError            = "error"
)

// Record is a flat field name to string mapping that remembers insertion order.
// Overwriting a key keeps its original position. The zero value is empty and
// ready to use.
type Record struct {
	keys   []string
	values map[string]string
}

// New returns an empty record.
func New() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores value under key.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (string, bool) {
	if r == nil || r.values == nil {
		return "", false
	}
	v, ok := r.values[key]
	return v, ok
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns a copy of the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// MarshalJSON encodes the record as a JSON object in insertion order. Non-ASCII
// text and HTML-significant characters are written literally.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if r != nil {
		for i, k := range r.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(&buf, k); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := writeString(&buf, r.values[k]); err != nil {
				return nil, err
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Encode writes r to w as a single line of JSON.
func Encode(w io.Writer, r *Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}
