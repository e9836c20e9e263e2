package app

import "fmt"

// InputError reports a problem with what the caller handed us: the argument
// list or the image file. It is fatal.
type InputError struct {
	Op   string
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// FetchError reports a failed fetch of one barcode's URL. It is recorded in
// the output and processing continues.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// PayloadError reports a barcode whose payload could not be read as text.
type PayloadError struct {
	Index int
	Err   error
}

func (e *PayloadError) Error() string { return fmt.Sprintf("barcode %d: %v", e.Index, e.Err) }

func (e *PayloadError) Unwrap() error { return e.Err }
