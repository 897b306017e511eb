package parser

import "fmt"

// ParseError reports text that is not syntactically valid JSON.
type ParseError struct {
	Offset int64 // input offset reached by the decoder
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse json at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError reports valid JSON that is not an object of objects of strings.
type ShapeError struct {
	Path   string // member path, e.g. `"greeting"."en"`; empty for the root
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Path == "" {
		return "invalid shape: root " + e.Reason
	}
	return fmt.Sprintf("invalid shape at %s: %s", e.Path, e.Reason)
}

func memberPath(names ...string) string {
	var path string
	for i, n := range names {
		if i > 0 {
			path += "."
		}
		path += fmt.Sprintf("%q", n)
	}
	return path
}
