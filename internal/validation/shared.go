package validation

import (
	"sort"
	"strings"
)

// Error collects field-level validation failures for one request.
type Error struct {
	Fields map[string]string
}

// Error joins the field messages in field-name order, so the same invalid
// request always produces the same message.
func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, field+": "+e.Fields[field])
	}
	return strings.Join(msgs, "; ")
}
