package schema

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// Violations is the ordered list of human-readable problems found by a validation.
type Violations []string

// Error joins the violations into one message. It is empty when there are none;
// use Err to get a nil error in that case.
func (v Violations) Error() string {
	switch len(v) {
	case 0:
		return ""
	case 1:
		return v[0]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d schema violations:", len(v))
	for i, msg := range v {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, msg)
	}
	return b.String()
}

// Err returns v as an error, or nil when there are no violations.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Has reports whether any violation names the given property path,
// e.g. "address.zip.firstPart" or "phoneNumbers[].number".
func (v Violations) Has(path string) bool {
	needle := `"` + path + `"`
	for _, msg := range v {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}

func notFound(prop string) string {
	return fmt.Sprintf(`Schema definition not found for property: "%s"`, prop)
}

func expectedProperty(prop string) string {
	return fmt.Sprintf(`Schema definition expected property: "%s"`, prop)
}

func violated(prop string) string {
	return fmt.Sprintf(`Schema definition violated for property: "%s"`, prop)
}

func violatedType(prop, expected, received string) string {
	return fmt.Sprintf(`Schema definition violated for property: "%s". Expected type: %s, received: %s`, prop, expected, received)
}

func unexpectedProperties(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	return "Unexpected properties found: " + strings.Join(quoted, ", ")
}

// render encodes a value the way "received" reports it: as JSON when possible.
func render(value any) string {
	value = indirect(value)
	if value == nil {
		return "null"
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(b)
}

// withPath inserts prefix right after the first quote of msg, turning
// `... property: "zip"` into `... property: "address.zip"`. Only the first quoted
// name is prefixed: a nested "Unexpected properties found" message listing several
// keys reads `"addr.a", "b"`.
func withPath(msg, prefix string) string {
	i := strings.IndexByte(msg, '"')
	if i < 0 {
		return msg
	}
	return msg[:i+1] + prefix + msg[i+1:]
}

func withPathAll(msgs []string, prefix string) []string {
	for i := range msgs {
		msgs[i] = withPath(msgs[i], prefix)
	}
	return msgs
}
