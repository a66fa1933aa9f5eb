package parser

import "regexp"

// field is one entry in a summary extraction schema: a stable key, the
// pattern that locates the value on page one, and the names of the captures
// the pattern is expected to produce.
type field struct {
	key      string
	re       *regexp.Regexp
	captures []string
}

// extractFields evaluates a schema against page text and returns a flat
// "key_capture" → raw string map for every field whose pattern matched.
// Capture shape is normalized here: regardless of how many groups a pattern
// has, the values bound are the last len(captures) groups, in order.
func extractFields(fields []field, content string) map[string]string {
	out := make(map[string]string)
	for _, f := range fields {
		m := f.re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		groups := m[1:]
		if len(groups) < len(f.captures) {
			continue
		}
		groups = groups[len(groups)-len(f.captures):]
		for i, name := range f.captures {
			out[f.key+"_"+name] = groups[i]
		}
	}
	return out
}
