package stringsx

import "strings"

// FirstNonEmpty returns the first string in vals that is non-empty when trimmed.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// Substitute replaces {name} placeholders with vals[name]. Placeholders with
// no entry in vals, and unbalanced braces, are left verbatim.
func Substitute(tmpl string, vals map[string]string) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); {
		if tmpl[i] != '{' {
			b.WriteByte(tmpl[i])
			i++
			continue
		}
		end := strings.IndexByte(tmpl[i+1:], '}')
		if end < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		name := tmpl[i+1 : i+1+end]
		if v, ok := vals[name]; ok && !strings.ContainsAny(name, "{ ") {
			b.WriteString(v)
		} else {
			b.WriteString(tmpl[i : i+2+end])
		}
		i += end + 2
	}
	return b.String()
}

// Placeholders lists the {name} tokens in tmpl in order of appearance.
func Placeholders(tmpl string) []string {
	var out []string
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			return out
		}
		j := strings.IndexByte(tmpl[i+1:], '}')
		if j < 0 {
			return out
		}
		if name := tmpl[i+1 : i+1+j]; name != "" && !strings.ContainsAny(name, "{ ") {
			out = append(out, name)
		}
		tmpl = tmpl[i+2+j:]
	}
}

// Optional substitutes tmpl only when every placeholder it references has a
// non-empty value; otherwise the whole segment is dropped.
func Optional(tmpl string, vals map[string]string) string {
	for _, p := range Placeholders(tmpl) {
		if strings.TrimSpace(vals[p]) == "" {
			return ""
		}
	}
	return Substitute(tmpl, vals)
}

// JoinNonEmpty joins the trimmed, non-empty parts with single spaces.
func JoinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(strings.Fields(strings.Join(out, " ")), " ")
}
