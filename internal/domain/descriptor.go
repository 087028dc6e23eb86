package domain

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	MetadataMarker  = "#EXTINF"
	ManifestHeader  = "#EXTM3U"
	GroupTitleAttr  = "group-title"
	DefaultDuration = "-1"
)

// Attr is a single key="value" attribute of an #EXTINF line. Raw is the
// attribute's text as it appeared in the line and is written back as is;
// tokens that are not key=value pairs keep only Raw.
type Attr struct {
	Key   string
	Value string
	Raw   string
}

// Descriptor is the structured form of an #EXTINF line:
//
//	#EXTINF:<duration> key="value" key2="value2",<title>
//
// The title starts after the first comma that is not inside a quoted
// attribute value, so commas in the title itself are kept. If the quotes do
// not balance, the title starts after the last comma.
type Descriptor struct {
	Duration string
	Attrs    []Attr
	Title    string
}

// attrRE extracts key="value" or key=value pairs.
var attrRE = regexp.MustCompile(`([\w-]+)=(?:"([^"]*)"|([^\s,"]+))`)

// ParseDescriptor never fails. Text before the title that is not a key=value
// pair is kept as an opaque attribute.
func ParseDescriptor(line string) Descriptor {
	body := strings.TrimSpace(line)
	body = strings.TrimPrefix(body, MetadataMarker)
	body = strings.TrimPrefix(body, ":")

	head, title := splitTitle(body)
	d := Descriptor{Title: strings.TrimSpace(title)}

	fields := strings.TrimSpace(head)
	dur, rest := fields, ""
	if i := strings.IndexFunc(fields, unicode.IsSpace); i >= 0 {
		dur, rest = fields[:i], fields[i+1:]
	}
	if strings.Contains(dur, "=") {
		// no duration, attributes start right after the colon
		dur, rest = "", fields
	}
	d.Duration = dur

	pos := 0
	for _, m := range attrRE.FindAllStringSubmatchIndex(rest, -1) {
		d.Attrs = appendOpaque(d.Attrs, rest[pos:m[0]])
		val := ""
		switch {
		case m[4] >= 0:
			val = rest[m[4]:m[5]]
		case m[6] >= 0:
			val = rest[m[6]:m[7]]
		}
		d.Attrs = append(d.Attrs, Attr{Key: rest[m[2]:m[3]], Value: val, Raw: rest[m[0]:m[1]]})
		pos = m[1]
	}
	d.Attrs = appendOpaque(d.Attrs, rest[pos:])
	return d
}

// appendOpaque keeps unrecognised tokens such as bare flags so they survive
// re-serialization.
func appendOpaque(attrs []Attr, text string) []Attr {
	for _, tok := range strings.Fields(text) {
		attrs = append(attrs, Attr{Raw: tok})
	}
	return attrs
}

func splitTitle(body string) (head, title string) {
	inQuote := false
	for i, r := range body {
		switch r {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				return body[:i], body[i+1:]
			}
		}
	}
	if inQuote {
		if i := strings.LastIndexByte(body, ','); i >= 0 {
			return body[:i], body[i+1:]
		}
	}
	return body, ""
}

// Attr returns the value of key, compared case-insensitively.
func (d Descriptor) Attr(key string) (string, bool) {
	for _, a := range d.Attrs {
		if a.Key != "" && strings.EqualFold(a.Key, key) {
			return a.Value, true
		}
	}
	return "", false
}

// WithAttr returns a copy of d with key set to value. A new attribute is
// appended last, which places it right before the title when serialized.
func (d Descriptor) WithAttr(key, value string) Descriptor {
	attrs := make([]Attr, 0, len(d.Attrs)+1)
	replaced := false
	for _, a := range d.Attrs {
		if a.Key != "" && strings.EqualFold(a.Key, key) {
			a.Value = value
			a.Raw = ""
			replaced = true
		}
		attrs = append(attrs, a)
	}
	if !replaced {
		attrs = append(attrs, Attr{Key: key, Value: value})
	}
	d.Attrs = attrs
	return d
}

func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString(MetadataMarker)
	b.WriteByte(':')
	if d.Duration == "" {
		b.WriteString(DefaultDuration)
	} else {
		b.WriteString(d.Duration)
	}
	for _, a := range d.Attrs {
		b.WriteByte(' ')
		if a.Raw != "" {
			b.WriteString(a.Raw)
			continue
		}
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	b.WriteByte(',')
	b.WriteString(d.Title)
	return b.String()
}

// SynthesizeMetadata builds the #EXTINF line used for entries that have none.
func SynthesizeMetadata(group, name string) string {
	return Descriptor{
		Duration: DefaultDuration,
		Attrs:    []Attr{{Key: GroupTitleAttr, Value: group}},
		Title:    name,
	}.String()
}
