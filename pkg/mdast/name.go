package mdast

import (
	"sync"

	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name is the canonical identifier for a tag or attribute name.
// It is an open set: names outside the HTML vocabulary are kept as-is.
type Name string

// Common names used by the parser and the normalizer.
const (
	TagA          Name = "a"
	TagBlockquote Name = "blockquote"
	TagBr         Name = "br"
	TagCode       Name = "code"
	TagDel        Name = "del"
	TagDiv        Name = "div"
	TagEm         Name = "em"
	TagH1         Name = "h1"
	TagH2         Name = "h2"
	TagH3         Name = "h3"
	TagH4         Name = "h4"
	TagH5         Name = "h5"
	TagH6         Name = "h6"
	TagHr         Name = "hr"
	TagImg        Name = "img"
	TagInput      Name = "input"
	TagLi         Name = "li"
	TagOl         Name = "ol"
	TagP          Name = "p"
	TagPre        Name = "pre"
	TagStrong     Name = "strong"
	TagSup        Name = "sup"
	TagTable      Name = "table"
	TagTbody      Name = "tbody"
	TagTd         Name = "td"
	TagTh         Name = "th"
	TagThead      Name = "thead"
	TagTr         Name = "tr"
	TagUl         Name = "ul"

	AttrAlt      Name = "alt"
	AttrChecked  Name = "checked"
	AttrClass    Name = "class"
	AttrDisabled Name = "disabled"
	AttrHref     Name = "href"
	AttrID       Name = "id"
	AttrRole     Name = "role"
	AttrSrc      Name = "src"
	AttrStart    Name = "start"
	AttrStyle    Name = "style"
	AttrTitle    Name = "title"
	AttrType     Name = "type"
)

// String returns the name as a string.
func (n Name) String() string {
	return string(n)
}

// Atom returns the HTML atom for the name, or 0 when the name is not part of
// the HTML vocabulary.
func (n Name) Atom() atom.Atom {
	return atom.Lookup([]byte(n))
}

// Known reports whether the name is part of the HTML vocabulary.
func (n Name) Known() bool {
	return n.Atom() != 0
}

//nolint:gochecknoglobals // Process-wide intern table for names outside the HTML vocabulary.
var (
	internMu    sync.RWMutex
	internTable = make(map[string]Name)
	foldCaser   = cases.Lower(language.Und)
	foldCaserMu sync.Mutex
)

// Canonical converts a raw tag or attribute name into its canonical identifier.
// HTML names resolve to the interned atom string; anything else is folded to
// lower case and interned. It never fails.
func Canonical(raw string) Name {
	if raw == "" {
		return ""
	}

	folded := fold(raw)
	if a := atom.Lookup([]byte(folded)); a != 0 {
		return Name(a.String())
	}

	internMu.RLock()
	name, ok := internTable[folded]
	internMu.RUnlock()
	if ok {
		return name
	}

	internMu.Lock()
	defer internMu.Unlock()
	if name, ok := internTable[folded]; ok {
		return name
	}
	name = Name(folded)
	internTable[folded] = name
	return name
}

// fold lower-cases a name. ASCII names take a fast path; anything else goes
// through the Unicode case mapper.
func fold(raw string) string {
	ascii := true
	upper := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= 0x80 {
			ascii = false
			break
		}
		if 'A' <= c && c <= 'Z' {
			upper = true
		}
	}

	if ascii {
		if !upper {
			return raw
		}
		buf := []byte(raw)
		for i, c := range buf {
			if 'A' <= c && c <= 'Z' {
				buf[i] = c + ('a' - 'A')
			}
		}
		return string(buf)
	}

	// cases.Caser is stateful and not safe for concurrent use.
	foldCaserMu.Lock()
	defer foldCaserMu.Unlock()
	return foldCaser.String(raw)
}
