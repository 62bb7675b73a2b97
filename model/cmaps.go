package model

// CID is a character code that corresponds to one glyph in a composite
// (Type0) font. It is obtained, from the bytes of a shown string, through a
// CMap, and used as the index into the descendant CIDFont's width table.
// Grounded on the teacher's model/cmaps.go.
type CID int

// CIDSystemInfo identifies the character collection assumed by a CIDFont's
// CIDToGIDMap or a CMap's code-to-CID mapping (table 116).
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// ToUnicodeCMapName returns the name of the predefined ToUnicode CMap
// matching this character collection, when one of the well-known Adobe
// collections is used, or "" otherwise.
func (c CIDSystemInfo) ToUnicodeCMapName() Name {
	if c.Registry != "Adobe" {
		return ""
	}
	switch c.Ordering {
	case "Japan1", "GB1", "CNS1", "Korea1", "KR", "Identity":
		return "Adobe-" + Name(c.Ordering) + "-UCS2"
	default:
		return ""
	}
}
