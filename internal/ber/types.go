package ber

// Tag class constants (bits 7-8 of the first tag octet)
const (
	ClassUniversal       = 0x00 // 00xxxxxx
	ClassApplication     = 0x40 // 01xxxxxx
	ClassContextSpecific = 0x80 // 10xxxxxx
	ClassPrivate         = 0xC0 // 11xxxxxx
)

// Constructed flag (bit 6 of the first tag octet)
const (
	TypePrimitive   = 0x00 // xx0xxxxx
	TypeConstructed = 0x20 // xx1xxxxx
)

// Default wire tags of the universal types this package encodes.
const (
	TagBoolean     Tag = 0x01
	TagInteger     Tag = 0x02
	TagBitString   Tag = 0x03
	TagOctetString Tag = 0x04
	TagNull        Tag = 0x05
	TagOID         Tag = 0x06
	TagEnumerated  Tag = 0x0A
	TagSequence    Tag = 0x30
	TagSet         Tag = 0x31
)

// TagDefault selects the universal tag of the value kind being written.
// It is never a valid wire tag: its last octet has the continuation bit set.
const TagDefault Tag = ^Tag(0)

// Length encoding constants
const (
	// LengthLongFormBit indicates long form length encoding (bit 8 set)
	LengthLongFormBit = 0x80
	// MaxShortFormLength is the maximum length encodable in short form (0-127)
	MaxShortFormLength = 127
	// MaxLength is the largest content length that can be encoded.
	MaxLength = 0xFFFFFFFF
)

const (
	maxTagOctets    = 4 // width of Tag
	maxLengthOctets = 4 // long-form length octets after the count octet
	// reservedLength is the header space an open aggregate reserves for its
	// length: the count octet plus maxLengthOctets.
	reservedLength = 1 + maxLengthOctets
	maxIntOctets   = 8 // width of int64
)

//go:generate stringer -type=Mode -trimprefix=Mode

// Mode selects how aggregate lengths are written.
type Mode int

const (
	// ModeCanonical writes minimal length octets for every unit and
	// compacts aggregate bodies after the fact.
	ModeCanonical Mode = iota
	// ModeLegacy writes every aggregate length in the fixed five-octet
	// long form that was reserved for it.
	ModeLegacy
)

// ParseMode parses "canonical" or "legacy". Anything else reports false.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "canonical", "der", "":
		return ModeCanonical, true
	case "legacy", "ber":
		return ModeLegacy, true
	default:
		return ModeCanonical, false
	}
}
