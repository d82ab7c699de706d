// Package ber implements ASN.1 BER (Basic Encoding Rules) encoding and decoding
// as specified in ITU-T X.690, restricted to what LDAP needs: definite
// lengths and primitive encodings only.
//
// BER is the wire format used by LDAP for all protocol messages. This package
// provides low-level primitives for encoding and decoding BER data structures
// and a descriptor-driven facade on top of them.
//
// # Tags
//
// A Tag holds the identifier octets exactly as they appear on the wire, so
// the universal SEQUENCE tag is 0x30, not 0x10. Use NewTag to build tags from
// a class, a constructed flag and a number:
//
//	bindRequest := ber.NewTag(ber.ClassApplication, ber.TypeConstructed, 0)
//
// Every Write method takes a tag; TagDefault selects the universal tag of
// the value being written.
//
// # Encoding
//
// A Cursor built with NewEncoder owns a growable arena. Aggregates are
// opened with Begin and closed with End; the length is patched in when the
// aggregate closes:
//
//	enc := ber.NewEncoder(256)
//	enc.BeginSequence(ber.TagDefault)
//	enc.WriteInteger(ber.TagDefault, 5)
//	enc.End()
//	data := enc.Bytes() // 30 03 02 01 05
//
// The same message with the dispatcher:
//
//	err := ber.Encode(enc, ber.Sequence(), ber.Int(5), ber.End())
//
// # Decoding
//
// A Cursor built with NewDecoder reads a caller-owned slice:
//
//	var id int64
//	var name ber.Value
//	err := ber.Decode(dec,
//	    ber.Sequence(),
//	    ber.ScanInt(&id),
//	    ber.ScanOctetString(&name, 0),
//	    ber.End(),
//	)
//	defer name.Release()
//
// When a Decode step fails, outputs filled by earlier steps are released
// and reset, and the cursor is left where Decode started.
//
// # Modes
//
// ModeCanonical writes minimal lengths everywhere. ModeLegacy writes every
// aggregate length as 0x84 followed by four octets, as older peers did.
//
// # References
//
//   - ITU-T X.690: ASN.1 encoding rules
//   - RFC 4511: LDAP Protocol (uses BER encoding)
package ber
