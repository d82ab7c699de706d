package ldap

import (
	"errors"

	"github.com/KilimcininKorOglu/lber/internal/ber"
)

// Authentication method tags (context-specific)
const (
	// AuthSimple is the tag for simple authentication [0]
	AuthSimple = 0
	// AuthSASL is the tag for SASL authentication [3]
	AuthSASL = 3
)

var (
	tagAuthSimple = ber.NewTag(ber.ClassContextSpecific, ber.TypePrimitive, AuthSimple)
	tagAuthSASL   = ber.NewTag(ber.ClassContextSpecific, ber.TypeConstructed, AuthSASL)
)

// AuthMethod represents the authentication method used in a BindRequest
type AuthMethod int

const (
	// AuthMethodSimple indicates simple (password) authentication
	AuthMethodSimple AuthMethod = iota
	// AuthMethodSASL indicates SASL authentication
	AuthMethodSASL
)

// String returns the string representation of the authentication method
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodSimple:
		return "Simple"
	case AuthMethodSASL:
		return "SASL"
	default:
		return "Unknown"
	}
}

// SASLCredentials represents SASL authentication credentials
// SaslCredentials ::= SEQUENCE {
//
//	mechanism               LDAPString,
//	credentials             OCTET STRING OPTIONAL
//
// }
type SASLCredentials struct {
	// Mechanism is the SASL mechanism name (e.g., "PLAIN", "GSSAPI")
	Mechanism string
	// Credentials is the optional SASL credentials
	Credentials []byte
}

// BindRequest represents an LDAP Bind Request
// BindRequest ::= [APPLICATION 0] SEQUENCE {
//
//	version                 INTEGER (1 .. 127),
//	name                    LDAPDN,
//	authentication          AuthenticationChoice
//
// }
// AuthenticationChoice ::= CHOICE {
//
//	simple                  [0] OCTET STRING,
//	sasl                    [3] SaslCredentials
//
// }
type BindRequest struct {
	// Version is the LDAP protocol version (typically 3)
	Version int
	// Name is the DN of the user binding
	Name string
	// AuthMethod indicates the authentication method used
	AuthMethod AuthMethod
	// SimplePassword contains the password for simple authentication
	SimplePassword []byte
	// SASLCredentials contains SASL credentials for SASL authentication
	SASLCredentials *SASLCredentials
}

// Errors for BindRequest parsing
var (
	// ErrInvalidBindVersion is returned when the bind version is out of range
	ErrInvalidBindVersion = errors.New("ldap: bind version must be between 1 and 127")
	// ErrUnknownAuthMethod is returned when the authentication method is unknown
	ErrUnknownAuthMethod = errors.New("ldap: unknown authentication method")
	// ErrInvalidSASLCredentials is returned when SASL credentials are malformed
	ErrInvalidSASLCredentials = errors.New("ldap: invalid SASL credentials")
)

// ParseBindRequest parses a BindRequest from raw operation data.
// The data should be the contents of the APPLICATION 0 tag (without the tag and length).
func ParseBindRequest(data []byte) (*BindRequest, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty bind request data", nil)
	}

	dec := ber.NewDecoder(data)
	req := &BindRequest{}

	var version int64
	var authTag ber.Tag
	if err := ber.Decode(dec,
		ber.ScanInt(&version),
		ber.ScanString(&req.Name),
		ber.ScanTag(&authTag),
	); err != nil {
		return nil, NewParseError(dec.Offset(), "failed to read bind request", err)
	}

	// Validate version range (1..127)
	if version < 1 || version > 127 {
		return nil, NewParseError(0, "bad bind version", ErrInvalidBindVersion)
	}
	req.Version = int(version)

	switch authTag {
	case tagAuthSimple:
		var password ber.Value
		if err := ber.Decode(dec, ber.WithTag(tagAuthSimple), ber.ScanOctetString(&password, 0)); err != nil {
			return nil, NewParseError(dec.Offset(), "failed to read simple password", err)
		}
		req.AuthMethod = AuthMethodSimple
		req.SimplePassword = detach(&password)

	case tagAuthSASL:
		creds, err := parseSASLCredentials(dec)
		if err != nil {
			return nil, NewParseError(dec.Offset(), "failed to read SASL credentials", err)
		}
		req.AuthMethod = AuthMethodSASL
		req.SASLCredentials = creds

	case tagAuthSASL &^ ber.TypeConstructed:
		return nil, NewParseError(dec.Offset(), "SASL credentials must be constructed", ErrInvalidSASLCredentials)

	default:
		return nil, NewParseError(dec.Offset(), "unknown authentication method tag "+authTag.String(), ErrUnknownAuthMethod)
	}

	return req, nil
}

// parseSASLCredentials reads [3] SaslCredentials; credentials are optional.
func parseSASLCredentials(dec *ber.Cursor) (*SASLCredentials, error) {
	_, end, err := dec.FirstElement()
	if err != nil {
		return nil, err
	}

	creds := &SASLCredentials{}
	if creds.Mechanism, err = dec.ReadString(); err != nil {
		return nil, err
	}

	if _, err := dec.NextElement(end); err != nil {
		if errors.Is(err, ber.ErrNoElements) {
			return creds, nil
		}
		return nil, err
	}
	value, err := dec.ReadOctetString(ber.StringNoEmpty)
	if err != nil {
		return nil, err
	}
	creds.Credentials = detach(&value)
	return creds, nil
}

// Encode encodes the BindRequest to BER format (without the APPLICATION tag).
func (r *BindRequest) Encode() ([]byte, error) {
	enc := ber.NewEncoder(128)

	items := []ber.EncodeItem{
		ber.Int(int64(r.Version)),
		ber.String(r.Name),
	}

	switch r.AuthMethod {
	case AuthMethodSimple:
		// Simple authentication: [0] OCTET STRING (primitive)
		items = append(items, ber.WithTag(tagAuthSimple), ber.OctetString(r.SimplePassword))

	case AuthMethodSASL:
		if r.SASLCredentials == nil {
			return nil, ErrInvalidSASLCredentials
		}
		// SASL authentication: [3] SEQUENCE { mechanism, credentials OPTIONAL }
		items = append(items, ber.WithTag(tagAuthSASL), ber.Sequence(), ber.String(r.SASLCredentials.Mechanism))
		if len(r.SASLCredentials.Credentials) > 0 {
			items = append(items, ber.OctetString(r.SASLCredentials.Credentials))
		}
		items = append(items, ber.End())

	default:
		return nil, ErrUnknownAuthMethod
	}

	if err := ber.Encode(enc, items...); err != nil {
		return nil, err
	}
	return enc.Flatten()
}

// IsAnonymous returns true if this is an anonymous bind request.
// An anonymous bind has an empty name and empty simple password.
func (r *BindRequest) IsAnonymous() bool {
	return r.Name == "" && r.AuthMethod == AuthMethodSimple && len(r.SimplePassword) == 0
}
