package ldap

import (
	"errors"

	"github.com/KilimcininKorOglu/lber/internal/ber"
)

// Context-specific tags for response fields
const (
	// ContextTagReferral is the tag for referral URIs in LDAPResult [3]
	ContextTagReferral = 3
	// ContextTagServerSASLCreds is the tag for server SASL credentials in BindResponse [7]
	ContextTagServerSASLCreds = 7
)

var (
	tagReferral        = ber.NewTag(ber.ClassContextSpecific, ber.TypeConstructed, ContextTagReferral)
	tagServerSASLCreds = ber.NewTag(ber.ClassContextSpecific, ber.TypePrimitive, ContextTagServerSASLCreds)
)

// LDAPResult represents the common result structure used in most LDAP responses.
// Per RFC 4511 Section 4.1.9:
// LDAPResult ::= SEQUENCE {
//
//	resultCode         ENUMERATED { ... },
//	matchedDN          LDAPDN,
//	diagnosticMessage  LDAPString,
//	referral           [3] Referral OPTIONAL
//
// }
type LDAPResult struct {
	// ResultCode indicates the outcome of the operation
	ResultCode ResultCode
	// MatchedDN contains the DN of the last entry matched during processing
	MatchedDN string
	// DiagnosticMessage contains additional diagnostic information
	DiagnosticMessage string
	// Referral contains URIs to other servers (optional)
	Referral []string
}

// items returns the steps encoding the result components (without outer tag).
func (r *LDAPResult) items() []ber.EncodeItem {
	items := []ber.EncodeItem{
		ber.Enum(int64(r.ResultCode)),
		ber.String(r.MatchedDN),
		ber.String(r.DiagnosticMessage),
	}
	if len(r.Referral) > 0 {
		items = append(items, ber.WithTag(tagReferral), ber.Sequence(), ber.Strings(r.Referral), ber.End())
	}
	return items
}

// encodeResponse wraps items in the APPLICATION tag of op.
func encodeResponse(op OperationType, items ...ber.EncodeItem) ([]byte, error) {
	enc := ber.NewEncoder(128)
	all := make([]ber.EncodeItem, 0, len(items)+3)
	all = append(all, ber.WithTag(op.Tag()), ber.Sequence())
	all = append(all, items...)
	all = append(all, ber.End())
	if err := ber.Encode(enc, all...); err != nil {
		return nil, err
	}
	return enc.Flatten()
}

// ParseLDAPResult parses the contents of a response that is a bare LDAPResult.
func ParseLDAPResult(data []byte) (*LDAPResult, error) {
	dec := ber.NewDecoder(data)
	r, err := parseResult(dec)
	if err != nil {
		return nil, NewParseError(dec.Offset(), "failed to read LDAPResult", err)
	}
	return &r, nil
}

func parseResult(dec *ber.Cursor) (LDAPResult, error) {
	var r LDAPResult
	var code int64
	if err := ber.Decode(dec,
		ber.ScanEnum(&code),
		ber.ScanString(&r.MatchedDN),
		ber.ScanString(&r.DiagnosticMessage),
	); err != nil {
		return LDAPResult{}, err
	}
	r.ResultCode = ResultCode(code)

	if nextTag(dec) == tagReferral {
		if err := ber.Decode(dec, ber.ScanStrings(&r.Referral)); err != nil {
			return LDAPResult{}, err
		}
	}
	return r, nil
}

// nextTag peeks the tag of the next unit, or TagDefault when there is none.
func nextTag(dec *ber.Cursor) ber.Tag {
	if dec.Remaining() == 0 {
		return ber.TagDefault
	}
	tag, _, err := dec.PeekTag()
	if err != nil {
		return ber.TagDefault
	}
	return tag
}

// BindResponse represents an LDAP Bind response.
// Per RFC 4511 Section 4.2.2:
// BindResponse ::= [APPLICATION 1] SEQUENCE {
//
//	COMPONENTS OF LDAPResult,
//	serverSaslCreds    [7] OCTET STRING OPTIONAL
//
// }
type BindResponse struct {
	// LDAPResult contains the common result fields
	LDAPResult
	// ServerSASLCreds contains server SASL credentials (optional)
	ServerSASLCreds []byte
}

// Encode encodes the BindResponse to BER format.
func (r *BindResponse) Encode() ([]byte, error) {
	items := r.LDAPResult.items()
	if len(r.ServerSASLCreds) > 0 {
		items = append(items, ber.WithTag(tagServerSASLCreds), ber.OctetString(r.ServerSASLCreds))
	}
	return encodeResponse(ApplicationBindResponse, items...)
}

// ParseBindResponse parses the contents of an APPLICATION 1 tag.
func ParseBindResponse(data []byte) (*BindResponse, error) {
	dec := ber.NewDecoder(data)
	result, err := parseResult(dec)
	if err != nil {
		return nil, NewParseError(dec.Offset(), "failed to read BindResponse", err)
	}
	resp := &BindResponse{LDAPResult: result}

	if nextTag(dec) == tagServerSASLCreds {
		var creds ber.Value
		if err := ber.Decode(dec, ber.ScanOctetString(&creds, ber.StringNoEmpty)); err != nil {
			return nil, NewParseError(dec.Offset(), "failed to read serverSaslCreds", err)
		}
		resp.ServerSASLCreds = detach(&creds)
	}
	return resp, nil
}

// PartialAttribute represents an attribute with its values.
// Per RFC 4511 Section 4.1.7:
// PartialAttribute ::= SEQUENCE {
//
//	type       AttributeDescription,
//	vals       SET OF value AttributeValue
//
// }
type PartialAttribute struct {
	// Type is the attribute description (name or OID)
	Type string
	// Values contains the attribute values
	Values [][]byte
}

// SearchResultEntry represents a search result entry.
// Per RFC 4511 Section 4.5.2:
// SearchResultEntry ::= [APPLICATION 4] SEQUENCE {
//
//	objectName      LDAPDN,
//	attributes      PartialAttributeList
//
// }
// PartialAttributeList ::= SEQUENCE OF partialAttribute PartialAttribute
type SearchResultEntry struct {
	// ObjectName is the DN of the entry
	ObjectName string
	// Attributes contains the entry's attributes
	Attributes []PartialAttribute
}

// Encode encodes the SearchResultEntry to BER format.
func (r *SearchResultEntry) Encode() ([]byte, error) {
	items := []ber.EncodeItem{
		ber.String(r.ObjectName),
		ber.Sequence(),
	}
	for _, attr := range r.Attributes {
		items = append(items,
			ber.Sequence(),
			ber.String(attr.Type),
			ber.Set(), ber.Values(attr.Values), ber.End(),
			ber.End(),
		)
	}
	items = append(items, ber.End())
	return encodeResponse(ApplicationSearchResultEntry, items...)
}

// ParseSearchResultEntry parses the contents of an APPLICATION 4 tag.
func ParseSearchResultEntry(data []byte) (*SearchResultEntry, error) {
	dec := ber.NewDecoder(data)
	entry := &SearchResultEntry{}

	if err := ber.Decode(dec, ber.ScanString(&entry.ObjectName)); err != nil {
		return nil, NewParseError(dec.Offset(), "failed to read objectName", err)
	}

	_, end, err := dec.FirstElement()
	if errors.Is(err, ber.ErrNoElements) {
		return entry, nil
	}
	if err != nil {
		return nil, NewParseError(dec.Offset(), "failed to read attributes", err)
	}

	for {
		var attr PartialAttribute
		var vals []ber.Value
		if err := ber.Decode(dec,
			ber.Sequence(),
			ber.ScanString(&attr.Type),
			ber.ScanValues(&vals, 0),
			ber.End(),
		); err != nil {
			return nil, NewParseError(dec.Offset(), "failed to read attribute", err)
		}
		for i := range vals {
			attr.Values = append(attr.Values, detach(&vals[i]))
		}
		entry.Attributes = append(entry.Attributes, attr)

		if _, err := dec.NextElement(end); err != nil {
			if errors.Is(err, ber.ErrNoElements) {
				return entry, nil
			}
			return nil, NewParseError(dec.Offset(), "failed to read attributes", err)
		}
	}
}

// SearchResultDone represents the final response to a search operation.
// Per RFC 4511 Section 4.5.2:
// SearchResultDone ::= [APPLICATION 5] LDAPResult
type SearchResultDone struct {
	LDAPResult
}

// Encode encodes the SearchResultDone to BER format.
func (r *SearchResultDone) Encode() ([]byte, error) {
	return encodeResponse(ApplicationSearchResultDone, r.items()...)
}

// ModifyResponse represents the response to a modify operation.
// ModifyResponse ::= [APPLICATION 7] LDAPResult
type ModifyResponse struct {
	LDAPResult
}

// Encode encodes the ModifyResponse to BER format.
func (r *ModifyResponse) Encode() ([]byte, error) {
	return encodeResponse(ApplicationModifyResponse, r.items()...)
}

// AddResponse represents the response to an add operation.
// AddResponse ::= [APPLICATION 9] LDAPResult
type AddResponse struct {
	LDAPResult
}

// Encode encodes the AddResponse to BER format.
func (r *AddResponse) Encode() ([]byte, error) {
	return encodeResponse(ApplicationAddResponse, r.items()...)
}

// DeleteResponse represents the response to a delete operation.
// DelResponse ::= [APPLICATION 11] LDAPResult
type DeleteResponse struct {
	LDAPResult
}

// Encode encodes the DeleteResponse to BER format.
func (r *DeleteResponse) Encode() ([]byte, error) {
	return encodeResponse(ApplicationDelResponse, r.items()...)
}

// ModifyDNResponse represents the response to a modify DN operation.
// ModifyDNResponse ::= [APPLICATION 13] LDAPResult
type ModifyDNResponse struct {
	LDAPResult
}

// Encode encodes the ModifyDNResponse to BER format.
func (r *ModifyDNResponse) Encode() ([]byte, error) {
	return encodeResponse(ApplicationModifyDNResponse, r.items()...)
}

// CompareResponse represents the response to a compare operation.
// CompareResponse ::= [APPLICATION 15] LDAPResult
type CompareResponse struct {
	LDAPResult
}

// Encode encodes the CompareResponse to BER format.
func (r *CompareResponse) Encode() ([]byte, error) {
	return encodeResponse(ApplicationCompareResponse, r.items()...)
}

// NewSuccessResult creates a new LDAPResult with success status.
func NewSuccessResult() LDAPResult {
	return LDAPResult{ResultCode: ResultSuccess}
}

// NewErrorResult creates a new LDAPResult with the specified error.
func NewErrorResult(code ResultCode, message string) LDAPResult {
	return LDAPResult{
		ResultCode:        code,
		DiagnosticMessage: message,
	}
}

// NewErrorResultWithDN creates a new LDAPResult with error and matched DN.
func NewErrorResultWithDN(code ResultCode, matchedDN, message string) LDAPResult {
	return LDAPResult{
		ResultCode:        code,
		MatchedDN:         matchedDN,
		DiagnosticMessage: message,
	}
}

// ResultForError returns the result a server sends back for a request that
// failed to parse with err.
func ResultForError(err error) LDAPResult {
	switch {
	case err == nil:
		return NewSuccessResult()
	case errors.Is(err, ErrUnknownAuthMethod):
		return NewErrorResult(ResultAuthMethodNotSupported, "unknown authentication method")
	case errors.Is(err, ErrMalformedMessage), errors.Is(err, ErrEmptyMessage):
		return NewErrorResult(ResultProtocolError, "message not well-formed")
	default:
		return NewErrorResult(ResultOther, err.Error())
	}
}
