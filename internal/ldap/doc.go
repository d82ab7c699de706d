// Package ldap implements the LDAP message envelope and the bind and
// result operations of RFC 4511 on top of the ber codec.
//
// # Message Structure
//
// All LDAP messages follow the LDAPMessage envelope structure:
//
//	LDAPMessage ::= SEQUENCE {
//	    messageID       MessageID,
//	    protocolOp      CHOICE { ... },
//	    controls        [0] Controls OPTIONAL
//	}
//
// Use ParseLDAPMessage to decode incoming messages:
//
//	msg, err := ldap.ParseLDAPMessage(data)
//	if err != nil {
//	    // errors.Is(err, ldap.ErrMalformedMessage) for bad input
//	}
//	switch msg.OperationType() {
//	case ldap.ApplicationBindRequest:
//	    req, err := ldap.ParseBindRequest(msg.Operation.Data)
//	    // handle bind request
//	}
//
// The protocol operation is kept as raw content so that unknown
// operations pass through the envelope untouched.
//
// # Errors
//
// Any codec failure while parsing is returned as a *ParseError wrapping
// the ber error. Every ParseError matches ErrMalformedMessage, which a
// server answers with ResultForError:
//
//	if err != nil {
//	    result := ldap.ResultForError(err) // protocolError
//	}
//
// # Responses
//
// BindResponse, SearchResultEntry, SearchResultDone and the plain
// LDAPResult responses encode to a complete APPLICATION-tagged element.
// ParseBindResponse, ParseSearchResultEntry and ParseLDAPResult read the
// contents back.
//
// # References
//
//   - RFC 4511: LDAP Protocol
package ldap
