package ldap

import (
	"errors"

	"github.com/KilimcininKorOglu/lber/internal/ber"
)

// ParseLDAPMessage parses a BER-encoded LDAP message envelope.
// Per RFC 4511 Section 4.1.1:
// LDAPMessage ::= SEQUENCE {
//
//	messageID       MessageID,
//	protocolOp      CHOICE { ... },
//	controls        [0] Controls OPTIONAL
//
// }
func ParseLDAPMessage(data []byte) (*LDAPMessage, error) {
	return ParseLDAPMessageWithOptions(data, ber.Options{})
}

// ParseLDAPMessageWithOptions parses a message with a cursor configured by
// opts, so limits and trace output apply.
func ParseLDAPMessageWithOptions(data []byte, opts ber.Options) (*LDAPMessage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}

	dec := ber.NewDecoderWithOptions(data, opts)

	tag, _, err := dec.PeekTag()
	if err != nil {
		return nil, NewParseError(0, "failed to read LDAPMessage", err)
	}
	if tag != ber.TagSequence {
		return nil, NewParseError(0, "expected SEQUENCE for LDAPMessage",
			&ber.TagMismatchError{Offset: 0, Expected: ber.TagSequence, Actual: tag})
	}

	// end bounds the envelope
	_, end, err := dec.FirstElement()
	if err != nil {
		return nil, NewParseError(dec.Offset(), "expected SEQUENCE for LDAPMessage", err)
	}

	msgID, err := dec.ReadInteger()
	if err != nil {
		return nil, NewParseError(dec.Offset(), "failed to read messageID", err)
	}
	if msgID < MinMessageID || msgID > MaxMessageID {
		return nil, NewParseError(dec.Offset(), "messageID out of range", ErrInvalidMessageID)
	}

	opStart := dec.Offset()
	opTag, err := dec.NextElement(end)
	if err != nil {
		return nil, NewParseError(opStart, "failed to read protocolOp", err)
	}
	if opTag.Class() != ber.ClassApplication {
		return nil, NewParseError(opStart, "protocolOp must have APPLICATION tag class", ErrInvalidOperation)
	}

	body, err := dec.ReadView()
	if err != nil {
		return nil, NewParseError(opStart, "failed to read protocolOp", err)
	}
	opData, err := body.Bytes()
	if err != nil {
		return nil, NewParseError(opStart, "failed to read protocolOp", err)
	}

	msg := &LDAPMessage{
		MessageID: int(msgID),
		Operation: &RawOperation{
			Tag:  int(opTag.Number()),
			Data: append([]byte(nil), opData...),
		},
	}

	// Controls are optional; anything after them is ignored
	tag, err = dec.NextElement(end)
	if errors.Is(err, ber.ErrNoElements) {
		return msg, nil
	}
	if err != nil {
		return nil, NewParseError(dec.Offset(), "failed to read controls", err)
	}
	if tag == tagControls {
		ctrlStart := dec.Offset()
		controls, err := parseControls(dec)
		if err != nil {
			return nil, NewParseError(ctrlStart, "failed to parse controls", err)
		}
		msg.Controls = controls
	}

	return msg, nil
}

// parseControls parses the Controls field.
// Controls ::= SEQUENCE OF control Control
//
// Some clients wrap the controls in an extra SEQUENCE inside [0]; both
// shapes are accepted.
func parseControls(dec *ber.Cursor) ([]Control, error) {
	_, end, err := dec.FirstElement()
	if errors.Is(err, ber.ErrNoElements) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var controls []Control
	for {
		wrapped, err := isControlList(dec)
		if err != nil {
			return nil, err
		}
		if wrapped {
			inner, err := parseControls(dec)
			if err != nil {
				return nil, err
			}
			controls = append(controls, inner...)
		} else {
			ctrl, err := parseControl(dec)
			if err != nil {
				return nil, err
			}
			controls = append(controls, ctrl)
		}

		if _, err := dec.NextElement(end); err != nil {
			if errors.Is(err, ber.ErrNoElements) {
				return controls, nil
			}
			return nil, err
		}
	}
}

// isControlList reports whether the SEQUENCE at the cursor holds controls
// rather than being one. Nothing is consumed.
func isControlList(dec *ber.Cursor) (bool, error) {
	tag, _, err := dec.PeekTag()
	if err != nil {
		return false, err
	}
	if tag != ber.TagSequence {
		return false, NewParseError(dec.Offset(), "expected SEQUENCE for control", ErrInvalidControlSequence)
	}

	ahead := ber.NewDecoder(dec.Bytes()[dec.Offset():])
	first, _, err := ahead.FirstElement()
	if err != nil {
		return false, err
	}
	return first == ber.TagSequence, nil
}

// parseControl parses a single Control.
// Control ::= SEQUENCE {
//
//	controlType             LDAPOID,
//	criticality             BOOLEAN DEFAULT FALSE,
//	controlValue            OCTET STRING OPTIONAL
//
// }
func parseControl(dec *ber.Cursor) (Control, error) {
	ctrl := Control{
		Criticality: false, // DEFAULT FALSE
	}

	_, end, err := dec.FirstElement()
	if err != nil {
		return ctrl, NewParseError(dec.Offset(), "failed to read control", err)
	}

	// controlType (LDAPOID - encoded as OCTET STRING)
	if ctrl.OID, err = dec.ReadString(); err != nil {
		return ctrl, NewParseError(dec.Offset(), "failed to read control OID", err)
	}

	tag, err := dec.NextElement(end)
	if tag == ber.TagBoolean {
		if ctrl.Criticality, err = dec.ReadBoolean(); err != nil {
			return ctrl, NewParseError(dec.Offset(), "failed to read control criticality", err)
		}
		tag, err = dec.NextElement(end)
	}
	if tag == ber.TagOctetString {
		value, verr := dec.ReadOctetString(0)
		if verr != nil {
			return ctrl, NewParseError(dec.Offset(), "failed to read control value", verr)
		}
		ctrl.Value = detach(&value)
		tag, err = dec.NextElement(end)
	}
	if err != nil && !errors.Is(err, ber.ErrNoElements) {
		return ctrl, NewParseError(dec.Offset(), "malformed control", err)
	}
	if err == nil {
		return ctrl, NewParseError(dec.Offset(), "unexpected element "+tag.String()+" in control", ErrInvalidControlSequence)
	}

	return ctrl, nil
}

// detach copies v out of the decoder's allocator and releases it.
func detach(v *ber.Value) []byte {
	if v.IsNull() {
		return nil
	}
	b := append([]byte{}, v.Bytes()...)
	v.Release()
	return b
}

// Encode encodes the LDAPMessage to BER format.
func (m *LDAPMessage) Encode() ([]byte, error) {
	return m.EncodeWithOptions(ber.Options{InitialSize: 256})
}

// EncodeWithOptions encodes the message with an encoder configured by opts.
func (m *LDAPMessage) EncodeWithOptions(opts ber.Options) ([]byte, error) {
	// Validate message ID
	if m.MessageID < MinMessageID || m.MessageID > MaxMessageID {
		return nil, ErrInvalidMessageID
	}

	// Validate operation
	if m.Operation == nil {
		return nil, ErrMissingOperation
	}

	enc, err := ber.NewEncoderWithOptions(opts)
	if err != nil {
		return nil, err
	}

	op := OperationType(m.Operation.Tag)
	items := []ber.EncodeItem{
		ber.Sequence(),
		ber.Int(int64(m.MessageID)),
	}
	if op.Constructed() {
		items = append(items, ber.WithTag(op.Tag()), ber.Sequence(), ber.Raw(m.Operation.Data), ber.End())
	} else {
		items = append(items, ber.WithTag(op.Tag()), ber.OctetString(m.Operation.Data))
	}
	if len(m.Controls) > 0 {
		items = append(items, ber.WithTag(tagControls), ber.Sequence())
		for _, ctrl := range m.Controls {
			items = append(items, controlItems(ctrl)...)
		}
		items = append(items, ber.End())
	}
	items = append(items, ber.End())

	if err := ber.Encode(enc, items...); err != nil {
		return nil, err
	}
	return enc.Flatten()
}

// controlItems returns the steps encoding a single Control.
func controlItems(ctrl Control) []ber.EncodeItem {
	items := []ber.EncodeItem{
		ber.Sequence(),
		ber.String(ctrl.OID),
	}
	// Criticality is omitted when false since it's the default
	if ctrl.Criticality {
		items = append(items, ber.Bool(true))
	}
	if len(ctrl.Value) > 0 {
		items = append(items, ber.OctetString(ctrl.Value))
	}
	return append(items, ber.End())
}
