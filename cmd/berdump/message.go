package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KilimcininKorOglu/lber/internal/ber"
	"github.com/KilimcininKorOglu/lber/internal/ldap"
)

// messageSummary is the decoded view of one LDAPMessage.
type messageSummary struct {
	MessageID int              `json:"message_id" yaml:"message_id" msgpack:"message_id"`
	Operation string           `json:"operation" yaml:"operation" msgpack:"operation"`
	Controls  []controlSummary `json:"controls,omitempty" yaml:"controls,omitempty" msgpack:"controls,omitempty"`
	Bind      *bindSummary     `json:"bind,omitempty" yaml:"bind,omitempty" msgpack:"bind,omitempty"`
	Result    *resultSummary   `json:"result,omitempty" yaml:"result,omitempty" msgpack:"result,omitempty"`
	Entry     *entrySummary    `json:"entry,omitempty" yaml:"entry,omitempty" msgpack:"entry,omitempty"`
	Data      string           `json:"data,omitempty" yaml:"data,omitempty" msgpack:"data,omitempty"`
	Elements  []ber.Element    `json:"elements,omitempty" yaml:"elements,omitempty" msgpack:"elements,omitempty"`
}

type controlSummary struct {
	OID         string `json:"oid" yaml:"oid" msgpack:"oid"`
	Criticality bool   `json:"criticality" yaml:"criticality" msgpack:"criticality"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
}

type bindSummary struct {
	Version   int    `json:"version" yaml:"version" msgpack:"version"`
	Name      string `json:"name" yaml:"name" msgpack:"name"`
	Method    string `json:"method" yaml:"method" msgpack:"method"`
	Mechanism string `json:"mechanism,omitempty" yaml:"mechanism,omitempty" msgpack:"mechanism,omitempty"`
}

type resultSummary struct {
	Code       int      `json:"code" yaml:"code" msgpack:"code"`
	Name       string   `json:"name" yaml:"name" msgpack:"name"`
	MatchedDN  string   `json:"matched_dn,omitempty" yaml:"matched_dn,omitempty" msgpack:"matched_dn,omitempty"`
	Diagnostic string   `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty" msgpack:"diagnostic,omitempty"`
	Referral   []string `json:"referral,omitempty" yaml:"referral,omitempty" msgpack:"referral,omitempty"`
}

type entrySummary struct {
	DN         string             `json:"dn" yaml:"dn" msgpack:"dn"`
	Attributes []attributeSummary `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

type attributeSummary struct {
	Type   string   `json:"type" yaml:"type" msgpack:"type"`
	Values []string `json:"values" yaml:"values" msgpack:"values"`
}

// summarizeMessage parses the envelope and, for the operations the ldap
// package understands, the operation body.
func summarizeMessage(data []byte, opts ber.Options) (*messageSummary, error) {
	msg, err := ldap.ParseLDAPMessageWithOptions(data, opts)
	if err != nil {
		return nil, err
	}

	op := msg.OperationType()
	s := &messageSummary{
		MessageID: msg.MessageID,
		Operation: op.String(),
	}
	for _, ctrl := range msg.Controls {
		s.Controls = append(s.Controls, controlSummary{
			OID:         ctrl.OID,
			Criticality: ctrl.Criticality,
			Value:       hex.EncodeToString(ctrl.Value),
		})
	}

	body := msg.Operation.Data
	if !op.Constructed() {
		s.Data = hex.EncodeToString(body)
		return s, nil
	}

	switch op {
	case ldap.ApplicationBindRequest:
		req, err := ldap.ParseBindRequest(body)
		if err != nil {
			return nil, err
		}
		s.Bind = &bindSummary{Version: req.Version, Name: req.Name, Method: req.AuthMethod.String()}
		if req.SASLCredentials != nil {
			s.Bind.Mechanism = req.SASLCredentials.Mechanism
		}
	case ldap.ApplicationBindResponse:
		resp, err := ldap.ParseBindResponse(body)
		if err != nil {
			return nil, err
		}
		s.Result = summarizeResult(resp.LDAPResult)
	case ldap.ApplicationSearchResultDone, ldap.ApplicationModifyResponse, ldap.ApplicationAddResponse,
		ldap.ApplicationDelResponse, ldap.ApplicationModifyDNResponse, ldap.ApplicationCompareResponse,
		ldap.ApplicationExtendedResponse:
		result, err := ldap.ParseLDAPResult(body)
		if err != nil {
			return nil, err
		}
		s.Result = summarizeResult(*result)
	case ldap.ApplicationSearchResultEntry:
		entry, err := ldap.ParseSearchResultEntry(body)
		if err != nil {
			return nil, err
		}
		s.Entry = &entrySummary{DN: entry.ObjectName}
		for _, attr := range entry.Attributes {
			a := attributeSummary{Type: attr.Type, Values: []string{}}
			for _, v := range attr.Values {
				a.Values = append(a.Values, string(v))
			}
			s.Entry.Attributes = append(s.Entry.Attributes, a)
		}
	}

	elems, err := ber.ParseElements(body, opts)
	if err != nil {
		return nil, ldap.NewParseError(0, "failed to read "+op.String(), err)
	}
	s.Elements = elems
	return s, nil
}

func summarizeResult(r ldap.LDAPResult) *resultSummary {
	return &resultSummary{
		Code:       int(r.ResultCode),
		Name:       r.ResultCode.String(),
		MatchedDN:  r.MatchedDN,
		Diagnostic: r.DiagnosticMessage,
		Referral:   r.Referral,
	}
}

// writeMessageText renders s as a short header followed by the element
// tree of the operation body.
func writeMessageText(w io.Writer, s *messageSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "message %d: %s\n", s.MessageID, s.Operation)
	for _, c := range s.Controls {
		fmt.Fprintf(&b, "  control %s critical=%t", c.OID, c.Criticality)
		if c.Value != "" {
			fmt.Fprintf(&b, " value=%s", c.Value)
		}
		b.WriteString("\n")
	}
	if s.Bind != nil {
		fmt.Fprintf(&b, "  bind version=%d name=%s method=%s", s.Bind.Version, strconv.Quote(s.Bind.Name), s.Bind.Method)
		if s.Bind.Mechanism != "" {
			fmt.Fprintf(&b, " mechanism=%s", s.Bind.Mechanism)
		}
		b.WriteString("\n")
	}
	if s.Result != nil {
		fmt.Fprintf(&b, "  result %s (%d)", s.Result.Name, s.Result.Code)
		if s.Result.MatchedDN != "" {
			fmt.Fprintf(&b, " matched=%s", strconv.Quote(s.Result.MatchedDN))
		}
		if s.Result.Diagnostic != "" {
			fmt.Fprintf(&b, " message=%s", strconv.Quote(s.Result.Diagnostic))
		}
		b.WriteString("\n")
		for _, ref := range s.Result.Referral {
			fmt.Fprintf(&b, "  referral %s\n", ref)
		}
	}
	if s.Entry != nil {
		fmt.Fprintf(&b, "  entry %s\n", strconv.Quote(s.Entry.DN))
		for _, a := range s.Entry.Attributes {
			fmt.Fprintf(&b, "    %s: %s\n", a.Type, strings.Join(a.Values, ", "))
		}
	}
	if s.Data != "" {
		fmt.Fprintf(&b, "  data %s\n", s.Data)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return ber.WriteTree(w, s.Elements)
}
