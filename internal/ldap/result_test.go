package ldap

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/KilimcininKorOglu/lber/internal/ber"
)

// contents strips the outer tag and length of an encoded response.
func contents(t *testing.T, data []byte) []byte {
	t.Helper()
	view, err := ber.NewDecoder(data).ReadView()
	if err != nil {
		t.Fatalf("ReadView failed: %v", err)
	}
	body, err := view.Bytes()
	if err != nil {
		t.Fatalf("View.Bytes failed: %v", err)
	}
	return body
}

func TestResultCode_String(t *testing.T) {
	tests := []struct {
		code ResultCode
		want string
	}{
		{ResultSuccess, "success"},
		{ResultProtocolError, "protocolError"},
		{ResultSASLBindInProgress, "saslBindInProgress"},
		{ResultInvalidCredentials, "invalidCredentials"},
		{ResultOther, "other"},
		{ResultCode(999), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ResultCode(%d).String() = %q, want %q", int(tt.code), got, tt.want)
		}
	}
}

func TestResultCode_IsError(t *testing.T) {
	tests := []struct {
		code    ResultCode
		success bool
		isError bool
	}{
		{ResultSuccess, true, false},
		{ResultCompareTrue, false, false},
		{ResultCompareFalse, false, false},
		{ResultReferral, false, false},
		{ResultSASLBindInProgress, false, false},
		{ResultProtocolError, false, true},
		{ResultNoSuchObject, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := tt.code.IsSuccess(); got != tt.success {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.success)
			}
			if got := tt.code.IsError(); got != tt.isError {
				t.Errorf("IsError() = %v, want %v", got, tt.isError)
			}
		})
	}
}

func TestSearchResultDone_Encode(t *testing.T) {
	resp := &SearchResultDone{LDAPResult: NewSuccessResult()}

	data, err := resp.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{0x65, 0x07, 0x0A, 0x01, 0x00, 0x04, 0x00, 0x04, 0x00}
	if !bytes.Equal(data, want) {
		t.Errorf("Encode = %x, want %x", data, want)
	}
}

func TestResponses_Tags(t *testing.T) {
	result := NewErrorResultWithDN(ResultNoSuchObject, "dc=example,dc=com", "no such entry")
	tests := []struct {
		name    string
		encoder interface{ Encode() ([]byte, error) }
		tag     byte
	}{
		{"modify", &ModifyResponse{result}, 0x67},
		{"add", &AddResponse{result}, 0x69},
		{"delete", &DeleteResponse{result}, 0x6B},
		{"modifydn", &ModifyDNResponse{result}, 0x6D},
		{"compare", &CompareResponse{result}, 0x6F},
		{"search done", &SearchResultDone{result}, 0x65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.encoder.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if data[0] != tt.tag {
				t.Errorf("tag = %#x, want %#x", data[0], tt.tag)
			}

			got, err := ParseLDAPResult(contents(t, data))
			if err != nil {
				t.Fatalf("ParseLDAPResult failed: %v", err)
			}
			if got.ResultCode != ResultNoSuchObject {
				t.Errorf("ResultCode = %v, want noSuchObject", got.ResultCode)
			}
			if got.MatchedDN != "dc=example,dc=com" {
				t.Errorf("MatchedDN = %q", got.MatchedDN)
			}
			if got.DiagnosticMessage != "no such entry" {
				t.Errorf("DiagnosticMessage = %q", got.DiagnosticMessage)
			}
			if got.Referral != nil {
				t.Errorf("Referral = %v, want nil", got.Referral)
			}
		})
	}
}

func TestLDAPResult_Referral(t *testing.T) {
	resp := &AddResponse{LDAPResult: LDAPResult{
		ResultCode: ResultReferral,
		Referral:   []string{"ldap://a.example.com/", "ldap://b.example.com/"},
	}}

	data, err := resp.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := ParseLDAPResult(contents(t, data))
	if err != nil {
		t.Fatalf("ParseLDAPResult failed: %v", err)
	}
	if got.ResultCode != ResultReferral {
		t.Errorf("ResultCode = %v, want referral", got.ResultCode)
	}
	if len(got.Referral) != 2 || got.Referral[0] != resp.Referral[0] || got.Referral[1] != resp.Referral[1] {
		t.Errorf("Referral = %v, want %v", got.Referral, resp.Referral)
	}
}

func TestBindResponse_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		resp *BindResponse
	}{
		{"success", &BindResponse{LDAPResult: NewSuccessResult()}},
		{"invalid credentials", &BindResponse{LDAPResult: NewErrorResult(ResultInvalidCredentials, "bad password")}},
		{"sasl in progress", &BindResponse{
			LDAPResult:      LDAPResult{ResultCode: ResultSASLBindInProgress},
			ServerSASLCreds: []byte("challenge"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.resp.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if data[0] != 0x61 {
				t.Errorf("tag = %#x, want 0x61", data[0])
			}

			got, err := ParseBindResponse(contents(t, data))
			if err != nil {
				t.Fatalf("ParseBindResponse failed: %v", err)
			}
			if got.ResultCode != tt.resp.ResultCode {
				t.Errorf("ResultCode = %v, want %v", got.ResultCode, tt.resp.ResultCode)
			}
			if got.DiagnosticMessage != tt.resp.DiagnosticMessage {
				t.Errorf("DiagnosticMessage = %q, want %q", got.DiagnosticMessage, tt.resp.DiagnosticMessage)
			}
			if !bytes.Equal(got.ServerSASLCreds, tt.resp.ServerSASLCreds) {
				t.Errorf("ServerSASLCreds = %q, want %q", got.ServerSASLCreds, tt.resp.ServerSASLCreds)
			}
		})
	}
}

func TestParseLDAPResult_Truncated(t *testing.T) {
	_, err := ParseLDAPResult([]byte{0x0A, 0x01, 0x00, 0x04, 0x00})
	if !errors.Is(err, ErrMalformedMessage) {
		t.Errorf("error = %v, want ErrMalformedMessage", err)
	}
}

func TestSearchResultEntry_RoundTrip(t *testing.T) {
	entry := &SearchResultEntry{
		ObjectName: "uid=alice,ou=people,dc=example,dc=com",
		Attributes: []PartialAttribute{
			{Type: "objectClass", Values: [][]byte{[]byte("top"), []byte("person")}},
			{Type: "cn", Values: [][]byte{[]byte("Alice")}},
			{Type: "description"},
		},
	}

	data, err := entry.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if data[0] != 0x64 {
		t.Errorf("tag = %#x, want 0x64", data[0])
	}

	got, err := ParseSearchResultEntry(contents(t, data))
	if err != nil {
		t.Fatalf("ParseSearchResultEntry failed: %v", err)
	}
	if got.ObjectName != entry.ObjectName {
		t.Errorf("ObjectName = %q, want %q", got.ObjectName, entry.ObjectName)
	}
	if len(got.Attributes) != len(entry.Attributes) {
		t.Fatalf("got %d attributes, want %d", len(got.Attributes), len(entry.Attributes))
	}
	for i, want := range entry.Attributes {
		attr := got.Attributes[i]
		if attr.Type != want.Type {
			t.Errorf("attribute %d Type = %q, want %q", i, attr.Type, want.Type)
		}
		if len(attr.Values) != len(want.Values) {
			t.Errorf("attribute %d has %d values, want %d", i, len(attr.Values), len(want.Values))
			continue
		}
		for j := range want.Values {
			if !bytes.Equal(attr.Values[j], want.Values[j]) {
				t.Errorf("attribute %d value %d = %q, want %q", i, j, attr.Values[j], want.Values[j])
			}
		}
	}
}

func TestSearchResultEntry_NoAttributes(t *testing.T) {
	entry := &SearchResultEntry{ObjectName: "dc=example,dc=com"}

	data, err := entry.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := ParseSearchResultEntry(contents(t, data))
	if err != nil {
		t.Fatalf("ParseSearchResultEntry failed: %v", err)
	}
	if got.ObjectName != entry.ObjectName {
		t.Errorf("ObjectName = %q, want %q", got.ObjectName, entry.ObjectName)
	}
	if len(got.Attributes) != 0 {
		t.Errorf("Attributes = %v, want none", got.Attributes)
	}
}

func TestResultForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ResultCode
	}{
		{"nil", nil, ResultSuccess},
		{"parse error", NewParseError(0, "bad", nil), ResultProtocolError},
		{"empty message", ErrEmptyMessage, ResultProtocolError},
		{"wrapped parse error", fmt.Errorf("conn 4: %w", NewParseError(2, "bad", ber.ErrTruncated)), ResultProtocolError},
		{"unknown auth", NewParseError(5, "unknown tag", ErrUnknownAuthMethod), ResultAuthMethodNotSupported},
		{"other", errors.New("disk full"), ResultOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResultForError(tt.err)
			if got.ResultCode != tt.want {
				t.Errorf("ResultCode = %v, want %v", got.ResultCode, tt.want)
			}
		})
	}

	if got := ResultForError(errors.New("disk full")); got.DiagnosticMessage != "disk full" {
		t.Errorf("DiagnosticMessage = %q, want disk full", got.DiagnosticMessage)
	}
}

func TestResultForError_BindParse(t *testing.T) {
	_, err := ParseBindRequest([]byte{0x02, 0x01, 0x03, 0x04, 0x00, 0x81, 0x00})
	if got := ResultForError(err); got.ResultCode != ResultAuthMethodNotSupported {
		t.Errorf("ResultCode = %v, want authMethodNotSupported", got.ResultCode)
	}
}
