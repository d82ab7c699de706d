package ldap

import (
	"bytes"
	"errors"
	"testing"
)

func TestBindRequest_Encode(t *testing.T) {
	req := &BindRequest{Version: 3, AuthMethod: AuthMethodSimple}

	data, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{0x02, 0x01, 0x03, 0x04, 0x00, 0x80, 0x00}
	if !bytes.Equal(data, want) {
		t.Errorf("Encode = %x, want %x", data, want)
	}
}

func TestParseBindRequest_SimpleAuth(t *testing.T) {
	req := &BindRequest{
		Version:        3,
		Name:           "cn=admin,dc=example,dc=com",
		AuthMethod:     AuthMethodSimple,
		SimplePassword: []byte("secret"),
	}
	data, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := ParseBindRequest(data)
	if err != nil {
		t.Fatalf("ParseBindRequest failed: %v", err)
	}
	if got.Version != 3 {
		t.Errorf("Version = %d, want 3", got.Version)
	}
	if got.Name != req.Name {
		t.Errorf("Name = %q, want %q", got.Name, req.Name)
	}
	if got.AuthMethod != AuthMethodSimple {
		t.Errorf("AuthMethod = %v, want Simple", got.AuthMethod)
	}
	if string(got.SimplePassword) != "secret" {
		t.Errorf("SimplePassword = %q, want secret", got.SimplePassword)
	}
	if got.IsAnonymous() {
		t.Error("bind with a name must not be anonymous")
	}
}

func TestParseBindRequest_SASLAuth(t *testing.T) {
	tests := []struct {
		name  string
		creds *SASLCredentials
	}{
		{"with credentials", &SASLCredentials{Mechanism: "PLAIN", Credentials: []byte("\x00user\x00pass")}},
		{"mechanism only", &SASLCredentials{Mechanism: "EXTERNAL"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &BindRequest{Version: 3, AuthMethod: AuthMethodSASL, SASLCredentials: tt.creds}
			data, err := req.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			got, err := ParseBindRequest(data)
			if err != nil {
				t.Fatalf("ParseBindRequest failed: %v", err)
			}
			if got.AuthMethod != AuthMethodSASL {
				t.Fatalf("AuthMethod = %v, want SASL", got.AuthMethod)
			}
			if got.SASLCredentials == nil {
				t.Fatal("SASLCredentials is nil")
			}
			if got.SASLCredentials.Mechanism != tt.creds.Mechanism {
				t.Errorf("Mechanism = %q, want %q", got.SASLCredentials.Mechanism, tt.creds.Mechanism)
			}
			if !bytes.Equal(got.SASLCredentials.Credentials, tt.creds.Credentials) {
				t.Errorf("Credentials = %q, want %q", got.SASLCredentials.Credentials, tt.creds.Credentials)
			}
			if got.IsAnonymous() {
				t.Error("SASL bind must not be anonymous")
			}
		})
	}
}

func TestParseBindRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrMalformedMessage},
		{"version zero", []byte{0x02, 0x01, 0x00, 0x04, 0x00, 0x80, 0x00}, ErrInvalidBindVersion},
		{"version 128", []byte{0x02, 0x02, 0x00, 0x80, 0x04, 0x00, 0x80, 0x00}, ErrInvalidBindVersion},
		{"unknown auth tag", []byte{0x02, 0x01, 0x03, 0x04, 0x00, 0x81, 0x00}, ErrUnknownAuthMethod},
		{"primitive sasl", []byte{0x02, 0x01, 0x03, 0x04, 0x00, 0x83, 0x00}, ErrInvalidSASLCredentials},
		{"missing auth", []byte{0x02, 0x01, 0x03, 0x04, 0x00}, ErrMalformedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBindRequest(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrMalformedMessage) {
				t.Errorf("error %v does not match ErrMalformedMessage", err)
			}
		})
	}
}

func TestBindRequest_EncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		req  *BindRequest
		want error
	}{
		{"sasl without credentials", &BindRequest{Version: 3, AuthMethod: AuthMethodSASL}, ErrInvalidSASLCredentials},
		{"unknown method", &BindRequest{Version: 3, AuthMethod: AuthMethod(9)}, ErrUnknownAuthMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.req.Encode(); !errors.Is(err, tt.want) {
				t.Errorf("Encode error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method AuthMethod
		want   string
	}{
		{AuthMethodSimple, "Simple"},
		{AuthMethodSASL, "SASL"},
		{AuthMethod(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("AuthMethod(%d).String() = %q, want %q", int(tt.method), got, tt.want)
		}
	}
}
