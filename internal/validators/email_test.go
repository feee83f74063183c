package validators

import (
	"context"
	"errors"
	"net"
	"testing"
)

type fakeResolver struct {
	mx  map[string]bool
	ips map[string]bool
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if f.mx[name] {
		return []*net.MX{{Host: "mx." + name}}, nil
	}
	return nil, errors.New("no mx")
}

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if f.ips[host] {
		return []net.IPAddr{{IP: net.IPv4(10, 0, 0, 1)}}, nil
	}
	return nil, errors.New("no host")
}

func TestIsEmail(t *testing.T) {
	tests := map[string]bool{
		"ana@example.com":       true,
		"a.b+tag@mail.salon.br": true,
		"ana@localhost":         false,
		"ana":                   false,
		"":                      false,
		"Ana <ana@example.com>": false,
		"@example.com":          false,
	}
	for in, want := range tests {
		if got := IsEmail(in); got != want {
			t.Errorf("IsEmail(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsEmailDomainValid(t *testing.T) {
	old := DefaultResolver
	t.Cleanup(func() { DefaultResolver = old })

	DefaultResolver = fakeResolver{
		mx:  map[string]bool{"mail.com": true},
		ips: map[string]bool{"web.com": true},
	}

	if !IsEmailDomainValid("a@mail.com") {
		t.Error("expected MX domain to be valid")
	}
	if !IsEmailDomainValid("a@web.com") {
		t.Error("expected resolvable domain to be valid")
	}
	if IsEmailDomainValid("a@nowhere.invalid") {
		t.Error("expected unknown domain to be invalid")
	}
	if IsEmailDomainValid("a@") {
		t.Error("expected empty domain to be invalid")
	}
}
