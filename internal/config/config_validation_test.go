package config

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrustedProxies(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    []netip.Prefix
		wantErr bool
	}{
		{
			name: "none",
			want: []netip.Prefix{},
		},
		{
			name:    "cidr is masked",
			entries: []string{"10.1.2.3/8"},
			want:    []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")},
		},
		{
			name:    "bare addresses become single hosts",
			entries: []string{" 192.0.2.10 ", "2001:db8::1"},
			want: []netip.Prefix{
				netip.MustParsePrefix("192.0.2.10/32"),
				netip.MustParsePrefix("2001:db8::1/128"),
			},
		},
		{
			name:    "empty entries are skipped",
			entries: []string{"", "172.16.0.0/12"},
			want:    []netip.Prefix{netip.MustParsePrefix("172.16.0.0/12")},
		},
		{
			name:    "hostname",
			entries: []string{"proxy.internal"},
			wantErr: true,
		},
		{
			name:    "bad mask",
			entries: []string{"10.0.0.0/40"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTrustedProxies(tt.entries)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTrustedProxy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
