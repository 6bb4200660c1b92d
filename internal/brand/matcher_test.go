package brand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantCode(t *testing.T) {
	m := NewMatcher(nil, 0, "")

	cases := []struct {
		in   string
		want string
	}{
		{"Nike", "NKENKE"},
		{"nike", "NKENKE"},
		{"Nikee", "NKENKE"},
		{"N.I.K.E", "NKENKE"},
		{"I bought it on Nike", "NKENKE"},
		{"Completely Unrelated Text", "FBAFBA"},
		{"", "FBAFBA"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, m.TenantCode(tc.in))
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100.0, ratio("nike", "nike"))
	assert.InDelta(t, 88.9, ratio("nikee", "nike"), 0.1)
	assert.Equal(t, 100.0, ratio("", ""))
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brands.yml")
	require.NoError(t, os.WriteFile(path, []byte("Nike: NKENKE\nAdidas: ADSADS\n"), 0o600))

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "ADSADS", table["Adidas"])

	m := NewMatcher(table, 60, "FBAFBA")
	assert.Equal(t, "ADSADS", m.TenantCode("adidass"))
	assert.Equal(t, "NKENKE", m.TenantCode("Nike"))

	_, err = LoadTable(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
