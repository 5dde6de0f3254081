package engine

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.2", "1.10", -1},
		{"1.10", "1.2", 1},
		{"2.0", "1.9", 1},
		{"1.2", "1.2.0", 0},
		{"1.2", "1.2.1", -1},
		{"10", "9", 1},
		{"0.1", "0.0.9", 1},
		{"2.beta", "2.0", 0},
		{"abc", "0", 0},
	}
	for _, tc := range cases {
		if got := sign(compareVersions(tc.a, tc.b)); got != tc.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func numericVersionGen() *rapid.Generator[string] {
	return rapid.Custom(func(rt *rapid.T) string {
		parts := rapid.SliceOfN(rapid.IntRange(0, 20), 1, 3).Draw(rt, "parts")
		segs := make([]string, len(parts))
		for i, p := range parts {
			segs[i] = strconv.Itoa(p)
		}
		return strings.Join(segs, ".")
	})
}

func TestCompareVersions_Antisymmetric(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := numericVersionGen().Draw(rt, "a")
		b := numericVersionGen().Draw(rt, "b")

		require.Equal(t, sign(compareVersions(a, b)), -sign(compareVersions(b, a)))
		require.Zero(t, compareVersions(a, a))
	})
}

func TestCompareVersions_ZeroExtension(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := numericVersionGen().Draw(rt, "a")
		require.Zero(t, compareVersions(a, a+".0"))
	})
}

func TestLatestVersionResolution(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		versions := rapid.SliceOfN(numericVersionGen(), 1, 6).Draw(rt, "versions")

		mgr := New()
		seen := map[string]bool{}
		for _, v := range versions {
			if seen[v] {
				continue
			}
			seen[v] = true
			require.NoError(t, mgr.RegisterProtocol(exchangeProtocol("exchange", v)))
		}

		got, err := mgr.GetProtocol("exchange", LatestVersion)
		require.NoError(t, err)
		for v := range seen {
			require.GreaterOrEqual(t, sign(compareVersions(got.Version, v)), 0,
				"latest resolved %q but %q is newer", got.Version, v)
		}
	})
}
