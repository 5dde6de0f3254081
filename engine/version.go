package engine

import (
	"strconv"
	"strings"

	"github.com/torontoai/parley/protocol"
)

// LatestVersion selects the highest registered version of a protocol when
// passed as the version argument to GetProtocol or CreateConversation.
const LatestVersion = "latest"

// compareVersions orders dot separated versions element-wise as integers,
// so "1.10" sorts after "1.2". Non numeric segments count as zero and
// missing segments compare as zero, making "1.2" and "1.2.0" equal.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}

func latestVersion(versions map[string]*protocol.Protocol) string {
	best := ""
	for v := range versions {
		if best == "" || compareVersions(v, best) > 0 {
			best = v
		}
	}
	return best
}
