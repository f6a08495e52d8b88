package keyspace

import "strings"

// Delimiter joins the prefix, version and base key segments of a namespaced
// key. Segments must not contain it; no escaping is performed.
const Delimiter = ":"

// composeKey builds the final namespaced key. A non-empty per-call override
// replaces the instance value entirely; instance values are trimmed before
// use. Empty segments never contribute a delimiter.
func composeKey(instPre, instVer, callPre, callVer, key string) string {
	pre := callPre
	if pre == "" {
		pre = strings.TrimSpace(instPre)
	}
	ver := callVer
	if ver == "" {
		ver = strings.TrimSpace(instVer)
	}

	segs := make([]string, 0, 3)
	for _, s := range []string{pre, ver, key} {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return strings.Join(segs, Delimiter)
}
