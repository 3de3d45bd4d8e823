package bedrock

import "net/http"

// mergeHeaders combines header maps in precedence order: keys from later
// sources override keys from earlier sources. Every key present in any
// source appears in the result.
//
// Callers pass (instance defaults, per-call headers); transport-computed
// headers (e.g. the signed Authorization) are applied by the Transport
// after the merge, so they take final precedence by construction.
func mergeHeaders(sources ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, source := range sources {
		for key, value := range source {
			merged[key] = value
		}
	}
	return merged
}

// applyHeaders sets merged headers on the outgoing request.
func applyHeaders(req *http.Request, headers map[string]string) {
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}
