package lastfm

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
)

// calculateSignature generates the api_sig value for signed requests.
//
// The signature is calculated by:
// 1. Sorting parameter keys lexicographically
// 2. Concatenating key+value pairs with no separator
// 3. Appending the API secret
// 4. Taking the MD5 hash of the result, rendered as lowercase hex
//
// MD5 is mandated by the wire protocol; it is not a security boundary.
// The format and callback parameters are never part of the signature, so
// callers must sign before appending them.
func calculateSignature(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sigPlain string
	for _, k := range keys {
		sigPlain += k + params[k]
	}
	sigPlain += secret

	sum := md5.Sum([]byte(sigPlain))
	return hex.EncodeToString(sum[:])
}
