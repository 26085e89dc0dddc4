package security

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

type GravatarOptions struct {
	Size    string // s
	Rating  string // r
	Default string // d
}

// AvatarOptions are the options used for every registered user.
var AvatarOptions = GravatarOptions{Size: "200", Rating: "pg", Default: "mm"}

// GravatarURL builds a protocol-relative gravatar URL. It does no network I/O.
func GravatarURL(email string, o GravatarOptions) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))

	var q []string
	add := func(k, v string) {
		if v != "" {
			q = append(q, k+"="+url.QueryEscape(v))
		}
	}
	add("s", o.Size)
	add("r", o.Rating)
	add("d", o.Default)

	u := "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:])
	if len(q) > 0 {
		u += "?" + strings.Join(q, "&")
	}
	return u
}
