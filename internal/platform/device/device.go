// Package device summarises client User-Agent strings for session logs.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// Info is the coarse device classification derived from a User-Agent.
type Info struct {
	Browser      string
	MajorVersion string
	OS           string
	Mobile       bool
}

// Parse classifies a User-Agent string. Unknown parts are reported as "unknown".
func Parse(userAgentString string) Info {
	info := Info{Browser: "unknown", MajorVersion: "unknown", OS: "unknown"}
	if strings.TrimSpace(userAgentString) == "" {
		return info
	}

	ua := useragent.New(userAgentString)
	browser, version := ua.Browser()
	if b := strings.TrimSpace(browser); b != "" {
		info.Browser = b
	}
	if major, _, _ := strings.Cut(version, "."); major != "" {
		info.MajorVersion = major
	}
	os := ua.OS()
	if ua.Mobile() && ua.Platform() != "" {
		os = ua.Platform()
	}
	if o := strings.TrimSpace(os); o != "" {
		info.OS = o
	}
	info.Mobile = ua.Mobile()
	return info
}

// Describe returns "Browser on OS" (e.g. "Chrome on Linux").
func Describe(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}
	info := Parse(userAgentString)
	return info.Browser + " on " + info.OS
}

// Fingerprint hashes the coarse device classification. It is stable across
// minor browser updates and never includes the client IP.
func Fingerprint(userAgentString string) string {
	if userAgentString == "" {
		return ""
	}
	info := Parse(userAgentString)
	platform := "desktop"
	if info.Mobile {
		platform = "mobile"
	}
	data := fmt.Sprintf("%s|%s|%s|%s",
		strings.ToLower(info.Browser), info.MajorVersion, strings.ToLower(info.OS), platform)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
