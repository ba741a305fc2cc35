package domain

import "strings"

type Platform string

const (
	PlatformLinkedIn Platform = "linkedin"
	PlatformTwitter  Platform = "twitter"
	PlatformFacebook Platform = "facebook"
	PlatformTelegram Platform = "telegram"
)

// ParsePlatform lowercases and trims a platform name. "x" is accepted as Twitter.
func ParsePlatform(name string) Platform {
	p := Platform(strings.ToLower(strings.TrimSpace(name)))
	if p == "x" {
		return PlatformTwitter
	}
	return p
}

// NormalizePlatforms parses names, dropping blanks and duplicates while keeping order.
func NormalizePlatforms(names []string) []Platform {
	seen := make(map[Platform]struct{}, len(names))
	out := make([]Platform, 0, len(names))
	for _, name := range names {
		p := ParsePlatform(name)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func (p Platform) String() string {
	return string(p)
}
