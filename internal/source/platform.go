package source

import (
	"net/url"
	"path"
	"strings"
)

type Platform string

const (
	YouTube     Platform = "youtube"
	SoundCloud  Platform = "soundcloud"
	Generic     Platform = "generic"
	DirectAudio Platform = "direct-audio"
	Unknown     Platform = "unknown"
)

// registeredDomains is the static allow-list of hosts for each supported
// platform. A URL matches a domain if it's host is the domain itself, or any
// subdomain of it.
var registeredDomains = []struct {
	platform Platform
	domains  []string
}{
	{YouTube, []string{"youtube.com", "youtu.be", "m.youtube.com", "music.youtube.com"}},
	{SoundCloud, []string{"soundcloud.com", "m.soundcloud.com"}},
	{Generic, []string{"bandcamp.com", "mixcloud.com"}},
}

var audioExtensions = map[string]struct{}{
	".mp3": {}, ".flac": {}, ".wav": {}, ".m4a": {}, ".ogg": {}, ".opus": {}, ".aac": {},
}

// Identify classifies the URL provided by the platform it belongs to. URLs for
// unregistered hosts are tagged DirectAudio if their path names a recognised
// audio file, otherwise Unknown.
func Identify(rawURL string) Platform {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Hostname() == "" {
		return Unknown
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	for _, entry := range registeredDomains {
		for _, domain := range entry.domains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return entry.platform
			}
		}
	}

	if _, ok := audioExtensions[strings.ToLower(path.Ext(parsed.Path))]; ok {
		return DirectAudio
	}

	return Unknown
}

// DefaultFormat returns the output format to use for a URL when
// the caller did not request one explicitly.
func DefaultFormat(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err == nil && strings.Contains(strings.ToLower(parsed.Hostname()), "bandcamp.com") {
		return "flac"
	}

	return "mp3"
}
