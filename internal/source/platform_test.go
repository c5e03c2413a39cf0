package source_test

import (
	"testing"

	"github.com/hbomb79/Cadence/internal/source"
	"github.com/stretchr/testify/assert"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		url      string
		expected source.Platform
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", source.YouTube},
		{"https://youtu.be/dQw4w9WgXcQ", source.YouTube},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", source.YouTube},
		{"https://music.youtube.com/watch?v=abc", source.YouTube},
		{"https://soundcloud.com/artist/track", source.SoundCloud},
		{"https://m.soundcloud.com/artist/track", source.SoundCloud},
		{"https://someartist.bandcamp.com/track/song", source.Generic},
		{"https://www.mixcloud.com/dj/set/", source.Generic},
		{"https://cdn.example.org/audio/song.MP3", source.DirectAudio},
		{"https://cdn.example.org/audio/song.flac?token=123", source.DirectAudio},
		{"https://example.org/page.html", source.Unknown},
		{"https://notyoutube.com/watch?v=abc", source.Unknown},
		{"ftp://example.org/song.mp3", source.Unknown},
		{"not a url", source.Unknown},
		{"", source.Unknown},
	}

	for _, test := range tests {
		t.Run(test.url, func(t *testing.T) {
			assert.Equal(t, test.expected, source.Identify(test.url))
		})
	}
}

func TestDefaultFormat(t *testing.T) {
	assert.Equal(t, "flac", source.DefaultFormat("https://artist.bandcamp.com/album/x"))
	assert.Equal(t, "mp3", source.DefaultFormat("https://youtu.be/abc"))
	assert.Equal(t, "mp3", source.DefaultFormat("::::"))
}
