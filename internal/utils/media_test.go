package utils

import "testing"

func TestExtractYoutubeID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"with extra params", "https://www.youtube.com/watch?v=abc123&t=42s", "abc123"},
		{"not youtube", "https://vimeo.com/123456", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractYoutubeID(tt.url); got != tt.expected {
				t.Errorf("ExtractYoutubeID(%q) = %q, expected %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestYoutubeEmbedURL(t *testing.T) {
	got := YoutubeEmbedURL("https://www.youtube.com/watch?v=abc123")
	expected := "https://www.youtube.com/embed/abc123"
	if got != expected {
		t.Errorf("YoutubeEmbedURL() = %q, expected %q", got, expected)
	}

	// Unrecognized URLs pass through unchanged
	passthrough := "https://example.com/video"
	if got := YoutubeEmbedURL(passthrough); got != passthrough {
		t.Errorf("YoutubeEmbedURL() = %q, expected passthrough %q", got, passthrough)
	}
}

func TestYoutubeThumbnail(t *testing.T) {
	got := YoutubeThumbnail("https://youtu.be/abc123")
	expected := "https://img.youtube.com/vi/abc123/hqdefault.jpg"
	if got != expected {
		t.Errorf("YoutubeThumbnail() = %q, expected %q", got, expected)
	}

	if got := YoutubeThumbnail("https://example.com"); got != "" {
		t.Errorf("YoutubeThumbnail() = %q, expected empty", got)
	}
}
