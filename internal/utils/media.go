package utils

import "regexp"

var youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&?/]+)`)

// ExtractYoutubeID pulls the video id from a watch or short-link URL.
// Returns "" when the URL is not a recognizable YouTube link.
func ExtractYoutubeID(url string) string {
	match := youtubeIDPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// YoutubeEmbedURL converts a YouTube watch URL to its embed form. Unrecognized
// URLs are returned unchanged.
func YoutubeEmbedURL(url string) string {
	if id := ExtractYoutubeID(url); id != "" {
		return "https://www.youtube.com/embed/" + id
	}
	return url
}

// YoutubeThumbnail returns the hqdefault thumbnail for a YouTube URL, or ""
// when the URL is not recognizable.
func YoutubeThumbnail(url string) string {
	if id := ExtractYoutubeID(url); id != "" {
		return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
	}
	return ""
}
