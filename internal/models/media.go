package models

// Media types for recipe/tip attachments.
const (
	MediaImage   = "image"
	MediaVideo   = "video"
	MediaYoutube = "youtube"
)

// Media describes an attached image, video or YouTube embed. PublicID is the
// object key in the cloud bucket, empty for YouTube links.
type Media struct {
	Type      string  `gorm:"size:20" json:"type,omitempty"`
	URL       string  `gorm:"size:500" json:"url,omitempty"`
	PublicID  string  `gorm:"size:255" json:"public_id,omitempty"`
	Thumbnail string  `gorm:"size:500" json:"thumbnail,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
}
