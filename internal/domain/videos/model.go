package videos

import "time"

// Video is a catalogue entry. SourceURL and ThumbnailURL are opaque locators;
// nothing here validates or rewrites them. The catalogue itself is public,
// only playback is gated.
type Video struct {
	ID           string `gorm:"primaryKey;size:36"`
	Title        string `gorm:"not null;index:idx_videos_title"`
	Description  string `gorm:"not null"`
	SourceURL    string `gorm:"not null"`
	ThumbnailURL string `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
