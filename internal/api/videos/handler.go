package videos

import (
	"errors"
	"net/http"
	"time"

	"edustream-app/internal/app/http/middleware"
	"edustream-app/internal/domain/entitlement"
	"edustream-app/internal/domain/videos"
	"edustream-app/internal/projection"
	"edustream-app/internal/store"

	"github.com/gin-gonic/gin"
)

type VideoCard struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type VideoDetail struct {
	VideoCard
	HasAccess bool   `json:"has_access"`
	SourceURL string `json:"source_url,omitempty"`
}

func toCard(v videos.Video) VideoCard {
	return VideoCard{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		ThumbnailURL: v.ThumbnailURL,
	}
}

// callerHasAccess evaluates the effective identity of the request, treating
// anonymous visitors as having none.
func callerHasAccess(c *gin.Context) bool {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return false
	}
	effective := sess.Effective()
	return entitlement.HasAccess(&effective, time.Now())
}

// ListVideos serves the public catalogue from the live projection, title
// ascending. Source URLs are never included here.
func ListVideos(c *gin.Context) {
	items := projection.Catalogue.Videos()
	cards := make([]VideoCard, 0, len(items))
	for _, v := range items {
		cards = append(cards, toCard(v))
	}
	c.JSON(http.StatusOK, gin.H{"videos": cards})
}

// GetVideo returns one catalogue entry. The source URL rides along only when
// the caller's effective identity is entitled right now.
func GetVideo(c *gin.Context) {
	video, err := store.Videos.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load video"})
		return
	}

	detail := VideoDetail{VideoCard: toCard(video)}
	if callerHasAccess(c) {
		detail.HasAccess = true
		detail.SourceURL = video.SourceURL
	}
	c.JSON(http.StatusOK, detail)
}

// WatchVideo is the playback endpoint proper, reached only through the
// entitlement guard.
func WatchVideo(c *gin.Context) {
	video, err := store.Videos.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load video"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         video.ID,
		"title":      video.Title,
		"source_url": video.SourceURL,
	})
}

// CreateVideo adds a catalogue entry. Admin only; every field is required so
// the catalogue never renders half-filled cards.
func CreateVideo(c *gin.Context) {
	var input struct {
		Title        string `json:"title" binding:"required"`
		Description  string `json:"description" binding:"required"`
		SourceURL    string `json:"source_url" binding:"required"`
		ThumbnailURL string `json:"thumbnail_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	id, err := store.Videos.Add(c.Request.Context(), videos.Video{
		Title:        input.Title,
		Description:  input.Description,
		SourceURL:    input.SourceURL,
		ThumbnailURL: input.ThumbnailURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create video"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateVideo overwrites the provided fields. Last write wins; there is no
// merge of concurrent edits.
func UpdateVideo(c *gin.Context) {
	var input struct {
		Title        *string `json:"title"`
		Description  *string `json:"description"`
		SourceURL    *string `json:"source_url"`
		ThumbnailURL *string `json:"thumbnail_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fields := map[string]any{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.SourceURL != nil {
		fields["source_url"] = *input.SourceURL
	}
	if input.ThumbnailURL != nil {
		fields["thumbnail_url"] = *input.ThumbnailURL
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	err := store.Videos.Update(c.Request.Context(), c.Param("id"), fields)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update video"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video updated"})
}

func DeleteVideo(c *gin.Context) {
	err := store.Videos.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}
