package model

import "errors"

// Video is one result from the video search proxy.
type Video struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// VideoSearchResponse wraps the proxied search results.
type VideoSearchResponse struct {
	Videos []Video `json:"videos"`
}

// Video search constraints
const (
	MaxVideoResults = 10
)

// Video search errors
var (
	ErrQueryRequired = errors.New("search query is required")
)
