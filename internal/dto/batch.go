package dto

import "encoding/json"

type BatchSettingsDTO struct {
	VideosCount   int    `json:"videos_count" validate:"required,gte=1"`
	ClipsPerVideo int    `json:"clips_per_video"`
	Ratio         string `json:"ratio" validate:"required,oneof=9:16 16:9 1:1 4:5"`
	Language      string `json:"language" validate:"required"`
	SfxTransition bool   `json:"sfx_transition"`
	StyleLock     string `json:"style_lock,omitempty"`
}

type BatchCreateDTO struct {
	Prompt   string           `json:"prompt" validate:"required"`
	BrandID  *string          `json:"brandId,omitempty"`
	Settings BatchSettingsDTO `json:"settings" validate:"required"`

	// VideoTexts carries optional per-video text overrides, one raw object
	// per video. Both the clips[] array format and the legacy flat
	// clip{N}_title/clip{N}_subtitle format are accepted; normalization
	// happens once at ingestion.
	VideoTexts []json.RawMessage `json:"videoTexts,omitempty"`
}

type BatchCreatedDTO struct {
	BatchID       string   `json:"batchId"`
	VideoIDs      []string `json:"videoIds"`
	VideosCount   int      `json:"videosCount"`
	ClipsPerVideo int      `json:"clipsPerVideo"`
	TotalClips    int      `json:"totalClips"`
	WoofsCost     int      `json:"woofsCost"`
	Status        string   `json:"status"`
}

type ClipStatusDTO struct {
	ID              string  `json:"id"`
	ClipIndex       int     `json:"clip_index"`
	Status          string  `json:"status"`
	Role            string  `json:"role"`
	AnchorURL       string  `json:"anchor_url,omitempty"`
	ClipURL         string  `json:"clip_url,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Error           string  `json:"error,omitempty"`
}

type ClipTextDTO struct {
	ClipIndex int    `json:"clip_index"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
}

type VideoStatusDTO struct {
	ID         string          `json:"id"`
	VideoIndex int             `json:"video_index"`
	Title      string          `json:"title"`
	Status     string          `json:"status"`
	Progress   int             `json:"progress"`
	Clips      []ClipStatusDTO `json:"clips"`
	Texts      []ClipTextDTO   `json:"texts,omitempty"`
}

type BatchStatusDTO struct {
	BatchID        string           `json:"batchId"`
	Status         string           `json:"status"`
	Prompt         string           `json:"prompt"`
	Settings       json.RawMessage  `json:"settings,omitempty"`
	Videos         []VideoStatusDTO `json:"videos"`
	Progress       int              `json:"progress"`
	CompletedClips int              `json:"completedClips"`
	ErrorClips     int              `json:"errorClips"`
	TotalClips     int              `json:"totalClips"`
}

// ClipJobPayload is the business input of one video_batch_clip job.
type ClipJobPayload struct {
	BatchID   string          `json:"batchId"`
	VideoID   string          `json:"videoId"`
	ClipID    string          `json:"clipId"`
	ClipIndex int             `json:"clipIndex"`
	Settings  json.RawMessage `json:"settings,omitempty"`
}
