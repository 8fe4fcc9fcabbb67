package batch

import (
	"encoding/json"
	"math"

	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
)

// BuildStatus is the pure read-side aggregation: batch and video statuses
// are computed from the clips, never read back from storage state beyond the
// batch's own last written status.
func BuildStatus(b *models.VideoBatch, videos []models.BatchVideo,
	clips []models.BatchClip, texts []models.BatchClipText) *dto.BatchStatusDTO {

	clipsByVideo := make(map[string][]models.BatchClip)
	for _, c := range clips {
		clipsByVideo[c.VideoID] = append(clipsByVideo[c.VideoID], c)
	}
	textsByVideo := make(map[string][]models.BatchClipText)
	for _, t := range texts {
		textsByVideo[t.VideoID] = append(textsByVideo[t.VideoID], t)
	}

	out := &dto.BatchStatusDTO{
		BatchID:  b.ID,
		Prompt:   b.InputPrompt,
		Settings: json.RawMessage(b.Settings),
		Videos:   make([]dto.VideoStatusDTO, 0, len(videos)),
	}

	var done, failed, processing int
	for _, v := range videos {
		vClips := clipsByVideo[v.ID]
		vDTO := dto.VideoStatusDTO{
			ID:         v.ID,
			VideoIndex: v.VideoIndex,
			Title:      v.Title,
			Status:     deriveStatus(vClips, v.Status),
			Progress:   progress(countStatus(vClips, config.ClipStatusDone), len(vClips)),
			Clips:      make([]dto.ClipStatusDTO, 0, len(vClips)),
		}
		for _, c := range vClips {
			vDTO.Clips = append(vDTO.Clips, dto.ClipStatusDTO{
				ID:              c.ID,
				ClipIndex:       c.ClipIndex,
				Status:          c.Status,
				Role:            c.Role,
				AnchorURL:       c.AnchorURL,
				ClipURL:         c.ClipURL,
				DurationSeconds: c.DurationSeconds,
				Error:           c.Error,
			})
			switch config.ClipStatus(c.Status) {
			case config.ClipStatusDone:
				done++
			case config.ClipStatusError:
				failed++
			case config.ClipStatusProcessing:
				processing++
			}
		}
		for _, t := range textsByVideo[v.ID] {
			vDTO.Texts = append(vDTO.Texts, dto.ClipTextDTO{
				ClipIndex: t.ClipIndex,
				Title:     t.Title,
				Subtitle:  t.Subtitle,
			})
		}
		out.Videos = append(out.Videos, vDTO)
	}

	out.TotalClips = len(clips)
	out.CompletedClips = done
	out.ErrorClips = failed
	out.Progress = progress(done, len(clips))
	out.Status = deriveStatus(clips, b.Status)
	return out
}

// deriveStatus computes an aggregate status from clips: done when all clips
// are done, error when all are error, processing when any is processing,
// otherwise the stored fallback.
func deriveStatus(clips []models.BatchClip, stored string) string {
	if len(clips) == 0 {
		return stored
	}
	allDone, allError, anyProcessing := true, true, false
	for _, c := range clips {
		if c.Status != string(config.ClipStatusDone) {
			allDone = false
		}
		if c.Status != string(config.ClipStatusError) {
			allError = false
		}
		if c.Status == string(config.ClipStatusProcessing) {
			anyProcessing = true
		}
	}
	switch {
	case allDone:
		return string(config.BatchStatusDone)
	case allError:
		return string(config.BatchStatusError)
	case anyProcessing:
		return string(config.BatchStatusProcessing)
	default:
		return stored
	}
}

func countStatus(clips []models.BatchClip, status config.ClipStatus) int {
	n := 0
	for _, c := range clips {
		if c.Status == string(status) {
			n++
		}
	}
	return n
}

func progress(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
