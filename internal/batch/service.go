package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/pawkit-ai/pawkit-backend/common"
	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/internal/job"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/pawkit-ai/pawkit-backend/internal/payload"
)

// Service decomposes a bulk video request into the batch -> video -> clip
// hierarchy and its queue jobs, and serves the read-side aggregation.
type Service struct {
	repo BatchRepoInterface
	jobs job.JobRepoInterface
}

func NewService(repo BatchRepoInterface, jobs job.JobRepoInterface) *Service {
	return &Service{repo: repo, jobs: jobs}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clipRole tags each clip's place in the video's narrative: the first clip
// hooks, the last calls to action, the middle carries content.
func clipRole(clipIndex, clipsPerVideo int) string {
	switch {
	case clipIndex == 1:
		return "hook"
	case clipIndex == clipsPerVideo:
		return "cta"
	default:
		return fmt.Sprintf("content_%d", clipIndex-1)
	}
}

func buildVeoPrompt(basePrompt, role, styleLock string) string {
	p := fmt.Sprintf("%s\n\nClip role: %s.", basePrompt, role)
	if styleLock != "" {
		p += fmt.Sprintf("\nStyle lock: %s.", styleLock)
	}
	return p
}

func buildAnchorPrompt(basePrompt, role string, clipIndex int) string {
	return fmt.Sprintf("Anchor frame for clip %d (%s): %s", clipIndex, role, basePrompt)
}

// CreateBatch creates one batch, N videos, N*M clips and N*M clip jobs in a
// single transaction, enqueuing the jobs in strict (video_index, clip_index)
// order.
func (s *Service) CreateBatch(ctx context.Context, userID string, req *dto.BatchCreateDTO) (*dto.BatchCreatedDTO, error) {
	videosCount := clamp(req.Settings.VideosCount, config.MinBatchDimension, config.MaxBatchDimension)
	clipsPerVideo := clamp(req.Settings.ClipsPerVideo, config.MinBatchDimension, config.MaxBatchDimension)

	texts, err := NormalizeVideoTexts(req.VideoTexts, clipsPerVideo)
	if err != nil {
		return nil, err
	}

	settings := req.Settings
	settings.VideosCount = videosCount
	settings.ClipsPerVideo = clipsPerVideo
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, common.Errf(http.StatusBadRequest, "settings are not serializable")
	}

	b := &models.VideoBatch{
		ID:          uuid.NewString(),
		UserID:      userID,
		BrandID:     req.BrandID,
		InputPrompt: req.Prompt,
		Settings:    settingsJSON,
		Status:      string(config.BatchStatusQueued),
	}

	videos := make([]models.BatchVideo, 0, videosCount)
	clips := make([]models.BatchClip, 0, videosCount*clipsPerVideo)
	clipTexts := make([]models.BatchClipText, 0)
	jobs := make([]models.Job, 0, videosCount*clipsPerVideo)
	videoIDs := make([]string, 0, videosCount)

	for videoIndex := 1; videoIndex <= videosCount; videoIndex++ {
		title := fmt.Sprintf("Video %d", videoIndex)
		var vt VideoText
		if videoIndex-1 < len(texts) {
			vt = texts[videoIndex-1]
		}
		if vt.Title != "" {
			title = vt.Title
		}

		video := models.BatchVideo{
			ID:         uuid.NewString(),
			BatchID:    b.ID,
			VideoIndex: videoIndex,
			Title:      title,
			Status:     string(config.ClipStatusQueued),
		}
		videos = append(videos, video)
		videoIDs = append(videoIDs, video.ID)

		for _, ct := range vt.Clips {
			clipTexts = append(clipTexts, models.BatchClipText{
				VideoID:   video.ID,
				ClipIndex: ct.Index,
				Title:     ct.Title,
				Subtitle:  ct.Subtitle,
			})
		}

		for clipIndex := 1; clipIndex <= clipsPerVideo; clipIndex++ {
			role := clipRole(clipIndex, clipsPerVideo)
			clip := models.BatchClip{
				ID:           uuid.NewString(),
				VideoID:      video.ID,
				ClipIndex:    clipIndex,
				Status:       string(config.ClipStatusQueued),
				Role:         role,
				AnchorPrompt: buildAnchorPrompt(req.Prompt, role, clipIndex),
				VeoPrompt:    buildVeoPrompt(req.Prompt, role, req.Settings.StyleLock),
			}
			clips = append(clips, clip)

			clipJob, err := s.buildClipJob(userID, req.BrandID, b.ID, video.ID, &clip, settingsJSON)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, *clipJob)
		}
	}

	if err := s.repo.CreateGraph(ctx, b, videos, clips, clipTexts, jobs); err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to create batch")
	}

	totalClips := videosCount * clipsPerVideo
	return &dto.BatchCreatedDTO{
		BatchID:       b.ID,
		VideoIDs:      videoIDs,
		VideosCount:   videosCount,
		ClipsPerVideo: clipsPerVideo,
		TotalClips:    totalClips,
		WoofsCost:     totalClips * config.WoofsPerClip,
		Status:        string(config.BatchStatusQueued),
	}, nil
}

func (s *Service) buildClipJob(userID string, brandID *string, batchID, videoID string,
	clip *models.BatchClip, settings json.RawMessage) (*models.Job, error) {

	input, err := json.Marshal(dto.ClipJobPayload{
		BatchID:   batchID,
		VideoID:   videoID,
		ClipID:    clip.ID,
		ClipIndex: clip.ClipIndex,
		Settings:  settings,
	})
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to build clip job payload")
	}

	raw, err := payload.New(input).Marshal()
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to build clip job payload")
	}

	return &models.Job{
		Type:    string(config.JobTypeBatchClip),
		Status:  string(config.JobStatusPending),
		Payload: raw,
		UserID:  userID,
		BrandID: brandID,
	}, nil
}

// GetStatus rolls clip statuses up into per-video and batch-level progress.
// Ownership is enforced as absence: a batch the caller does not own is a 404.
func (s *Service) GetStatus(ctx context.Context, userID, batchID string) (*dto.BatchStatusDTO, error) {
	b, videos, clips, texts, err := s.repo.GetGraph(ctx, batchID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errf(http.StatusNotFound, "batch not found")
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to load batch")
	}
	if b.UserID != userID {
		return nil, common.Errf(http.StatusNotFound, "batch not found")
	}

	return BuildStatus(b, videos, clips, texts), nil
}

// RetryClip resets a failed clip to queued and enqueues a fresh job for it.
// The original job is left untouched.
func (s *Service) RetryClip(ctx context.Context, userID, batchID, clipID string) (*dto.ClipStatusDTO, error) {
	b, err := s.repo.GetBatch(ctx, batchID)
	if err != nil || b.UserID != userID {
		return nil, common.Errf(http.StatusNotFound, "batch not found")
	}

	clip, err := s.repo.GetClip(ctx, clipID)
	if err != nil {
		return nil, common.Errf(http.StatusNotFound, "clip not found")
	}
	video, err := s.repo.GetVideo(ctx, clip.VideoID)
	if err != nil || video.BatchID != batchID {
		return nil, common.Errf(http.StatusNotFound, "clip not found")
	}

	if clip.Status != string(config.ClipStatusError) {
		return nil, common.Errf(http.StatusBadRequest, "only clips in error can be retried")
	}

	if err := s.repo.ResetClip(ctx, clipID); err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to reset clip")
	}

	retryJob, err := s.buildClipJob(userID, b.BrandID, batchID, clip.VideoID, clip, json.RawMessage(b.Settings))
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Create(ctx, retryJob); err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to enqueue retry job")
	}

	return &dto.ClipStatusDTO{
		ID:        clip.ID,
		ClipIndex: clip.ClipIndex,
		Status:    string(config.ClipStatusQueued),
		Role:      clip.Role,
	}, nil
}
