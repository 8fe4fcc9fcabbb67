package pipeline_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/pawkit-ai/pawkit-backend/internal/payload"
	"github.com/pawkit-ai/pawkit-backend/internal/pipeline"
	"github.com/pawkit-ai/pawkit-backend/internal/storage/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db         *gorm.DB
	jobs       *postgres.JobRepository
	orders     *postgres.OrderRepository
	clips      *postgres.BatchRepository
	dispatcher *pipeline.Dispatcher
	backend    *httptest.Server
	calls      []string
}

// newFixture wires a dispatcher against in-memory sqlite repos and a stub
// generation backend. respond decides each step call's outcome by path.
func newFixture(t *testing.T, respond func(path string, w http.ResponseWriter)) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Job{}, &models.Order{}, &models.MediaOutput{},
		&models.VideoBatch{}, &models.BatchVideo{}, &models.BatchClip{}, &models.BatchClipText{},
	))

	f := &fixture{
		db:     db,
		jobs:   postgres.NewJobRepository(db),
		orders: postgres.NewOrderRepository(db),
		clips:  postgres.NewBatchRepository(db),
	}

	f.backend = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls = append(f.calls, r.URL.Path)
		respond(r.URL.Path, w)
	}))
	t.Cleanup(f.backend.Close)

	client := pipeline.NewBackendClient(f.backend.URL)
	steps := pipeline.DefaultSteps(client, client)
	f.dispatcher = pipeline.NewDispatcher(f.jobs, f.orders, f.clips, steps, 10)
	return f
}

func okJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func seedOrderWithCopyJob(t *testing.T, f *fixture) (*models.Order, *models.Job) {
	t.Helper()
	ctx := context.Background()

	order := &models.Order{
		ID:     uuid.NewString(),
		UserID: "user-1",
		Status: string(config.OrderStatusQueued),
		Brief:  []byte(`{"product":"dog raincoat"}`),
	}
	require.NoError(t, f.orders.Create(ctx, order))

	raw, err := payload.New(json.RawMessage(order.Brief)).Marshal()
	require.NoError(t, err)
	j := &models.Job{
		Type:    string(config.JobTypeCopy),
		Payload: raw,
		UserID:  order.UserID,
		OrderID: &order.ID,
	}
	require.NoError(t, f.jobs.Create(ctx, j))
	return order, j
}

func TestDispatcher_FullPipelineChain(t *testing.T) {
	f := newFixture(t, func(path string, w http.ResponseWriter) {
		switch path {
		case "/generate-copy":
			okJSON(w, `{"headline":"Stay dry, good boy"}`)
		case "/generate-vision":
			okJSON(w, `{"scene":"park in the rain"}`)
		case "/render-image":
			okJSON(w, `{"imageUrl":"https://tmp/render.png"}`)
		case "/upload-cloudinary":
			okJSON(w, `{"url":"https://cdn/final.png","publicId":"pawkit/final"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()
	order, first := seedOrderWithCopyJob(t, f)

	// Each pass completes one step and enqueues the next; four passes drain
	// the chain.
	for range config.PipelineSteps {
		res, err := f.dispatcher.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Claimed)
		assert.Equal(t, 1, res.Completed)
	}

	assert.Equal(t, []string{
		"/generate-copy", "/generate-vision", "/render-image", "/upload-cloudinary",
	}, f.calls)

	var jobs []models.Job
	require.NoError(t, f.db.Order("id ASC").Find(&jobs).Error)
	require.Len(t, jobs, 4)
	for _, j := range jobs {
		assert.Equal(t, string(config.JobStatusCompleted), j.Status)
		require.NotNil(t, j.OrderID)
		assert.Equal(t, order.ID, *j.OrderID)
	}

	// The last job's envelope carries the accumulated step results.
	env, err := payload.Parse(jobs[3].Payload)
	require.NoError(t, err)
	assert.Contains(t, env.Metadata, "copyResult")
	assert.Contains(t, env.Metadata, "uploadResult")

	got, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.OrderStatusCompleted), got.Status)

	var media models.MediaOutput
	require.NoError(t, f.db.First(&media, "order_id = ?", order.ID).Error)
	assert.Equal(t, "https://cdn/final.png", media.URL)
	assert.Equal(t, "pawkit/final", media.PublicID)

	// Redundant passes find nothing to claim.
	res, err := f.dispatcher.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Claimed)
	_ = first
}

func TestDispatcher_OrderMovesToVisualGenerationBeforeRender(t *testing.T) {
	f := newFixture(t, func(path string, w http.ResponseWriter) {
		okJSON(w, `{}`)
	})
	ctx := context.Background()
	order, _ := seedOrderWithCopyJob(t, f)

	// copy pass, then vision pass; completing vision enqueues render and
	// flips the order status.
	for i := 0; i < 2; i++ {
		_, err := f.dispatcher.RunOnce(ctx)
		require.NoError(t, err)
	}

	got, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.OrderStatusVisualGeneration), got.Status)
}

func TestDispatcher_FailureIsForwardOnly(t *testing.T) {
	f := newFixture(t, func(path string, w http.ResponseWriter) {
		if path == "/generate-vision" {
			w.WriteHeader(http.StatusBadGateway)
			okJSON(w, `{"error":"vision model unavailable"}`)
			return
		}
		okJSON(w, `{}`)
	})
	ctx := context.Background()
	order, _ := seedOrderWithCopyJob(t, f)

	_, err := f.dispatcher.RunOnce(ctx) // copy succeeds
	require.NoError(t, err)
	res, err := f.dispatcher.RunOnce(ctx) // vision fails
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)

	var jobs []models.Job
	require.NoError(t, f.db.Order("id ASC").Find(&jobs).Error)
	require.Len(t, jobs, 2, "no job is enqueued after a failed step")
	assert.Equal(t, string(config.JobStatusCompleted), jobs[0].Status)
	assert.Equal(t, string(config.JobStatusFailed), jobs[1].Status)
	assert.Contains(t, jobs[1].Error, "vision model unavailable")

	env, err := payload.Parse(jobs[1].Payload)
	require.NoError(t, err)
	last := env.History[len(env.History)-1]
	assert.Equal(t, "failed", last.Status)
	assert.Equal(t, "vision", last.Step)

	got, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.OrderStatusFailed), got.Status)
	assert.Contains(t, got.Error, "vision model unavailable")
}

func TestDispatcher_ClipJobLifecycle(t *testing.T) {
	f := newFixture(t, func(path string, w http.ResponseWriter) {
		okJSON(w, `{"anchorUrl":"https://cdn/anchor.png","clipUrl":"https://cdn/clip.mp4","durationSeconds":6.4}`)
	})
	ctx := context.Background()

	b := &models.VideoBatch{ID: uuid.NewString(), UserID: "user-1", InputPrompt: "p", Status: "queued"}
	video := models.BatchVideo{ID: uuid.NewString(), BatchID: b.ID, VideoIndex: 1, Status: "queued"}
	clip := models.BatchClip{ID: uuid.NewString(), VideoID: video.ID, ClipIndex: 1, Status: "queued", Role: "hook"}

	input, err := json.Marshal(dto.ClipJobPayload{
		BatchID: b.ID, VideoID: video.ID, ClipID: clip.ID, ClipIndex: 1,
	})
	require.NoError(t, err)
	raw, err := payload.New(input).Marshal()
	require.NoError(t, err)
	clipJob := models.Job{Type: string(config.JobTypeBatchClip), Payload: raw, UserID: "user-1"}

	require.NoError(t, f.clips.CreateGraph(ctx, b,
		[]models.BatchVideo{video}, []models.BatchClip{clip}, nil, []models.Job{clipJob}))

	res, err := f.dispatcher.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Completed)

	got, err := f.clips.GetClip(ctx, clip.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", got.Status)
	assert.Equal(t, "https://cdn/anchor.png", got.AnchorURL)
	assert.Equal(t, "https://cdn/clip.mp4", got.ClipURL)
	assert.InDelta(t, 6.4, got.DurationSeconds, 0.001)
}

func TestDispatcher_ClipFailureMarksClipError(t *testing.T) {
	f := newFixture(t, func(path string, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
		okJSON(w, `{"error":"veo refused the prompt"}`)
	})
	ctx := context.Background()

	b := &models.VideoBatch{ID: uuid.NewString(), UserID: "user-1", InputPrompt: "p", Status: "queued"}
	video := models.BatchVideo{ID: uuid.NewString(), BatchID: b.ID, VideoIndex: 1, Status: "queued"}
	clip := models.BatchClip{ID: uuid.NewString(), VideoID: video.ID, ClipIndex: 1, Status: "queued"}

	input, _ := json.Marshal(dto.ClipJobPayload{BatchID: b.ID, VideoID: video.ID, ClipID: clip.ID, ClipIndex: 1})
	raw, err := payload.New(input).Marshal()
	require.NoError(t, err)
	clipJob := models.Job{Type: string(config.JobTypeBatchClip), Payload: raw, UserID: "user-1"}

	require.NoError(t, f.clips.CreateGraph(ctx, b,
		[]models.BatchVideo{video}, []models.BatchClip{clip}, nil, []models.Job{clipJob}))

	res, err := f.dispatcher.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)

	got, err := f.clips.GetClip(ctx, clip.ID)
	require.NoError(t, err)
	assert.Equal(t, "error", got.Status)
	assert.Contains(t, got.Error, "veo refused the prompt")
}

func TestDispatcher_UnknownJobTypeIsSkipped(t *testing.T) {
	f := newFixture(t, func(path string, w http.ResponseWriter) {
		okJSON(w, `{}`)
	})
	ctx := context.Background()

	j := &models.Job{Type: "legacy_thumbnail", Payload: []byte(`{}`), UserID: "user-1"}
	require.NoError(t, f.jobs.Create(ctx, j))

	res, err := f.dispatcher.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Claimed)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, f.calls, "skipped jobs never reach the backend")

	got, err := f.jobs.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.JobStatusCompleted), got.Status)

	env, err := payload.Parse(got.Payload)
	require.NoError(t, err)
	require.Len(t, env.History, 1)
	assert.Equal(t, "skipped", env.History[0].Status)
}

func TestDispatcher_ProcessingEventPersistedBeforeCall(t *testing.T) {
	var observed string
	var f *fixture
	var jobID uint

	f = newFixture(t, func(path string, w http.ResponseWriter) {
		// Read the stored payload while the step call is in flight.
		var j models.Job
		if err := f.db.First(&j, "id = ?", jobID).Error; err == nil {
			if env, err := payload.Parse(j.Payload); err == nil && len(env.History) > 0 {
				observed = env.History[0].Status
			}
		}
		okJSON(w, `{}`)
	})
	ctx := context.Background()
	_, j := seedOrderWithCopyJob(t, f)
	jobID = j.ID

	_, err := f.dispatcher.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, "processing", observed, "history must hit storage before the backend call")
}
