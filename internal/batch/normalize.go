package batch

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pawkit-ai/pawkit-backend/common"
)

// VideoText is the canonical per-video text override. Both request formats
// normalize into this shape once at ingestion; everything downstream sees
// only this.
type VideoText struct {
	Title string
	Clips []ClipText
}

type ClipText struct {
	Index    int
	Title    string
	Subtitle string
}

// legacy flat format carries up to this many clip{N}_title/subtitle pairs.
const legacyClipTextSlots = 3

// NormalizeVideoTexts parses one raw object per video, accepting either the
// clips[] array format or the legacy flat clip{N}_title/clip{N}_subtitle
// format. Clip indexes beyond clipsPerVideo are dropped.
func NormalizeVideoTexts(raws []json.RawMessage, clipsPerVideo int) ([]VideoText, error) {
	texts := make([]VideoText, 0, len(raws))

	for i, raw := range raws {
		if len(raw) == 0 {
			texts = append(texts, VideoText{})
			continue
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, common.Errf(http.StatusBadRequest, "videoTexts[%d] is not an object", i)
		}

		vt := VideoText{}
		if rawTitle, ok := obj["title"]; ok {
			_ = json.Unmarshal(rawTitle, &vt.Title)
		}

		if rawClips, ok := obj["clips"]; ok {
			var clips []struct {
				Title    string `json:"title"`
				Subtitle string `json:"subtitle"`
			}
			if err := json.Unmarshal(rawClips, &clips); err != nil {
				return nil, common.Errf(http.StatusBadRequest, "videoTexts[%d].clips is malformed", i)
			}
			for n, c := range clips {
				if n+1 > clipsPerVideo {
					break
				}
				if c.Title == "" && c.Subtitle == "" {
					continue
				}
				vt.Clips = append(vt.Clips, ClipText{Index: n + 1, Title: c.Title, Subtitle: c.Subtitle})
			}
			texts = append(texts, vt)
			continue
		}

		// Legacy flat keys.
		for n := 1; n <= legacyClipTextSlots && n <= clipsPerVideo; n++ {
			var title, subtitle string
			if rawV, ok := obj[fmt.Sprintf("clip%d_title", n)]; ok {
				_ = json.Unmarshal(rawV, &title)
			}
			if rawV, ok := obj[fmt.Sprintf("clip%d_subtitle", n)]; ok {
				_ = json.Unmarshal(rawV, &subtitle)
			}
			if title == "" && subtitle == "" {
				continue
			}
			vt.Clips = append(vt.Clips, ClipText{Index: n, Title: title, Subtitle: subtitle})
		}
		texts = append(texts, vt)
	}

	return texts, nil
}
