package batch

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pawkit-ai/pawkit-backend/internal/dto"
)

// utf8BOM keeps spreadsheet tools from mangling non-ASCII titles.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{
	"video_index", "title", "status", "progress_percent",
	"clips_total", "clips_completed", "clip_urls",
	"clip1_text", "clip2_text", "clip3_text",
}

// ExportCSV flattens a batch status into one CSV row per video. Purely
// derived from the status snapshot: exporting twice with no state change
// yields byte-identical output.
func ExportCSV(status *dto.BatchStatusDTO) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	_ = w.Write(csvHeader)

	for _, v := range status.Videos {
		completed := 0
		urls := make([]string, 0, len(v.Clips))
		for _, c := range v.Clips {
			if c.Status == "done" {
				completed++
			}
			if c.ClipURL != "" {
				urls = append(urls, c.ClipURL)
			}
		}

		row := []string{
			fmt.Sprintf("%d", v.VideoIndex),
			v.Title,
			v.Status,
			fmt.Sprintf("%d", v.Progress),
			fmt.Sprintf("%d", len(v.Clips)),
			fmt.Sprintf("%d", completed),
			strings.Join(urls, ";"),
		}
		for slot := 1; slot <= legacyClipTextSlots; slot++ {
			row = append(row, clipTextCell(v.Texts, slot))
		}
		_ = w.Write(row)
	}

	w.Flush()
	return buf.Bytes()
}

func clipTextCell(texts []dto.ClipTextDTO, clipIndex int) string {
	for _, t := range texts {
		if t.ClipIndex != clipIndex {
			continue
		}
		if t.Subtitle == "" {
			return t.Title
		}
		return t.Title + " | " + t.Subtitle
	}
	return ""
}

// ExportZip bundles the CSV with a markdown summary and a JSON manifest for
// downstream tooling. Derived only; safe to call at any point in the batch
// lifecycle.
func ExportZip(status *dto.BatchStatusDTO) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	csvFile, err := zw.Create("videos.csv")
	if err != nil {
		return nil, fmt.Errorf("create csv entry: %w", err)
	}
	if _, err := csvFile.Write(ExportCSV(status)); err != nil {
		return nil, fmt.Errorf("write csv entry: %w", err)
	}

	mdFile, err := zw.Create("summary.md")
	if err != nil {
		return nil, fmt.Errorf("create summary entry: %w", err)
	}
	if _, err := mdFile.Write([]byte(summaryMarkdown(status))); err != nil {
		return nil, fmt.Errorf("write summary entry: %w", err)
	}

	manifest, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	jsonFile, err := zw.Create("manifest.json")
	if err != nil {
		return nil, fmt.Errorf("create manifest entry: %w", err)
	}
	if _, err := jsonFile.Write(manifest); err != nil {
		return nil, fmt.Errorf("write manifest entry: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryMarkdown(status *dto.BatchStatusDTO) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Batch %s\n\n", status.BatchID)
	fmt.Fprintf(&sb, "Status: %s, %d%% (%d/%d clips done, %d errors)\n\n",
		status.Status, status.Progress, status.CompletedClips, status.TotalClips, status.ErrorClips)
	for _, v := range status.Videos {
		fmt.Fprintf(&sb, "- Video %d: %s (%s, %d%%)\n", v.VideoIndex, v.Title, v.Status, v.Progress)
	}
	return sb.String()
}
