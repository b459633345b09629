// Package progress persists study items and session history as JSON.
package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/keiyara/memotype/internal/model"
)

// Document is the progress file layout.
type Document struct {
	Items          []itemJSON    `json:"items"`
	SessionHistory []historyJSON `json:"session_history,omitempty"`
	Metadata       Metadata      `json:"metadata"`
}

// Metadata describes the progress file itself.
type Metadata struct {
	DateSaved  string `json:"date_saved"`
	TotalItems int    `json:"total_items"`
}

type itemJSON struct {
	ID             string  `json:"id"`
	Prompt         string  `json:"prompt"`
	Answer         string  `json:"answer"`
	Context        string  `json:"context,omitempty"`
	ItemType       string  `json:"item_type"`
	Importance     int     `json:"importance"`
	Mastery        float64 `json:"mastery"`
	LastStudied    *string `json:"last_studied"`
	SourceDocument string  `json:"source_document,omitempty"`
}

type historyJSON struct {
	ItemID      string  `json:"item_id"`
	Timestamp   string  `json:"timestamp"`
	Performance float64 `json:"performance"`
	NewMastery  float64 `json:"new_mastery"`
}

// Encode serializes items and history into the progress document format.
// Timestamps are RFC 3339; a never-studied item serializes with a null
// last_studied.
func Encode(items []*model.StudyItem, history []model.HistoryEntry, savedAt time.Time) ([]byte, error) {
	doc := Document{
		Items: make([]itemJSON, 0, len(items)),
		Metadata: Metadata{
			DateSaved:  savedAt.Format(time.RFC3339Nano),
			TotalItems: len(items),
		},
	}
	for _, item := range items {
		row := itemJSON{
			ID:             item.ID,
			Prompt:         item.Prompt,
			Answer:         item.Answer,
			Context:        item.Context,
			ItemType:       string(item.Type),
			Importance:     item.Importance,
			Mastery:        item.Mastery,
			SourceDocument: item.SourceDocument,
		}
		if item.LastStudied != nil {
			s := item.LastStudied.Format(time.RFC3339Nano)
			row.LastStudied = &s
		}
		doc.Items = append(doc.Items, row)
	}
	for _, entry := range history {
		doc.SessionHistory = append(doc.SessionHistory, historyJSON{
			ItemID:      entry.ItemID,
			Timestamp:   entry.Timestamp.Format(time.RFC3339Nano),
			Performance: entry.Performance,
			NewMastery:  entry.NewMastery,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses a progress document. Malformed per-item fields degrade to
// safe defaults and are reported as warnings: an unparseable last_studied
// becomes never-studied, an unknown item type becomes key_concept, a
// missing ID gets a fresh one. Only undecodable JSON is an error.
func Decode(data []byte) (items []*model.StudyItem, history []model.HistoryEntry, warnings []string, err error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode progress data: %w", err)
	}

	for i, row := range doc.Items {
		item := &model.StudyItem{
			ID:             row.ID,
			Prompt:         row.Prompt,
			Answer:         row.Answer,
			Context:        row.Context,
			Importance:     row.Importance,
			Mastery:        clamp01(row.Mastery),
			SourceDocument: row.SourceDocument,
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
			warnings = append(warnings, fmt.Sprintf("item %d: missing id, generated %s", i, item.ID))
		}
		if item.Importance == 0 {
			item.Importance = 5
		}
		typ, ok := model.ParseItemType(row.ItemType)
		if !ok && row.ItemType != "" {
			warnings = append(warnings, fmt.Sprintf("item %d: unknown item type %q, using %s", i, row.ItemType, model.KeyConcept))
		}
		item.Type = typ
		if row.LastStudied != nil && *row.LastStudied != "" {
			parsed, perr := time.Parse(time.RFC3339Nano, *row.LastStudied)
			if perr != nil {
				warnings = append(warnings, fmt.Sprintf("item %d: invalid last_studied %q, treating as never studied", i, *row.LastStudied))
			} else {
				item.LastStudied = &parsed
			}
		}
		items = append(items, item)
	}

	for i, row := range doc.SessionHistory {
		ts, perr := time.Parse(time.RFC3339Nano, row.Timestamp)
		if perr != nil {
			warnings = append(warnings, fmt.Sprintf("history %d: invalid timestamp %q, dropping entry", i, row.Timestamp))
			continue
		}
		history = append(history, model.HistoryEntry{
			ItemID:      row.ItemID,
			Timestamp:   ts,
			Performance: row.Performance,
			NewMastery:  row.NewMastery,
		})
	}
	return items, history, warnings, nil
}

// Save writes the progress file atomically (temp file plus rename).
func Save(path string, items []*model.StudyItem, history []model.HistoryEntry) error {
	data, err := Encode(items, history, time.Now())
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create progress dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "progress-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp progress file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close progress file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	return nil
}

// Load reads a progress file. A missing or unreadable file is an error;
// the caller decides whether to degrade to an empty collection.
func Load(path string) (items []*model.StudyItem, history []model.HistoryEntry, warnings []string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read progress file: %w", err)
	}
	return Decode(data)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
