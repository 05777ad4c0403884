package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrMalformedDocument = errors.New("malformed knowledge base document")
	ErrInvalidChunking   = errors.New("invalid chunking configuration")
)

// Entry is one top-level element of a knowledge base document.
type Entry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Chunk is a bounded text window of an entry body, the unit of retrieval.
type Chunk struct {
	ID         string `json:"id"`
	EntryID    string `json:"entry_id"`
	EntryTitle string `json:"entry_title"`
	Index      int    `json:"index"`
	Text       string `json:"text"`
}

// Load parses a JSON knowledge base into entries. A top-level mapping yields
// one entry per key; a top-level sequence yields one entry per element, using
// an "id" or "title" field when present, else a positional label. Anything
// else fails with ErrMalformedDocument.
func Load(data []byte) ([]Entry, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	switch v := root.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		entries := make([]Entry, 0, len(keys))
		for _, key := range keys {
			body := flatten(v[key])
			if body == "" {
				continue
			}

			entries = append(entries, Entry{
				ID:    key,
				Title: key,
				Body:  body,
			})
		}

		return entries, nil

	case []any:
		entries := make([]Entry, 0, len(v))
		for i, item := range v {
			body := flatten(item)
			if body == "" {
				continue
			}

			id := strconv.Itoa(i)
			title := "document_" + id
			if obj, ok := item.(map[string]any); ok {
				if s, ok := obj["id"].(string); ok && s != "" {
					title = s
				} else if s, ok := obj["title"].(string); ok && s != "" {
					title = s
				}
			}

			entries = append(entries, Entry{
				ID:    id,
				Title: title,
				Body:  body,
			})
		}

		return entries, nil

	default:
		return nil, fmt.Errorf("%w: top-level value must be an object or array", ErrMalformedDocument)
	}
}

// flatten serializes a JSON value to searchable text, joining the fields of
// nested objects as "key: value" pairs.
func flatten(item any) string {
	switch v := item.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			switch value := v[key].(type) {
			case string:
				parts = append(parts, key+": "+value)
			case float64:
				parts = append(parts, key+": "+formatNumber(value))
			case bool:
				parts = append(parts, key+": "+strconv.FormatBool(value))
			case []any:
				parts = append(parts, key+": "+joinList(value))
			case map[string]any:
				if nested := flatten(value); nested != "" {
					parts = append(parts, key+": "+nested)
				}
			}
		}

		return strings.Join(parts, " | ")

	case string:
		return v

	case float64:
		return formatNumber(v)

	case bool:
		return strconv.FormatBool(v)

	case []any:
		return joinList(v)

	default:
		return ""
	}
}

func joinList(items []any) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s := flatten(item); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, ", ")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
