package knowledge

import (
	"fmt"
	"strconv"
)

// Splitter cuts entry bodies into overlapping character windows so each
// retrieval unit stays within embedding and context limits.
type Splitter struct {
	size    int
	overlap int
}

func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", ErrInvalidChunking)
	}

	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, size)", ErrInvalidChunking)
	}

	return &Splitter{size, overlap}, nil
}

// Split slides a window of size runes forward by size-overlap runes each
// step. The final partial window is kept if non-empty. Deterministic for
// identical input and configuration.
func (s *Splitter) Split(entry Entry) []Chunk {
	runes := []rune(entry.Body)
	if len(runes) == 0 {
		return nil
	}

	step := s.size - s.overlap

	var chunks []Chunk
	for start := 0; start < len(runes); start += step {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}

		idx := len(chunks)
		chunks = append(chunks, Chunk{
			ID:         entry.ID + ":" + strconv.Itoa(idx),
			EntryID:    entry.ID,
			EntryTitle: entry.Title,
			Index:      idx,
			Text:       string(runes[start:end]),
		})

		if end == len(runes) {
			break
		}
	}

	return chunks
}

// SplitAll chunks every entry in order.
func (s *Splitter) SplitAll(entries []Entry) []Chunk {
	var chunks []Chunk
	for _, entry := range entries {
		chunks = append(chunks, s.Split(entry)...)
	}

	return chunks
}
