package llm

import (
	"context"
	"strings"
	"time"
)

// EmbedSlot is one index-aligned result of Client.Embed. Present is false
// for inputs that were empty or all-whitespace, per spec.md §4.3, which
// skips embedding those rather than sending them to the provider.
type EmbedSlot struct {
	Present bool
	Vector  []float32
}

const (
	// embedChunkCap is the per-chunk character budget, approximating the
	// ~7500-token ceiling spec.md §4.3 gives for a single embedding call at
	// ~4 characters/token.
	embedChunkCap = 30000
	// embedChunkTailWindow is the fraction of the cap, counted back from the
	// end, within which a chunk boundary is preferred (sentence, then
	// space) before falling back to a hard cut at the cap itself.
	embedChunkTailWindow = 0.20
	// embedBatchCap bounds the cumulative character count of a single batch
	// of chunks sent to the provider together.
	embedBatchCap = 80000
	// embedBatchPause is the pacing delay between successive batches.
	embedBatchPause = 100 * time.Millisecond
)

// embedTexts implements spec.md §4.3's embed(): skip blank inputs, split
// oversize inputs into chunks at natural boundaries, embed every chunk in
// rate-limited batches, and average a multi-chunk input's chunk vectors
// back into one vector per original input.
func embedTexts(ctx context.Context, p Provider, texts []string, model string) ([]EmbedSlot, error) {
	slots := make([]EmbedSlot, len(texts))

	// chunkOwner[i] is the slot index a flattened chunk belongs to.
	var chunks []string
	var chunkOwner []int
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		for _, c := range splitForEmbedding(text) {
			chunks = append(chunks, c)
			chunkOwner = append(chunkOwner, i)
		}
	}
	if len(chunks) == 0 {
		return slots, nil
	}

	vectors := make([][]float32, len(chunks))
	start := 0
	first := true
	for start < len(chunks) {
		end := start
		size := 0
		for end < len(chunks) {
			size += len(chunks[end])
			if end > start && size > embedBatchCap {
				break
			}
			end++
		}

		if !first {
			select {
			case <-time.After(embedBatchPause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		first = false

		batchVecs, err := p.Embed(ctx, chunks[start:end], model)
		if err != nil {
			return nil, err
		}
		copy(vectors[start:end], batchVecs)
		start = end
	}

	sums := make(map[int][]float64)
	counts := make(map[int]int)
	for idx, owner := range chunkOwner {
		v := vectors[idx]
		sum, ok := sums[owner]
		if !ok {
			sum = make([]float64, len(v))
			sums[owner] = sum
		}
		for d, val := range v {
			sum[d] += float64(val)
		}
		counts[owner]++
	}

	for owner, sum := range sums {
		n := float64(counts[owner])
		avg := make([]float32, len(sum))
		for d, total := range sum {
			avg[d] = float32(total / n)
		}
		slots[owner] = EmbedSlot{Present: true, Vector: avg}
	}

	return slots, nil
}

// splitForEmbedding splits text into chunks no longer than embedChunkCap,
// preferring to cut at a sentence boundary, then a space, within the tail
// window before the cap, and otherwise cutting hard at the cap.
func splitForEmbedding(text string) []string {
	if len(text) <= embedChunkCap {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for len(remaining) > embedChunkCap {
		cut := findChunkBoundary(remaining, embedChunkCap)
		chunks = append(chunks, remaining[:cut])
		remaining = remaining[cut:]
	}
	if len(remaining) > 0 {
		chunks = append(chunks, remaining)
	}
	return chunks
}

func findChunkBoundary(s string, cap int) int {
	windowStart := int(float64(cap) * (1 - embedChunkTailWindow))
	if windowStart < 0 {
		windowStart = 0
	}
	window := s[windowStart:cap]

	if idx := strings.LastIndexAny(window, ".!?"); idx >= 0 {
		return windowStart + idx + 1
	}
	if idx := strings.LastIndex(window, " "); idx >= 0 {
		return windowStart + idx + 1
	}
	return cap
}
