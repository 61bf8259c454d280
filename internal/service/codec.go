package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// maxRecentIndices bounds the persisted recent-activity index set. Ledger
// positions grow over time, so keeping the numerically largest values keeps
// the most recent ones.
const maxRecentIndices = 20

func parseOffset(raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse fetch offset %q: %w", raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative fetch offset %d", v)
	}
	return v, nil
}

func formatOffset(v int64) string {
	return strconv.FormatInt(v, 10)
}

func parseCiphertextSet(raw string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parse ciphertext cache: %w", err)
	}
	return dedupeStrings(items), nil
}

func formatCiphertextSet(items []string) (string, error) {
	payload, err := json.Marshal(dedupeStrings(items))
	if err != nil {
		return "", fmt.Errorf("encode ciphertext cache: %w", err)
	}
	return string(payload), nil
}

// dedupeStrings removes duplicates preserving first-seen order.
func dedupeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

func parseIndexSet(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse recent index %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func formatIndexSet(indices []int64) string {
	parts := make([]string, 0, len(indices))
	for _, v := range indices {
		parts = append(parts, strconv.FormatInt(v, 10))
	}
	return strings.Join(parts, ",")
}

// topRecentIndices unions the given index sets, removes duplicates and keeps
// the maxRecentIndices largest values, largest first.
func topRecentIndices(sets ...[]int64) []int64 {
	seen := make(map[int64]struct{})
	merged := make([]int64, 0)
	for _, set := range sets {
		for _, v := range set {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i] > merged[j] })
	if len(merged) > maxRecentIndices {
		merged = merged[:maxRecentIndices]
	}
	return merged
}
