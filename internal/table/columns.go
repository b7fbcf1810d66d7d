package table

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Column is a resolved (key, label) pair. It only lives for one render.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ResolveColumns determines the ordered set of column keys to render.
//
// Explicit columns win and skip inference entirely. Otherwise keys are taken
// from the data according to mode. Excluded keys are dropped in both cases.
// An empty result is a valid outcome, not a failure.
func ResolveColumns(explicit []string, data DataSet, exclude []string, mode InferMode) []string {
	skip := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		skip[k] = struct{}{}
	}
	keep := func(keys []string) []string {
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			if _, excluded := skip[k]; !excluded {
				out = append(out, k)
			}
		}
		return out
	}

	if len(explicit) > 0 {
		return keep(explicit)
	}
	if len(data) == 0 {
		return []string{}
	}
	if mode != InferUnion {
		return keep(data.First().Keys())
	}

	seen := make(map[string]struct{})
	var union []string
	for _, rec := range data {
		for _, k := range rec.Keys() {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			union = append(union, k)
		}
	}
	return keep(union)
}

// columnSignature encodes every input ResolveColumns depends on. Data only
// contributes when columns are inferred.
func columnSignature(explicit []string, data DataSet, exclude []string, mode InferMode) string {
	var b strings.Builder
	writeList := func(tag byte, keys []string) {
		b.WriteByte(tag)
		b.WriteString(strconv.Itoa(len(keys)))
		for _, k := range keys {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(len(k)))
			b.WriteByte(':')
			b.WriteString(k)
		}
		b.WriteByte(';')
	}

	writeList('c', explicit)
	writeList('x', exclude)
	if len(explicit) > 0 {
		return b.String()
	}
	b.WriteString(string(mode))
	b.WriteByte(';')
	switch {
	case len(data) == 0:
	case mode == InferUnion:
		for _, rec := range data {
			writeList('r', rec.Keys())
		}
	default:
		writeList('r', data.First().Keys())
	}
	return b.String()
}

func signatureKey(sig string) string {
	return strconv.FormatUint(xxhash.Sum64String(sig), 16)
}
