package media

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// VariantSet maps an effective pixel width to the stored path of that
// rendition, relative to the static-asset root.
type VariantSet map[int]string

// Widths returns the widths present in ascending order
func (v VariantSet) Widths() []int {
	widths := make([]int, 0, len(v))
	for w := range v {
		widths = append(widths, w)
	}
	sort.Ints(widths)
	return widths
}

// Preferred returns the path of the first width in order that is present,
// falling back to the smallest width. ok is false for an empty set.
func (v VariantSet) Preferred(order ...int) (string, bool) {
	for _, w := range order {
		if p, ok := v[w]; ok && p != "" {
			return p, true
		}
	}
	widths := v.Widths()
	if len(widths) == 0 {
		return "", false
	}
	return v[widths[0]], true
}

// Marshal serializes the set as a compact JSON object keyed by width.
func (v VariantSet) Marshal() (string, error) {
	data, err := json.Marshal(map[int]string(v))
	if err != nil {
		return "", fmt.Errorf("failed to marshal variant set: %w", err)
	}
	return string(data), nil
}

// ParseVariantSet decodes a stored variant blob. Keys must be positive
// integers and paths non-empty.
func ParseVariantSet(raw string) (VariantSet, error) {
	var decoded map[string]string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("malformed variant set: %w", err)
	}
	set := make(VariantSet, len(decoded))
	for key, p := range decoded {
		w, err := strconv.Atoi(key)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("malformed variant set: invalid width %q", key)
		}
		if p == "" {
			return nil, fmt.Errorf("malformed variant set: empty path for width %d", w)
		}
		set[w] = p
	}
	return set, nil
}

// AssetResolver turns a stored relative path into a servable URL
type AssetResolver interface {
	URL(relativePath string) string
}

// StaticResolver serves stored paths below a URL prefix such as "/static"
type StaticResolver struct {
	Prefix string
}

func (r StaticResolver) URL(relativePath string) string {
	return strings.TrimRight(r.Prefix, "/") + "/" + strings.TrimLeft(relativePath, "/")
}

// BuildSourceSet renders "<url> <width>w" pairs in ascending width order,
// separated by ", ". An empty set yields "".
func BuildSourceSet(variants VariantSet, resolver AssetResolver) string {
	widths := variants.Widths()
	items := make([]string, 0, len(widths))
	for _, w := range widths {
		items = append(items, fmt.Sprintf("%s %dw", resolver.URL(variants[w]), w))
	}
	return strings.Join(items, ", ")
}
