package profile

import (
	"fmt"
	"sort"
	"strings"
)

// FlattenExtras converts an arbitrarily nested extraction payload into the
// flat key→string mapping the profile stores: nested object keys join with
// dots, list items get a 1-based "_N" suffix, and empty containers collapse
// to an empty-string leaf so the key itself survives.
func FlattenExtras(data any) map[string]string {
	flat := make(map[string]string)
	flattenInto(flat, data, "")
	return flat
}

func flattenInto(flat map[string]string, data any, prefix string) {
	switch v := data.(type) {
	case map[string]any:
		if len(v) == 0 && prefix != "" {
			flat[prefix] = ""
			return
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			keyStr := strings.TrimSpace(key)
			if keyStr == "" {
				continue
			}
			next := keyStr
			if prefix != "" {
				next = prefix + "." + keyStr
			}
			flattenInto(flat, v[key], next)
		}
	case []any:
		if len(v) == 0 && prefix != "" {
			flat[prefix] = ""
			return
		}
		for i, item := range v {
			next := fmt.Sprintf("%s_%d", prefix, i+1)
			if prefix == "" {
				next = fmt.Sprintf("item_%d", i+1)
			}
			flattenInto(flat, item, next)
		}
	case nil:
		if prefix != "" {
			flat[prefix] = ""
		}
	default:
		if prefix != "" {
			flat[prefix] = fmt.Sprintf("%v", v)
		}
	}
}
