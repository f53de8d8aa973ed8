package repository

import (
	"encoding/json"
	"fmt"
)

// deepMergeJSON 把 overlay 合并到 base 上：
// 对象按字段递归合并，数组和标量整体替换，overlay 中的 null 覆盖为 null
func deepMergeJSON(base, overlay []byte) ([]byte, error) {
	var b, o any
	if err := json.Unmarshal(base, &b); err != nil {
		return nil, fmt.Errorf("decode base: %w", err)
	}
	if err := json.Unmarshal(overlay, &o); err != nil {
		return nil, fmt.Errorf("decode overlay: %w", err)
	}
	if _, ok := o.(map[string]any); !ok {
		return nil, fmt.Errorf("overlay must be a JSON object")
	}
	return json.Marshal(mergeValue(b, o))
}

func mergeValue(base, overlay any) any {
	bm, bok := base.(map[string]any)
	om, ook := overlay.(map[string]any)
	if !bok || !ook {
		return overlay
	}
	out := make(map[string]any, len(bm)+len(om))
	for k, v := range bm {
		out[k] = v
	}
	for k, v := range om {
		if cur, ok := out[k]; ok {
			out[k] = mergeValue(cur, v)
		} else {
			out[k] = v
		}
	}
	return out
}
