// Package ident derives stable identifiers for persisted decomposition
// records: BLAKE3 digests over canonical JSON, so the same block or
// skeleton always stores under the same id.
package ident

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"lukechampine.com/blake3"
)

// NowMs returns the current time in milliseconds since epoch.
func NowMs() int64 {
	return time.Now().UnixMilli()
}

// CanonicalJSON serializes v as JSON with sorted object keys, so equal
// values always produce identical bytes.
func CanonicalJSON(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return canonicalMarshal(obj)
}

func canonicalMarshal(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := canonicalMarshal(val[k])
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case []interface{}:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			ib, err := canonicalMarshal(item)
			if err != nil {
				return nil, err
			}
			buf.Write(ib)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return json.Marshal(v)
	}
}

// RecordID computes the content-addressed id for a record:
// hex(blake3(kind + "\n" + canonicalJSON(payload))).
func RecordID(kind string, payload interface{}) (string, error) {
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(append([]byte(kind+"\n"), canonical...))
	return hex.EncodeToString(sum[:]), nil
}
