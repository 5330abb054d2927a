package worldstore

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodeVariant serializes a tagged-enum value as "Variant" (no args) or
// "Variant(arg1,arg2,...)", matching the simple tagged textual format the
// field schema uses for enums the SQL column types can't express directly.
func EncodeVariant(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ","))
}

// DecodeVariant parses a string produced by EncodeVariant back into its
// variant name and argument list.
func DecodeVariant(s string) (name string, args []string) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return s, nil
	}
	name = s[:open]
	inner := s[open+1 : len(s)-1]
	if inner == "" {
		return name, nil
	}
	return name, strings.Split(inner, ",")
}

// EncodeList serializes a list of already-encoded items as "[a, b, c]".
func EncodeList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

// DecodeList parses a string produced by EncodeList back into its items.
// Whitespace around each item is trimmed.
func DecodeList(s string) []string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil
	}
	parts := strings.Split(inner, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// EncodeBool renders a boolean as the integer 0 or 1 stored in
// FieldBoolean columns.
func EncodeBool(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// DecodeBool parses the "0"/"1" integer form back into a bool.
func DecodeBool(v int64) bool { return v != 0 }

// ParseFloat is a small convenience wrapper used when reading optional real
// fields back out of a row map.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
