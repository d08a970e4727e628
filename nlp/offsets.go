package nlp

import (
	"unicode/utf16"
	"unicode/utf8"
)

// charOffsets maps character positions of text to byte offsets. Characters
// are UTF-16 code units when utf16Units is set (Java based engines) and code
// points otherwise. The returned slice has one extra entry equal to len(text).
func charOffsets(text string, utf16Units bool) []int {
	out := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i, r := range text {
		out = append(out, i)
		if utf16Units && utf16.RuneLen(r) == 2 {
			out = append(out, i)
		}
	}
	return append(out, len(text))
}

func byteOffset(offsets []int, char int) (int, bool) {
	if char < 0 || char >= len(offsets) {
		return 0, false
	}
	return offsets[char], true
}
