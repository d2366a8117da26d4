package processor

import (
	"strings"
	"unicode/utf8"
)

// isControl 判断是否属于需要剔除的控制字符：C0 (U+0000–U+001F)、DEL 以及 C1 (U+007F–U+009F)
func isControl(r rune) bool {
	return (r >= 0x00 && r <= 0x1f) || (r >= 0x7f && r <= 0x9f)
}

// Sanitize 去掉文本中的不可打印控制字符，其余字符（包括首尾空白）原样保留。
// 首尾空白由调用方自行裁剪。非法 UTF-8 字节序列统一替换为 U+FFFD。
func Sanitize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	if strings.IndexFunc(text, isControl) == -1 {
		return text
	}
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return -1
		}
		return r
	}, text)
}

// CleanText 先裁剪首尾空白再剔除控制字符，对应页面上标题 / 日期文本的清洗顺序
func CleanText(text string) string {
	return Sanitize(strings.TrimSpace(text))
}
