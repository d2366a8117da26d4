package processor

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeStripsControlCharacters(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Harga\x07Emas Naik", "HargaEmas Naik"},
		{"IHSG\x1FMelemah", "IHSGMelemah"},
		{"\x00lead and trail\x7f", "lead and trail"},
		{"c1\u0085range\u009f", "c1range"},
		{"tab\tnew\nline", "tabnewline"},
		{"  keep spaces  ", "  keep spaces  "},
		{"Rupiah ¥ 日本  nbsp", "Rupiah ¥ 日本  nbsp"},
		{"", ""},
	}

	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeRemovesEveryControlCodePointAndIsIdempotent(t *testing.T) {
	var b strings.Builder
	for r := rune(0); r <= 0xff; r++ {
		b.WriteRune(r)
	}
	b.WriteString("selesai")
	in := b.String()

	out := Sanitize(in)
	for _, r := range out {
		if isControl(r) {
			t.Fatalf("Sanitize left control code point %U in %q", r, out)
		}
	}
	if !utf8.ValidString(out) {
		t.Fatalf("Sanitize produced invalid UTF-8: %q", out)
	}
	// 0x00–0xff 共 256 个码点，其中 32 + 33 个控制字符被剔除
	if n := utf8.RuneCountInString(out); n != 256-65+len("selesai") {
		t.Fatalf("rune count = %d, want %d", n, 256-65+len("selesai"))
	}
	if again := Sanitize(out); again != out {
		t.Fatalf("Sanitize not idempotent: %q vs %q", again, out)
	}
}

func TestSanitizeInvalidUTF8(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a\xffb", "a\uFFFDb"},
		{"a\xff\x07b", "a\uFFFDb"},
		{"a\xff\xfe\x07b", "a\uFFFDb"},
		{"\xc3Berita", "\uFFFDBerita"},
	}

	for _, c := range cases {
		got := Sanitize(c.in)
		if got != c.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("Sanitize(%q) produced invalid UTF-8: %q", c.in, got)
		}
		if again := Sanitize(got); again != got {
			t.Fatalf("Sanitize not idempotent on %q: %q", got, again)
		}
	}
}

func TestCleanTextTrimsThenSanitizes(t *testing.T) {
	if got := CleanText("  \n Harga\x07Emas Naik \t"); got != "HargaEmas Naik" {
		t.Fatalf("CleanText = %q, want %q", got, "HargaEmas Naik")
	}
	// 控制字符在空格内侧时，裁剪后仍保留其外侧空格之间的内容
	if got := CleanText("\x07 Judul"); got != " Judul" {
		t.Fatalf("CleanText = %q, want %q", got, " Judul")
	}
}
