package dataset

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// decodeAttempt is one entry of the encoding fallback chain.
type decodeAttempt struct {
	name   string
	decode func([]byte) (string, error)
}

// decodeAttempts is the fallback chain for portal files: the Korean legacy
// encodings first, then UTF-8. CP949 is the Windows superset of EUC-KR and
// x/text decodes both through the unified Hangul table, so the first two
// attempts share a decoder.
var decodeAttempts = []decodeAttempt{
	{name: "cp949", decode: decodeKorean},
	{name: "euc-kr", decode: decodeKorean},
	{name: "utf-8", decode: decodeUTF8},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeKorean decodes CP949/EUC-KR bytes. The x/text decoder substitutes
// U+FFFD for undecodable sequences instead of failing, so the substitution
// rune is treated as a decode error here.
func decodeKorean(data []byte) (string, error) {
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", errors.New("bytes are not valid cp949/euc-kr")
	}
	return string(out), nil
}

// decodeUTF8 validates the bytes as UTF-8, stripping a leading BOM.
func decodeUTF8(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", errors.New("bytes are not valid utf-8")
	}
	return string(data), nil
}
