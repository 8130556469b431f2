package pg

import (
	"strings"
	"unicode"
)

// lexeme は展開前のクエリ語です
type lexeme struct {
	text    string
	negated bool
}

// ExpandTSQuery はユーザーの自由テキストクエリをto_tsquery式に展開します
//
// 入力をレキシームにトークン化し、各レキシームを「完全一致 OR プレフィックス
// 一致」（`(lex:* | lex)`）に書き換えます。これにより「back」の入力途中でも
// 「backend」を含むドキュメントがマッチし、search-as-you-type が成立します。
//
// クエリ構文: 語はANDで結合、`or` はOR、先頭の `-` は否定。否定語には
// プレフィックス展開を適用しません（過剰に除外してしまうため）。
// 展開不能な入力（空・記号のみ）は空文字列を返し、呼び出し側で
// no-op述語として扱われます。
func ExpandTSQuery(input string) string {
	groups := parseQuery(input)
	if len(groups) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(groups))
	for _, group := range groups {
		terms := make([]string, 0, len(group))
		for _, lex := range group {
			if lex.negated {
				terms = append(terms, "!"+lex.text)
				continue
			}
			terms = append(terms, "("+lex.text+":* | "+lex.text+")")
		}
		rendered = append(rendered, strings.Join(terms, " & "))
	}

	if len(rendered) == 1 {
		return rendered[0]
	}
	for i, r := range rendered {
		rendered[i] = "(" + r + ")"
	}
	return strings.Join(rendered, " | ")
}

// parseQuery は入力をORで区切られたANDグループにパースします
func parseQuery(input string) [][]lexeme {
	var groups [][]lexeme
	var current []lexeme

	for _, token := range strings.Fields(input) {
		if strings.EqualFold(token, "or") {
			if len(current) > 0 {
				groups = append(groups, current)
				current = nil
			}
			continue
		}

		negated := strings.HasPrefix(token, "-")
		text := sanitizeLexeme(strings.TrimPrefix(token, "-"))
		if text == "" {
			continue
		}
		current = append(current, lexeme{text: text, negated: negated})
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	// 否定語しか含まないグループは除外（マッチ対象が定まらないため）
	valid := groups[:0]
	for _, group := range groups {
		positive := false
		for _, lex := range group {
			if !lex.negated {
				positive = true
				break
			}
		}
		if positive {
			valid = append(valid, group)
		}
	}
	return valid
}

// sanitizeLexeme はtsquery構文として安全な文字のみを残します
func sanitizeLexeme(token string) string {
	var b strings.Builder
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
