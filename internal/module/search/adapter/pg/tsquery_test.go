package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTSQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "単一語はプレフィックス一致も含めて展開される",
			input: "back",
			want:  "(back:* | back)",
		},
		{
			name:  "複数語はANDで結合され各語が展開される",
			input: "back end",
			want:  "(back:* | back) & (end:* | end)",
		},
		{
			name:  "orキーワードはグループをORで結合する",
			input: "rust or go",
			want:  "((rust:* | rust)) | ((go:* | go))",
		},
		{
			name:  "orは大文字小文字を区別しない",
			input: "rust OR go",
			want:  "((rust:* | rust)) | ((go:* | go))",
		},
		{
			name:  "否定語はプレフィックス展開されない",
			input: "backend -junior",
			want:  "(backend:* | backend) & !junior",
		},
		{
			name:  "記号はレキシームから除去される",
			input: "c++ devel'oper",
			want:  "(c:* | c) & (developer:* | developer)",
		},
		{
			name:  "大文字は小文字に正規化される",
			input: "Kubernetes",
			want:  "(kubernetes:* | kubernetes)",
		},
		{
			name:  "空入力は空文字列を返す",
			input: "",
			want:  "",
		},
		{
			name:  "空白のみの入力は空文字列を返す",
			input: "   ",
			want:  "",
		},
		{
			name:  "記号のみの入力は空文字列を返す",
			input: "!!! ---",
			want:  "",
		},
		{
			name:  "否定語しか残らないグループは除外される",
			input: "-junior",
			want:  "",
		},
		{
			name:  "否定のみのグループを除いた残りが使われる",
			input: "-junior or backend",
			want:  "(backend:* | backend)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTSQuery(tt.input))
		})
	}
}
