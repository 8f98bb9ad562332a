package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitDelimitedLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "quoted field with comma",
			line: `"A, B",5,"C"`,
			want: []string{"A, B", "5", "C"},
		},
		{
			name: "fully quoted ING header",
			line: `"Datum","Naam/Omschrijving","Bedrag"`,
			want: []string{"Datum", "Naam/Omschrijving", "Bedrag"},
		},
		{
			name: "empty fields preserved",
			line: "a,,c",
			want: []string{"a", "", "c"},
		},
		{
			name: "single field",
			line: "only",
			want: []string{"only"},
		},
		{
			name: "trailing comma yields empty field",
			line: "a,b,",
			want: []string{"a", "b", ""},
		},
		{
			name: "unterminated quote degrades without failing",
			line: `"a,b`,
			want: []string{"a,b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitDelimitedLine(tt.line))
		})
	}
}
