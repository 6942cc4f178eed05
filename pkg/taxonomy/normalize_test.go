package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagName(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "plain string", in: "人手不足", want: "人手不足"},
		{name: "name field", in: map[string]any{"name": "SNS運用", "tag": "x"}, want: "SNS運用"},
		{name: "tag field", in: map[string]any{"tag": "補助金活用", "label": "y"}, want: "補助金活用"},
		{name: "label field", in: map[string]any{"label": "Web制作"}, want: "Web制作"},
		{name: "empty name falls through", in: map[string]any{"name": "", "label": "AI・自動化"}, want: "AI・自動化"},
		{name: "non-string name falls through", in: map[string]any{"name": 42, "tag": "在庫"}, want: "在庫"},
		{name: "no known fields", in: map[string]any{"id": "abc"}, want: ""},
		{name: "number", in: 3.14, want: ""},
		{name: "list", in: []any{"a"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() { _ = TagName(tt.in) })
			assert.Equal(t, tt.want, TagName(tt.in))
		})
	}
}

func TestTagNames(t *testing.T) {
	refs := []any{"a", map[string]any{"name": "b"}, nil, map[string]any{"label": "c"}}
	assert.Equal(t, []string{"a", "b", "", "c"}, TagNames(refs))
}

func TestFirst(t *testing.T) {
	calls := 0
	counted := func(v string) func() string {
		return func() string { calls++; return v }
	}

	assert.Equal(t, "b", First(counted(""), counted("b"), counted("c")))
	assert.Equal(t, 2, calls, "accessors after the first hit are not called")
	assert.Equal(t, "", First[string]())
	assert.Equal(t, 0, First(func() int { return 0 }))
}
