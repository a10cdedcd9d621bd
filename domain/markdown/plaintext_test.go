package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"br becomes newline", "line one<br>line two", "line one\nline two"},
		{"self closing br", "a<br/>b<br />c", "a\nb\nc"},
		{"uppercase br", "a<BR>b", "a\nb"},
		{"tags removed", "<p>Hello <strong>world</strong></p>", "Hello world"},
		{"nbsp becomes space", "a&nbsp;b", "a b"},
		{"trimmed", "  <p> padded </p>  ", "padded"},
		{"plain text untouched", "no markup here", "no markup here"},
		{"mixed", "<div>First<br>Second&nbsp;part</div>", "First\nSecond part"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestGroupDecoration(t *testing.T) {
	assert.Equal(t, "1️⃣ ", GroupDecoration(1))
	assert.Equal(t, "9️⃣ ", GroupDecoration(9))
	assert.Equal(t, "1️⃣0️⃣ ", GroupDecoration(10))
	assert.Equal(t, "2️⃣0️⃣ ", GroupDecoration(20))
	assert.Equal(t, "21️⃣ ", GroupDecoration(21))
	assert.Equal(t, "", GroupDecoration(0))
	assert.Equal(t, "", GroupDecoration(-3))
}

func TestStripGroupDecoration(t *testing.T) {
	for _, n := range []int{1, 5, 10, 19, 20, 21, 42} {
		title := GroupDecoration(n) + "Real title"
		assert.Equal(t, "Real title", StripGroupDecoration(title), "n=%d", n)
	}

	t.Run("undecorated titles pass through", func(t *testing.T) {
		assert.Equal(t, "Plain title", StripGroupDecoration("Plain title"))
		assert.Equal(t, "3 easy steps", StripGroupDecoration("3 easy steps"))
	})
}
