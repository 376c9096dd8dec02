package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.0.0.1:8080", "10.0.0.1:8080"},
		{"user:pass@10.0.0.1:8080", "user:pass@10.0.0.1:8080"},
		{"user:pass:10.0.0.1:8080", "user:pass@10.0.0.1:8080"},
		{"  10.0.0.1:8080  ", "10.0.0.1:8080"},
		{"10.0.0.1", ""},
		{"a:b:c", ""},
		{"a:b:c:d:e", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Parse(c.in), "input %q", c.in)
	}
}

func TestParseAllDropsBroken(t *testing.T) {
	got := ParseAll([]string{"10.0.0.1:8080", "garbage", "u:p:h:1"})
	assert.Equal(t, []string{"10.0.0.1:8080", "u:p@h:1"}, got)
}

func TestCheckEmpty(t *testing.T) {
	assert.False(t, Check(""))
}
