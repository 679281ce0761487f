package helpers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dquelhas/taskquest/pkg/helpers"
)

func TestSanitizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"pay bills", "pay bills"},
		{"  padded  ", "padded"},
		{"<b>bold</b> move", "bold move"},
		{"<script>alert(1)</script>", ""},
		{"a <img src=x onerror=alert(1)> b", "a  b"},
		{"5 &lt; 10", "5 < 10"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, helpers.SanitizeText(tc.in), "input: %q", tc.in)
	}
}
