package main

import (
	"bytes"
	"testing"

	"matesite/internal/issues"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldDiffPlain(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     string
	}{
		{name: "unchanged", from: "same", to: "same", want: "same"},
		{name: "append", from: "Login", to: "Login fixed", want: "Login{+ fixed+}"},
		{name: "remove", from: "Login broken", to: "Login", want: "Login[- broken-]"},
		{name: "replace", from: "A", to: "B", want: "[-A-]{+B+}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldDiff(tt.from, tt.to, false))
		})
	}
}

func TestFieldDiffStyled(t *testing.T) {
	out := fieldDiff("A", "B", true)
	assert.Contains(t, out, "\x1b[")
	assert.NotContains(t, out, "{+")
}

func TestWriteChanges(t *testing.T) {
	var buf bytes.Buffer
	writeChanges(&buf,
		issues.Issue{ID: "1", Title: "A", Description: "a"},
		issues.Issue{ID: "1", Title: "B", Description: "a"},
		false)
	assert.Equal(t, "title: [-A-]{+B+}\n", buf.String())

	buf.Reset()
	same := issues.Issue{ID: "1", Title: "A", Description: "a"}
	writeChanges(&buf, same, same, false)
	assert.Equal(t, "no changes\n", buf.String())
}

func TestUpdateDiffFlag(t *testing.T) {
	m := listedMock()
	te := newTestEnv(t, m, "")

	require.NoError(t, te.run("update", "1", "--title", "B", "--description", "500 on submit", "--diff"))

	assert.Equal(t, []string{"1"}, m.GetCallArgs, "--diff fetches the current issue")
	assert.Equal(t, "title: [-Login broken-]{+B+}\n", te.errOut.String())
	assert.Contains(t, te.out.String(), "B")
}
