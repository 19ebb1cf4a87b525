package main

import (
	"fmt"
	"io"
	"strings"

	"matesite/internal/issues"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// fieldDiff renders the character-level difference between two values.
// Without color, deletions read [-like this-] and insertions {+like this+}.
func fieldDiff(from, to string, styled bool) string {
	dmp := diffpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, strings.Contains(from+to, "\n")))

	del := color.New(color.FgRed, color.CrossedOut)
	ins := color.New(color.FgGreen, color.Bold)
	if styled {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffDelete:
			if styled {
				b.WriteString(del.Sprint(d.Text))
			} else {
				b.WriteString("[-" + d.Text + "-]")
			}
		case diffpatch.DiffInsert:
			if styled {
				b.WriteString(ins.Sprint(d.Text))
			} else {
				b.WriteString("{+" + d.Text + "+}")
			}
		case diffpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// writeChanges prints one line per changed field, or a note when nothing changed.
func writeChanges(w io.Writer, before, after issues.Issue, styled bool) {
	changed := false
	for _, f := range []struct{ name, from, to string }{
		{"title", before.Title, after.Title},
		{"description", before.Description, after.Description},
	} {
		if f.from == f.to {
			continue
		}
		changed = true
		fmt.Fprintf(w, "%s: %s\n", f.name, fieldDiff(f.from, f.to, styled))
	}
	if !changed {
		fmt.Fprintln(w, "no changes")
	}
}
