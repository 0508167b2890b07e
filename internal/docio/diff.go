package docio

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"git.home.luguber.info/inful/actiondocs/internal/content"
)

// Diff returns a unified-diff style patch text describing the change from
// old to new, for dry-run output. An empty string means no change.
func Diff(old, new content.Content) string {
	if old.Equal(new) {
		return ""
	}
	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(old.String(), new.String())
	return dmp.PatchToText(patches)
}
