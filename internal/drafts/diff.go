package drafts

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"devlog/internal/apperr"
	"devlog/internal/models"
)

// Diff returns a unified diff from saved to the body stored in draft d. An
// identical body yields the empty string.
func (s *Service) Diff(d *models.Draft, saved string) (string, error) {
	form, err := models.DecodeForm(d.Content)
	if err != nil {
		return "", &apperr.CorruptDraftError{DraftID: d.ID.String(), Err: err}
	}
	edits := myers.ComputeEdits(span.URIFromPath("saved"), saved, form.Content)
	return fmt.Sprint(gotextdiff.ToUnified("saved", "draft", saved, edits)), nil
}
