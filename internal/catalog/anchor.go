package catalog

import (
	"errors"
	"fmt"

	"github.com/jorge-barreto/narrate/internal/brief"
)

var (
	ErrNoAudience      = errors.New("no primary audience selected")
	ErrUnknownItem     = errors.New("script item not found")
	ErrAlreadyAnchored = errors.New("script item already anchored")
)

// NewAnchor builds an anchor for itemID from the script of b's primary
// audience. An item may back at most one anchor.
func NewAnchor(c Catalog, b *brief.Brief, itemID string) (brief.NarrativeAnchor, error) {
	a, ok := c.Audience(b.PrimaryAudienceID)
	if !ok {
		if b.PrimaryAudienceID == "" {
			return brief.NarrativeAnchor{}, ErrNoAudience
		}
		return brief.NarrativeAnchor{}, fmt.Errorf("%w: audience %q is not in the catalog", ErrNoAudience, b.PrimaryAudienceID)
	}
	it, ok := a.Item(itemID)
	if !ok {
		return brief.NarrativeAnchor{}, fmt.Errorf("%w: %q in audience %q", ErrUnknownItem, itemID, a.ID)
	}
	if i := b.AnchorFor(itemID); i >= 0 {
		return brief.NarrativeAnchor{}, fmt.Errorf("%w: %q is anchor %d", ErrAlreadyAnchored, itemID, i)
	}
	return brief.NarrativeAnchor{Type: it.Type, SourceItemID: it.ID, Content: it.Content}, nil
}
