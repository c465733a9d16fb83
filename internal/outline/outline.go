package outline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Phase is the narrative act a section belongs to.
type Phase string

const (
	PhaseResonance Phase = "resonance"
	PhaseRelevance Phase = "relevance"
	PhaseResults   Phase = "results"
)

// Phases returns every phase in narrative order.
func Phases() []Phase {
	return []Phase{PhaseResonance, PhaseRelevance, PhaseResults}
}

// Valid reports whether p is one of the three phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseResonance, PhaseRelevance, PhaseResults:
		return true
	}
	return false
}

// StepsLabel returns the default human-readable label for the phase.
func (p Phase) StepsLabel() string {
	switch p {
	case PhaseResonance:
		return "Hook · Tension · Stakes"
	case PhaseRelevance:
		return "Insight · Approach · Proof"
	case PhaseResults:
		return "Outcome · Evidence · Next step"
	}
	return ""
}

// Level is the heading weight of a section. It carries no nesting semantics.
type Level string

const (
	H2 Level = "h2"
	H3 Level = "h3"
	H4 Level = "h4"
)

// Valid reports whether l is H2, H3 or H4.
func (l Level) Valid() bool {
	return l == H2 || l == H3 || l == H4
}

// Markdown returns the heading prefix for the level.
func (l Level) Markdown() string {
	switch l {
	case H3:
		return "###"
	case H4:
		return "####"
	}
	return "##"
}

// AssetType names the kind of business asset a section can reference.
type AssetType string

const (
	AssetCategoryPOV    AssetType = "categoryPOV"
	AssetUniqueInsight  AssetType = "uniqueInsight"
	AssetCompanyMission AssetType = "companyMission"
	AssetSuccessStory   AssetType = "success_story"
	AssetFeature        AssetType = "feature"
	AssetUseCase        AssetType = "use_case"
	AssetDifferentiator AssetType = "differentiator"
)

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	switch t {
	case AssetCategoryPOV, AssetUniqueInsight, AssetCompanyMission,
		AssetSuccessStory, AssetFeature, AssetUseCase, AssetDifferentiator:
		return true
	}
	return false
}

// HasCatalogID reports whether links of this type point at a catalog entry.
// Strategic concepts (POV, insight, mission) stand alone.
func (t AssetType) HasCatalogID() bool {
	switch t {
	case AssetSuccessStory, AssetFeature, AssetUseCase, AssetDifferentiator:
		return true
	}
	return false
}

// AssetLink references a reusable business asset from a section.
type AssetLink struct {
	AssetType AssetType `json:"assetType"`
	AssetID   string    `json:"assetId,omitempty"`
}

// Section is one heading in the target document.
type Section struct {
	ID         string     `json:"id"`
	Level      Level      `json:"level"`
	Title      string     `json:"title"`
	Context    string     `json:"context,omitempty"`
	Phase      Phase      `json:"phase"`
	PhaseSteps string     `json:"phaseSteps"`
	Asset      *AssetLink `json:"asset,omitempty"`
}

// Field names accepted by UpdateField.
const (
	FieldTitle     = "title"
	FieldLevel     = "level"
	FieldContext   = "context"
	FieldPhase     = "phase"
	FieldAssetType = "assetType"
	FieldAssetID   = "assetId"
)

// End is the InsertAfter anchor that appends to the outline.
const End = ""

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrInvalidSection  = errors.New("invalid section")
)

// NewSection returns a section with a fresh id and the phase's default label.
func NewSection(title string, level Level, phase Phase) Section {
	if !level.Valid() {
		level = H2
	}
	return Section{
		ID:         uuid.NewString(),
		Level:      level,
		Title:      title,
		Phase:      phase,
		PhaseSteps: phase.StepsLabel(),
	}
}

// Validate checks the closed enums and the asset link invariant.
func (s Section) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidSection)
	}
	if !s.Level.Valid() {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidSection, s.Level)
	}
	if !s.Phase.Valid() {
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidSection, s.Phase)
	}
	if s.Asset != nil {
		if !s.Asset.AssetType.Valid() {
			return fmt.Errorf("%w: unknown asset type %q", ErrInvalidSection, s.Asset.AssetType)
		}
		if !s.Asset.AssetType.HasCatalogID() && s.Asset.AssetID != "" {
			return fmt.Errorf("%w: asset type %q does not take an id", ErrInvalidSection, s.Asset.AssetType)
		}
	}
	return nil
}

func (s Section) clone() Section {
	if s.Asset != nil {
		a := *s.Asset
		s.Asset = &a
	}
	return s
}

// Outline is the ordered list of sections. Array position is authoritative.
type Outline struct {
	Sections []Section `json:"sections"`
}

// Clone returns a deep copy.
func (o Outline) Clone() Outline {
	if o.Sections == nil {
		return Outline{}
	}
	out := make([]Section, len(o.Sections))
	for i, s := range o.Sections {
		out[i] = s.clone()
	}
	return Outline{Sections: out}
}

// Len returns the number of sections.
func (o *Outline) Len() int {
	return len(o.Sections)
}

func (o *Outline) index(id string) int {
	for i, s := range o.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the section with the given id.
func (o *Outline) Find(id string) (Section, bool) {
	i := o.index(id)
	if i < 0 {
		return Section{}, false
	}
	return o.Sections[i].clone(), true
}

// InsertAfter places s directly after the section with id afterID.
// End, or an id that is not present, appends s.
func (o *Outline) InsertAfter(afterID string, s Section) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if o.index(s.ID) >= 0 {
		return fmt.Errorf("%w: duplicate id %q", ErrInvalidSection, s.ID)
	}
	i := -1
	if afterID != End {
		i = o.index(afterID)
	}
	if i < 0 {
		o.Sections = append(o.Sections, s.clone())
		return nil
	}
	o.Sections = append(o.Sections, Section{})
	copy(o.Sections[i+2:], o.Sections[i+1:])
	o.Sections[i+1] = s.clone()
	return nil
}

// Remove drops the section with the given id. Missing ids are ignored.
func (o *Outline) Remove(id string) {
	kept := o.Sections[:0]
	for _, s := range o.Sections {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	o.Sections = kept
}

// MoveUp swaps the section with its predecessor. The first section stays put.
func (o *Outline) MoveUp(id string) {
	i := o.index(id)
	if i <= 0 {
		return
	}
	o.Sections[i-1], o.Sections[i] = o.Sections[i], o.Sections[i-1]
}

// MoveDown swaps the section with its successor. The last section stays put.
func (o *Outline) MoveDown(id string) {
	i := o.index(id)
	if i < 0 || i >= len(o.Sections)-1 {
		return
	}
	o.Sections[i], o.Sections[i+1] = o.Sections[i+1], o.Sections[i]
}

// Replace swaps in a whole section, matched by id.
func (o *Outline) Replace(s Section) error {
	if err := s.Validate(); err != nil {
		return err
	}
	i := o.index(s.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, s.ID)
	}
	o.Sections[i] = s.clone()
	return nil
}

// UpdateField sets a single field on a section.
// Setting the asset type clears any previous asset id.
func (o *Outline) UpdateField(id, field, value string) error {
	i := o.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	s := o.Sections[i].clone()
	switch field {
	case FieldTitle:
		s.Title = value
	case FieldContext:
		s.Context = value
	case FieldLevel:
		l := Level(strings.ToLower(value))
		if !l.Valid() {
			return fmt.Errorf("%w: unknown level %q", ErrInvalidSection, value)
		}
		s.Level = l
	case FieldPhase:
		p := Phase(value)
		if !p.Valid() {
			return fmt.Errorf("%w: unknown phase %q", ErrInvalidSection, value)
		}
		s.Phase = p
		s.PhaseSteps = p.StepsLabel()
	case FieldAssetType:
		if value == "" {
			s.Asset = nil
			break
		}
		t := AssetType(value)
		if !t.Valid() {
			return fmt.Errorf("%w: unknown asset type %q", ErrInvalidSection, value)
		}
		s.Asset = &AssetLink{AssetType: t}
	case FieldAssetID:
		if s.Asset == nil {
			return fmt.Errorf("%w: set %s before %s", ErrInvalidSection, FieldAssetType, FieldAssetID)
		}
		if !s.Asset.AssetType.HasCatalogID() && value != "" {
			return fmt.Errorf("%w: asset type %q does not take an id", ErrInvalidSection, s.Asset.AssetType)
		}
		s.Asset.AssetID = value
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidSection, field)
	}
	o.Sections[i] = s
	return nil
}

// SetAssetLink sets type and id together. An empty type removes the link.
func (o *Outline) SetAssetLink(id string, t AssetType, assetID string) error {
	i := o.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}
	var link *AssetLink
	if t != "" {
		if !t.Valid() {
			return fmt.Errorf("%w: unknown asset type %q", ErrInvalidSection, t)
		}
		if !t.HasCatalogID() && assetID != "" {
			return fmt.Errorf("%w: asset type %q does not take an id", ErrInvalidSection, t)
		}
		link = &AssetLink{AssetType: t, AssetID: assetID}
	}
	o.Sections[i].Asset = link
	return nil
}

// ForPhase returns the sections tagged with phase, in outline order.
func (o *Outline) ForPhase(p Phase) []Section {
	var out []Section
	for _, s := range o.Sections {
		if s.Phase == p {
			out = append(out, s.clone())
		}
	}
	return out
}
