package brief

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jorge-barreto/narrate/internal/outline"
)

// JourneyStage is the buyer-journey position of the primary audience.
type JourneyStage string

const (
	StageTOFU JourneyStage = "TOFU"
	StageMOFU JourneyStage = "MOFU"
	StageBOFU JourneyStage = "BOFU"
)

// Valid reports whether s is TOFU, MOFU or BOFU.
func (s JourneyStage) Valid() bool {
	return s == StageTOFU || s == StageMOFU || s == StageBOFU
}

// AnchorType classifies a narrative anchor.
type AnchorType string

const (
	AnchorBelief         AnchorType = "belief"
	AnchorPain           AnchorType = "pain"
	AnchorStruggle       AnchorType = "struggle"
	AnchorTransformation AnchorType = "transformation"
)

// Valid reports whether t is a known anchor type.
func (t AnchorType) Valid() bool {
	switch t {
	case AnchorBelief, AnchorPain, AnchorStruggle, AnchorTransformation:
		return true
	}
	return false
}

// NarrativeAnchor ties the narrative to one item of the audience's script.
type NarrativeAnchor struct {
	Type         AnchorType `json:"type"`
	SourceItemID string     `json:"sourceItemId"`
	Content      string     `json:"content"`
}

// BusinessContext is the business framing selected for the piece.
type BusinessContext struct {
	Type   string `json:"type"`
	ItemID string `json:"itemId,omitempty"`
}

// HeadlineOption is a candidate headline, typed by the user or generated.
type HeadlineOption struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsGenerated bool   `json:"isGenerated"`
}

// Brief is the cumulative input of one authoring session.
type Brief struct {
	Trigger         string          `json:"trigger"`
	MutualGoal      string          `json:"mutualGoal"`
	TargetKeyword   string          `json:"targetKeyword"`
	BusinessContext BusinessContext `json:"businessContext"`
	PublishReason   string          `json:"publishReason"`
	CallToAction    string          `json:"callToAction"`

	PrimaryAudienceID string            `json:"primaryAudienceId"`
	JourneyStage      JourneyStage      `json:"journeyStage"`
	BroaderAudienceID string            `json:"broaderAudienceId"`
	ReadingTrigger    string            `json:"readingTrigger"`
	Anchors           []NarrativeAnchor `json:"anchors"`
	SuccessStoryID    string            `json:"successStoryId"`

	RelatedKeywords   []string `json:"relatedKeywords"`
	SearchQueries     []string `json:"searchQueries"`
	ProblemStatements []string `json:"problemStatements"`

	Headlines          []HeadlineOption `json:"headlines"`
	SelectedHeadlineID string           `json:"selectedHeadlineId"`
	IntroPOV           string           `json:"introPov"`
	Outline            outline.Outline  `json:"outline"`

	IntroContent      string `json:"introContent"`
	BodyContent       string `json:"bodyContent"`
	ConclusionContent string `json:"conclusionContent"`
}

// Field names a settable brief field.
type Field string

const (
	FieldTrigger           Field = "trigger"
	FieldMutualGoal        Field = "mutualGoal"
	FieldTargetKeyword     Field = "targetKeyword"
	FieldBusinessContext   Field = "businessContext"
	FieldPublishReason     Field = "publishReason"
	FieldCallToAction      Field = "callToAction"
	FieldPrimaryAudience   Field = "primaryAudienceId"
	FieldJourneyStage      Field = "journeyStage"
	FieldBroaderAudience   Field = "broaderAudienceId"
	FieldReadingTrigger    Field = "readingTrigger"
	FieldAnchors           Field = "anchors"
	FieldSuccessStory      Field = "successStoryId"
	FieldRelatedKeywords   Field = "relatedKeywords"
	FieldSearchQueries     Field = "searchQueries"
	FieldProblemStatements Field = "problemStatements"
	FieldHeadlines         Field = "headlines"
	FieldSelectedHeadline  Field = "selectedHeadlineId"
	FieldIntroPOV          Field = "introPov"
	FieldOutline           Field = "outline"
	FieldIntroContent      Field = "introContent"
	FieldBodyContent       Field = "bodyContent"
	FieldConclusionContent Field = "conclusionContent"
)

// Fields returns every settable field in form order.
func Fields() []Field {
	return []Field{
		FieldTrigger, FieldMutualGoal, FieldTargetKeyword, FieldBusinessContext,
		FieldPublishReason, FieldCallToAction,
		FieldPrimaryAudience, FieldJourneyStage, FieldBroaderAudience,
		FieldReadingTrigger, FieldAnchors, FieldSuccessStory,
		FieldRelatedKeywords, FieldSearchQueries, FieldProblemStatements,
		FieldHeadlines, FieldSelectedHeadline, FieldIntroPOV, FieldOutline,
		FieldIntroContent, FieldBodyContent, FieldConclusionContent,
	}
}

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidValue  = errors.New("invalid value")
	ErrUnknownAnchor = errors.New("anchor not found")
)

// New returns an empty brief.
func New() *Brief {
	return &Brief{}
}

// Clone returns a deep copy.
func (b *Brief) Clone() *Brief {
	c := *b
	c.Anchors = append([]NarrativeAnchor(nil), b.Anchors...)
	c.RelatedKeywords = append([]string(nil), b.RelatedKeywords...)
	c.SearchQueries = append([]string(nil), b.SearchQueries...)
	c.ProblemStatements = append([]string(nil), b.ProblemStatements...)
	c.Headlines = append([]HeadlineOption(nil), b.Headlines...)
	c.Outline = b.Outline.Clone()
	return &c
}

func (b *Brief) stringField(f Field) *string {
	switch f {
	case FieldTrigger:
		return &b.Trigger
	case FieldMutualGoal:
		return &b.MutualGoal
	case FieldTargetKeyword:
		return &b.TargetKeyword
	case FieldPublishReason:
		return &b.PublishReason
	case FieldCallToAction:
		return &b.CallToAction
	case FieldPrimaryAudience:
		return &b.PrimaryAudienceID
	case FieldBroaderAudience:
		return &b.BroaderAudienceID
	case FieldReadingTrigger:
		return &b.ReadingTrigger
	case FieldSuccessStory:
		return &b.SuccessStoryID
	case FieldSelectedHeadline:
		return &b.SelectedHeadlineID
	case FieldIntroPOV:
		return &b.IntroPOV
	case FieldIntroContent:
		return &b.IntroContent
	case FieldBodyContent:
		return &b.BodyContent
	case FieldConclusionContent:
		return &b.ConclusionContent
	}
	return nil
}

func (b *Brief) listField(f Field) *[]string {
	switch f {
	case FieldRelatedKeywords:
		return &b.RelatedKeywords
	case FieldSearchQueries:
		return &b.SearchQueries
	case FieldProblemStatements:
		return &b.ProblemStatements
	}
	return nil
}

// Get returns a copy of the named field's value.
func (b *Brief) Get(f Field) (any, error) {
	if p := b.stringField(f); p != nil {
		return *p, nil
	}
	if p := b.listField(f); p != nil {
		return append([]string(nil), (*p)...), nil
	}
	c := b.Clone()
	switch f {
	case FieldBusinessContext:
		return c.BusinessContext, nil
	case FieldJourneyStage:
		return c.JourneyStage, nil
	case FieldAnchors:
		return c.Anchors, nil
	case FieldHeadlines:
		return c.Headlines, nil
	case FieldOutline:
		return c.Outline, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// Set assigns value to the named field. The value must have the field's type.
func (b *Brief) Set(f Field, value any) error {
	if p := b.stringField(f); p != nil {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects a string, got %T", ErrInvalidValue, f, value)
		}
		*p = s
		return nil
	}
	if p := b.listField(f); p != nil {
		l, ok := value.([]string)
		if !ok {
			return fmt.Errorf("%w: %s expects a list of strings, got %T", ErrInvalidValue, f, value)
		}
		*p = append([]string(nil), l...)
		return nil
	}
	switch f {
	case FieldJourneyStage:
		var s JourneyStage
		switch v := value.(type) {
		case JourneyStage:
			s = v
		case string:
			s = JourneyStage(strings.ToUpper(v))
		default:
			return fmt.Errorf("%w: %s expects a journey stage, got %T", ErrInvalidValue, f, value)
		}
		if s != "" && !s.Valid() {
			return fmt.Errorf("%w: journey stage %q (must be TOFU, MOFU or BOFU)", ErrInvalidValue, s)
		}
		b.JourneyStage = s
	case FieldBusinessContext:
		v, ok := value.(BusinessContext)
		if !ok {
			return fmt.Errorf("%w: %s expects a business context, got %T", ErrInvalidValue, f, value)
		}
		b.BusinessContext = v
	case FieldAnchors:
		v, ok := value.([]NarrativeAnchor)
		if !ok {
			return fmt.Errorf("%w: %s expects anchors, got %T", ErrInvalidValue, f, value)
		}
		for _, a := range v {
			if !a.Type.Valid() {
				return fmt.Errorf("%w: anchor type %q", ErrInvalidValue, a.Type)
			}
		}
		b.Anchors = append([]NarrativeAnchor(nil), v...)
	case FieldHeadlines:
		v, ok := value.([]HeadlineOption)
		if !ok {
			return fmt.Errorf("%w: %s expects headlines, got %T", ErrInvalidValue, f, value)
		}
		b.Headlines = append([]HeadlineOption(nil), v...)
	case FieldOutline:
		v, ok := value.(outline.Outline)
		if !ok {
			return fmt.Errorf("%w: %s expects an outline, got %T", ErrInvalidValue, f, value)
		}
		for _, s := range v.Sections {
			if err := s.Validate(); err != nil {
				return err
			}
		}
		b.Outline = v.Clone()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// SetFromArgs parses command-line words into the field's type and sets it.
// Text fields join the words with spaces; list fields take one entry per word;
// businessContext takes "<type> [itemId]".
func (b *Brief) SetFromArgs(f Field, args []string) error {
	if b.stringField(f) != nil || f == FieldJourneyStage {
		return b.Set(f, strings.Join(args, " "))
	}
	if b.listField(f) != nil {
		return b.Set(f, args)
	}
	if f == FieldBusinessContext {
		var bc BusinessContext
		if len(args) > 0 {
			bc.Type = args[0]
		}
		if len(args) > 1 {
			bc.ItemID = args[1]
		}
		return b.Set(f, bc)
	}
	if _, err := b.Get(f); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s cannot be set from arguments", ErrInvalidValue, f)
}

// SetFromJSON decodes data into the field's type and sets it.
func (b *Brief) SetFromJSON(f Field, data []byte) error {
	var (
		value any
		err   error
	)
	switch {
	case b.stringField(f) != nil:
		value, err = decodeAs[string](data)
	case b.listField(f) != nil:
		value, err = decodeAs[[]string](data)
	case f == FieldJourneyStage:
		value, err = decodeAs[JourneyStage](data)
	case f == FieldBusinessContext:
		value, err = decodeAs[BusinessContext](data)
	case f == FieldAnchors:
		value, err = decodeAs[[]NarrativeAnchor](data)
	case f == FieldHeadlines:
		value, err = decodeAs[[]HeadlineOption](data)
	case f == FieldOutline:
		value, err = decodeAs[outline.Outline](data)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, f, err)
	}
	return b.Set(f, value)
}

func decodeAs[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// AnchorFor returns the index of the anchor linked to itemID, or -1.
func (b *Brief) AnchorFor(itemID string) int {
	for i, a := range b.Anchors {
		if a.SourceItemID == itemID {
			return i
		}
	}
	return -1
}

// AddAnchor appends an anchor. Duplicate item links are the caller's concern.
func (b *Brief) AddAnchor(a NarrativeAnchor) error {
	if !a.Type.Valid() {
		return fmt.Errorf("%w: anchor type %q", ErrInvalidValue, a.Type)
	}
	if a.SourceItemID == "" {
		return fmt.Errorf("%w: anchor needs a source item", ErrInvalidValue)
	}
	b.Anchors = append(b.Anchors, a)
	return nil
}

// RemoveAnchor drops the anchor at index i.
func (b *Brief) RemoveAnchor(i int) error {
	if i < 0 || i >= len(b.Anchors) {
		return fmt.Errorf("%w: index %d", ErrUnknownAnchor, i)
	}
	b.Anchors = append(b.Anchors[:i:i], b.Anchors[i+1:]...)
	return nil
}

// AddHeadline appends a headline option and returns it.
func (b *Brief) AddHeadline(text string, generated bool) HeadlineOption {
	h := HeadlineOption{ID: uuid.NewString(), Text: text, IsGenerated: generated}
	b.Headlines = append(b.Headlines, h)
	return h
}

// SelectHeadline marks the option with id as selected.
func (b *Brief) SelectHeadline(id string) error {
	for _, h := range b.Headlines {
		if h.ID == id {
			b.SelectedHeadlineID = id
			return nil
		}
	}
	return fmt.Errorf("%w: headline %q not found", ErrInvalidValue, id)
}

// SelectedHeadline returns the selected option, if it still exists.
func (b *Brief) SelectedHeadline() (HeadlineOption, bool) {
	if b.SelectedHeadlineID == "" {
		return HeadlineOption{}, false
	}
	for _, h := range b.Headlines {
		if h.ID == b.SelectedHeadlineID {
			return h, true
		}
	}
	return HeadlineOption{}, false
}

// ReplaceGeneratedHeadlines drops earlier generated options, keeps the
// user's own, and appends texts as new generated options. The selection is
// kept when it survives, otherwise the first new option is selected.
func (b *Brief) ReplaceGeneratedHeadlines(texts []string) {
	kept := make([]HeadlineOption, 0, len(b.Headlines)+len(texts))
	for _, h := range b.Headlines {
		if !h.IsGenerated {
			kept = append(kept, h)
		}
	}
	b.Headlines = kept
	var first string
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		h := b.AddHeadline(t, true)
		if first == "" {
			first = h.ID
		}
	}
	if _, ok := b.SelectedHeadline(); !ok {
		b.SelectedHeadlineID = first
	}
}

// Content returns the drafted text for part ("intro", "body" or
// "conclusion"), or "" for any other part.
func (b *Brief) Content(part string) string {
	if p := b.contentField(part); p != nil {
		return *p
	}
	return ""
}

// SetContent stores drafted text for part.
func (b *Brief) SetContent(part, text string) error {
	p := b.contentField(part)
	if p == nil {
		return fmt.Errorf("%w: %q has no content", ErrUnknownField, part)
	}
	*p = text
	return nil
}

func (b *Brief) contentField(part string) *string {
	switch part {
	case "intro":
		return &b.IntroContent
	case "body":
		return &b.BodyContent
	case "conclusion":
		return &b.ConclusionContent
	}
	return nil
}
