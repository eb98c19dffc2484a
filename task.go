package imagestudio

import (
	"fmt"

	"github.com/samber/lo"
)

// Mode is the top-level choice between creating and editing.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// CreateVariant is the stylistic sub-choice for ModeCreate.
type CreateVariant string

const (
	CreateFree      CreateVariant = "free"
	CreateSticker   CreateVariant = "sticker"
	CreateLogo      CreateVariant = "logo"
	CreateComic     CreateVariant = "comic"
	CreateThumbnail CreateVariant = "thumbnail"
	CreateObject3D  CreateVariant = "object3d"
)

// EditVariant is the functional sub-choice for ModeEdit.
type EditVariant string

const (
	EditAddRemove EditVariant = "add-remove"
	EditRetouch   EditVariant = "retouch"
	EditStyle     EditVariant = "style"
	EditCompose   EditVariant = "compose"
)

// CreateVariants lists every create variant in display order.
func CreateVariants() []CreateVariant {
	return []CreateVariant{CreateFree, CreateSticker, CreateLogo, CreateComic, CreateThumbnail, CreateObject3D}
}

// EditVariants lists every edit variant in display order.
func EditVariants() []EditVariant {
	return []EditVariant{EditAddRemove, EditRetouch, EditStyle, EditCompose}
}

// ParseMode converts a wire value into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if m != ModeCreate && m != ModeEdit {
		return "", fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}

// ParseCreateVariant converts a wire value into a CreateVariant.
func ParseCreateVariant(s string) (CreateVariant, error) {
	v := CreateVariant(s)
	if !lo.Contains(CreateVariants(), v) {
		return "", fmt.Errorf("unknown create variant %q", s)
	}
	return v, nil
}

// ParseEditVariant converts a wire value into an EditVariant.
func ParseEditVariant(s string) (EditVariant, error) {
	v := EditVariant(s)
	if !lo.Contains(EditVariants(), v) {
		return "", fmt.Errorf("unknown edit variant %q", s)
	}
	return v, nil
}

// Label is the short name shown on the variant card.
func (v CreateVariant) Label() string {
	switch v {
	case CreateFree:
		return "Prompt"
	case CreateSticker:
		return "Stickers"
	case CreateLogo:
		return "Logo"
	case CreateComic:
		return "Comic"
	case CreateThumbnail:
		return "Thumbnail"
	case CreateObject3D:
		return "3D Object"
	}
	return string(v)
}

// Icon is the glyph shown on the variant card.
func (v CreateVariant) Icon() string {
	switch v {
	case CreateFree:
		return "✨"
	case CreateSticker:
		return "🏷️"
	case CreateLogo:
		return "📝"
	case CreateComic:
		return "💭"
	case CreateThumbnail:
		return "📺"
	case CreateObject3D:
		return "🧊"
	}
	return ""
}

// Label is the short name shown on the variant card.
func (v EditVariant) Label() string {
	switch v {
	case EditAddRemove:
		return "Add/Remove"
	case EditRetouch:
		return "Retouch"
	case EditStyle:
		return "Style"
	case EditCompose:
		return "Compose"
	}
	return string(v)
}

// Icon is the glyph shown on the variant card.
func (v EditVariant) Icon() string {
	switch v {
	case EditAddRemove:
		return "➕"
	case EditRetouch:
		return "🎯"
	case EditStyle:
		return "🎨"
	case EditCompose:
		return "🖼️"
	}
	return ""
}

// AspectRatio returns the framing requested for the variant: widescreen for
// thumbnails, square for everything else.
func (v CreateVariant) AspectRatio() AspectRatio {
	if v == CreateThumbnail {
		return AspectRatio16x9
	}
	return AspectRatio1x1
}

// Operation identifies which of the three model calls serves a task.
type Operation string

const (
	OperationCreate  Operation = "create"
	OperationEdit    Operation = "edit"
	OperationCompose Operation = "compose"
)

// Task is the closed (mode, variant) combination selected by the user.
// Only the variant matching Mode is meaningful.
type Task struct {
	Mode   Mode
	Create CreateVariant
	Edit   EditVariant
}

// Section is a part of the page that is shown for a task.
type Section string

const (
	SectionCreateVariants Section = "create-variants"
	SectionEditVariants   Section = "edit-variants"
	SectionSingleUpload   Section = "single-upload"
	SectionDualUpload     Section = "dual-upload"
)

// Requirements describes what a task needs from the user and which sections
// the page shows for it.
type Requirements struct {
	Operation Operation
	Images    int
	Sections  []Section
}

// Shows reports whether the section is visible for the task.
func (r Requirements) Shows(s Section) bool {
	return lo.Contains(r.Sections, s)
}

// Requirements maps the task to its operation, required image count and
// visible sections.
func (t Task) Requirements() Requirements {
	switch t.Mode {
	case ModeEdit:
		if t.Edit == EditCompose {
			return Requirements{
				Operation: OperationCompose,
				Images:    2,
				Sections:  []Section{SectionEditVariants, SectionDualUpload},
			}
		}
		return Requirements{
			Operation: OperationEdit,
			Images:    1,
			Sections:  []Section{SectionEditVariants, SectionSingleUpload},
		}
	default:
		return Requirements{
			Operation: OperationCreate,
			Sections:  []Section{SectionCreateVariants},
		}
	}
}
