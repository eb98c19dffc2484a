package imagestudio

// Intent is what the user currently wants: prompt, mode, variants and up to
// two selected images. Primary is meaningful only in ModeEdit; Secondary only
// for EditCompose.
type Intent struct {
	Prompt        string
	Mode          Mode
	CreateVariant CreateVariant
	EditVariant   EditVariant
	Primary       *InputImage
	Secondary     *InputImage
}

// NewIntent returns the initial intent: create mode, free prompt, add/remove
// pre-selected for edits.
func NewIntent() Intent {
	return Intent{
		Mode:          ModeCreate,
		CreateVariant: CreateFree,
		EditVariant:   EditAddRemove,
	}
}

// Task returns the (mode, variant) combination of the intent.
func (in Intent) Task() Task {
	return Task{Mode: in.Mode, Create: in.CreateVariant, Edit: in.EditVariant}
}

// GenerationRequest is the value handed to an operation at dispatch time.
type GenerationRequest struct {
	Operation     Operation
	Prompt        string
	AspectRatio   AspectRatio
	CreateVariant CreateVariant
	EditVariant   EditVariant
	Images        []InputImage
}

// Request builds the GenerationRequest for a valid intent. Create prompts are
// augmented; edit and compose prompts are sent as typed.
func (in Intent) Request() GenerationRequest {
	req := in.Task().Requirements()

	switch req.Operation {
	case OperationCompose:
		return GenerationRequest{
			Operation:   OperationCompose,
			Prompt:      in.Prompt,
			EditVariant: in.EditVariant,
			Images:      []InputImage{*in.Primary, *in.Secondary},
		}
	case OperationEdit:
		return GenerationRequest{
			Operation:   OperationEdit,
			Prompt:      in.Prompt,
			EditVariant: in.EditVariant,
			Images:      []InputImage{*in.Primary},
		}
	default:
		return GenerationRequest{
			Operation:     OperationCreate,
			Prompt:        Augment(in.Prompt, in.CreateVariant),
			AspectRatio:   in.CreateVariant.AspectRatio(),
			CreateVariant: in.CreateVariant,
		}
	}
}
