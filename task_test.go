package imagestudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVariant_AspectRatio(t *testing.T) {
	for _, v := range CreateVariants() {
		want := AspectRatio1x1
		if v == CreateThumbnail {
			want = AspectRatio16x9
		}
		assert.Equal(t, want, v.AspectRatio(), string(v))
	}
}

func TestTask_Requirements(t *testing.T) {
	tests := []struct {
		task     Task
		op       Operation
		images   int
		sections []Section
	}{
		{Task{Mode: ModeCreate, Create: CreateLogo}, OperationCreate, 0, []Section{SectionCreateVariants}},
		{Task{Mode: ModeEdit, Edit: EditAddRemove}, OperationEdit, 1, []Section{SectionEditVariants, SectionSingleUpload}},
		{Task{Mode: ModeEdit, Edit: EditRetouch}, OperationEdit, 1, []Section{SectionEditVariants, SectionSingleUpload}},
		{Task{Mode: ModeEdit, Edit: EditStyle}, OperationEdit, 1, []Section{SectionEditVariants, SectionSingleUpload}},
		{Task{Mode: ModeEdit, Edit: EditCompose}, OperationCompose, 2, []Section{SectionEditVariants, SectionDualUpload}},
	}

	for _, tt := range tests {
		req := tt.task.Requirements()
		assert.Equal(t, tt.op, req.Operation)
		assert.Equal(t, tt.images, req.Images)
		assert.Equal(t, tt.sections, req.Sections)
	}
}

func TestParse(t *testing.T) {
	mode, err := ParseMode("edit")
	require.NoError(t, err)
	assert.Equal(t, ModeEdit, mode)
	_, err = ParseMode("draw")
	assert.Error(t, err)

	cv, err := ParseCreateVariant("object3d")
	require.NoError(t, err)
	assert.Equal(t, CreateObject3D, cv)
	_, err = ParseCreateVariant("text")
	assert.Error(t, err)

	ev, err := ParseEditVariant("add-remove")
	require.NoError(t, err)
	assert.Equal(t, EditAddRemove, ev)
	_, err = ParseEditVariant("crop")
	assert.Error(t, err)
}

func TestVariantLabels(t *testing.T) {
	for _, v := range CreateVariants() {
		assert.NotEmpty(t, v.Label())
		assert.NotEmpty(t, v.Icon())
	}
	for _, v := range EditVariants() {
		assert.NotEmpty(t, v.Label())
		assert.NotEmpty(t, v.Icon())
	}
}
