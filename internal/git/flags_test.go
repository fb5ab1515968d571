package git

import (
	"testing"

	"github.com/chmouel/lsvcs/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRawStatusPair(t *testing.T) {
	tests := []struct {
		name  string
		flags RawStatus
		want  models.StatusPair
	}{
		{
			name:  "clean",
			flags: 0,
			want:  models.StatusPair{Index: models.StatusUnmodified, Workdir: models.StatusUnmodified},
		},
		{
			name:  "untracked",
			flags: WtNew,
			want:  models.StatusPair{Index: models.StatusUnmodified, Workdir: models.StatusNewInWorkdir},
		},
		{
			name:  "staged new file",
			flags: IndexNew,
			want:  models.StatusPair{Index: models.StatusNewInIndex, Workdir: models.StatusUnmodified},
		},
		{
			name:  "staged then modified",
			flags: IndexModified | WtModified,
			want:  models.StatusPair{Index: models.StatusModified, Workdir: models.StatusModified},
		},
		{
			name:  "index new wins over index deleted",
			flags: IndexNew | IndexDeleted,
			want:  models.StatusPair{Index: models.StatusNewInIndex, Workdir: models.StatusUnmodified},
		},
		{
			name:  "index deleted wins over index modified",
			flags: IndexDeleted | IndexModified,
			want:  models.StatusPair{Index: models.StatusDeleted, Workdir: models.StatusUnmodified},
		},
		{
			name:  "index renamed and typechanged",
			flags: IndexRenamed | IndexTypechange,
			want:  models.StatusPair{Index: models.StatusRenamed, Workdir: models.StatusUnmodified},
		},
		{
			name:  "index new and ignored by a later gitignore",
			flags: IndexNew | Ignored,
			want:  models.StatusPair{Index: models.StatusNewInIndex, Workdir: models.StatusIgnored},
		},
		{
			name:  "new in index, deleted in workdir",
			flags: IndexNew | WtDeleted,
			want:  models.StatusPair{Index: models.StatusNewInIndex, Workdir: models.StatusDeleted},
		},
		{
			name:  "conflicted wins in workdir",
			flags: Conflicted | WtModified | WtNew,
			want:  models.StatusPair{Index: models.StatusUnmodified, Workdir: models.StatusConflicted},
		},
		{
			name:  "ignored wins over new",
			flags: Ignored | WtNew,
			want:  models.StatusPair{Index: models.StatusUnmodified, Workdir: models.StatusIgnored},
		},
		{
			name:  "workdir deleted wins over modified",
			flags: WtDeleted | WtModified,
			want:  models.StatusPair{Index: models.StatusUnmodified, Workdir: models.StatusDeleted},
		},
		{
			name:  "workdir renamed wins over typechange",
			flags: WtRenamed | WtTypechange,
			want:  models.StatusPair{Index: models.StatusUnmodified, Workdir: models.StatusRenamed},
		},
		{
			name:  "workdir typechange",
			flags: WtTypechange,
			want:  models.StatusPair{Index: models.StatusUnmodified, Workdir: models.StatusTypechange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.Pair())
		})
	}
}

func TestRawStatusString(t *testing.T) {
	assert.Equal(t, "CURRENT", RawStatus(0).String())
	assert.Equal(t, "INDEX_NEW|WT_MODIFIED", (IndexNew | WtModified).String())
	assert.True(t, (IndexNew | WtModified).Has(WtModified))
	assert.False(t, IndexNew.Has(IndexNew|WtModified))
}
