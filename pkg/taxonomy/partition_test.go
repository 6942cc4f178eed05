package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"melonworks-site/pkg/models"
)

func TestPartition(t *testing.T) {
	tags := []models.Tag{
		{Name: "人手不足", Type: models.StringList{"problem"}, RelatedServices: models.StringList{"dx"}},
		{Name: "AI・自動化", Type: models.StringList{"solution"}, RelatedServices: models.StringList{"dx", "web"}},
		{Name: "集客できない", Type: models.StringList{"problem,solution"}, RelatedServices: models.StringList{"web"}},
		{Name: "人手不足", Type: models.StringList{"problem"}},
		{Name: "untyped", RelatedServices: models.StringList{"dx"}},
		{Name: "both", Type: models.StringList{"problem", "solution"}},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "problem",
			filter: Filter{Type: models.TagTypeProblem},
			want:   []string{"人手不足", "集客できない", "人手不足", "both"},
		},
		{
			name:   "solution",
			filter: Filter{Type: models.TagTypeSolution},
			want:   []string{"AI・自動化", "集客できない", "both"},
		},
		{
			name:   "problem for dx",
			filter: Filter{Type: models.TagTypeProblem, ServiceID: "dx"},
			want:   []string{"人手不足"},
		},
		{
			name:   "service only",
			filter: Filter{ServiceID: "dx"},
			want:   []string{"人手不足", "AI・自動化", "untyped"},
		},
		{
			name:   "no filters",
			filter: Filter{},
			want:   []string{"人手不足", "AI・自動化", "集客できない", "人手不足", "untyped", "both"},
		},
		{
			name:   "nothing matches",
			filter: Filter{Type: models.TagTypeSolution, ServiceID: "design"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tags, tt.filter)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Partition(tags, tt.filter), "repeated calls give the same output")
		})
	}
}

func TestSplit(t *testing.T) {
	tags := []models.Tag{
		{Name: "在庫が合わない", Type: models.StringList{"problem"}, RelatedServices: models.StringList{"ec"}},
		{Name: "ECサイト構築", Type: models.StringList{"solution"}, RelatedServices: models.StringList{"ec"}},
		{Name: "SNS運用", Type: models.StringList{"solution"}, RelatedServices: models.StringList{"web"}},
	}

	problems, solutions := Split(tags, "ec")
	assert.Equal(t, []string{"在庫が合わない"}, problems)
	assert.Equal(t, []string{"ECサイト構築"}, solutions)

	problems, solutions = Split(tags, "")
	assert.Equal(t, []string{"在庫が合わない"}, problems)
	assert.Equal(t, []string{"ECサイト構築", "SNS運用"}, solutions)

	assert.Empty(t, Partition(nil, Filter{Type: models.TagTypeProblem}))
}
