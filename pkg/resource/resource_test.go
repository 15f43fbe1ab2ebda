package resource_test

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/marketplace/pkg/resource"
)

type item struct {
	ID   int
	Name string
}

var itemResource resource.Transformer[item] = func(i item) resource.Map {
	return resource.Map{"id": i.ID, "name": i.Name}
}

func seqOf(items []item, failAt int) iter.Seq2[item, error] {
	return func(yield func(item, error) bool) {
		for i, it := range items {
			if i == failAt {
				yield(item{}, errors.New("cursor broke"))
				return
			}
			if !yield(it, nil) {
				return
			}
		}
	}
}

func TestOneAndSlice(t *testing.T) {
	assert.Equal(t, resource.Map{"id": 1, "name": "a"}, resource.One(itemResource, item{1, "a"}))

	out := resource.Slice(itemResource, nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestCollect(t *testing.T) {
	items := []item{{1, "a"}, {2, "b"}}

	out, err := resource.Collect(itemResource, seqOf(items, -1))
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, "b", out[1]["name"])

	_, err = resource.Collect(itemResource, seqOf(items, 1))
	assert.EqualError(t, err, "cursor broke")
}

func TestNewPage(t *testing.T) {
	p := resource.NewPage([]resource.Map{{"id": 1}}, 20, 40)
	assert.Equal(t, 1, p.Count)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 40, p.Offset)
}
