package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/zoramarket/internal/domain/entities"
)

func TestMergeResults(t *testing.T) {
	a1 := &entities.Product{ID: "a", Name: "first"}
	a2 := &entities.Product{ID: "a", Name: "second"}
	b := &entities.Product{ID: "b"}
	c := &entities.Product{ID: "c"}

	got := MergeResults([][]*entities.Product{
		{a1, b},
		{},
		{c, a2},
		nil,
	})

	assert.Equal(t, []string{"a", "b", "c"}, productIDs(got))
	assert.Equal(t, "second", got[0].Name)
}

func TestMergeResults_Empty(t *testing.T) {
	got := MergeResults(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMergeResults_Idempotent(t *testing.T) {
	catalog := fixtureCatalog()
	once := MergeResults([][]*entities.Product{catalog, catalog})
	twice := MergeResults([][]*entities.Product{once})
	assert.Equal(t, productIDs(once), productIDs(twice))
	assert.Len(t, once, len(catalog))
}
