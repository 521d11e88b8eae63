package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

func TestDefault_LoadsEmbeddedCatalog(t *testing.T) {
	var cat *catalog.Catalog
	require.NotPanics(t, func() { cat = catalog.Default() })

	require.NotNil(t, cat)
	assert.Len(t, cat.Resources(), 15)
	assert.Equal(t, "Astral Matrix + Terra Nova -> Quantum Amalgam", cat.ResolutionOrder()[0].String())
}

func TestLoad_ReusesCompiledSchemaAcrossCalls(t *testing.T) {
	raw := []byte(`
version: 1
resources:
  - {name: A, tier: 5}
recipes: []
`)

	for i := 0; i < 3; i++ {
		_, err := catalog.Load(raw)

		var defect *shared.CatalogDefectError
		assert.True(t, errors.As(err, &defect), "call %d", i)
	}
}

func TestDefault_TierCounts(t *testing.T) {
	cat := catalog.Default()

	assert.Len(t, cat.ByTier(catalog.TierBasic), 8)
	assert.Len(t, cat.ByTier(catalog.TierMaterial), 4)
	assert.Len(t, cat.ByTier(catalog.TierCompound), 2)
	assert.Len(t, cat.ByTier(catalog.TierSuper), 1)
	assert.Len(t, cat.Recipes(), 7)
	assert.Equal(t, "Quantum Amalgam", cat.Super().Name)
	assert.NotEmpty(t, cat.Digest())
}

func TestDefault_EveryCraftedResourceHasExactlyOneRecipe(t *testing.T) {
	cat := catalog.Default()

	for _, r := range cat.Resources() {
		_, produced := cat.ProducedBy(r.Name)
		if r.Tier == catalog.TierBasic {
			assert.False(t, produced, r.Name)
			continue
		}
		assert.True(t, produced, r.Name)
	}
}

func TestDefault_ResolutionOrderIsTopDown(t *testing.T) {
	cat := catalog.Default()

	order := cat.ResolutionOrder()
	require.Len(t, order, 7)

	outputs := make([]string, 0, len(order))
	for _, r := range order {
		outputs = append(outputs, r.Output)
	}
	assert.Equal(t, []string{
		"Quantum Amalgam",
		"Astral Matrix",
		"Terra Nova",
		"Celestial Alloy",
		"Solar Steel",
		"Magma Core",
		"Ocean Stone",
	}, outputs)
}

func TestLoad_RejectsUnknownTierViaSchema(t *testing.T) {
	raw := []byte(`
version: 1
resources:
  - {name: A, tier: 5}
recipes: []
`)

	_, err := catalog.Load(raw)

	require.Error(t, err)
	var defect *shared.CatalogDefectError
	assert.True(t, errors.As(err, &defect))
}

func TestLoad_RejectsRecipeSkippingATier(t *testing.T) {
	raw := []byte(`
version: 1
resources:
  - {name: A, tier: 1}
  - {name: B, tier: 1}
  - {name: S, tier: 4}
recipes:
  - {inputs: [A, B], output: S}
`)

	_, err := catalog.Load(raw)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be tier 3")
}

func TestLoad_RejectsResourceConsumedTwice(t *testing.T) {
	raw := []byte(`
version: 1
resources:
  - {name: A, tier: 1}
  - {name: B, tier: 1}
  - {name: C, tier: 1}
  - {name: M1, tier: 2}
  - {name: M2, tier: 2}
  - {name: X, tier: 3}
  - {name: S, tier: 4}
recipes:
  - {inputs: [A, B], output: M1}
  - {inputs: [A, C], output: M2}
`)

	_, err := catalog.Load(raw)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumed by more than one recipe")
}

func TestLoad_RejectsUncraftableResource(t *testing.T) {
	raw := []byte(`
version: 1
resources:
  - {name: A, tier: 1}
  - {name: S, tier: 4}
recipes: []
`)

	_, err := catalog.Load(raw)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipe produces this resource")
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	_, err := catalog.Load([]byte("resources: [\n"))

	require.Error(t, err)
}

func TestTree_RootedAtSuperWithCounts(t *testing.T) {
	cat := catalog.Default()

	tree := cat.Tree(map[string]int{"Crystalite": 3, "Quantum Amalgam": 1})

	assert.Equal(t, "Quantum Amalgam", tree.Resource.Name)
	assert.Equal(t, 1, tree.Count)
	assert.Equal(t, 4, tree.TotalDepth())

	leaves := 0
	var crystalite *catalog.CraftingNode
	tree.Walk(func(n *catalog.CraftingNode, depth int) {
		if n.IsLeaf() {
			leaves++
			assert.Equal(t, 3, depth)
		}
		if n.Resource.Name == "Crystalite" {
			crystalite = n
		}
	})
	assert.Equal(t, 8, leaves)
	require.NotNil(t, crystalite)
	assert.Equal(t, 3, crystalite.Count)
}

func TestSlot_PositionsByTierAndIndex(t *testing.T) {
	cat := catalog.Default()
	nebulite, _ := cat.Resource("Nebulite")
	super := cat.Super()

	s := cat.Slot(nebulite, 400, 500)
	assert.Equal(t, 0, s.Row)
	assert.Equal(t, 1, s.Column)
	assert.InDelta(t, 75.0, s.X, 0.001)
	assert.InDelta(t, 10.0, s.NameY, 0.001)

	top := cat.Slot(super, 400, 500)
	assert.Equal(t, 3, top.Row)
	assert.InDelta(t, 200.0, top.X, 0.001)
	assert.InDelta(t, 350.0+10.0, top.NameY, 0.001)
}

func TestSlot_PanicsOnInvalidTier(t *testing.T) {
	cat := catalog.Default()

	assert.Panics(t, func() {
		cat.Slot(catalog.Resource{Name: "Bogus", Tier: 7}, 400, 500)
	})
}

func TestSlot_PanicsOnResourceOutsideItsTier(t *testing.T) {
	cat := catalog.Default()

	assert.Panics(t, func() {
		cat.Slot(catalog.Resource{Name: "Bogus", Tier: catalog.TierMaterial}, 400, 500)
	})
}
