package catalog

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

//go:embed catalog.schema.json
var catalogSchemaJSON string

const schemaURL = "https://amalgam.local/schemas/catalog.schema.json"

// Tier is the crafting level of a resource: 1=basic, 2=material, 3=compound, 4=super
type Tier int

const (
	TierBasic    Tier = 1
	TierMaterial Tier = 2
	TierCompound Tier = 3
	TierSuper    Tier = 4
)

// Tiers returns every valid tier from the bottom of the chain to the top
func Tiers() []Tier {
	return []Tier{TierBasic, TierMaterial, TierCompound, TierSuper}
}

func (t Tier) Valid() bool {
	return t >= TierBasic && t <= TierSuper
}

func (t Tier) String() string {
	switch t {
	case TierBasic:
		return "basic"
	case TierMaterial:
		return "material"
	case TierCompound:
		return "compound"
	case TierSuper:
		return "super"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Resource is a catalog entry. Color and Glyph are presentation hints only.
type Resource struct {
	Name  string `yaml:"name" json:"name"`
	Tier  Tier   `yaml:"tier" json:"tier"`
	Color string `yaml:"color" json:"color,omitempty"`
	Glyph string `yaml:"glyph" json:"glyph,omitempty"`
}

// Recipe merges one unit of each input into one unit of Output.
// Input order carries no meaning.
type Recipe struct {
	Inputs [2]string `yaml:"inputs" json:"inputs"`
	Output string    `yaml:"output" json:"output"`
}

func (r Recipe) String() string {
	return fmt.Sprintf("%s + %s -> %s", r.Inputs[0], r.Inputs[1], r.Output)
}

type catalogFile struct {
	Version   int        `yaml:"version"`
	Resources []Resource `yaml:"resources"`
	Recipes   []Recipe   `yaml:"recipes"`
}

// Catalog is the closed, read-only set of resources and recipes
type Catalog struct {
	resources  []Resource
	byName     map[string]Resource
	byTier     map[Tier][]Resource
	recipes    []Recipe
	resolution []Recipe
	producedBy map[string]Recipe
	consumedBy map[string]Recipe
	digest     string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. A broken embedded catalog is a build defect, so it panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(defaultCatalogYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load parses, schema-validates and structurally validates a YAML catalog
func Load(raw []byte) (*Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog.yaml: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog.yaml: %w", err)
	}

	c, err := build(file)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	c.digest = hex.EncodeToString(sum[:])
	return c, nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// catalogSchema compiles the embedded schema on first use
func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(schemaURL, catalogSchemaJSON)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile catalog schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

func validateSchema(doc any) error {
	schema, err := catalogSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so the validator sees json.Number instead of YAML scalars.
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("catalog.yaml: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return fmt.Errorf("catalog.yaml: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return shared.NewCatalogDefectError("", 0, err.Error())
	}
	return nil
}

func build(file catalogFile) (*Catalog, error) {
	c := &Catalog{
		resources:  file.Resources,
		byName:     make(map[string]Resource, len(file.Resources)),
		byTier:     make(map[Tier][]Resource),
		recipes:    file.Recipes,
		producedBy: make(map[string]Recipe, len(file.Recipes)),
		consumedBy: make(map[string]Recipe, len(file.Recipes)*2),
	}

	for _, r := range file.Resources {
		if !r.Tier.Valid() {
			return nil, shared.NewCatalogDefectError(r.Name, int(r.Tier), "tier out of range")
		}
		if _, dup := c.byName[r.Name]; dup {
			return nil, shared.NewCatalogDefectError(r.Name, int(r.Tier), "duplicate resource")
		}
		c.byName[r.Name] = r
		c.byTier[r.Tier] = append(c.byTier[r.Tier], r)
	}

	if n := len(c.byTier[TierSuper]); n != 1 {
		return nil, shared.NewCatalogDefectError("", int(TierSuper), fmt.Sprintf("expected exactly one super resource, found %d", n))
	}

	for _, rec := range file.Recipes {
		out, ok := c.byName[rec.Output]
		if !ok {
			return nil, shared.NewCatalogDefectError(rec.Output, 0, "recipe output is not a catalog resource")
		}
		if out.Tier == TierBasic {
			return nil, shared.NewCatalogDefectError(out.Name, int(out.Tier), "basic resources cannot be crafted")
		}
		if _, dup := c.producedBy[out.Name]; dup {
			return nil, shared.NewCatalogDefectError(out.Name, int(out.Tier), "produced by more than one recipe")
		}
		if rec.Inputs[0] == rec.Inputs[1] {
			return nil, shared.NewCatalogDefectError(rec.Inputs[0], 0, "recipe inputs must differ")
		}
		for _, in := range rec.Inputs {
			res, ok := c.byName[in]
			if !ok {
				return nil, shared.NewCatalogDefectError(in, 0, "recipe input is not a catalog resource")
			}
			if res.Tier != out.Tier-1 {
				return nil, shared.NewCatalogDefectError(in, int(res.Tier), fmt.Sprintf("input of %s must be tier %d", out.Name, out.Tier-1))
			}
			if _, dup := c.consumedBy[in]; dup {
				return nil, shared.NewCatalogDefectError(in, int(res.Tier), "consumed by more than one recipe")
			}
			c.consumedBy[in] = rec
		}
		c.producedBy[out.Name] = rec
	}

	for _, r := range c.resources {
		if r.Tier == TierBasic {
			continue
		}
		if _, ok := c.producedBy[r.Name]; !ok {
			return nil, shared.NewCatalogDefectError(r.Name, int(r.Tier), "no recipe produces this resource")
		}
	}

	// Highest tier first; declared order within a tier.
	c.resolution = append([]Recipe(nil), c.recipes...)
	sort.SliceStable(c.resolution, func(i, j int) bool {
		return c.byName[c.resolution[i].Output].Tier > c.byName[c.resolution[j].Output].Tier
	})

	return c, nil
}

// Resources returns every resource in declared order
func (c *Catalog) Resources() []Resource {
	return append([]Resource(nil), c.resources...)
}

// Resource looks up a resource by name
func (c *Catalog) Resource(name string) (Resource, bool) {
	r, ok := c.byName[name]
	return r, ok
}

// ByTier returns the resources of a tier in declared order
func (c *Catalog) ByTier(t Tier) []Resource {
	return append([]Resource(nil), c.byTier[t]...)
}

// Basics returns the tier-1 resources, the only ones that appear on the grid
func (c *Catalog) Basics() []Resource {
	return c.ByTier(TierBasic)
}

// Super returns the single top-tier resource
func (c *Catalog) Super() Resource {
	return c.byTier[TierSuper][0]
}

// Recipes returns recipes in declared order
func (c *Catalog) Recipes() []Recipe {
	return append([]Recipe(nil), c.recipes...)
}

// ResolutionOrder returns recipes in the order combination applies them:
// the super recipe, then compounds, then materials.
func (c *Catalog) ResolutionOrder() []Recipe {
	return append([]Recipe(nil), c.resolution...)
}

// ProducedBy returns the recipe whose output is name
func (c *Catalog) ProducedBy(name string) (Recipe, bool) {
	r, ok := c.producedBy[name]
	return r, ok
}

// ConsumedBy returns the recipe that takes name as an input
func (c *Catalog) ConsumedBy(name string) (Recipe, bool) {
	r, ok := c.consumedBy[name]
	return r, ok
}

// Digest is the sha256 of the catalog source
func (c *Catalog) Digest() string {
	return c.digest
}
