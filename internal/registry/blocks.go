package registry

import (
	"fmt"

	"terramesh/internal/config"
	"terramesh/internal/world"

	"golang.org/x/exp/slices"
)

// BlockDefinition defines the properties of a block type
type BlockDefinition struct {
	ID           world.Block
	Name         string
	Texture      string
	Mesh         world.MeshType
	Transparency world.Transparency
}

// Registry collects block definitions and the textures they reference. It is
// filled at startup and frozen into a world.BlockTable.
type Registry struct {
	blocks       map[world.Block]*BlockDefinition
	blockNames   map[string]world.Block
	textureNames []string
	textureMap   map[string]int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		blocks:     make(map[world.Block]*BlockDefinition),
		blockNames: make(map[string]world.Block),
		textureMap: make(map[string]int),
	}
}

// RegisterBlock adds def. Ids and names must be unique.
func (r *Registry) RegisterBlock(def *BlockDefinition) error {
	if _, ok := r.blocks[def.ID]; ok {
		return fmt.Errorf("block id %d already registered", def.ID)
	}
	if _, ok := r.blockNames[def.Name]; ok {
		return fmt.Errorf("block name %q already registered", def.Name)
	}
	if def.Texture == "" {
		def.Texture = def.Name
	}
	r.blocks[def.ID] = def
	r.blockNames[def.Name] = def.ID
	r.registerTexture(def.Texture)
	return nil
}

func (r *Registry) registerTexture(name string) {
	if name == "" {
		return
	}
	if _, exists := r.textureMap[name]; !exists {
		r.textureMap[name] = len(r.textureNames)
		r.textureNames = append(r.textureNames, name)
	}
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*BlockDefinition, bool) {
	id, ok := r.blockNames[name]
	if !ok {
		return nil, false
	}
	return r.blocks[id], true
}

// TextureNames lists registered textures in atlas order.
func (r *Registry) TextureNames() []string {
	out := make([]string, len(r.textureNames))
	copy(out, r.textureNames)
	return out
}

// TextureID returns the atlas index of a texture name.
func (r *Registry) TextureID(name string) (int, bool) {
	id, ok := r.textureMap[name]
	return id, ok
}

// ApplyOverrides rewrites named blocks from configuration. Unknown names are an error.
func (r *Registry) ApplyOverrides(overrides map[string]config.BlockOverride) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	// Sorted so new textures get deterministic atlas slots.
	slices.Sort(names)

	for _, name := range names {
		o := overrides[name]
		def, ok := r.Lookup(name)
		if !ok {
			return fmt.Errorf("override for unknown block %q", name)
		}
		if o.Mesh != "" {
			m, err := world.ParseMeshType(o.Mesh)
			if err != nil {
				return fmt.Errorf("block %s: %w", name, err)
			}
			def.Mesh = m
		}
		if o.Transparency != "" {
			t, err := world.ParseTransparency(o.Transparency)
			if err != nil {
				return fmt.Errorf("block %s: %w", name, err)
			}
			def.Transparency = t
		}
		if o.Texture != "" {
			def.Texture = o.Texture
			r.registerTexture(o.Texture)
		}
	}
	return nil
}

// Table freezes the registry. Ids must form the dense range [0, n).
func (r *Registry) Table() (*world.BlockTable, error) {
	props := make([]world.BlockProperties, len(r.blocks))
	for id, def := range r.blocks {
		if int(id) >= len(props) {
			return nil, fmt.Errorf("block ids are not dense: %s has id %d of %d", def.Name, id, len(props))
		}
		props[id] = world.BlockProperties{
			TextureID:    uint32(r.textureMap[def.Texture]),
			Mesh:         def.Mesh,
			Transparency: def.Transparency,
		}
	}
	return world.NewBlockTable(props), nil
}

// Default registers the terrain blocks the sampler produces.
func Default() *Registry {
	r := New()
	defs := []*BlockDefinition{
		{ID: world.BlockGrass, Name: "grass", Mesh: world.MeshCube, Transparency: world.Opaque},
		{ID: world.BlockDirt, Name: "dirt", Mesh: world.MeshCube, Transparency: world.Opaque},
		{ID: world.BlockStone, Name: "stone", Mesh: world.MeshCube, Transparency: world.Opaque},
		{ID: world.BlockSand, Name: "sand", Mesh: world.MeshCube, Transparency: world.Opaque},
		{ID: world.BlockFlower, Name: "flower", Mesh: world.MeshCross, Transparency: world.Transparent},
		{ID: world.BlockRareFlower, Name: "rare_flower", Mesh: world.MeshCross, Transparency: world.Transparent},
		{ID: world.BlockWater, Name: "water", Mesh: world.MeshFluid, Transparency: world.Translucent},
	}
	for _, def := range defs {
		if err := r.RegisterBlock(def); err != nil {
			panic(err)
		}
	}
	return r
}
