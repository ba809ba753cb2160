package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAsset marks a malformed element or rule registry entry
// (spec.md §7: InvalidAsset, fatal at load time).
var ErrInvalidAsset = errors.New("terraspiel: invalid asset")

// ErrUnknownElement marks a rule or placement that names an element the
// registry has no definition for (spec.md §7: UnknownElement).
var ErrUnknownElement = errors.New("terraspiel: unknown element")

// ElementRegistry is the read-only, load-time-fixed set of element
// definitions (spec.md §6 "Element registry").
type ElementRegistry struct {
	defs  []ElementDef
	byID  map[string]ElementID
	names []string // index-aligned with defs, names[0] unused (EMPTY)
}

// elementJSON mirrors the on-disk element registry shape (spec.md §6).
type elementJSON struct {
	Name              string             `json:"name"`
	Color             string             `json:"color"`
	Density           *float64           `json:"density"`
	State             string             `json:"state"`
	Fluidity          *fluidityJSON      `json:"fluidity"`
	HasColorVariation bool               `json:"hasColorVariation"`
	IsFlammable       bool               `json:"isFlammable"`
	IsStatic          bool               `json:"isStatic"`
	PartColors        map[string]string  `json:"partColors"`
}

type fluidityJSON struct {
	Resistance float64 `json:"resistance"`
	Spread     float64 `json:"spread"`
}

// LoadElementRegistry parses the element registry JSON document described
// in spec.md §6. Missing required fields are InvalidAsset errors; the whole
// load fails atomically so the caller never runs a tick against a partial
// registry.
func LoadElementRegistry(data []byte) (*ElementRegistry, error) {
	var raw []elementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing element registry: %v", ErrInvalidAsset, err)
	}

	reg := &ElementRegistry{
		byID:  make(map[string]ElementID, len(raw)+1),
		defs:  make([]ElementDef, 1, len(raw)+1), // index 0 reserved for EMPTY
		names: make([]string, 1, len(raw)+1),
	}
	reg.names[0] = "EMPTY"
	reg.byID["EMPTY"] = EmptyElement

	for _, e := range raw {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: element entry missing name", ErrInvalidAsset)
		}
		if e.Name == "EMPTY" {
			return nil, fmt.Errorf("%w: element %q: EMPTY is reserved", ErrInvalidAsset, e.Name)
		}
		if e.Density == nil || *e.Density < 0 {
			return nil, fmt.Errorf("%w: element %q: missing or negative density", ErrInvalidAsset, e.Name)
		}
		color, err := parseHexColor(e.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: element %q: %v", ErrInvalidAsset, e.Name, err)
		}

		def := ElementDef{
			Name:              e.Name,
			Color:             color,
			Density:           *e.Density,
			State:             parseMatterState(e.State),
			HasColorVariation: e.HasColorVariation,
			IsFlammable:       e.IsFlammable,
			IsStatic:          e.IsStatic,
		}
		if e.Fluidity != nil {
			def.Fluidity = &Fluidity{Resistance: e.Fluidity.Resistance, Spread: e.Fluidity.Spread}
		}
		if len(e.PartColors) > 0 {
			def.PartColors = make(map[string]RGB, len(e.PartColors))
			for part, hex := range e.PartColors {
				c, err := parseHexColor(hex)
				if err != nil {
					return nil, fmt.Errorf("%w: element %q partColors[%s]: %v", ErrInvalidAsset, e.Name, part, err)
				}
				def.PartColors[part] = c
			}
		}

		id := ElementID(len(reg.defs))
		reg.defs = append(reg.defs, def)
		reg.names = append(reg.names, e.Name)
		reg.byID[e.Name] = id
	}

	return reg, nil
}

func parseMatterState(s string) MatterState {
	switch strings.ToLower(s) {
	case "liquid":
		return StateLiquid
	case "gas":
		return StateGas
	case "particle":
		return StateParticle
	default:
		return StateSolid
	}
}

func parseHexColor(s string) (RGB, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("color %q: want #RRGGBB", s)
	}
	var r, g, b int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// Lookup resolves an element name to its ID. The bool is false for unknown
// names, letting callers apply spec.md §7's UnknownElement handling (reject
// at the boundary; never fatal to the tick).
func (r *ElementRegistry) Lookup(name string) (ElementID, bool) {
	id, ok := r.byID[name]
	return id, ok
}

// Def returns the definition for id. Panics on an out-of-range id, which
// would be an InvariantViolation (a rule or cell referencing a dropped
// element) rather than a recoverable condition.
func (r *ElementRegistry) Def(id ElementID) *ElementDef {
	return &r.defs[id]
}

// Name returns the element name for id, or "EMPTY".
func (r *ElementRegistry) Name(id ElementID) string {
	return r.names[id]
}

// Len returns the number of registered elements, including the reserved
// EMPTY slot.
func (r *ElementRegistry) Len() int {
	return len(r.defs)
}

// All iterates every non-EMPTY element ID in registration order.
func (r *ElementRegistry) All(fn func(ElementID, *ElementDef)) {
	for i := 1; i < len(r.defs); i++ {
		fn(ElementID(i), &r.defs[i])
	}
}
