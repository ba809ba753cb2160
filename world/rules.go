package world

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// ConditionKind identifies which of the three condition shapes a
// TransformationRule condition uses (spec.md §3 "Transformation rule").
type ConditionKind uint8

const (
	ConditionSurrounding ConditionKind = iota
	ConditionEnvironment
	ConditionSurroundingAttribute
)

// Condition is one clause a TransformationRule must satisfy.
type Condition struct {
	Kind ConditionKind

	// Surrounding / SurroundingAttribute
	Of       ElementID // Surrounding: neighbour type; SurroundingAttribute: unused
	Min, Max int        // bounds on the Moore-neighbourhood count

	// Environment
	Present bool      // true => element must be present within Radius; false => absent
	Radius  int

	// SurroundingAttribute
	Attribute string // e.g. "isFlammable", "isStatic"
	Value     bool
}

// TransformationRule is one entry in the transformation table (spec.md §3,
// §4.4).
type TransformationRule struct {
	From, To      ElementID
	Probability   float64
	Threshold     int32
	Conditions    []Condition
	Consumes      ElementID // EmptyElement (0) means "no consumes clause"
	HasConsumes   bool
	SpawnParticle ParticleKind
	HasSpawn      bool
}

// ParticleInteractionRule describes an ether-style particle deepening a
// cell (spec.md §3 "Particle-interaction rule").
type ParticleInteractionRule struct {
	Particle    ParticleKind
	From, To    ElementID
	Probability float64
}

// RuleRegistry holds every loaded transformation and particle-interaction
// rule, indexed for fast per-cell lookup by "from" type.
type RuleRegistry struct {
	byFrom      map[ElementID][]TransformationRule
	etherByFrom map[ElementID][]ParticleInteractionRule
}

type ruleJSON struct {
	Type string `json:"type"` // "particle_interaction", else a transformation rule

	// Transformation shape
	From        string           `json:"from"`
	To          string           `json:"to"`
	Probability float64          `json:"probability"`
	Threshold   int32            `json:"threshold"`
	Conditions  []conditionJSON  `json:"conditions"`
	Consumes    string           `json:"consumes"`
	SpawnParticle string         `json:"spawnParticle"`

	// particle_interaction shape
	Particle string `json:"particle"`
}

type conditionJSON struct {
	Kind      string `json:"kind"` // "surrounding" | "environment" | "surroundingAttribute"
	Of        string `json:"of"`
	Min       *int   `json:"min"`
	Max       *int   `json:"max"`
	Present   *bool  `json:"present"`
	Radius    int    `json:"radius"`
	Attribute string `json:"attribute"`
	Value     bool   `json:"value"`
}

// LoadRuleRegistry parses the mixed rule registry JSON document (spec.md
// §6 "Rule registry"). Rules naming an unknown element are dropped with a
// diagnostic rather than failing the whole load (spec.md §7:
// "rules with unknown names are dropped at load with a diagnostic").
func LoadRuleRegistry(data []byte, elements *ElementRegistry) (*RuleRegistry, error) {
	var raw []ruleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing rule registry: %v", ErrInvalidAsset, err)
	}

	reg := &RuleRegistry{
		byFrom:      make(map[ElementID][]TransformationRule),
		etherByFrom: make(map[ElementID][]ParticleInteractionRule),
	}

	for i, r := range raw {
		if r.Type == "particle_interaction" {
			pRule, ok := parseParticleInteraction(r, elements, i)
			if ok {
				reg.etherByFrom[pRule.From] = append(reg.etherByFrom[pRule.From], pRule)
			}
			continue
		}

		tRule, ok := parseTransformationRule(r, elements, i)
		if ok {
			reg.byFrom[tRule.From] = append(reg.byFrom[tRule.From], tRule)
		}
	}

	return reg, nil
}

func parseParticleInteraction(r ruleJSON, elements *ElementRegistry, idx int) (ParticleInteractionRule, bool) {
	kind, ok := ParseParticleKind(r.Particle)
	if !ok {
		slog.Warn("rule_registry: dropping particle_interaction with unknown particle", "index", idx, "particle", r.Particle)
		return ParticleInteractionRule{}, false
	}
	from, ok := elements.Lookup(r.From)
	if !ok {
		slog.Warn("rule_registry: dropping particle_interaction with unknown from element", "index", idx, "from", r.From)
		return ParticleInteractionRule{}, false
	}
	to, ok := elements.Lookup(r.To)
	if !ok {
		slog.Warn("rule_registry: dropping particle_interaction with unknown to element", "index", idx, "to", r.To)
		return ParticleInteractionRule{}, false
	}
	return ParticleInteractionRule{Particle: kind, From: from, To: to, Probability: r.Probability}, true
}

func parseTransformationRule(r ruleJSON, elements *ElementRegistry, idx int) (TransformationRule, bool) {
	from, ok := elements.Lookup(r.From)
	if !ok {
		slog.Warn("rule_registry: dropping rule with unknown from element", "index", idx, "from", r.From)
		return TransformationRule{}, false
	}
	to, ok := elements.Lookup(r.To)
	if !ok {
		slog.Warn("rule_registry: dropping rule with unknown to element", "index", idx, "to", r.To)
		return TransformationRule{}, false
	}

	rule := TransformationRule{
		From:        from,
		To:          to,
		Probability: r.Probability,
		Threshold:   r.Threshold,
	}
	if rule.Threshold <= 0 {
		rule.Threshold = 1
	}

	if r.Consumes != "" {
		consumes, ok := elements.Lookup(r.Consumes)
		if !ok {
			slog.Warn("rule_registry: dropping rule with unknown consumes element", "index", idx, "consumes", r.Consumes)
			return TransformationRule{}, false
		}
		rule.Consumes = consumes
		rule.HasConsumes = true
	}

	if r.SpawnParticle != "" {
		kind, ok := ParseParticleKind(r.SpawnParticle)
		if !ok {
			slog.Warn("rule_registry: dropping rule with unknown spawnParticle", "index", idx, "spawnParticle", r.SpawnParticle)
			return TransformationRule{}, false
		}
		rule.SpawnParticle = kind
		rule.HasSpawn = true
	}

	conds := make([]Condition, 0, len(r.Conditions))
	for _, cj := range r.Conditions {
		cond, ok := parseCondition(cj, elements, idx)
		if !ok {
			return TransformationRule{}, false
		}
		conds = append(conds, cond)
	}
	rule.Conditions = conds

	return rule, true
}

func parseCondition(cj conditionJSON, elements *ElementRegistry, idx int) (Condition, bool) {
	c := Condition{Radius: cj.Radius, Attribute: cj.Attribute, Value: cj.Value}

	switch cj.Kind {
	case "environment":
		c.Kind = ConditionEnvironment
		if cj.Present != nil {
			c.Present = *cj.Present
		} else {
			c.Present = true
		}
	case "surroundingAttribute":
		c.Kind = ConditionSurroundingAttribute
	default:
		c.Kind = ConditionSurrounding
	}

	if cj.Of != "" {
		of, ok := elements.Lookup(cj.Of)
		if !ok {
			slog.Warn("rule_registry: dropping rule with unknown condition element", "index", idx, "of", cj.Of)
			return Condition{}, false
		}
		c.Of = of
	}
	if cj.Min != nil {
		c.Min = *cj.Min
	}
	if cj.Max != nil {
		c.Max = *cj.Max
	} else {
		c.Max = 8 // Moore neighbourhood size; "no max" behaves as "any"
	}

	return c, true
}

// TransformationsFor returns the rules whose "from" matches id, in load
// order (spec.md §4.4: "the first rule whose conditions all hold is
// selected").
func (r *RuleRegistry) TransformationsFor(id ElementID) []TransformationRule {
	return r.byFrom[id]
}

// EtherRulesFor returns the particle-interaction rules for ether deepening
// a cell of the given type (spec.md §4.5.2).
func (r *RuleRegistry) EtherRulesFor(id ElementID) []ParticleInteractionRule {
	return r.etherByFrom[id]
}
