package connection

import (
	"aspectstudio/internal/domain"
	"aspectstudio/internal/visual"
)

// RuleKind names the legal connection pair a classified gesture falls into.
type RuleKind string

const (
	RulePropertyAbstractProperty RuleKind = "property-abstract-property"
	RulePropertyProperty         RuleKind = "property-property"
	RulePropertyCharacteristic   RuleKind = "property-characteristic"
	RuleTraitChild               RuleKind = "trait-child"
	RuleEitherCharacteristic     RuleKind = "either-characteristic"
	RuleCollectionCharacteristic RuleKind = "collection-characteristic"
	RuleEnumerationEntityValue   RuleKind = "enumeration-entity-value"
	RuleQuantifiableUnit         RuleKind = "quantifiable-unit"
	RuleCharacteristicEntity     RuleKind = "characteristic-entity"
	RuleStructuredValueProperty  RuleKind = "structured-value-property"
	RuleEntityInheritance        RuleKind = "entity-inheritance"
	RuleEntityProperty           RuleKind = "entity-property"
	RuleAspectProperty           RuleKind = "aspect-property"
	RuleAspectOperation          RuleKind = "aspect-operation"
	RuleAspectEvent              RuleKind = "aspect-event"
	RuleOperationProperty        RuleKind = "operation-property"
	RuleEventProperty            RuleKind = "event-property"
	RuleConstraintChild          RuleKind = "constraint-child"
)

// ModelInfo disambiguates overloaded shapes: which Either slot a
// characteristic lands in, and whether a property feeds or leaves an
// operation.
type ModelInfo struct {
	EitherSide         string // "left" or "right"
	OperationDirection string // "input" or "output"
}

// rule is one entry of the ordered predicate table. First match wins, so
// refinements must precede the pairs they refine (property to abstract
// property sits above property to property).
type rule struct {
	kind  RuleKind
	match func(parent, child domain.ModelElement, info ModelInfo) bool
}

var rules = []rule{
	{RulePropertyAbstractProperty, func(p, c domain.ModelElement, _ ModelInfo) bool {
		pp, pok := p.(*domain.Property)
		cp, cok := c.(*domain.Property)
		return pok && cok && !pp.Abstract && cp.Abstract
	}},
	{RulePropertyProperty, func(p, c domain.ModelElement, _ ModelInfo) bool {
		pp, pok := p.(*domain.Property)
		cp, cok := c.(*domain.Property)
		return pok && cok && !pp.Abstract && !cp.Abstract
	}},
	{RulePropertyCharacteristic, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Property)
		return pok && domain.IsCharacteristic(c)
	}},
	{RuleTraitChild, func(p, c domain.ModelElement, _ ModelInfo) bool {
		if _, ok := p.(*domain.Trait); !ok {
			return false
		}
		if _, ok := c.(*domain.Constraint); ok {
			return true
		}
		return domain.IsCharacteristic(c)
	}},
	{RuleEitherCharacteristic, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Either)
		return pok && domain.IsCharacteristic(c)
	}},
	{RuleCollectionCharacteristic, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Collection)
		return pok && domain.IsCharacteristic(c)
	}},
	{RuleEnumerationEntityValue, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Enumeration)
		_, cok := c.(*domain.EntityValue)
		return pok && cok
	}},
	{RuleQuantifiableUnit, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Quantifiable)
		_, cok := c.(*domain.Unit)
		return pok && cok
	}},
	{RuleCharacteristicEntity, func(p, c domain.ModelElement, _ ModelInfo) bool {
		// traits and eithers never carry a dataType themselves
		switch p.(type) {
		case *domain.Trait, *domain.Either:
			return false
		}
		_, cok := c.(*domain.Entity)
		return cok && domain.IsCharacteristic(p)
	}},
	{RuleStructuredValueProperty, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.StructuredValue)
		cp, cok := c.(*domain.Property)
		return pok && cok && !cp.Abstract
	}},
	{RuleEntityInheritance, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Entity)
		_, cok := c.(*domain.Entity)
		return pok && cok
	}},
	{RuleEntityProperty, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Entity)
		_, cok := c.(*domain.Property)
		return pok && cok
	}},
	{RuleAspectProperty, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Aspect)
		_, cok := c.(*domain.Property)
		return pok && cok
	}},
	{RuleAspectOperation, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Aspect)
		_, cok := c.(*domain.Operation)
		return pok && cok
	}},
	{RuleAspectEvent, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Aspect)
		_, cok := c.(*domain.Event)
		return pok && cok
	}},
	{RuleOperationProperty, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Operation)
		_, cok := c.(*domain.Property)
		return pok && cok
	}},
	{RuleEventProperty, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Event)
		_, cok := c.(*domain.Property)
		return pok && cok
	}},
	// constraints are leaves: any child offered to one is a silent no-op
	{RuleConstraintChild, func(p, c domain.ModelElement, _ ModelInfo) bool {
		_, pok := p.(*domain.Constraint)
		return pok
	}},
}

// mayParent says which element kinds may semantically parent which, for
// selection normalization.
var mayParent = map[domain.Kind][]domain.Kind{
	domain.KindAspect:   {domain.KindProperty, domain.KindOperation, domain.KindEvent},
	domain.KindProperty: {domain.KindProperty, domain.KindCharacteristic, domain.KindTrait, domain.KindEither, domain.KindCollection, domain.KindEnumeration, domain.KindStructuredValue, domain.KindQuantifiable},
	domain.KindEntity:   {domain.KindProperty, domain.KindEntity},
	domain.KindOperation: {domain.KindProperty},
	domain.KindEvent:     {domain.KindProperty},
	domain.KindCharacteristic: {domain.KindEntity},
	domain.KindTrait:          {domain.KindCharacteristic, domain.KindEither, domain.KindCollection, domain.KindEnumeration, domain.KindStructuredValue, domain.KindQuantifiable, domain.KindConstraint},
	domain.KindEither:         {domain.KindCharacteristic, domain.KindTrait, domain.KindCollection, domain.KindEnumeration, domain.KindStructuredValue, domain.KindQuantifiable},
	domain.KindCollection:     {domain.KindCharacteristic, domain.KindTrait, domain.KindEither, domain.KindEnumeration, domain.KindStructuredValue, domain.KindQuantifiable},
	domain.KindEnumeration:    {domain.KindEntity, domain.KindEntityValue},
	domain.KindStructuredValue: {domain.KindProperty},
	domain.KindQuantifiable:    {domain.KindEntity, domain.KindUnit},
}

func kindMayParent(parent, child domain.Kind) bool {
	for _, k := range mayParent[parent] {
		if k == child {
			return true
		}
	}
	return false
}

// Engine classifies and applies connection gestures. All mutations flow
// through the adapter so the element graph and the diagram stay in step.
type Engine struct {
	store   *domain.Store
	adapter *visual.Adapter
}

// NewEngine creates an engine over the adapter's store.
func NewEngine(adapter *visual.Adapter) *Engine {
	return &Engine{store: adapter.Store(), adapter: adapter}
}

// NormalizeSelection orders a selected pair into (parent, child) using the
// may-parent table. A pair already ordered stays as selected: in particular
// Property before StructuredValue is never swapped, because the structured
// value is semantically a child of the owning property even though it can
// parent properties itself.
func NormalizeSelection(first, second domain.ModelElement) (domain.ModelElement, domain.ModelElement) {
	fp, fok := first.(*domain.Property)
	if fok && !fp.Abstract {
		if _, ok := second.(*domain.StructuredValue); ok {
			return first, second
		}
	}
	if kindMayParent(first.Kind(), second.Kind()) {
		return first, second
	}
	if kindMayParent(second.Kind(), first.Kind()) {
		return second, first
	}
	return first, second
}

// Classify runs the ordered predicate table over the pair. No matching rule
// yields a non-fatal notice.
func (e *Engine) Classify(parent, child domain.ModelElement, info ModelInfo) (RuleKind, error) {
	for _, r := range rules {
		if r.match(parent, child, info) {
			classifiedTotal.WithLabelValues(string(r.kind)).Inc()
			return r.kind, nil
		}
	}
	return "", reject(SeverityNotice, msgCannotConnect)
}

// Connect classifies the pair and applies its handler. External reference
// elements are rejected before any handler runs.
func (e *Engine) Connect(parentURN, childURN string, info ModelInfo) error {
	parent, ok := e.store.Get(parentURN)
	if !ok {
		return reject(SeverityError, msgCannotConnect)
	}
	child, ok := e.store.Get(childURN)
	if !ok {
		return reject(SeverityError, msgCannotConnect)
	}
	if parent.Base().ExternalRef {
		return reject(SeverityError, msgExternalRef)
	}

	kind, err := e.Classify(parent, child, info)
	if err != nil {
		rejectedTotal.Inc()
		return err
	}
	h, ok := handlers[kind]
	if !ok {
		rejectedTotal.Inc()
		return reject(SeverityNotice, msgCannotConnect)
	}
	if err := h(e, parent, child, info); err != nil {
		rejectedTotal.Inc()
		return err
	}
	appliedTotal.WithLabelValues(string(kind)).Inc()
	return nil
}

// ConnectSelected normalizes a two-element selection and connects it.
func (e *Engine) ConnectSelected(selection []string, info ModelInfo) error {
	if len(selection) != 2 {
		return reject(SeverityError, msgSelectTwo)
	}
	first, ok := e.store.Get(selection[0])
	if !ok {
		return reject(SeverityError, msgCannotConnect)
	}
	second, ok := e.store.Get(selection[1])
	if !ok {
		return reject(SeverityError, msgCannotConnect)
	}
	parent, child := NormalizeSelection(first, second)
	return e.Connect(parent.Base().URN, child.Base().URN, info)
}

// ensureCell guarantees the element has an adapter cell, creating one when
// the element was produced as a handler side effect.
func (e *Engine) ensureCell(el domain.ModelElement) {
	if e.adapter.ResolveCellByModelElement(el.Base().URN) == nil {
		e.adapter.RenderModelElement(el)
	}
}

// attach draws the parent->child edge (and relation) through the adapter.
func (e *Engine) attach(parent, child domain.ModelElement) {
	e.ensureCell(parent)
	e.ensureCell(child)
	e.adapter.AssignToParent(child.Base().URN, parent.Base().URN, "")
}

// detach removes the edge and the relation between the pair.
func (e *Engine) detach(parentURN, childURN string) {
	e.adapter.RemoveEdge(parentURN, childURN)
	e.store.Unlink(parentURN, childURN)
}
