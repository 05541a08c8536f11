package service

import (
	"fmt"
	"sync"

	"aspectstudio/internal/connection"
	"aspectstudio/internal/domain"
	"aspectstudio/internal/rdf"
	"aspectstudio/internal/visual"
	"aspectstudio/internal/vocabulary"
)

// EditorService orchestrates all model-editing gestures. Every public method
// runs under one mutex and wraps its mutations in a single adapter update
// transaction, so the batched changes broadcast per gesture are observed
// atomically by every connected client.
type EditorService struct {
	mu sync.Mutex

	store    *domain.Store
	adapter  *visual.Adapter
	renderer *visual.Renderer
	engine   *connection.Engine
	predef   *domain.PredefinedRegistry
	eventBus *EventBus
}

// NewEditorService creates an editor over a fresh empty model.
func NewEditorService(layout visual.LayoutStrategy, eventBus *EventBus) *EditorService {
	s := &EditorService{predef: domain.NewPredefinedRegistry(), eventBus: eventBus}
	s.reset(domain.NewStore(), layout)
	return s
}

// reset rebinds the editing stack to a store. Callers hold the mutex.
func (s *EditorService) reset(store *domain.Store, layout visual.LayoutStrategy) {
	if layout == nil && s.adapter != nil {
		layout = s.adapter.Layout()
	}
	s.store = store
	s.adapter = visual.NewAdapter(store, layout)
	s.renderer = visual.NewRenderer(s.adapter)
	s.engine = connection.NewEngine(s.adapter)
}

// Store returns the backing element store.
func (s *EditorService) Store() *domain.Store { return s.store }

// Graph returns the current visual graph snapshot.
func (s *EditorService) Graph() *visual.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adapter.Snapshot()
}

// NewDefaultModel replaces the model with the starter shape: an aspect with
// one property and one string characteristic.
func (s *EditorService) NewDefaultModel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store := domain.NewStore()
	aspect := domain.NewAspect(domain.URNFor("AspectDefault"), "AspectDefault")
	prop := domain.NewProperty(domain.URNFor("property1"), "property1")
	char := domain.NewCharacteristic(domain.URNFor("Characteristic1"), "Characteristic1")
	char.DataTypeURN = vocabulary.ScalarIRI("string")
	for _, el := range []domain.ModelElement{aspect, prop, char} {
		if err := store.Add(el); err != nil {
			return fmt.Errorf("default model: %w", err)
		}
	}
	aspect.AddProperty(prop.URN)
	prop.CharacteristicURN = char.URN

	s.reset(store, nil)
	s.adapter.BeginUpdate()
	err := s.renderer.RenderModel()
	s.publishChanges(s.adapter.EndUpdate())
	if err != nil {
		return err
	}
	s.eventBus.Publish(Event{Type: EventModelImported})
	return nil
}

// ConnectSelected classifies and connects a two-cell selection.
func (s *EditorService) ConnectSelected(selection []string, info connection.ModelInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adapter.BeginUpdate()
	err := s.engine.ConnectSelected(selection, info)
	s.publishChanges(s.adapter.EndUpdate())
	if err != nil {
		return err
	}
	s.eventBus.Publish(Event{
		Type:    EventEdgeConnected,
		Payload: map[string]interface{}{"selection": selection},
	})
	return nil
}

// CreateElement drops a new element of the given kind on the canvas. The
// name, when empty, is generated from the kind.
func (s *EditorService) CreateElement(kind domain.Kind, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adapter.BeginUpdate()
	el, err := s.createElement(kind, name)
	s.publishChanges(s.adapter.EndUpdate())
	if err != nil {
		return "", err
	}
	s.eventBus.Publish(Event{
		Type:    EventElementCreated,
		Payload: map[string]string{"urn": el.Base().URN, "kind": string(kind)},
	})
	return el.Base().URN, nil
}

func (s *EditorService) createElement(kind domain.Kind, name string) (domain.ModelElement, error) {
	if name == "" {
		name = s.freeName(defaultNamePrefix(kind))
	}
	urn := domain.URNFor(name)
	el, err := newElement(kind, urn, name)
	if err != nil {
		return nil, err
	}
	if err := s.store.Add(el); err != nil {
		return nil, err
	}
	s.adapter.RenderModelElement(el)
	return el, nil
}

// TriggerOverlay handles a click on a cell's add affordance: it creates the
// canonical child for the action and connects it in the same transaction.
func (s *EditorService) TriggerOverlay(urn string, action string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.store.Get(urn)
	if !ok {
		return "", fmt.Errorf("overlay action on %s: not in store", urn)
	}

	s.adapter.BeginUpdate()
	childURN, err := s.applyOverlayAction(owner, action)
	s.publishChanges(s.adapter.EndUpdate())
	if err != nil {
		return "", err
	}
	s.eventBus.Publish(Event{
		Type:    EventElementCreated,
		Payload: map[string]string{"urn": childURN, "owner": urn, "action": action},
	})
	return childURN, nil
}

func (s *EditorService) applyOverlayAction(owner domain.ModelElement, action string) (string, error) {
	ownerURN := owner.Base().URN
	connect := func(child domain.ModelElement, info connection.ModelInfo) (string, error) {
		if err := s.engine.Connect(ownerURN, child.Base().URN, info); err != nil {
			return "", err
		}
		return child.Base().URN, nil
	}

	switch action {
	case visual.ActionAddProperty:
		el, err := s.createElement(domain.KindProperty, "")
		if err != nil {
			return "", err
		}
		return connect(el, connection.ModelInfo{})

	case visual.ActionAddCharacteristic:
		el, err := s.createElement(domain.KindCharacteristic, "")
		if err != nil {
			return "", err
		}
		return connect(el, connection.ModelInfo{})

	case visual.ActionAddConstraint:
		el, err := s.createElement(domain.KindConstraint, "")
		if err != nil {
			return "", err
		}
		return connect(el, connection.ModelInfo{})

	case visual.ActionAddEntity:
		el, err := s.createElement(domain.KindEntity, "")
		if err != nil {
			return "", err
		}
		return connect(el, connection.ModelInfo{})

	case visual.ActionAddEntityValue:
		enum, ok := owner.(*domain.Enumeration)
		if !ok || !enum.Complex() {
			return "", fmt.Errorf("overlay action %s: %s is not a complex enumeration", action, ownerURN)
		}
		name := s.freeName("EntityValue")
		value := domain.NewEntityValue(domain.URNFor(name), name, enum.DataTypeURN)
		if err := s.store.Add(value); err != nil {
			return "", err
		}
		s.adapter.RenderModelElement(value)
		return connect(value, connection.ModelInfo{})

	case visual.ActionAddLeft:
		el, err := s.createElement(domain.KindCharacteristic, "")
		if err != nil {
			return "", err
		}
		return connect(el, connection.ModelInfo{EitherSide: "left"})

	case visual.ActionAddRight:
		el, err := s.createElement(domain.KindCharacteristic, "")
		if err != nil {
			return "", err
		}
		return connect(el, connection.ModelInfo{EitherSide: "right"})

	case visual.ActionAddInput:
		el, err := s.createElement(domain.KindProperty, "")
		if err != nil {
			return "", err
		}
		return connect(el, connection.ModelInfo{OperationDirection: "input"})

	case visual.ActionAddOutput:
		el, err := s.createElement(domain.KindProperty, "")
		if err != nil {
			return "", err
		}
		return connect(el, connection.ModelInfo{OperationDirection: "output"})

	case visual.ActionAddTrait:
		return s.wrapInTrait(owner)
	}
	return "", fmt.Errorf("overlay action %s: unknown action", action)
}

// wrapInTrait interposes a new trait between a characteristic and the
// properties that currently use it: property -> characteristic becomes
// property -> trait -> characteristic.
func (s *EditorService) wrapInTrait(owner domain.ModelElement) (string, error) {
	if !domain.IsCharacteristic(owner) {
		return "", fmt.Errorf("wrap in trait: %s is not a characteristic", owner.Base().URN)
	}
	ownerURN := owner.Base().URN

	var owningProps []string
	for _, parentURN := range s.store.Parents(ownerURN) {
		if parent, ok := s.store.Get(parentURN); ok {
			if p, ok := parent.(*domain.Property); ok && p.CharacteristicURN == ownerURN {
				owningProps = append(owningProps, parentURN)
			}
		}
	}

	trait, err := s.createElement(domain.KindTrait, "")
	if err != nil {
		return "", err
	}
	if err := s.engine.Connect(trait.Base().URN, ownerURN, connection.ModelInfo{}); err != nil {
		return "", err
	}
	for _, propURN := range owningProps {
		if err := s.engine.Connect(propURN, trait.Base().URN, connection.ModelInfo{}); err != nil {
			return "", err
		}
	}
	return trait.Base().URN, nil
}

// DeleteCells removes the selected cells with their edges and cascades.
func (s *EditorService) DeleteCells(urns []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adapter.BeginUpdate()
	s.adapter.RemoveCells(urns, true)
	s.publishChanges(s.adapter.EndUpdate())
	s.eventBus.Publish(Event{
		Type:    EventElementDeleted,
		Payload: map[string]interface{}{"urns": urns},
	})
}

// RenameElement renames an element, rejecting a name already carried by a
// sibling property in any owning aspect or entity.
func (s *EditorService) RenameElement(urn, newName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ownerURN := range s.store.Parents(urn) {
		if s.store.DuplicatePropertyName(ownerURN, newName, urn) {
			return "", fmt.Errorf("rename %s: name %q already used in %s", urn, newName, domain.LocalName(ownerURN))
		}
	}

	s.adapter.BeginUpdate()
	newURN, err := s.store.Rename(urn, newName)
	if err == nil {
		s.adapter.RenameCell(urn, newURN)
		s.adapter.RefreshAllOverlays()
	}
	s.publishChanges(s.adapter.EndUpdate())
	if err != nil {
		return "", err
	}
	s.eventBus.Publish(Event{
		Type:    EventElementRenamed,
		Payload: map[string]string{"old": urn, "new": newURN},
	})
	return newURN, nil
}

// SetCollapsed toggles the display mode, keeping the anchor cell visible.
func (s *EditorService) SetCollapsed(collapsed bool, anchorURN string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adapter.BeginUpdate()
	if anchorURN != "" {
		s.adapter.SetAnchor(anchorURN)
	}
	s.adapter.SetCollapsedMode(collapsed)
	s.publishChanges(s.adapter.EndUpdate())
}

// RenderElement draws an existing model element and its subtree onto the
// canvas, for elements added to the store without a gesture.
func (s *EditorService) RenderElement(urn string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adapter.BeginUpdate()
	_, err := s.renderer.Render(urn, "")
	if err != nil {
		s.adapter.EndUpdate()
		return err
	}
	s.adapter.FormatShapes()
	s.publishChanges(s.adapter.EndUpdate())
	return nil
}

// CellPosition is one saved cell placement sent by the browser.
type CellPosition struct {
	URN string  `json:"urn"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

// MoveCells applies dragged or restored cell placements without reflowing.
func (s *EditorService) MoveCells(positions []CellPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adapter.BeginUpdate()
	for _, p := range positions {
		s.adapter.MoveCell(p.URN, p.X, p.Y)
	}
	s.publishChanges(s.adapter.EndUpdate())
}

// Format reflows the diagram, optionally switching the layout strategy.
func (s *EditorService) Format(layoutName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adapter.BeginUpdate()
	if layoutName != "" {
		s.adapter.SetLayout(visual.LayoutByName(layoutName))
	}
	s.adapter.FormatShapes()
	s.publishChanges(s.adapter.EndUpdate())
}

// ExportModel serializes the current model to Turtle.
func (s *EditorService) ExportModel() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rdf.Serialize(s.store)
}

// ImportModel replaces the current model with a parsed Turtle document and
// redraws the whole diagram.
func (s *EditorService) ImportModel(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := rdf.Parse(data)
	if err != nil {
		return fmt.Errorf("import model: %w", err)
	}
	s.reset(store, nil)

	s.adapter.BeginUpdate()
	err = s.renderer.RenderModel()
	s.publishChanges(s.adapter.EndUpdate())
	if err != nil {
		return err
	}
	s.eventBus.Publish(Event{Type: EventModelImported})
	return nil
}

// AddExternalElements merges a resolved namespace file into the current
// model and draws its root subtrees. Elements whose URN is already present
// are skipped, so re-resolving the same file is a no-op. The added elements
// keep their external-ref flag: read-only cells, excluded from cascades.
func (s *EditorService) AddExternalElements(ext *domain.Store) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []string
	for _, el := range ext.Elements() {
		urn := el.Base().URN
		if s.store.Has(urn) {
			continue
		}
		if err := s.store.Add(el); err != nil {
			return nil, fmt.Errorf("add external %s: %w", urn, err)
		}
		added = append(added, urn)
	}
	for _, el := range ext.Elements() {
		parentURN := el.Base().URN
		for _, childURN := range ext.Children(parentURN) {
			if !s.store.Has(parentURN) || !s.store.Has(childURN) {
				continue
			}
			if err := s.store.Link(parentURN, childURN); err != nil {
				return nil, fmt.Errorf("link external %s: %w", parentURN, err)
			}
		}
	}

	s.adapter.BeginUpdate()
	for _, el := range ext.Elements() {
		urn := el.Base().URN
		if el.Base().Predefined || len(ext.Parents(urn)) > 0 {
			continue
		}
		if _, err := s.renderer.Render(urn, ""); err != nil {
			s.adapter.EndUpdate()
			return nil, err
		}
	}
	s.adapter.FormatShapes()
	s.publishChanges(s.adapter.EndUpdate())

	if len(added) > 0 {
		s.eventBus.Publish(Event{
			Type:    EventElementCreated,
			Payload: map[string]interface{}{"urns": added, "external": true},
		})
	}
	return added, nil
}

// Violation is one validator finding mapped back onto a cell.
type Violation struct {
	URN     string `json:"urn"`
	Message string `json:"message"`
}

// ApplyViolations repaints validation strokes from a finished run.
func (s *EditorService) ApplyViolations(violations []Violation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adapter.BeginUpdate()
	s.adapter.ClearHighlights()
	for _, v := range violations {
		s.adapter.SetHighlight(v.URN, "red")
	}
	s.publishChanges(s.adapter.EndUpdate())
	s.eventBus.Publish(Event{
		Type:    EventValidationFinished,
		Payload: map[string]int{"violations": len(violations)},
	})
}

func (s *EditorService) publishChanges(changes []visual.Change) {
	if len(changes) == 0 {
		return
	}
	s.eventBus.Publish(Event{Type: EventGraphChanged, Payload: changes})
}

func (s *EditorService) freeName(prefix string) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", prefix, i)
		if !s.store.Has(domain.URNFor(name)) {
			return name
		}
	}
}

// newElement constructs an element of the given kind.
func newElement(kind domain.Kind, urn, name string) (domain.ModelElement, error) {
	switch kind {
	case domain.KindAspect:
		return domain.NewAspect(urn, name), nil
	case domain.KindProperty:
		return domain.NewProperty(urn, name), nil
	case domain.KindCharacteristic:
		return domain.NewCharacteristic(urn, name), nil
	case domain.KindTrait:
		return domain.NewTrait(urn, name), nil
	case domain.KindEither:
		return domain.NewEither(urn, name), nil
	case domain.KindCollection:
		return domain.NewCollection(urn, name, domain.ClassCollection), nil
	case domain.KindEnumeration:
		return domain.NewEnumeration(urn, name), nil
	case domain.KindStructuredValue:
		return domain.NewStructuredValue(urn, name), nil
	case domain.KindQuantifiable:
		return domain.NewQuantifiable(urn, name, domain.ClassQuantifiable), nil
	case domain.KindEntity:
		return domain.NewEntity(urn, name), nil
	case domain.KindConstraint:
		return domain.NewConstraint(urn, name, domain.ClassPlainConstraint), nil
	case domain.KindOperation:
		return domain.NewOperation(urn, name), nil
	case domain.KindEvent:
		return domain.NewEvent(urn, name), nil
	case domain.KindUnit:
		return domain.NewUnit(urn, name), nil
	}
	return nil, fmt.Errorf("create element: unsupported kind %s", kind)
}

func defaultNamePrefix(kind domain.Kind) string {
	switch kind {
	case domain.KindAspect:
		return "Aspect"
	case domain.KindProperty:
		return "property"
	case domain.KindCharacteristic:
		return "Characteristic"
	case domain.KindTrait:
		return "Trait"
	case domain.KindEither:
		return "Either"
	case domain.KindCollection:
		return "Collection"
	case domain.KindEnumeration:
		return "Enumeration"
	case domain.KindStructuredValue:
		return "StructuredValue"
	case domain.KindQuantifiable:
		return "Quantifiable"
	case domain.KindEntity:
		return "Entity"
	case domain.KindConstraint:
		return "Constraint"
	case domain.KindOperation:
		return "operation"
	case domain.KindEvent:
		return "event"
	case domain.KindUnit:
		return "Unit"
	}
	return "Element"
}
