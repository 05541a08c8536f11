package service

import (
	"strings"
	"testing"

	"aspectstudio/internal/connection"
	"aspectstudio/internal/domain"
	"aspectstudio/internal/rdf"
	"aspectstudio/internal/visual"
	"aspectstudio/internal/vocabulary"
)

func newEditor(t *testing.T) (*EditorService, chan Event) {
	t.Helper()
	bus := NewEventBus()
	events := make(chan Event, 128)
	bus.Subscribe(events)
	return NewEditorService(nil, bus), events
}

func drain(events chan Event) []Event {
	var out []Event
	for {
		select {
		case ev := <-events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestNewDefaultModel(t *testing.T) {
	s, events := newEditor(t)

	if err := s.NewDefaultModel(); err != nil {
		t.Fatalf("default model: %v", err)
	}

	graph := s.Graph()
	if len(graph.Cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(graph.Cells))
	}
	if len(graph.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(graph.Edges))
	}
	aspect, ok := s.Store().Aspect()
	if !ok || aspect.Name != "AspectDefault" {
		t.Error("expected the default aspect")
	}

	var sawBatch, sawImport bool
	for _, ev := range drain(events) {
		switch ev.Type {
		case EventGraphChanged:
			sawBatch = true
		case EventModelImported:
			sawImport = true
		}
	}
	if !sawBatch || !sawImport {
		t.Error("expected a change batch and a model event")
	}
}

func TestConnectSelectedGesture(t *testing.T) {
	s, events := newEditor(t)
	if err := s.NewDefaultModel(); err != nil {
		t.Fatal(err)
	}
	propURN, err := s.CreateElement(domain.KindProperty, "speed")
	if err != nil {
		t.Fatal(err)
	}
	drain(events)

	aspect, _ := s.Store().Aspect()
	if err := s.ConnectSelected([]string{propURN, aspect.URN}, connection.ModelInfo{}); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if !aspect.HasProperty(propURN) {
		t.Error("expected the aspect to own the new property")
	}

	evs := drain(events)
	batches := 0
	for _, ev := range evs {
		if ev.Type == EventGraphChanged {
			batches++
		}
	}
	if batches != 1 {
		t.Errorf("expected one atomic change batch per gesture, got %d", batches)
	}
}

func TestConnectSelectedRejectionLeavesModelUntouched(t *testing.T) {
	s, _ := newEditor(t)
	if err := s.NewDefaultModel(); err != nil {
		t.Fatal(err)
	}
	aspect, _ := s.Store().Aspect()

	err := s.ConnectSelected([]string{aspect.URN}, connection.ModelInfo{})

	if _, ok := connection.IsRejection(err); !ok {
		t.Fatalf("expected a rejection, got %v", err)
	}
}

func TestTriggerOverlay(t *testing.T) {
	t.Run("add characteristic fills the property slot", func(t *testing.T) {
		s, _ := newEditor(t)
		propURN, err := s.CreateElement(domain.KindProperty, "speed")
		if err != nil {
			t.Fatal(err)
		}

		charURN, err := s.TriggerOverlay(propURN, visual.ActionAddCharacteristic)
		if err != nil {
			t.Fatal(err)
		}

		prop, _ := s.Store().Get(propURN)
		if prop.(*domain.Property).CharacteristicURN != charURN {
			t.Error("expected the characteristic assignment")
		}
	})

	t.Run("wrap in trait interposes between property and characteristic", func(t *testing.T) {
		s, _ := newEditor(t)
		if err := s.NewDefaultModel(); err != nil {
			t.Fatal(err)
		}
		charURN := domain.URNFor("Characteristic1")
		propURN := domain.URNFor("property1")

		traitURN, err := s.TriggerOverlay(charURN, visual.ActionAddTrait)
		if err != nil {
			t.Fatal(err)
		}

		prop, _ := s.Store().Get(propURN)
		if prop.(*domain.Property).CharacteristicURN != traitURN {
			t.Error("expected the property to point at the trait")
		}
		trait, _ := s.Store().Get(traitURN)
		if trait.(*domain.Trait).BaseCharacteristicURN != charURN {
			t.Error("expected the trait to wrap the characteristic")
		}
	})

	t.Run("either slots", func(t *testing.T) {
		s, _ := newEditor(t)
		eitherURN, err := s.CreateElement(domain.KindEither, "")
		if err != nil {
			t.Fatal(err)
		}

		leftURN, err := s.TriggerOverlay(eitherURN, visual.ActionAddLeft)
		if err != nil {
			t.Fatal(err)
		}
		rightURN, err := s.TriggerOverlay(eitherURN, visual.ActionAddRight)
		if err != nil {
			t.Fatal(err)
		}

		either, _ := s.Store().Get(eitherURN)
		e := either.(*domain.Either)
		if e.LeftURN != leftURN || e.RightURN != rightURN {
			t.Errorf("got left=%s right=%s", e.LeftURN, e.RightURN)
		}
	})
}

func TestCreateElementGeneratesNames(t *testing.T) {
	s, _ := newEditor(t)

	first, err := s.CreateElement(domain.KindCharacteristic, "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.CreateElement(domain.KindCharacteristic, "")
	if err != nil {
		t.Fatal(err)
	}

	if domain.LocalName(first) != "Characteristic1" || domain.LocalName(second) != "Characteristic2" {
		t.Errorf("got %s and %s", first, second)
	}
}

func TestRenameElement(t *testing.T) {
	t.Run("renames and reindexes", func(t *testing.T) {
		s, _ := newEditor(t)
		if err := s.NewDefaultModel(); err != nil {
			t.Fatal(err)
		}

		newURN, err := s.RenameElement(domain.URNFor("property1"), "speed")
		if err != nil {
			t.Fatal(err)
		}

		if domain.LocalName(newURN) != "speed" {
			t.Errorf("got %s", newURN)
		}
		if s.Store().Has(domain.URNFor("property1")) {
			t.Error("expected the old URN to be gone")
		}
		found := false
		for _, cell := range s.Graph().Cells {
			if cell.URN == newURN {
				found = true
			}
		}
		if !found {
			t.Error("expected the cell to follow the rename")
		}
	})

	t.Run("rejects a duplicate sibling name", func(t *testing.T) {
		s, _ := newEditor(t)
		if err := s.NewDefaultModel(); err != nil {
			t.Fatal(err)
		}
		otherURN, err := s.CreateElement(domain.KindProperty, "speed")
		if err != nil {
			t.Fatal(err)
		}
		aspect, _ := s.Store().Aspect()
		if err := s.ConnectSelected([]string{aspect.URN, otherURN}, connection.ModelInfo{}); err != nil {
			t.Fatal(err)
		}

		if _, err := s.RenameElement(domain.URNFor("property1"), "speed"); err == nil {
			t.Error("expected a duplicate-name rejection")
		}
	})
}

func TestDeleteCellsCascades(t *testing.T) {
	s, _ := newEditor(t)
	if err := s.NewDefaultModel(); err != nil {
		t.Fatal(err)
	}

	s.DeleteCells([]string{domain.URNFor("property1")})

	if s.Store().Has(domain.URNFor("property1")) {
		t.Error("expected the property to be deleted")
	}
	if s.Store().Has(domain.URNFor("Characteristic1")) {
		t.Error("expected the orphaned characteristic to cascade")
	}
	if !s.Store().Has(domain.URNFor("AspectDefault")) {
		t.Error("expected the aspect to survive")
	}
}

func TestDeleteCellsNeverDeletesAspect(t *testing.T) {
	s, _ := newEditor(t)
	if err := s.NewDefaultModel(); err != nil {
		t.Fatal(err)
	}
	aspectURN := domain.URNFor("AspectDefault")

	s.DeleteCells([]string{aspectURN})

	if !s.Store().Has(aspectURN) {
		t.Error("expected the aspect element to survive a delete gesture")
	}
	if !cellPresent(s.Graph(), aspectURN) {
		t.Error("expected the aspect cell to survive a delete gesture")
	}

	// A mixed selection still deletes everything else.
	s.DeleteCells([]string{aspectURN, domain.URNFor("property1")})
	if s.Store().Has(domain.URNFor("property1")) {
		t.Error("expected the property to be deleted")
	}
	if !s.Store().Has(aspectURN) {
		t.Error("expected the aspect to survive a mixed delete")
	}
}

func TestAddExternalElements(t *testing.T) {
	s, _ := newEditor(t)
	if err := s.NewDefaultModel(); err != nil {
		t.Fatal(err)
	}

	ext, err := rdf.ParseExternal([]byte(`@prefix : <urn:samm:com.example:2.0.0#> .
@prefix samm: <` + vocabulary.Samm + `> .
@prefix xsd: <` + vocabulary.XSD + `> .

:Fleet a samm:Aspect ;
   samm:properties ( :capacity ) .

:capacity a samm:Property ;
   samm:characteristic :Capacity .

:Capacity a samm:Characteristic ;
   samm:dataType xsd:int .
`))
	if err != nil {
		t.Fatalf("parse external: %v", err)
	}

	added, err := s.AddExternalElements(ext)
	if err != nil {
		t.Fatalf("add external: %v", err)
	}
	if len(added) == 0 {
		t.Fatal("expected external elements to be added")
	}

	fleetURN := "urn:samm:com.example:2.0.0#Fleet"
	el, ok := s.Store().Get(fleetURN)
	if !ok {
		t.Fatal("external aspect not merged into store")
	}
	if !el.Base().ExternalRef {
		t.Fatal("merged element lost its external flag")
	}

	graph := s.Graph()
	if !cellPresent(graph, fleetURN) {
		t.Fatal("external aspect not drawn")
	}
	for _, cell := range graph.Cells {
		if strings.HasPrefix(cell.URN, "urn:samm:com.example:") && !cell.ReadOnly {
			t.Errorf("external cell %s should be read-only", cell.URN)
		}
	}

	// external cells refuse deletion
	s.DeleteCells([]string{fleetURN})
	if !s.Store().Has(fleetURN) {
		t.Fatal("external element must survive delete")
	}
	if !cellPresent(s.Graph(), fleetURN) {
		t.Fatal("external cell must survive delete")
	}

	// resolving the same file again is a no-op
	again, err := s.AddExternalElements(ext)
	if err != nil {
		t.Fatalf("re-add external: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no new elements on re-add, got %v", again)
	}
}

func cellPresent(g *visual.Graph, urn string) bool {
	for _, cell := range g.Cells {
		if cell.URN == urn {
			return true
		}
	}
	return false
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := newEditor(t)
	if err := s.NewDefaultModel(); err != nil {
		t.Fatal(err)
	}

	data, err := s.ExportModel()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(data), ":AspectDefault") {
		t.Errorf("expected the aspect in the document:\n%s", data)
	}

	other, _ := newEditor(t)
	if err := other.ImportModel(data); err != nil {
		t.Fatalf("import: %v", err)
	}

	aspect, ok := other.Store().Aspect()
	if !ok || aspect.Name != "AspectDefault" {
		t.Error("expected the aspect to round-trip")
	}
	if len(other.Graph().Cells) != len(s.Graph().Cells) {
		t.Error("expected the diagram to be redrawn with the same cells")
	}
}

func TestApplyViolations(t *testing.T) {
	s, events := newEditor(t)
	if err := s.NewDefaultModel(); err != nil {
		t.Fatal(err)
	}
	drain(events)

	s.ApplyViolations([]Violation{{URN: domain.URNFor("property1"), Message: "missing description"}})

	var highlighted bool
	for _, cell := range s.Graph().Cells {
		if cell.URN == domain.URNFor("property1") && cell.Highlight == "red" {
			highlighted = true
		}
	}
	if !highlighted {
		t.Error("expected a red validation stroke")
	}

	s.ApplyViolations(nil)
	for _, cell := range s.Graph().Cells {
		if cell.Highlight != "" {
			t.Errorf("expected %s to be cleared", cell.URN)
		}
	}
}
