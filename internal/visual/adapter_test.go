package visual

import (
	"testing"

	"aspectstudio/internal/domain"
)

func newFixture(t *testing.T) (*domain.Store, *Adapter) {
	t.Helper()
	s := domain.NewStore()
	return s, NewAdapter(s, NewHierarchicalLayout())
}

func addProperty(t *testing.T, s *domain.Store, name string) *domain.Property {
	t.Helper()
	p := domain.NewProperty(domain.URNFor(name), name)
	if err := s.Add(p); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return p
}

func addCharacteristic(t *testing.T, s *domain.Store, name string) *domain.Characteristic {
	t.Helper()
	c := domain.NewCharacteristic(domain.URNFor(name), name)
	if err := s.Add(c); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return c
}

func TestRenderModelElementReusesCell(t *testing.T) {
	s, a := newFixture(t)
	prop := addProperty(t, s, "property1")

	first := a.RenderModelElement(prop)
	second := a.RenderModelElement(prop)

	if first != second {
		t.Error("expected the same cell instance for the same URN")
	}
	if got := a.ResolveCellByModelElement(prop.URN); got != first {
		t.Error("expected index lookup to return the cell")
	}
}

func TestAssignToParent(t *testing.T) {
	t.Run("creates edge and domain relation", func(t *testing.T) {
		s, a := newFixture(t)
		prop := addProperty(t, s, "property1")
		char := addCharacteristic(t, s, "Characteristic1")
		a.RenderModelElement(prop)
		a.RenderModelElement(char)

		if err := a.AssignToParent(char.URN, prop.URN, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(a.OutgoingEdges(prop.URN)) != 1 {
			t.Errorf("expected 1 outgoing edge, got %d", len(a.OutgoingEdges(prop.URN)))
		}
		if !s.IsLinked(prop.URN, char.URN) {
			t.Error("expected domain relation to be established")
		}
	})

	t.Run("does not duplicate edge", func(t *testing.T) {
		s, a := newFixture(t)
		prop := addProperty(t, s, "property1")
		char := addCharacteristic(t, s, "Characteristic1")
		a.RenderModelElement(prop)
		a.RenderModelElement(char)

		a.AssignToParent(char.URN, prop.URN, "")
		a.AssignToParent(char.URN, prop.URN, "")

		if len(a.OutgoingEdges(prop.URN)) != 1 {
			t.Errorf("expected 1 edge after re-assign, got %d", len(a.OutgoingEdges(prop.URN)))
		}
	})

	t.Run("filtering mode skips domain relation", func(t *testing.T) {
		s, a := newFixture(t)
		prop := addProperty(t, s, "property1")
		char := addCharacteristic(t, s, "Characteristic1")
		a.RenderModelElement(prop)
		a.RenderModelElement(char)
		a.SetFiltering(true)

		a.AssignToParent(char.URN, prop.URN, "")

		if s.IsLinked(prop.URN, char.URN) {
			t.Error("expected no domain relation in filtering mode")
		}
		if len(a.OutgoingEdges(prop.URN)) != 1 {
			t.Error("expected the visual edge to exist")
		}
	})

	t.Run("rejects missing cells", func(t *testing.T) {
		s, a := newFixture(t)
		prop := addProperty(t, s, "property1")
		a.RenderModelElement(prop)

		if err := a.AssignToParent("ghost", prop.URN, ""); err == nil {
			t.Error("expected error for missing child cell")
		}
	})
}

func TestRemoveCells(t *testing.T) {
	t.Run("unlinks and removes cell with edges", func(t *testing.T) {
		s, a := newFixture(t)
		prop := addProperty(t, s, "property1")
		char := addCharacteristic(t, s, "Characteristic1")
		prop.CharacteristicURN = char.URN
		a.RenderModelElement(prop)
		a.RenderModelElement(char)
		a.AssignToParent(char.URN, prop.URN, "")

		a.RemoveCells([]string{char.URN}, true)

		if a.ResolveCellByModelElement(char.URN) != nil {
			t.Error("expected cell to be removed")
		}
		if len(a.OutgoingEdges(prop.URN)) != 0 {
			t.Error("expected edge to be removed")
		}
		if prop.CharacteristicURN != "" {
			t.Error("expected typed reference to be cleared")
		}
		if s.Has(char.URN) {
			t.Error("expected element to leave the store")
		}
	})

	t.Run("external reference cells are never mutated", func(t *testing.T) {
		s, a := newFixture(t)
		ext := domain.NewProperty(domain.URNFor("imported"), "imported")
		ext.ExternalRef = true
		if err := s.Add(ext); err != nil {
			t.Fatal(err)
		}
		a.RenderModelElement(ext)

		a.RemoveCells([]string{ext.URN}, true)

		if a.ResolveCellByModelElement(ext.URN) == nil {
			t.Error("expected external cell to survive")
		}
		if !s.Has(ext.URN) {
			t.Error("expected external element to survive")
		}
	})

	t.Run("predefined cell survives while another parent references it", func(t *testing.T) {
		s, a := newFixture(t)
		reg := domain.NewPredefinedRegistry()
		text, _ := reg.Characteristic("Text")
		if err := s.Add(text); err != nil {
			t.Fatal(err)
		}
		p1 := addProperty(t, s, "property1")
		p2 := addProperty(t, s, "property2")
		a.RenderModelElement(p1)
		a.RenderModelElement(p2)
		a.RenderModelElement(text)
		a.AssignToParent(text.URN, p1.URN, "")
		a.AssignToParent(text.URN, p2.URN, "")

		// drop p1's relation, then try removing the predefined cell
		s.Unlink(p1.URN, text.URN)
		a.RemoveEdge(p1.URN, text.URN)
		a.RemoveCells([]string{text.URN}, true)

		if a.ResolveCellByModelElement(text.URN) == nil {
			t.Error("expected predefined cell to survive with a live parent")
		}

		// once the last parent lets go the cell disappears, the definition stays
		s.Unlink(p2.URN, text.URN)
		a.RemoveCells([]string{text.URN}, true)
		if a.ResolveCellByModelElement(text.URN) != nil {
			t.Error("expected predefined cell to be removed once unreferenced")
		}
		if !s.Has(text.URN) {
			t.Error("predefined definition must never be deleted")
		}
	})

	t.Run("aspect cell can never be removed", func(t *testing.T) {
		s, a := newFixture(t)
		aspect := domain.NewAspect(domain.URNFor("Aspect1"), "Aspect1")
		if err := s.Add(aspect); err != nil {
			t.Fatal(err)
		}
		a.RenderModelElement(aspect)

		a.RemoveCells([]string{aspect.URN}, true)

		if a.ResolveCellByModelElement(aspect.URN) == nil {
			t.Error("expected aspect cell to survive")
		}
		if !s.Has(aspect.URN) {
			t.Error("expected aspect element to survive")
		}
	})

	t.Run("removing the last referencing parent drops the predefined cell", func(t *testing.T) {
		s, a := newFixture(t)
		reg := domain.NewPredefinedRegistry()
		text, _ := reg.Characteristic("Text")
		if err := s.Add(text); err != nil {
			t.Fatal(err)
		}
		prop := addProperty(t, s, "property1")
		prop.CharacteristicURN = text.URN
		a.RenderModelElement(prop)
		a.RenderModelElement(text)
		a.AssignToParent(text.URN, prop.URN, "")

		a.RemoveCells([]string{prop.URN}, true)

		if a.ResolveCellByModelElement(text.URN) != nil {
			t.Error("expected unreferenced predefined cell to disappear with its parent")
		}
		if !s.Has(text.URN) {
			t.Error("predefined definition must never be deleted")
		}
	})
}

func TestCollapsedMode(t *testing.T) {
	s, a := newFixture(t)
	prop := addProperty(t, s, "property1")
	a.RenderModelElement(prop)
	a.SetAnchor(prop.URN)

	a.SetCollapsedMode(true)

	cell := a.ResolveCellByModelElement(prop.URN)
	if !cell.Folded {
		t.Error("expected cell to fold in collapsed mode")
	}
	if a.Anchor() != prop.URN {
		t.Error("expected anchor to be preserved")
	}

	a.SetCollapsedMode(false)
	if cell.Folded {
		t.Error("expected cell to unfold")
	}
}

func TestUpdateTransactionBatching(t *testing.T) {
	s, a := newFixture(t)
	prop := addProperty(t, s, "property1")
	char := addCharacteristic(t, s, "Characteristic1")

	a.BeginUpdate()
	a.RenderModelElement(prop)
	a.RenderModelElement(char)
	a.BeginUpdate()
	a.AssignToParent(char.URN, prop.URN, "")
	if inner := a.EndUpdate(); inner != nil {
		t.Error("expected nested EndUpdate to release nothing")
	}
	changes := a.EndUpdate()

	if len(changes) != 3 {
		t.Errorf("expected 3 batched changes, got %d", len(changes))
	}
}

func TestOverlayPresenceInvariant(t *testing.T) {
	s, a := newFixture(t)
	prop := addProperty(t, s, "property1")
	char := addCharacteristic(t, s, "Characteristic1")
	a.RenderModelElement(prop)
	a.RenderModelElement(char)

	cell := a.ResolveCellByModelElement(prop.URN)
	if !hasAction(cell.Overlays, ActionAddCharacteristic) {
		t.Fatal("expected add-characteristic affordance before connecting")
	}

	prop.CharacteristicURN = char.URN
	a.AssignToParent(char.URN, prop.URN, "")
	a.RefreshOverlays(prop.URN)

	if hasAction(cell.Overlays, ActionAddCharacteristic) {
		t.Error("expected affordance to disappear after connecting")
	}

	prop.CharacteristicURN = ""
	s.Unlink(prop.URN, char.URN)
	a.RemoveEdge(prop.URN, char.URN)
	a.RefreshOverlays(prop.URN)

	if !hasAction(cell.Overlays, ActionAddCharacteristic) {
		t.Error("expected affordance to reappear after disconnecting")
	}
}

func TestPredefinedOverlays(t *testing.T) {
	s, _ := newFixture(t)
	reg := domain.NewPredefinedRegistry()
	text, _ := reg.Characteristic("Text")

	overlays := ComputeOverlays(s, text)

	if len(overlays) != 1 {
		t.Fatalf("expected exactly 1 overlay, got %d", len(overlays))
	}
	if overlays[0].Direction != OverlayTop || overlays[0].Action != ActionAddTrait {
		t.Errorf("expected only the top trait affordance, got %+v", overlays[0])
	}
}

func TestComplexEnumerationOverlay(t *testing.T) {
	s, _ := newFixture(t)
	enum := domain.NewEnumeration(domain.URNFor("Enumeration1"), "Enumeration1")
	entity := domain.NewEntity(domain.URNFor("Entity1"), "Entity1")
	if err := s.Add(enum); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(entity); err != nil {
		t.Fatal(err)
	}

	if !hasAction(ComputeOverlays(s, enum), ActionAddEntity) {
		t.Error("expected scalar enumeration to offer add-entity")
	}

	enum.DataTypeURN = entity.URN
	overlays := ComputeOverlays(s, enum)
	if !hasAction(overlays, ActionAddEntityValue) {
		t.Error("expected complex enumeration to offer add-entity-value")
	}
	if hasAction(overlays, ActionAddEntity) {
		t.Error("expected add-entity to disappear for complex enumeration")
	}
}

func hasAction(overlays []Overlay, action string) bool {
	for _, o := range overlays {
		if o.Action == action {
			return true
		}
	}
	return false
}
