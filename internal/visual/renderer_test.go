package visual

import (
	"testing"

	"aspectstudio/internal/domain"
)

// buildDefaultModel builds the starter model shape: aspect -> property ->
// characteristic, fully linked.
func buildDefaultModel(t *testing.T, s *domain.Store) (*domain.Aspect, *domain.Property, *domain.Characteristic) {
	t.Helper()
	aspect := domain.NewAspect(domain.URNFor("AspectDefault"), "AspectDefault")
	prop := domain.NewProperty(domain.URNFor("property1"), "property1")
	char := domain.NewCharacteristic(domain.URNFor("Characteristic1"), "Characteristic1")
	for _, el := range []domain.ModelElement{aspect, prop, char} {
		if err := s.Add(el); err != nil {
			t.Fatal(err)
		}
	}
	aspect.AddProperty(prop.URN)
	prop.CharacteristicURN = char.URN
	return aspect, prop, char
}

func TestRenderModel(t *testing.T) {
	s, a := newFixture(t)
	aspect, prop, char := buildDefaultModel(t, s)
	r := NewRenderer(a)

	if err := r.RenderModel(); err != nil {
		t.Fatalf("render model: %v", err)
	}

	for _, urn := range []string{aspect.URN, prop.URN, char.URN} {
		if a.ResolveCellByModelElement(urn) == nil {
			t.Errorf("expected a cell for %s", urn)
		}
	}
	if len(a.OutgoingEdges(aspect.URN)) != 1 {
		t.Error("expected aspect -> property edge")
	}
	if len(a.OutgoingEdges(prop.URN)) != 1 {
		t.Error("expected property -> characteristic edge")
	}
	if !s.IsLinked(aspect.URN, prop.URN) || !s.IsLinked(prop.URN, char.URN) {
		t.Error("expected rendering to establish the relations")
	}
}

func TestRenderModelSkipsUnreferencedPredefined(t *testing.T) {
	s, a := newFixture(t)
	buildDefaultModel(t, s)
	reg := domain.NewPredefinedRegistry()
	text, _ := reg.Characteristic("Text")
	if err := s.Add(text); err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(a)

	if err := r.RenderModel(); err != nil {
		t.Fatalf("render model: %v", err)
	}

	if a.ResolveCellByModelElement(text.URN) != nil {
		t.Error("expected parentless predefined definition to stay off canvas")
	}
}

func TestRenderRecursiveModelTerminates(t *testing.T) {
	s, a := newFixture(t)
	// Entity1 -> property2 -> EntityCharacteristic -> Entity1
	entity := domain.NewEntity(domain.URNFor("Entity1"), "Entity1")
	prop := domain.NewProperty(domain.URNFor("property2"), "property2")
	char := domain.NewCharacteristic(domain.URNFor("EntityCharacteristic"), "EntityCharacteristic")
	for _, el := range []domain.ModelElement{entity, prop, char} {
		if err := s.Add(el); err != nil {
			t.Fatal(err)
		}
	}
	entity.AddProperty(prop.URN)
	prop.CharacteristicURN = char.URN
	char.DataTypeURN = entity.URN
	r := NewRenderer(a)

	cell, err := r.Render(entity.URN, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if cell == nil {
		t.Fatal("expected a root cell")
	}

	if got := len(a.CellURNs()); got != 3 {
		t.Errorf("expected 3 cells for the cycle, got %d", got)
	}
	// the back edge closes the loop without a second Entity1 cell
	if len(a.OutgoingEdges(char.URN)) != 1 {
		t.Error("expected characteristic -> entity back edge")
	}
}

func TestRenderSharedCharacteristicOnce(t *testing.T) {
	s, a := newFixture(t)
	aspect := domain.NewAspect(domain.URNFor("AspectDefault"), "AspectDefault")
	p1 := domain.NewProperty(domain.URNFor("property1"), "property1")
	p2 := domain.NewProperty(domain.URNFor("property2"), "property2")
	char := domain.NewCharacteristic(domain.URNFor("Shared"), "Shared")
	for _, el := range []domain.ModelElement{aspect, p1, p2, char} {
		if err := s.Add(el); err != nil {
			t.Fatal(err)
		}
	}
	aspect.AddProperty(p1.URN)
	aspect.AddProperty(p2.URN)
	p1.CharacteristicURN = char.URN
	p2.CharacteristicURN = char.URN
	r := NewRenderer(a)

	if err := r.RenderModel(); err != nil {
		t.Fatalf("render model: %v", err)
	}

	if got := len(a.CellURNs()); got != 4 {
		t.Errorf("expected 4 cells, got %d", got)
	}
	if len(a.IncomingEdges(char.URN)) != 2 {
		t.Error("expected both properties to reach the shared cell")
	}
}

func TestRenderMissingElement(t *testing.T) {
	_, a := newFixture(t)
	r := NewRenderer(a)

	if _, err := r.Render("urn:samm:org.eclipse.examples:1.0.0#ghost", ""); err == nil {
		t.Error("expected an error for an unknown element")
	}
}
