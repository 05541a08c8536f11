package connection

import (
	"testing"

	"aspectstudio/internal/domain"
	"aspectstudio/internal/visual"
)

func newEngine(t *testing.T) (*domain.Store, *visual.Adapter, *Engine) {
	t.Helper()
	s := domain.NewStore()
	a := visual.NewAdapter(s, nil)
	return s, a, NewEngine(a)
}

func add(t *testing.T, s *domain.Store, el domain.ModelElement) {
	t.Helper()
	if err := s.Add(el); err != nil {
		t.Fatalf("add %s: %v", el.Base().URN, err)
	}
}

func TestClassify(t *testing.T) {
	_, _, e := newEngine(t)

	cases := []struct {
		name   string
		parent domain.ModelElement
		child  domain.ModelElement
		want   RuleKind
	}{
		{"property characteristic",
			domain.NewProperty(domain.URNFor("p"), "p"),
			domain.NewCharacteristic(domain.URNFor("c"), "c"),
			RulePropertyCharacteristic},
		{"property abstract property refines property property",
			domain.NewProperty(domain.URNFor("p"), "p"),
			domain.NewAbstractProperty(domain.URNFor("ap"), "ap"),
			RulePropertyAbstractProperty},
		{"property property",
			domain.NewProperty(domain.URNFor("p"), "p"),
			domain.NewProperty(domain.URNFor("q"), "q"),
			RulePropertyProperty},
		{"trait constraint",
			domain.NewTrait(domain.URNFor("t"), "t"),
			domain.NewConstraint(domain.URNFor("con"), "con", domain.ClassPlainConstraint),
			RuleTraitChild},
		{"trait characteristic",
			domain.NewTrait(domain.URNFor("t"), "t"),
			domain.NewCharacteristic(domain.URNFor("c"), "c"),
			RuleTraitChild},
		{"either characteristic",
			domain.NewEither(domain.URNFor("e"), "e"),
			domain.NewCharacteristic(domain.URNFor("c"), "c"),
			RuleEitherCharacteristic},
		{"collection characteristic",
			domain.NewCollection(domain.URNFor("col"), "col", domain.ClassList),
			domain.NewCharacteristic(domain.URNFor("c"), "c"),
			RuleCollectionCharacteristic},
		{"characteristic entity",
			domain.NewCharacteristic(domain.URNFor("c"), "c"),
			domain.NewEntity(domain.URNFor("E"), "E"),
			RuleCharacteristicEntity},
		{"quantifiable unit",
			domain.NewQuantifiable(domain.URNFor("q"), "q", domain.ClassMeasurement),
			domain.NewUnit(domain.URNFor("metre"), "metre"),
			RuleQuantifiableUnit},
		{"entity inheritance",
			domain.NewEntity(domain.URNFor("A"), "A"),
			domain.NewAbstractEntity(domain.URNFor("B"), "B"),
			RuleEntityInheritance},
		{"structured value property",
			domain.NewStructuredValue(domain.URNFor("sv"), "sv"),
			domain.NewProperty(domain.URNFor("p"), "p"),
			RuleStructuredValueProperty},
		{"aspect property",
			domain.NewAspect(domain.URNFor("A"), "A"),
			domain.NewProperty(domain.URNFor("p"), "p"),
			RuleAspectProperty},
		{"operation property",
			domain.NewOperation(domain.URNFor("op"), "op"),
			domain.NewProperty(domain.URNFor("p"), "p"),
			RuleOperationProperty},
		{"constraint swallows any child",
			domain.NewConstraint(domain.URNFor("con"), "con", domain.ClassPlainConstraint),
			domain.NewEntity(domain.URNFor("E"), "E"),
			RuleConstraintChild},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.Classify(tc.parent, tc.child, ModelInfo{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClassifyNoMatch(t *testing.T) {
	_, _, e := newEngine(t)
	unit := domain.NewUnit(domain.URNFor("metre"), "metre")
	entity := domain.NewEntity(domain.URNFor("E"), "E")

	_, err := e.Classify(unit, entity, ModelInfo{})

	rej, ok := IsRejection(err)
	if !ok {
		t.Fatalf("expected a rejection, got %v", err)
	}
	if rej.Severity != SeverityNotice {
		t.Errorf("expected a non-fatal notice, got %s", rej.Severity)
	}
	if rej.Message != "elements cannot be connected" {
		t.Errorf("unexpected message %q", rej.Message)
	}
}

func TestNormalizeSelection(t *testing.T) {
	t.Run("swaps characteristic before property", func(t *testing.T) {
		char := domain.NewCharacteristic(domain.URNFor("c"), "c")
		prop := domain.NewProperty(domain.URNFor("p"), "p")

		parent, child := NormalizeSelection(char, prop)

		if parent != domain.ModelElement(prop) || child != domain.ModelElement(char) {
			t.Error("expected property to become the parent")
		}
	})

	t.Run("keeps an already ordered pair", func(t *testing.T) {
		aspect := domain.NewAspect(domain.URNFor("A"), "A")
		prop := domain.NewProperty(domain.URNFor("p"), "p")

		parent, child := NormalizeSelection(aspect, prop)

		if parent != domain.ModelElement(aspect) || child != domain.ModelElement(prop) {
			t.Error("expected selection order to be kept")
		}
	})

	t.Run("never swaps property and structured value", func(t *testing.T) {
		prop := domain.NewProperty(domain.URNFor("p"), "p")
		sv := domain.NewStructuredValue(domain.URNFor("sv"), "sv")

		parent, child := NormalizeSelection(prop, sv)

		if parent != domain.ModelElement(prop) || child != domain.ModelElement(sv) {
			t.Error("expected the property to stay the parent")
		}
	})
}

func TestConnectSelected(t *testing.T) {
	t.Run("requires exactly two", func(t *testing.T) {
		s, _, e := newEngine(t)
		prop := domain.NewProperty(domain.URNFor("p"), "p")
		add(t, s, prop)

		err := e.ConnectSelected([]string{prop.URN}, ModelInfo{})

		rej, ok := IsRejection(err)
		if !ok || rej.Message != "select exactly two elements" {
			t.Errorf("expected select-two rejection, got %v", err)
		}
	})

	t.Run("normalizes before connecting", func(t *testing.T) {
		s, a, e := newEngine(t)
		prop := domain.NewProperty(domain.URNFor("p"), "p")
		char := domain.NewCharacteristic(domain.URNFor("c"), "c")
		add(t, s, prop)
		add(t, s, char)

		// characteristic selected first: engine must still treat the
		// property as the parent
		if err := e.ConnectSelected([]string{char.URN, prop.URN}, ModelInfo{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if prop.CharacteristicURN != char.URN {
			t.Error("expected the property to reference the characteristic")
		}
		if len(a.OutgoingEdges(prop.URN)) != 1 {
			t.Error("expected a property -> characteristic edge")
		}
	})
}

func TestConnectRejectsExternalParent(t *testing.T) {
	s, _, e := newEngine(t)
	prop := domain.NewProperty(domain.URNFor("p"), "p")
	prop.ExternalRef = true
	char := domain.NewCharacteristic(domain.URNFor("c"), "c")
	add(t, s, prop)
	add(t, s, char)

	err := e.Connect(prop.URN, char.URN, ModelInfo{})

	if _, ok := IsRejection(err); !ok {
		t.Fatalf("expected a rejection, got %v", err)
	}
	if prop.CharacteristicURN != "" {
		t.Error("expected no mutation on rejection")
	}
}

func TestConstraintChildIsSilentNoOp(t *testing.T) {
	s, a, e := newEngine(t)
	con := domain.NewConstraint(domain.URNFor("con"), "con", domain.ClassPlainConstraint)
	char := domain.NewCharacteristic(domain.URNFor("c"), "c")
	add(t, s, con)
	add(t, s, char)

	if err := e.Connect(con.URN, char.URN, ModelInfo{}); err != nil {
		t.Fatalf("expected silence, got %v", err)
	}
	if len(a.OutgoingEdges(con.URN)) != 0 {
		t.Error("expected no edge from a constraint")
	}
}
