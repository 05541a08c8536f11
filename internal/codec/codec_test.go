package codec

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"aspectstudio/internal/domain"
	"aspectstudio/internal/vocabulary"

	"gopkg.in/yaml.v3"
)

func buildStore(t *testing.T) *domain.Store {
	t.Helper()
	store := domain.NewStore()

	aspect := domain.NewAspect(domain.URNFor("Movement"), "Movement")
	prop := domain.NewProperty(domain.URNFor("speed"), "speed")
	char := domain.NewCharacteristic(domain.URNFor("Speed"), "Speed")
	char.DataTypeURN = vocabulary.ScalarIRI("float")
	for _, el := range []domain.ModelElement{aspect, prop, char} {
		if err := store.Add(el); err != nil {
			t.Fatalf("add %s: %v", el.Base().Name, err)
		}
	}
	aspect.AddProperty(prop.URN)
	prop.CharacteristicURN = char.URN
	store.Link(aspect.URN, prop.URN)
	store.Link(prop.URN, char.URN)
	return store
}

func TestByFormat(t *testing.T) {
	for format, want := range map[string]string{
		"ttl": "ttl", "turtle": "ttl", "json": "json", "yaml": "yaml", "yml": "yaml",
	} {
		exp := ByFormat(format)
		if exp == nil || exp.Format() != want {
			t.Errorf("ByFormat(%q) = %v, want %s codec", format, exp, want)
		}
	}
	if ByFormat("xml") != nil {
		t.Error("expected nil for unknown format")
	}
}

func TestTurtleExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTurtleCodec().Export(buildStore(t), &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "samm:Aspect") || !strings.Contains(out, ":Movement") {
		t.Fatalf("turtle output missing aspect: %q", out)
	}
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONCodec().Export(buildStore(t), &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	var elements []flatElement
	if err := json.Unmarshal(buf.Bytes(), &elements); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}
	byName := map[string]flatElement{}
	for _, el := range elements {
		byName[el.Name] = el
	}
	if byName["Movement"].Kind != "aspect" {
		t.Errorf("Movement kind = %q", byName["Movement"].Kind)
	}
	if len(byName["speed"].Children) != 1 {
		t.Errorf("speed children = %v", byName["speed"].Children)
	}
}

func TestYAMLExport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLCodec().Export(buildStore(t), &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	var elements []flatElement
	if err := yaml.Unmarshal(buf.Bytes(), &elements); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}
}
