package domain

import (
	"testing"
)

func TestStoreAdd(t *testing.T) {
	t.Run("adds and retrieves element", func(t *testing.T) {
		s := NewStore()
		prop := NewProperty(URNFor("property1"), "property1")
		if err := s.Add(prop); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, ok := s.Get(prop.URN)
		if !ok {
			t.Fatal("expected element to be found")
		}
		if got.Base().Name != "property1" {
			t.Errorf("expected name 'property1', got %s", got.Base().Name)
		}
	})

	t.Run("rejects duplicate URN", func(t *testing.T) {
		s := NewStore()
		if err := s.Add(NewProperty(URNFor("p"), "p")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := s.Add(NewProperty(URNFor("p"), "p")); err == nil {
			t.Error("expected duplicate URN to be rejected")
		}
	})

	t.Run("rejects empty URN", func(t *testing.T) {
		s := NewStore()
		if err := s.Add(NewProperty("", "p")); err == nil {
			t.Error("expected empty URN to be rejected")
		}
	})
}

func TestStoreLinkSymmetry(t *testing.T) {
	s := NewStore()
	aspect := NewAspect(URNFor("AspectDefault"), "AspectDefault")
	prop := NewProperty(URNFor("property1"), "property1")
	mustAdd(t, s, aspect, prop)

	t.Run("link records both sides", func(t *testing.T) {
		if err := s.Link(aspect.URN, prop.URN); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !containsString(s.Children(aspect.URN), prop.URN) {
			t.Error("expected property in aspect children")
		}
		if !containsString(s.Parents(prop.URN), aspect.URN) {
			t.Error("expected aspect in property parents")
		}
	})

	t.Run("relink is a no-op", func(t *testing.T) {
		if err := s.Link(aspect.URN, prop.URN); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(s.Children(aspect.URN)) != 1 {
			t.Errorf("expected 1 child, got %d", len(s.Children(aspect.URN)))
		}
		if len(s.Parents(prop.URN)) != 1 {
			t.Errorf("expected 1 parent, got %d", len(s.Parents(prop.URN)))
		}
	})

	t.Run("unlink clears both sides", func(t *testing.T) {
		s.Unlink(aspect.URN, prop.URN)
		if len(s.Children(aspect.URN)) != 0 {
			t.Error("expected aspect children to be empty")
		}
		if len(s.Parents(prop.URN)) != 0 {
			t.Error("expected property parents to be empty")
		}
	})

	t.Run("link rejects unknown URNs", func(t *testing.T) {
		if err := s.Link(aspect.URN, URNFor("ghost")); err == nil {
			t.Error("expected error for unknown child")
		}
		if err := s.Link(URNFor("ghost"), prop.URN); err == nil {
			t.Error("expected error for unknown parent")
		}
	})
}

func TestStoreRemove(t *testing.T) {
	t.Run("unlinks from all parents and clears typed reference", func(t *testing.T) {
		s := NewStore()
		prop := NewProperty(URNFor("property1"), "property1")
		char := NewCharacteristic(URNFor("Characteristic1"), "Characteristic1")
		mustAdd(t, s, prop, char)
		prop.CharacteristicURN = char.URN
		mustLink(t, s, prop.URN, char.URN)

		removed := s.Remove(char.URN)

		if len(removed) != 1 || removed[0] != char.URN {
			t.Errorf("expected [%s] removed, got %v", char.URN, removed)
		}
		if prop.CharacteristicURN != "" {
			t.Error("expected property characteristic reference to be cleared")
		}
		if len(s.Children(prop.URN)) != 0 {
			t.Error("expected relation to be removed")
		}
		if s.Has(char.URN) {
			t.Error("expected characteristic to be gone from store")
		}
	})

	t.Run("cascades orphaned entity values", func(t *testing.T) {
		s := NewStore()
		entity := NewEntity(URNFor("Entity1"), "Entity1")
		enum := NewEnumeration(URNFor("Enumeration1"), "Enumeration1")
		enum.DataTypeURN = entity.URN
		val := NewEntityValue(URNFor("Value1"), "Value1", entity.URN)
		mustAdd(t, s, entity, enum, val)
		enum.ValueURNs = []string{val.URN}
		mustLink(t, s, enum.URN, val.URN)

		removed := s.Remove(enum.URN)

		if !containsString(removed, val.URN) {
			t.Errorf("expected entity value to cascade, removed: %v", removed)
		}
		if s.Has(val.URN) {
			t.Error("expected entity value to be gone")
		}
	})

	t.Run("does not cascade children with remaining parents", func(t *testing.T) {
		s := NewStore()
		p1 := NewProperty(URNFor("property1"), "property1")
		p2 := NewProperty(URNFor("property2"), "property2")
		char := NewCharacteristic(URNFor("Shared"), "Shared")
		mustAdd(t, s, p1, p2, char)
		p1.CharacteristicURN = char.URN
		p2.CharacteristicURN = char.URN
		mustLink(t, s, p1.URN, char.URN)
		mustLink(t, s, p2.URN, char.URN)

		s.Remove(p1.URN)

		if !s.Has(char.URN) {
			t.Error("expected shared characteristic to survive")
		}
		if !containsString(s.Parents(char.URN), p2.URN) {
			t.Error("expected remaining parent relation to survive")
		}
	})

	t.Run("never removes predefined definitions", func(t *testing.T) {
		s := NewStore()
		reg := NewPredefinedRegistry()
		text, _ := reg.Characteristic("Text")
		mustAdd(t, s, text)

		removed := s.Remove(text.URN)

		if removed != nil {
			t.Errorf("expected no removal, got %v", removed)
		}
		if !s.Has(text.URN) {
			t.Error("expected predefined element to survive")
		}
	})
}

func TestStoreRename(t *testing.T) {
	t.Run("reindexes and rewrites references", func(t *testing.T) {
		s := NewStore()
		aspect := NewAspect(URNFor("AspectDefault"), "AspectDefault")
		prop := NewProperty(URNFor("property1"), "property1")
		mustAdd(t, s, aspect, prop)
		aspect.AddProperty(prop.URN)
		mustLink(t, s, aspect.URN, prop.URN)

		oldURN := prop.URN
		newURN, err := s.Rename(prop.URN, "speed")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if s.Has(oldURN) {
			t.Error("expected old URN to be unindexed")
		}
		got, ok := s.Get(newURN)
		if !ok || got.Base().Name != "speed" {
			t.Fatalf("expected renamed element under new URN")
		}
		if !aspect.HasProperty(newURN) {
			t.Error("expected aspect property list to be rewritten")
		}
		if !containsString(s.Children(aspect.URN), newURN) {
			t.Error("expected relation index to be rewritten")
		}
		if containsString(s.Children(aspect.URN), oldURN) {
			t.Error("expected old URN to leave the relation index")
		}
	})

	t.Run("rejects collision with existing URN", func(t *testing.T) {
		s := NewStore()
		mustAdd(t, s, NewProperty(URNFor("a"), "a"), NewProperty(URNFor("b"), "b"))
		if _, err := s.Rename(URNFor("a"), "b"); err == nil {
			t.Error("expected rename collision to be rejected")
		}
	})

	t.Run("rejects read-only elements", func(t *testing.T) {
		s := NewStore()
		ext := NewProperty(URNFor("imported"), "imported")
		ext.ExternalRef = true
		mustAdd(t, s, ext)
		if _, err := s.Rename(ext.URN, "other"); err == nil {
			t.Error("expected rename of external reference to be rejected")
		}
	})
}

func TestDuplicatePropertyName(t *testing.T) {
	s := NewStore()
	aspect := NewAspect(URNFor("AspectDefault"), "AspectDefault")
	p1 := NewProperty(URNFor("speed"), "speed")
	p2 := NewProperty(URNFor("torque"), "torque")
	mustAdd(t, s, aspect, p1, p2)
	aspect.AddProperty(p1.URN)
	aspect.AddProperty(p2.URN)

	t.Run("detects collision with sibling name", func(t *testing.T) {
		if !s.DuplicatePropertyName(aspect.URN, "speed", p2.URN) {
			t.Error("expected collision with sibling 'speed'")
		}
	})

	t.Run("ignores the property being renamed", func(t *testing.T) {
		if s.DuplicatePropertyName(aspect.URN, "speed", p1.URN) {
			t.Error("expected no collision when renaming to own name")
		}
	})

	t.Run("honors payload-name override", func(t *testing.T) {
		aspect.Properties[1].PayloadName = "velocity"
		if !s.DuplicatePropertyName(aspect.URN, "velocity", p1.URN) {
			t.Error("expected collision with payload name")
		}
	})
}

func TestLinkRejectsNestedEntityValueCycles(t *testing.T) {
	entityURN := URNFor("Result")

	t.Run("one-way nesting is allowed", func(t *testing.T) {
		s := NewStore()
		outer := NewEntityValue(URNFor("outer"), "outer", entityURN)
		inner := NewEntityValue(URNFor("inner"), "inner", entityURN)
		outer.SetAssertion(ValueAssertion{PropertyURN: URNFor("next"), ValueURN: inner.URN})
		mustAdd(t, s, outer, inner)

		mustLink(t, s, outer.URN, inner.URN)
		if !s.IsLinked(outer.URN, inner.URN) {
			t.Error("expected nesting link to be recorded")
		}
	})

	t.Run("mutual nesting is rejected", func(t *testing.T) {
		s := NewStore()
		v1 := NewEntityValue(URNFor("v1"), "v1", entityURN)
		v2 := NewEntityValue(URNFor("v2"), "v2", entityURN)
		v1.SetAssertion(ValueAssertion{PropertyURN: URNFor("next"), ValueURN: v2.URN})
		v2.SetAssertion(ValueAssertion{PropertyURN: URNFor("next"), ValueURN: v1.URN})
		mustAdd(t, s, v1, v2)

		if err := s.Link(v1.URN, v2.URN); err == nil {
			t.Error("expected mutual nesting to be rejected")
		}
		if s.IsLinked(v1.URN, v2.URN) {
			t.Error("rejected link must not be recorded")
		}
	})

	t.Run("self nesting is rejected", func(t *testing.T) {
		s := NewStore()
		v := NewEntityValue(URNFor("v"), "v", entityURN)
		v.SetAssertion(ValueAssertion{PropertyURN: URNFor("next"), ValueURN: v.URN})
		mustAdd(t, s, v)

		if err := s.Link(v.URN, v.URN); err == nil {
			t.Error("expected self nesting to be rejected")
		}
	})

	t.Run("deep cycles are rejected", func(t *testing.T) {
		s := NewStore()
		a := NewEntityValue(URNFor("a"), "a", entityURN)
		b := NewEntityValue(URNFor("b"), "b", entityURN)
		c := NewEntityValue(URNFor("c"), "c", entityURN)
		a.SetAssertion(ValueAssertion{PropertyURN: URNFor("next"), ValueURN: b.URN})
		b.SetAssertion(ValueAssertion{PropertyURN: URNFor("next"), ValueURN: c.URN})
		mustAdd(t, s, a, b, c)

		mustLink(t, s, a.URN, b.URN)
		mustLink(t, s, b.URN, c.URN)

		c.SetAssertion(ValueAssertion{PropertyURN: URNFor("next"), ValueURN: a.URN})
		if err := s.Link(c.URN, a.URN); err == nil {
			t.Error("expected closing the cycle to be rejected")
		}
	})
}

func mustAdd(t *testing.T, s *Store, els ...ModelElement) {
	t.Helper()
	for _, el := range els {
		if err := s.Add(el); err != nil {
			t.Fatalf("add %s: %v", el.Base().URN, err)
		}
	}
}

func mustLink(t *testing.T, s *Store, parent, child string) {
	t.Helper()
	if err := s.Link(parent, child); err != nil {
		t.Fatalf("link %s -> %s: %v", parent, child, err)
	}
}
