package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aspectstudio/internal/domain"
	"aspectstudio/internal/vocabulary"
)

func buildDefaultModel(t *testing.T) *domain.Store {
	t.Helper()
	s := domain.NewStore()
	aspect := domain.NewAspect(domain.URNFor("AspectDefault"), "AspectDefault")
	prop := domain.NewProperty(domain.URNFor("property1"), "property1")
	char := domain.NewCharacteristic(domain.URNFor("Characteristic1"), "Characteristic1")
	char.DataTypeURN = vocabulary.ScalarIRI("string")

	require.NoError(t, s.Add(aspect))
	require.NoError(t, s.Add(prop))
	require.NoError(t, s.Add(char))

	aspect.AddProperty(prop.URN)
	prop.CharacteristicURN = char.URN
	require.NoError(t, s.Link(aspect.URN, prop.URN))
	require.NoError(t, s.Link(prop.URN, char.URN))
	return s
}

func TestSerializeDefaultModel(t *testing.T) {
	s := buildDefaultModel(t)

	out, err := Serialize(s)
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, ":AspectDefault a samm:Aspect")
	assert.Contains(t, doc, "samm:properties ( :property1 )")
	assert.Contains(t, doc, ":property1 a samm:Property")
	assert.Contains(t, doc, "samm:characteristic :Characteristic1")
	assert.Contains(t, doc, ":Characteristic1 a samm:Characteristic")
	assert.Contains(t, doc, "samm:dataType xsd:string")
}

func TestRoundTripDefaultModel(t *testing.T) {
	s := buildDefaultModel(t)

	out, err := Serialize(s)
	require.NoError(t, err)

	parsed, err := Parse(out)
	require.NoError(t, err)

	aspect, ok := parsed.Aspect()
	require.True(t, ok, "expected aspect after reparse")
	assert.Equal(t, "AspectDefault", aspect.Name)
	require.Len(t, aspect.Properties, 1)

	propEl, ok := parsed.Get(aspect.Properties[0].URN)
	require.True(t, ok)
	prop := propEl.(*domain.Property)
	assert.Equal(t, "property1", prop.Name)

	charEl, ok := parsed.Get(prop.CharacteristicURN)
	require.True(t, ok)
	char := charEl.(*domain.Characteristic)
	assert.Equal(t, "Characteristic1", char.Name)
	assert.Equal(t, vocabulary.ScalarIRI("string"), char.DataTypeURN)

	// relation symmetry must survive the round trip
	assert.Contains(t, parsed.Children(aspect.URN), prop.URN)
	assert.Contains(t, parsed.Parents(prop.URN), aspect.URN)
}

func TestRecursiveEntitySerialization(t *testing.T) {
	// Characteristic1 typed to Entity1 whose property2/property3 both use
	// Characteristic1 again: must serialize one shared characteristic, not
	// two copies, and must not loop.
	s := domain.NewStore()
	aspect := domain.NewAspect(domain.URNFor("AspectDefault"), "AspectDefault")
	p1 := domain.NewProperty(domain.URNFor("property1"), "property1")
	char := domain.NewCharacteristic(domain.URNFor("Characteristic1"), "Characteristic1")
	entity := domain.NewEntity(domain.URNFor("Entity1"), "Entity1")
	p2 := domain.NewProperty(domain.URNFor("property2"), "property2")
	p3 := domain.NewProperty(domain.URNFor("property3"), "property3")
	for _, el := range []domain.ModelElement{aspect, p1, char, entity, p2, p3} {
		require.NoError(t, s.Add(el))
	}
	aspect.AddProperty(p1.URN)
	p1.CharacteristicURN = char.URN
	char.DataTypeURN = entity.URN
	entity.AddProperty(p2.URN)
	entity.AddProperty(p3.URN)
	p2.CharacteristicURN = char.URN
	p3.CharacteristicURN = char.URN
	require.NoError(t, s.Link(aspect.URN, p1.URN))
	require.NoError(t, s.Link(p1.URN, char.URN))
	require.NoError(t, s.Link(char.URN, entity.URN))
	require.NoError(t, s.Link(entity.URN, p2.URN))
	require.NoError(t, s.Link(entity.URN, p3.URN))
	require.NoError(t, s.Link(p2.URN, char.URN))
	require.NoError(t, s.Link(p3.URN, char.URN))

	out, err := Serialize(s)
	require.NoError(t, err)
	doc := string(out)

	assert.Equal(t, 1, strings.Count(doc, ":Characteristic1 a samm:Characteristic"),
		"shared characteristic must be emitted exactly once")
	assert.Equal(t, 3, strings.Count(doc, "samm:characteristic :Characteristic1 ."),
		"all three properties must point at the single shared characteristic")

	parsed, err := Parse(out)
	require.NoError(t, err)
	p2Parsed, ok := parsed.Get(p2.URN)
	require.True(t, ok)
	p3Parsed, ok := parsed.Get(p3.URN)
	require.True(t, ok)
	assert.Equal(t, char.URN, p2Parsed.(*domain.Property).CharacteristicURN)
	assert.Equal(t, char.URN, p3Parsed.(*domain.Property).CharacteristicURN)
}

func TestSeeReferenceEscaping(t *testing.T) {
	s := domain.NewStore()
	aspect := domain.NewAspect(domain.URNFor("AspectDefault"), "AspectDefault")
	aspect.See = []string{"https://example.com/a doc#frag"}
	require.NoError(t, s.Add(aspect))

	out, err := Serialize(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<https://example.com/a%20doc#frag>")

	parsed, err := Parse(out)
	require.NoError(t, err)
	reparsed, ok := parsed.Aspect()
	require.True(t, ok)
	require.Len(t, reparsed.See, 1)
	assert.Equal(t, "https://example.com/a doc#frag", reparsed.See[0])
}

func TestParseOptionalPropertyEntry(t *testing.T) {
	s := buildDefaultModel(t)
	aspect, _ := s.Aspect()
	aspect.Properties[0].Optional = true
	aspect.Properties[0].PayloadName = "prop"

	out, err := Serialize(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[ samm:property :property1 ; samm:optional true ; samm:payloadName \"prop\" ]")

	parsed, err := Parse(out)
	require.NoError(t, err)
	reparsed, ok := parsed.Aspect()
	require.True(t, ok)
	require.Len(t, reparsed.Properties, 1)
	assert.True(t, reparsed.Properties[0].Optional)
	assert.Equal(t, "prop", reparsed.Properties[0].PayloadName)
}

func TestParseLegacyPrefixes(t *testing.T) {
	doc := `@prefix : <urn:samm:org.eclipse.examples:1.0.0#> .
@prefix bamm: <` + vocabulary.Bamm + `> .
@prefix bamm-c: <` + vocabulary.BammC + `> .
@prefix xsd: <` + vocabulary.XSD + `> .

:AspectDefault a bamm:Aspect ;
   bamm:properties ( :property1 ) ;
   bamm:operations ( ) .

:property1 a bamm:Property ;
   bamm:characteristic :Characteristic1 .

:Characteristic1 a bamm:Characteristic ;
   bamm:dataType xsd:string .
`
	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)

	aspect, ok := parsed.Aspect()
	require.True(t, ok)
	require.Len(t, aspect.Properties, 1)
	prop, ok := parsed.Get(aspect.Properties[0].URN)
	require.True(t, ok)
	assert.Equal(t, "Characteristic1", domain.LocalName(prop.(*domain.Property).CharacteristicURN))
}

func TestParseTraitAndConstraint(t *testing.T) {
	doc := `@prefix : <urn:samm:org.eclipse.examples:1.0.0#> .
@prefix samm: <` + vocabulary.Samm + `> .
@prefix samm-c: <` + vocabulary.SammC + `> .
@prefix xsd: <` + vocabulary.XSD + `> .

:Trait1 a samm-c:Trait ;
   samm-c:baseCharacteristic samm-c:Text ;
   samm-c:constraint :Constraint1 .

:Constraint1 a samm-c:RangeConstraint ;
   samm-c:minValue "0" ;
   samm-c:maxValue "100" .
`
	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)

	traitEl, ok := parsed.Get("urn:samm:org.eclipse.examples:1.0.0#Trait1")
	require.True(t, ok)
	trait := traitEl.(*domain.Trait)
	assert.Equal(t, vocabulary.SammC+"Text", trait.BaseCharacteristicURN)

	// the predefined Text characteristic must be registered as such
	text, ok := parsed.Get(vocabulary.SammC + "Text")
	require.True(t, ok)
	assert.True(t, text.Base().Predefined)

	c, ok := parsed.Get("urn:samm:org.eclipse.examples:1.0.0#Constraint1")
	require.True(t, ok)
	constraint := c.(*domain.Constraint)
	assert.Equal(t, "0", constraint.MinValue)
	assert.Equal(t, "100", constraint.MaxValue)
	assert.Contains(t, parsed.Children(trait.URN), constraint.URN)
}

func TestParseEntityValues(t *testing.T) {
	doc := `@prefix : <urn:samm:org.eclipse.examples:1.0.0#> .
@prefix samm: <` + vocabulary.Samm + `> .
@prefix samm-c: <` + vocabulary.SammC + `> .
@prefix xsd: <` + vocabulary.XSD + `> .

:Entity1 a samm:Entity ;
   samm:properties ( :code ) .

:code a samm:Property .

:Enumeration1 a samm-c:Enumeration ;
   samm:dataType :Entity1 ;
   samm-c:values ( :Value1 ) .

:Value1 a :Entity1 ;
   :code "A1" .
`
	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)

	v, ok := parsed.Get("urn:samm:org.eclipse.examples:1.0.0#Value1")
	require.True(t, ok)
	val := v.(*domain.EntityValue)
	assert.Equal(t, "urn:samm:org.eclipse.examples:1.0.0#Entity1", val.EntityURN)
	require.Len(t, val.Assertions, 1)
	assert.Equal(t, "A1", val.Assertions[0].Literal)

	enumEl, ok := parsed.Get("urn:samm:org.eclipse.examples:1.0.0#Enumeration1")
	require.True(t, ok)
	enum := enumEl.(*domain.Enumeration)
	assert.True(t, enum.Complex())
	assert.Equal(t, []string{val.URN}, enum.ValueURNs)
}

func TestParseRejectsCyclicEntityValues(t *testing.T) {
	doc := `@prefix : <urn:samm:org.eclipse.examples:1.0.0#> .
@prefix samm: <` + vocabulary.Samm + `> .
@prefix samm-c: <` + vocabulary.SammC + `> .
@prefix xsd: <` + vocabulary.XSD + `> .

:Result a samm:Entity ;
   samm:properties ( :next ) .

:next a samm:Property .

:Enumeration1 a samm-c:Enumeration ;
   samm:dataType :Result ;
   samm-c:values ( :v1 ) .

:v1 a :Result ;
   :next :v2 .

:v2 a :Result ;
   :next :v1 .
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
