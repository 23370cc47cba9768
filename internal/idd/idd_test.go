package idd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsConsistent(t *testing.T) {
	names := map[string]bool{}
	for _, typ := range Types() {
		s, ok := Lookup(typ)
		require.True(t, ok)
		assert.Equal(t, typ, s.Type, "schema keyed under the wrong type")
		assert.False(t, names[s.Name], "duplicate IDD name %s", s.Name)
		names[s.Name] = true

		require.NotEmpty(t, s.Fields, s.Name)
		assert.Equal(t, "Name", s.Fields[0].Name, s.Name)

		for _, f := range append(append([]Field{}, s.Fields...), s.Extensible...) {
			switch f.Type {
			case FieldChoice:
				if f.Default != "" {
					assert.Contains(t, f.Choices, f.Default, "%s/%s", s.Name, f.Name)
				}
			case FieldReference:
				assert.NotEmpty(t, f.RefTypes, "%s/%s", s.Name, f.Name)
			}
		}
	}
}

func TestLookupName(t *testing.T) {
	typ, ok := LookupName("OS:AirLoopHVAC:OutdoorAirSystem")
	require.True(t, ok)
	assert.Equal(t, AirLoopHVACOutdoorAirSystem, typ)

	_, ok = LookupName("OS:Nope")
	assert.False(t, ok)
	assert.Equal(t, "Type(99)", Type(99).String())
}

func TestOwnershipRulesPointAtReferenceFields(t *testing.T) {
	for _, typ := range Types() {
		s, _ := Lookup(typ)
		for _, rule := range Owned(typ) {
			if rule.Field >= 0 {
				require.Less(t, rule.Field, len(s.Fields))
				f := s.Fields[rule.Field]
				assert.Equal(t, FieldReference, f.Type, "%s owns non-reference field %s", s.Name, f.Name)
				continue
			}
			src, ok := Lookup(rule.SourceType)
			require.True(t, ok)
			f := src.Fields[rule.SourceField]
			assert.True(t, f.Accepts(typ), "%s.%s cannot point at %s", src.Name, f.Name, s.Name)
		}
	}
}

func TestPortDirections(t *testing.T) {
	s, _ := Lookup(HeatExchangerAirToAirSensibleAndLatent)

	dir, ok := s.PortDirection(PortSecondaryAirOutlet)
	require.True(t, ok)
	assert.Equal(t, Out, dir)

	_, ok = s.PortDirection(PortMixedAir)
	assert.False(t, ok)
}
