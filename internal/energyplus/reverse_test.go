package energyplus

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/model"
)

// signature renders everything a round trip must preserve: names, field
// values, references, the node on every port and the order of equipment on
// every stream. The controllers of dedicated systems do not survive the trip,
// and neither does a node whose name the forward translator makes up.
func signature(m *model.Model) []string {
	var out []string
	for _, typ := range idd.Types() {
		if typ == idd.Node {
			continue
		}
		schema, _ := idd.Lookup(typ)
		for _, o := range m.ObjectsOfType(typ) {
			if ctrl, ok := model.AsControllerOutdoorAir(o); ok {
				if oa, ok := ctrl.AirLoopHVACOutdoorAirSystem(); ok {
					if _, ok := oa.AirLoopHVACDedicatedOutdoorAirSystem(); ok {
						continue
					}
				}
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%s %q", schema.Name, o.Name())
			for i, f := range schema.Fields[1:] {
				b.WriteString(" | ")
				b.WriteString(fieldText(o, f, i+1))
			}
			for _, ps := range schema.Ports {
				if synthesizedPort(o, ps.Port) {
					continue
				}
				node := ""
				if n, ok := o.ConnectedObject(ps.Port); ok {
					node = n.Name()
				}
				fmt.Fprintf(&b, " %s=%q", ps.Port, node)
			}
			if loop, ok := model.AsAirLoopHVAC(o); ok {
				comps, _ := loop.SupplyComponents()
				fmt.Fprintf(&b, " supply=%v", equipment(comps))
				if d, ok := loop.AirLoopHVACDedicatedOutdoorAirSystem(); ok {
					fmt.Fprintf(&b, " dedicated=%q", d.Name())
				}
			}
			if oa, ok := model.AsAirLoopHVACOutdoorAirSystem(o); ok {
				comps, _ := oa.OAComponents()
				relief, _ := oa.ReliefComponents()
				fmt.Fprintf(&b, " outdoor=%v relief=%v", equipment(comps), equipment(relief))
			}
			if d, ok := model.AsAirLoopHVACDedicatedOutdoorAirSystem(o); ok {
				for _, loop := range d.AirLoops() {
					fmt.Fprintf(&b, " loop=%q", loop.Name())
				}
			}
			out = append(out, b.String())
		}
	}
	sort.Strings(out)
	return out
}

func fieldText(o model.ModelObject, f idd.Field, i int) string {
	if f.Type != idd.FieldReference {
		return o.Field(i).Text()
	}
	target, ok := o.Target(i)
	switch {
	case !ok:
		return ""
	case target.Type() == idd.ControllerOutdoorAir:
		return "<controller>"
	}
	return target.Name()
}

// synthesizedPort reports the relief port of a dedicated system's outdoor air
// system without a heat exchanger. It feeds the mixer outlet, whose name the
// forward translator derives from the dedicated system.
func synthesizedPort(o model.ModelObject, p idd.Port) bool {
	oa, ok := model.AsAirLoopHVACOutdoorAirSystem(o)
	if !ok || p != idd.PortReliefAir {
		return false
	}
	if _, ok := oa.AirLoopHVACDedicatedOutdoorAirSystem(); !ok {
		return false
	}
	comps, _ := oa.OAComponents()
	for _, c := range comps {
		if c.Type().Kind() == idd.KindAirToAir {
			return false
		}
	}
	return true
}

// records renders every record of f in sorted order, so files written from
// models built in a different order compare equal.
func records(f *idf.File) []string {
	out := make([]string, 0, len(f.Objects))
	for _, o := range f.Objects {
		out = append(out, o.Type+" | "+strings.Join(o.Fields, " | "))
	}
	sort.Strings(out)
	return out
}

func equipment(objs []model.ModelObject) []string {
	var out []string
	for _, o := range objs {
		if o.Type() != idd.Node {
			out = append(out, o.Name())
		}
	}
	return out
}

func roundTrip(t *testing.T, m *model.Model) (*model.Model, *ReverseTranslator) {
	t.Helper()
	f := NewForwardTranslator(DefaultOptions()).TranslateModel(m)
	parsed, err := idf.Parse(strings.NewReader(f.String()))
	require.NoError(t, err)
	rt := NewReverseTranslator()
	return rt.TranslateWorkspace(parsed), rt
}

func TestReverseTranslate_RoundTrip(t *testing.T) {
	m := model.New()
	loop, oa := newLoopWithOA(t, m)
	outlet, _ := loop.SupplyOutletNode()
	fan, err := model.NewFanConstantVolume(m)
	require.NoError(t, err)
	require.True(t, fan.AddToNode(outlet))
	require.True(t, fan.SetPressureRise(512.5))

	reliefFan, err := model.NewFanConstantVolume(m)
	require.NoError(t, err)
	relief, _ := oa.OutboardReliefNode()
	require.True(t, reliefFan.AddToNode(relief))
	hx, err := model.NewHeatExchangerAirToAirSensibleAndLatent(m)
	require.NoError(t, err)
	outboard, _ := oa.OutboardOANode()
	require.True(t, hx.AddToNode(outboard))
	require.True(t, hx.SetHeatExchangerType("Rotary"))

	ctrl, _ := oa.ControllerOutdoorAir()
	require.True(t, ctrl.SetEconomizerControlType("FixedDryBulb"))
	require.True(t, ctrl.SetMinimumOutdoorAirFlowRate(0.25))

	sched, err := model.NewScheduleConstant(m)
	require.NoError(t, err)
	require.True(t, sched.SetValue(0.5))
	require.True(t, fan.SetAvailabilitySchedule(sched))

	doasOA := newOASystem(t, m)
	doas, err := model.NewAirLoopHVACDedicatedOutdoorAirSystem(m, doasOA)
	require.NoError(t, err)
	require.True(t, doas.AddAirLoop(loop))
	require.True(t, doas.SetPrecoolDesignTemperature(15))

	back, rt := roundTrip(t, m)
	assert.Empty(t, rt.Warnings())
	assert.Empty(t, back.Workspace().Validate())
	assert.Equal(t, signature(m), signature(back))

	// relief equipment keeps its place on the relief stream
	backOA, ok := back.ObjectByName(idd.AirLoopHVACOutdoorAirSystem, oa.Name())
	require.True(t, ok)
	sys, _ := model.AsAirLoopHVACOutdoorAirSystem(backOA)
	reliefComps, err := sys.ReliefComponents()
	require.NoError(t, err)
	assert.Equal(t, []string{reliefFan.Name(), hx.Name()}, equipment(reliefComps))
}

func TestReverseTranslate_NodeNamesSurvive(t *testing.T) {
	m := model.New()
	loop, oa := newLoopWithOA(t, m)
	outlet, _ := loop.SupplyOutletNode()
	fan, err := model.NewFanConstantVolume(m)
	require.NoError(t, err)
	require.True(t, fan.AddToNode(outlet))
	coil, err := model.NewCoilHeatingElectric(m)
	require.NoError(t, err)
	outboard, _ := oa.OutboardOANode()
	require.True(t, coil.AddToNode(outboard))
	afn, err := outlet.GetAirflowNetworkDistributionNode()
	require.NoError(t, err)
	require.True(t, afn.SetNodeHeight(3))

	first := NewForwardTranslator(DefaultOptions()).TranslateModel(m)
	back, rt := roundTrip(t, m)
	assert.Empty(t, rt.Warnings())
	assert.Equal(t, signature(m), signature(back))

	var want, got []string
	for _, n := range m.ObjectsOfType(idd.Node) {
		want = append(want, n.Name())
	}
	for _, n := range back.ObjectsOfType(idd.Node) {
		got = append(got, n.Name())
	}
	assert.ElementsMatch(t, want, got)

	again := NewForwardTranslator(DefaultOptions()).TranslateModel(back)
	assert.Equal(t, records(first), records(again))

	backAFN := back.ObjectsOfType(idd.AirflowNetworkDistributionNode)
	require.Len(t, backAFN, 1)
	target, ok := backAFN[0].Target(idd.AFNDistributionNodeComponent)
	require.True(t, ok)
	assert.Equal(t, outlet.Name(), target.Name())
}

func TestReverseTranslate_NodeNamesInAnyOrder(t *testing.T) {
	// Node names run against the order the translator creates nodes in, so
	// each name is still held by a placeholder when it is first wanted.
	const text = `
AirLoopHVAC, Loop, , , 0.5, Loop Branches, , Node 4, Node 3, Node 2, Node 1;
BranchList, Loop Branches, Loop Branch;
Branch, Loop Branch, , Fan:ConstantVolume, Fan, Node 4, Node 1;
Fan:ConstantVolume, Fan, , 0.6, 250, , 0.9, , Node 4, Node 1;
`
	f, err := idf.Parse(strings.NewReader(text))
	require.NoError(t, err)

	rt := NewReverseTranslator()
	m := rt.TranslateWorkspace(f)
	assert.Empty(t, rt.Warnings())

	loopObj, ok := m.ObjectByName(idd.AirLoopHVAC, "Loop")
	require.True(t, ok)
	loop, _ := model.AsAirLoopHVAC(loopObj)
	for _, tc := range []struct {
		node func() (model.Node, bool)
		want string
	}{
		{loop.SupplyInletNode, "Node 4"},
		{loop.SupplyOutletNode, "Node 1"},
		{loop.DemandInletNode, "Node 2"},
		{loop.DemandOutletNode, "Node 3"},
	} {
		n, ok := tc.node()
		require.True(t, ok)
		assert.Equal(t, tc.want, n.Name())
	}
	assert.Len(t, m.ObjectsOfType(idd.Node), 4)
}

func TestReverseTranslate_DanglingAirLoop(t *testing.T) {
	const text = `
Schedule:Constant, Always On Discrete, , 1;
AirLoopHVAC:OutdoorAirSystem, DOAS OA, , DOAS OA Equipment, ;
AirLoopHVAC:OutdoorAirSystem:EquipmentList, DOAS OA Equipment;
AirLoopHVAC:DedicatedOutdoorAirSystem,
  DOAS 1,              !- Name
  DOAS OA,             !- AirLoopHVAC:OutdoorAirSystem Name
  Always On Discrete,  !- Availability Schedule Name
  DOAS 1 Mixer,        !- AirLoopHVAC:Mixer Name
  DOAS 1 Splitter,     !- AirLoopHVAC:Splitter Name
  4.5, 0.004, 17.5, 0.012,
  1,                   !- Number of AirLoopHVAC
  Missing Loop;        !- AirLoopHVAC 1 Name
`
	f, err := idf.Parse(strings.NewReader(text))
	require.NoError(t, err)

	rt := NewReverseTranslator()
	m := rt.TranslateWorkspace(f)

	systems := m.DedicatedOutdoorAirSystems()
	require.Len(t, systems, 1)
	assert.Equal(t, "DOAS 1", systems[0].Name())
	assert.Equal(t, 0, systems[0].NumberofAirLoops())
	assert.Equal(t, 17.5, systems[0].PrecoolDesignTemperature())
	oa, ok := systems[0].AirLoopHVACOutdoorAirSystem()
	require.True(t, ok)
	assert.Equal(t, "DOAS OA", oa.Name())

	require.Len(t, rt.Warnings(), 1)
	assert.Contains(t, rt.Warnings()[0].Message, "Missing Loop")
}

func TestReverseTranslate_BadValuesAreWarned(t *testing.T) {
	const text = `
Fan:ConstantVolume, Supply Fan, , 1.7, 600, , , , , ;
Schedule:Constant, Half, , 0.5;
Coil:Heating:Electric, Heater, Nowhere, 0.9, Autosize, , , ;
`
	f, err := idf.Parse(strings.NewReader(text))
	require.NoError(t, err)

	rt := NewReverseTranslator()
	m := rt.TranslateWorkspace(f)

	fanObj, ok := m.ObjectByName(idd.FanConstantVolume, "Supply Fan")
	require.True(t, ok)
	fan := model.FanConstantVolume{HVACComponent: model.HVACComponent{ModelObject: fanObj}}
	assert.Equal(t, 0.6, fan.FanTotalEfficiency(), "out of range efficiency keeps the default")
	assert.Equal(t, 600.0, fan.PressureRise())

	_, ok = m.ObjectByName(idd.CoilHeatingElectric, "Heater")
	require.True(t, ok)

	require.Len(t, rt.Warnings(), 2)
	assert.Equal(t, "Fan:ConstantVolume 'Supply Fan'", rt.Warnings()[0].Object)
	assert.Contains(t, rt.Warnings()[1].Message, "Nowhere")
}

// buildRandomModel assembles loops, outdoor air systems and at most one
// dedicated system from rng, using only operations that must succeed.
func buildRandomModel(t *testing.T, rng *rand.Rand) *model.Model {
	m := model.New()
	fraction := func() float64 { return float64(rng.Intn(999)+1) / 1000 }

	var fed []model.AirLoopHVAC
	for i := 0; i < 1+rng.Intn(3); i++ {
		loop, err := model.NewAirLoopHVAC(m)
		require.NoError(t, err)
		if rng.Intn(2) == 0 {
			require.True(t, loop.SetDesignSupplyAirFlowRate(float64(rng.Intn(50)+1)/10))
		}
		outlet, _ := loop.SupplyOutletNode()
		for j := 0; j < rng.Intn(4); j++ {
			var c model.HVACComponent
			switch rng.Intn(4) {
			case 0:
				coil, err := model.NewCoilHeatingElectric(m)
				require.NoError(t, err)
				require.True(t, coil.SetEfficiency(fraction()))
				c = coil.HVACComponent
			case 1:
				fan, err := model.NewFanConstantVolume(m)
				require.NoError(t, err)
				require.True(t, fan.SetPressureRise(float64(rng.Intn(1000))+0.5))
				c = fan.HVACComponent
			case 2:
				coil, err := model.NewCoilCoolingWater(m)
				require.NoError(t, err)
				require.True(t, coil.SetTypeOfAnalysis("DetailedAnalysis"))
				c = coil.HVACComponent
			default:
				unitary, err := model.NewAirLoopHVACUnitarySystem(m)
				require.NoError(t, err)
				require.True(t, unitary.SetControlType("SetPoint"))
				c = unitary.HVACComponent
			}
			require.True(t, c.AddToNode(outlet))
		}
		if rng.Intn(3) == 0 {
			continue
		}

		oa := newOASystem(t, m)
		require.True(t, oa.AddToNode(outlet))
		ctrl, _ := oa.ControllerOutdoorAir()
		require.True(t, ctrl.SetMaximumOutdoorAirFlowRate(float64(rng.Intn(20)+1)/4))
		hasHX := false
		for j := 0; j < rng.Intn(4); j++ {
			switch rng.Intn(3) {
			case 0:
				coil, err := model.NewCoilHeatingElectric(m)
				require.NoError(t, err)
				n, _ := oa.OutboardOANode()
				require.True(t, coil.AddToNode(n))
			case 1:
				fan, err := model.NewFanConstantVolume(m)
				require.NoError(t, err)
				n, _ := oa.OutboardReliefNode()
				require.True(t, fan.AddToNode(n))
			default:
				if hasHX {
					continue
				}
				hasHX = true
				hx, err := model.NewHeatExchangerAirToAirSensibleAndLatent(m)
				require.NoError(t, err)
				require.True(t, hx.SetSensibleEffectivenessat100HeatingAirFlow(fraction()))
				n, _ := oa.OutboardOANode()
				require.True(t, hx.AddToNode(n))
			}
		}
		fed = append(fed, loop)
	}

	if len(fed) > 0 && rng.Intn(2) == 0 {
		doasOA := newOASystem(t, m)
		doas, err := model.NewAirLoopHVACDedicatedOutdoorAirSystem(m, doasOA)
		require.NoError(t, err)
		require.True(t, doas.SetPreheatDesignTemperature(float64(rng.Intn(100))/10))
		if rng.Intn(2) == 0 {
			hx, err := model.NewHeatExchangerAirToAirSensibleAndLatent(m)
			require.NoError(t, err)
			n, _ := doasOA.OutboardOANode()
			require.True(t, hx.AddToNode(n))
		}
		coil, err := model.NewCoilHeatingElectric(m)
		require.NoError(t, err)
		n, _ := doasOA.OutboardOANode()
		require.True(t, coil.AddToNode(n))
		require.True(t, doas.AddAirLoops(fed))
	}
	return m
}

func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)

	properties.Property("forward then reverse preserves the model", prop.ForAll(
		func(seed int64) bool {
			m := buildRandomModel(t, rand.New(rand.NewSource(seed)))
			back, rt := roundTrip(t, m)
			if len(rt.Warnings()) > 0 || len(back.Workspace().Validate()) > 0 {
				return false
			}
			return assert.ObjectsAreEqual(signature(m), signature(back))
		},
		gen.Int64(),
	))

	properties.Property("forward output survives reverse and forward again", prop.ForAll(
		func(seed int64) bool {
			m := buildRandomModel(t, rand.New(rand.NewSource(seed)))
			first := NewForwardTranslator(DefaultOptions()).TranslateModel(m)
			back, _ := roundTrip(t, m)
			again := NewForwardTranslator(DefaultOptions()).TranslateModel(back)
			return assert.ObjectsAreEqual(records(first), records(again))
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
