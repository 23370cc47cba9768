package energyplus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/idf"
	"github.com/thatsimonsguy/hvac-idf/internal/model"
)

func newOASystem(t *testing.T, m *model.Model) model.AirLoopHVACOutdoorAirSystem {
	t.Helper()
	ctrl, err := model.NewControllerOutdoorAir(m)
	require.NoError(t, err)
	oa, err := model.NewAirLoopHVACOutdoorAirSystem(m, ctrl)
	require.NoError(t, err)
	return oa
}

func newLoopWithOA(t *testing.T, m *model.Model) (model.AirLoopHVAC, model.AirLoopHVACOutdoorAirSystem) {
	t.Helper()
	loop, err := model.NewAirLoopHVAC(m)
	require.NoError(t, err)
	oa := newOASystem(t, m)
	outlet, ok := loop.SupplyOutletNode()
	require.True(t, ok)
	require.True(t, oa.AddToNode(outlet))
	return loop, oa
}

func TestForwardDispatchCoversEveryType(t *testing.T) {
	for _, typ := range idd.Types() {
		_, ok := forwardDispatch[typ]
		assert.True(t, ok, "no translation registered for %s", typ)
	}
}

func TestTranslateAirLoopHVAC_Branch(t *testing.T) {
	m := model.New()
	loop, err := model.NewAirLoopHVAC(m)
	require.NoError(t, err)
	outlet, _ := loop.SupplyOutletNode()
	coil, err := model.NewCoilHeatingElectric(m)
	require.NoError(t, err)
	fan, err := model.NewFanConstantVolume(m)
	require.NoError(t, err)
	require.True(t, coil.AddToNode(outlet))
	require.True(t, fan.AddToNode(outlet))
	require.True(t, loop.SetDesignSupplyAirFlowRate(1.5))

	ft := NewForwardTranslator(DefaultOptions())
	f := ft.TranslateModel(m)
	assert.Empty(t, ft.Warnings())

	rec, ok := f.Find(idf.TypeAirLoopHVAC, loop.Name())
	require.True(t, ok)
	assert.Equal(t, "1.5", rec.Field(idf.AirLoopHVACDesignSupplyAirFlowRate))
	supplyIn := nodeOrBlank(loop.SupplyInletNode())
	supplyOut := nodeOrBlank(loop.SupplyOutletNode())
	assert.Equal(t, supplyIn, rec.Field(idf.AirLoopHVACSupplyInletNode))
	assert.Equal(t, supplyOut, rec.Field(idf.AirLoopHVACSupplyOutletNodes))
	assert.Equal(t, nodeOrBlank(loop.DemandInletNode()), rec.Field(idf.AirLoopHVACDemandInletNodes))
	assert.Equal(t, nodeOrBlank(loop.DemandOutletNode()), rec.Field(idf.AirLoopHVACDemandOutletNode))

	list, ok := f.Find(idf.TypeBranchList, rec.Field(idf.AirLoopHVACBranchList))
	require.True(t, ok)
	assert.Equal(t, loop.Name()+" Supply Branches", list.Name())
	require.Equal(t, 1, list.NumGroups())
	branch, ok := f.Find(idf.TypeBranch, list.Groups()[0][0])
	require.True(t, ok)

	between := objectName(fan.ConnectedObject(idd.PortInlet))
	assert.Equal(t, [][]string{
		{idf.TypeCoilHeatingElectric, coil.Name(), supplyIn, between},
		{idf.TypeFanConstantVolume, fan.Name(), between, supplyOut},
	}, branch.Groups())

	coilRec, ok := f.Find(idf.TypeCoilHeatingElectric, coil.Name())
	require.True(t, ok)
	assert.Equal(t, between, coilRec.Field(idf.CoilHeatingElectricTemperatureSetpointNode))
}

func TestTranslateOutdoorAirSystem(t *testing.T) {
	m := model.New()
	loop, oa := newLoopWithOA(t, m)
	coil, err := model.NewCoilHeatingElectric(m)
	require.NoError(t, err)
	outboard, _ := oa.OutboardOANode()
	require.True(t, coil.AddToNode(outboard))

	ft := NewForwardTranslator(DefaultOptions())
	f := ft.TranslateModel(m)
	assert.Empty(t, ft.Warnings())

	rec, ok := f.Find(idf.TypeOutdoorAirSystem, oa.Name())
	require.True(t, ok)

	ctrl, _ := oa.ControllerOutdoorAir()
	list, ok := f.Find(idf.TypeControllerList, rec.Field(idf.OutdoorAirSystemControllerList))
	require.True(t, ok)
	assert.Equal(t, [][]string{{idf.TypeControllerOutdoorAir, ctrl.Name()}}, list.Groups())

	eq, ok := f.Find(idf.TypeOAEquipmentList, rec.Field(idf.OutdoorAirSystemEquipmentList))
	require.True(t, ok)
	assert.Equal(t, [][]string{
		{idf.TypeCoilHeatingElectric, coil.Name()},
		{idf.TypeOutdoorAirMixer, oa.Name() + " Outdoor Air Mixer"},
	}, eq.Groups())

	mixer, ok := f.Find(idf.TypeOutdoorAirMixer, oa.Name()+" Outdoor Air Mixer")
	require.True(t, ok)
	returnAir := objectName(oa.ReturnAirModelObject())
	mixedAir := objectName(oa.MixedAirModelObject())
	outdoorAir := objectName(oa.OutdoorAirModelObject())
	reliefAir := objectName(oa.ReliefAirModelObject())
	assert.Equal(t, mixedAir, mixer.Field(idf.OutdoorAirMixerMixedAirNode))
	assert.Equal(t, outdoorAir, mixer.Field(idf.OutdoorAirMixerOutdoorAirNode))
	assert.Equal(t, reliefAir, mixer.Field(idf.OutdoorAirMixerReliefAirNode))
	assert.Equal(t, returnAir, mixer.Field(idf.OutdoorAirMixerReturnAirNode))

	ctrlRec, ok := f.Find(idf.TypeControllerOutdoorAir, ctrl.Name())
	require.True(t, ok)
	assert.Equal(t, reliefAir, ctrlRec.Field(idf.ControllerOutdoorAirReliefAirOutletNode))
	assert.Equal(t, returnAir, ctrlRec.Field(idf.ControllerOutdoorAirReturnAirNode))
	assert.Equal(t, mixedAir, ctrlRec.Field(idf.ControllerOutdoorAirMixedAirNode))
	assert.Equal(t, outdoorAir, ctrlRec.Field(idf.ControllerOutdoorAirActuatorNode))
	assert.Equal(t, "NoEconomizer", ctrlRec.Field(idf.ControllerOutdoorAirEconomizerControlType))

	nodeLists := f.ByType(idf.TypeOutdoorAirNodeList)
	require.Len(t, nodeLists, 1)
	assert.Equal(t, [][]string{{outboard.Name()}}, nodeLists[0].Groups())

	branch, ok := f.Find(idf.TypeBranch, loop.Name()+" Main Branch")
	require.True(t, ok)
	assert.Equal(t, [][]string{{idf.TypeOutdoorAirSystem, oa.Name(), returnAir, mixedAir}}, branch.Groups())
}

func TestTranslateDedicatedOutdoorAirSystem_TwoLoops(t *testing.T) {
	m := model.New()
	loop1, oa1 := newLoopWithOA(t, m)
	loop2, oa2 := newLoopWithOA(t, m)
	doasOA := newOASystem(t, m)
	doas, err := model.NewAirLoopHVACDedicatedOutdoorAirSystem(m, doasOA)
	require.NoError(t, err)
	require.True(t, doas.AddAirLoops([]model.AirLoopHVAC{loop1, loop2}))

	ft := NewForwardTranslator(DefaultOptions())
	f := ft.TranslateModel(m)
	assert.Empty(t, ft.Warnings())

	records := f.ByType(idf.TypeDOAS)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, doas.Name(), rec.Name())
	assert.Equal(t, doasOA.Name(), rec.Field(idf.DOASOutdoorAirSystem))
	assert.Equal(t, "Always On Discrete", rec.Field(idf.DOASAvailabilitySchedule))
	assert.Equal(t, "4.5", rec.Field(idf.DOASPreheatDesignTemperature))
	assert.Equal(t, "2", rec.Field(idf.DOASNumberofAirLoopHVAC))
	assert.Equal(t, [][]string{{loop1.Name()}, {loop2.Name()}}, rec.Groups())

	mixers := f.ByType(idf.TypeAirLoopMixer)
	require.Len(t, mixers, 1)
	mixer := mixers[0]
	assert.Equal(t, doas.Name()+" Mixer", mixer.Name())
	assert.Equal(t, mixer.Name(), rec.Field(idf.DOASMixer))
	assert.Equal(t, doas.Name()+" Mixer Outlet", mixer.Field(idf.AirLoopMixerOutletNode))
	assert.Equal(t, [][]string{
		{nodeOrBlank(oa1.OutboardReliefNode())},
		{nodeOrBlank(oa2.OutboardReliefNode())},
	}, mixer.Groups())

	splitters := f.ByType(idf.TypeAirLoopSplitter)
	require.Len(t, splitters, 1)
	splitter := splitters[0]
	assert.Equal(t, doas.Name()+" Splitter", splitter.Name())
	assert.Equal(t, splitter.Name(), rec.Field(idf.DOASSplitter))
	assert.Equal(t, objectName(doasOA.OutdoorAirModelObject()), splitter.Field(idf.AirLoopSplitterInletNode))
	assert.Equal(t, [][]string{
		{nodeOrBlank(oa1.OutboardOANode())},
		{nodeOrBlank(oa2.OutboardOANode())},
	}, splitter.Groups())

	// the dedicated system's own outdoor air system has no mixer or controller
	oaRec, ok := f.Find(idf.TypeOutdoorAirSystem, doasOA.Name())
	require.True(t, ok)
	assert.Empty(t, oaRec.Field(idf.OutdoorAirSystemControllerList))
	assert.Len(t, f.ByType(idf.TypeOutdoorAirMixer), 2)
	assert.Len(t, f.ByType(idf.TypeControllerOutdoorAir), 2)
	assert.Len(t, f.ByType(idf.TypeAirLoopHVAC), 2)

	// member loops are fed by the splitter, not by outside air
	nodeLists := f.ByType(idf.TypeOutdoorAirNodeList)
	require.Len(t, nodeLists, 1)
	assert.Equal(t, [][]string{{nodeOrBlank(doasOA.OutboardOANode())}}, nodeLists[0].Groups())
}

func TestTranslateDedicatedOutdoorAirSystem_HeatExchangerTakesMixerOutlet(t *testing.T) {
	m := model.New()
	loop, _ := newLoopWithOA(t, m)
	doasOA := newOASystem(t, m)
	doas, err := model.NewAirLoopHVACDedicatedOutdoorAirSystem(m, doasOA)
	require.NoError(t, err)
	require.True(t, doas.AddAirLoop(loop))
	hx, err := model.NewHeatExchangerAirToAirSensibleAndLatent(m)
	require.NoError(t, err)
	outboard, _ := doasOA.OutboardOANode()
	require.True(t, hx.AddToNode(outboard))

	ft := NewForwardTranslator(DefaultOptions())
	f := ft.TranslateModel(m)
	assert.Empty(t, ft.Warnings())

	mixer, ok := f.Find(idf.TypeAirLoopMixer, doas.Name()+" Mixer")
	require.True(t, ok)
	hxRec, ok := f.Find(idf.TypeHeatExchangerAirToAir, hx.Name())
	require.True(t, ok)
	secondaryInlet := objectName(hx.SecondaryAirInletModelObject())
	assert.Equal(t, secondaryInlet, mixer.Field(idf.AirLoopMixerOutletNode))
	assert.Equal(t, secondaryInlet, hxRec.Field(idf.HXExhaustAirInletNode))

	eq, ok := f.Find(idf.TypeOAEquipmentList, doasOA.Name()+" Equipment List")
	require.True(t, ok)
	assert.Equal(t, [][]string{{idf.TypeHeatExchangerAirToAir, hx.Name()}}, eq.Groups())
}

func TestTranslate_RequiredNodesAreWarned(t *testing.T) {
	m := model.New()
	loop, err := model.NewAirLoopHVAC(m)
	require.NoError(t, err)
	outlet, _ := loop.SupplyOutletNode()
	coil, err := model.NewCoilCoolingWater(m)
	require.NoError(t, err)
	require.True(t, coil.AddToNode(outlet))

	ft := NewForwardTranslator(DefaultOptions())
	f := ft.TranslateModel(m)
	rec, ok := f.Find(idf.TypeCoilCoolingWater, coil.Name())
	require.True(t, ok)
	assert.NotEmpty(t, rec.Field(idf.CoilCoolingWaterAirInletNode))
	assert.NotEmpty(t, rec.Field(idf.CoilCoolingWaterAirOutletNode))

	// every blank node field of the record is accounted for by a warning
	rm, _ := componentMapFor(idd.CoilCoolingWater)
	warned := map[string]bool{}
	for _, w := range ft.Warnings() {
		assert.Equal(t, coil.String(), w.Object)
		warned[w.Message] = true
	}
	for _, p := range rm.ports {
		if rec.Field(p.ep) == "" {
			assert.True(t, warned["has nothing connected to its "+p.port.String()+" port"], "no warning for %s", p.port)
		}
	}
	assert.Len(t, ft.Warnings(), 2)
}

func TestTranslate_Orphans(t *testing.T) {
	m := model.New()
	fan, err := model.NewFanConstantVolume(m)
	require.NoError(t, err)

	ft := NewForwardTranslator(DefaultOptions())
	f := ft.TranslateModel(m)
	assert.Empty(t, f.ByType(idf.TypeFanConstantVolume))
	require.Len(t, ft.Warnings(), 1)
	assert.Equal(t, fan.String(), ft.Warnings()[0].Object)

	opts := DefaultOptions()
	opts.ExcludeOrphanedComponents = false
	ft = NewForwardTranslator(opts)
	f = ft.TranslateModel(m)
	rec, ok := f.Find(idf.TypeFanConstantVolume, fan.Name())
	require.True(t, ok)
	assert.Equal(t, "0.6", rec.Field(idf.FanConstantVolumeFanTotalEfficiency))
	assert.Empty(t, rec.Field(idf.FanConstantVolumeAirInletNode))
	assert.Len(t, ft.Warnings(), 2)
}

func TestTranslate_IsRepeatable(t *testing.T) {
	m := model.New()
	loop, _ := newLoopWithOA(t, m)
	doasOA := newOASystem(t, m)
	doas, err := model.NewAirLoopHVACDedicatedOutdoorAirSystem(m, doasOA)
	require.NoError(t, err)
	require.True(t, doas.AddAirLoop(loop))

	ft := NewForwardTranslator(DefaultOptions())
	first := ft.TranslateModel(m).String()
	second := ft.TranslateModel(m).String()
	assert.Equal(t, first, second)
	assert.Empty(t, ft.Warnings())
}
