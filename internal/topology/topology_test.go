package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/hvac-idf/internal/handle"
	"github.com/thatsimonsguy/hvac-idf/internal/idd"
	"github.com/thatsimonsguy/hvac-idf/internal/workspace"
)

type oaFixture struct {
	w      *workspace.Workspace
	oa     handle.Handle
	oaNode handle.Handle
	relief handle.Handle
}

func create(t *testing.T, w *workspace.Workspace, typ idd.Type) handle.Handle {
	t.Helper()
	h, err := w.CreateObject(typ)
	require.NoError(t, err)
	return h
}

func newOAFixture(t *testing.T) oaFixture {
	w := workspace.New()
	f := oaFixture{
		w:      w,
		oa:     create(t, w, idd.AirLoopHVACOutdoorAirSystem),
		oaNode: create(t, w, idd.Node),
		relief: create(t, w, idd.Node),
	}
	require.NoError(t, w.Reconnect(
		workspace.Edge{From: workspace.PortRef{Handle: f.oaNode, Port: idd.PortOutlet}, To: workspace.PortRef{Handle: f.oa, Port: idd.PortOutdoorAir}},
		workspace.Edge{From: workspace.PortRef{Handle: f.oa, Port: idd.PortReliefAir}, To: workspace.PortRef{Handle: f.relief, Port: idd.PortInlet}},
	))
	return f
}

func (f oaFixture) outdoor(t *testing.T) []handle.Handle {
	t.Helper()
	chain, err := WalkUpstream(f.w, workspace.PortRef{Handle: f.oa, Port: idd.PortOutdoorAir}, Outdoor)
	require.NoError(t, err)
	return chain
}

func (f oaFixture) reliefChain(t *testing.T) []handle.Handle {
	t.Helper()
	chain, err := WalkDownstream(f.w, workspace.PortRef{Handle: f.oa, Port: idd.PortReliefAir}, Relief)
	require.NoError(t, err)
	return chain
}

func TestRuleFor(t *testing.T) {
	r, err := RuleFor(idd.KindAirToAir, Relief)
	require.NoError(t, err)
	assert.Equal(t, Rule{Up: idd.PortSecondaryAirInlet, Down: idd.PortSecondaryAirOutlet}, r)

	_, err = RuleFor(idd.KindOutdoorAirSystem, Outdoor)
	assert.ErrorIs(t, err, ErrUnexpectedTopology)
	_, err = RuleFor(idd.KindLoop, Supply)
	assert.ErrorIs(t, err, ErrUnexpectedTopology)

	assert.True(t, Placeable(idd.KindStraight, Relief))
	assert.False(t, Placeable(idd.KindController, Supply))
}

func TestInsert_OutdoorStream(t *testing.T) {
	f := newOAFixture(t)
	assert.Equal(t, []handle.Handle{f.oaNode}, f.outdoor(t))
	assert.Equal(t, []handle.Handle{f.relief}, f.reliefChain(t))

	fan := create(t, f.w, idd.FanConstantVolume)
	created, err := Insert(f.w, Placement{Node: f.oaNode, Component: fan, Stream: Outdoor})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, []handle.Handle{f.oaNode, fan, created[0]}, f.outdoor(t))

	// walking twice gives the same answer
	assert.Equal(t, f.outdoor(t), f.outdoor(t))
}

func TestInsert_HeatExchangerJoinsBothStreams(t *testing.T) {
	f := newOAFixture(t)
	fan := create(t, f.w, idd.FanConstantVolume)
	_, err := Insert(f.w, Placement{Node: f.oaNode, Component: fan, Stream: Outdoor})
	require.NoError(t, err)

	hx := create(t, f.w, idd.HeatExchangerAirToAirSensibleAndLatent)
	created, err := Insert(f.w,
		Placement{Node: f.oaNode, Component: hx, Stream: Outdoor},
		Placement{Node: f.relief, Component: hx, Stream: Relief},
	)
	require.NoError(t, err)
	require.Len(t, created, 2)

	outdoor := f.outdoor(t)
	require.Len(t, outdoor, 5)
	assert.Equal(t, []handle.Handle{f.oaNode, hx, created[0], fan}, outdoor[:4])
	assert.Equal(t, []handle.Handle{created[1], hx, f.relief}, f.reliefChain(t))

	secIn, ok := f.w.ConnectedTo(workspace.PortRef{Handle: hx, Port: idd.PortSecondaryAirInlet})
	require.True(t, ok)
	assert.Equal(t, created[1], secIn.Handle)
	assert.Empty(t, f.w.Validate())
}

func TestInsert_SupplyRecipes(t *testing.T) {
	w := workspace.New()
	inlet := create(t, w, idd.Node)
	outlet := create(t, w, idd.Node)
	require.NoError(t, w.Connect(workspace.PortRef{Handle: inlet, Port: idd.PortOutlet}, workspace.PortRef{Handle: outlet, Port: idd.PortInlet}))
	supply := func() []handle.Handle {
		chain, err := WalkDownstream(w, workspace.PortRef{Handle: inlet, Port: idd.PortOutlet}, Supply)
		require.NoError(t, err)
		return append([]handle.Handle{inlet}, chain...)
	}

	coil := create(t, w, idd.CoilHeatingElectric)
	created, err := Insert(w, Placement{Node: outlet, Component: coil, Stream: Supply})
	require.NoError(t, err)
	assert.Empty(t, created, "trivial branch reuses both nodes")
	assert.Equal(t, []handle.Handle{inlet, coil, outlet}, supply())

	fan := create(t, w, idd.FanConstantVolume)
	created, err = Insert(w, Placement{Node: outlet, Component: fan, Stream: Supply})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, []handle.Handle{inlet, coil, created[0], fan, outlet}, supply())

	cooling := create(t, w, idd.CoilCoolingWater)
	created2, err := Insert(w, Placement{Node: inlet, Component: cooling, Stream: Supply})
	require.NoError(t, err)
	require.Len(t, created2, 1)
	assert.Equal(t, []handle.Handle{inlet, cooling, created2[0], coil, created[0], fan, outlet}, supply())
}

func TestInsert_FailureLeavesGraphUntouched(t *testing.T) {
	f := newOAFixture(t)
	fan := create(t, f.w, idd.FanConstantVolume)
	_, err := Insert(f.w, Placement{Node: f.oaNode, Component: fan, Stream: Outdoor})
	require.NoError(t, err)
	before := f.outdoor(t)
	count := f.w.Len()

	coil := create(t, f.w, idd.CoilHeatingElectric)
	_, err = Insert(f.w,
		Placement{Node: f.oaNode, Component: coil, Stream: Outdoor},
		Placement{Node: f.oaNode, Component: fan, Stream: Outdoor},
	)
	assert.ErrorIs(t, err, ErrConnected)
	assert.Equal(t, before, f.outdoor(t))
	assert.Equal(t, count+1, f.w.Len())

	_, err = Insert(f.w, Placement{Node: fan, Component: coil, Stream: Outdoor})
	assert.ErrorIs(t, err, ErrUnexpectedTopology)

	ctrl := create(t, f.w, idd.ControllerOutdoorAir)
	_, err = Insert(f.w, Placement{Node: f.oaNode, Component: ctrl, Stream: Outdoor})
	assert.ErrorIs(t, err, ErrUnexpectedTopology)
}

func TestWalk_UnknownComponentIsFatal(t *testing.T) {
	f := newOAFixture(t)
	mixed := create(t, f.w, idd.Node)
	require.NoError(t, f.w.Connect(workspace.PortRef{Handle: f.oa, Port: idd.PortMixedAir}, workspace.PortRef{Handle: mixed, Port: idd.PortInlet}))

	_, err := WalkUpstream(f.w, workspace.PortRef{Handle: mixed, Port: idd.PortInlet}, Outdoor)
	assert.ErrorIs(t, err, ErrUnexpectedTopology)

	chain, err := WalkUpstream(f.w, workspace.PortRef{Handle: mixed, Port: idd.PortInlet}, Supply)
	require.NoError(t, err)
	assert.Equal(t, []handle.Handle{f.oa}, chain)
}

func TestSplice(t *testing.T) {
	f := newOAFixture(t)
	fan := create(t, f.w, idd.FanConstantVolume)
	created, err := Insert(f.w, Placement{Node: f.oaNode, Component: fan, Stream: Outdoor})
	require.NoError(t, err)

	noAnchors := func(handle.Handle) bool { return false }
	drop, err := Splice(f.w, fan, Outdoor, noAnchors)
	require.NoError(t, err)
	assert.Equal(t, created, drop)
	for _, h := range append(drop, fan) {
		_, err := f.w.Remove(h)
		require.NoError(t, err)
	}
	assert.Equal(t, []handle.Handle{f.oaNode}, f.outdoor(t))

	hx := create(t, f.w, idd.HeatExchangerAirToAirSensibleAndLatent)
	created, err = Insert(f.w,
		Placement{Node: f.oaNode, Component: hx, Stream: Outdoor},
		Placement{Node: f.relief, Component: hx, Stream: Relief},
	)
	require.NoError(t, err)
	drop, err = Splice(f.w, hx, Relief, noAnchors)
	require.NoError(t, err)
	assert.Equal(t, []handle.Handle{created[1]}, drop, "terminal relief node is kept")
	assert.Equal(t, []handle.Handle{f.relief}, f.reliefChain(t))
}

func TestSplice_AnchorsSurvive(t *testing.T) {
	w := workspace.New()
	inlet := create(t, w, idd.Node)
	outlet := create(t, w, idd.Node)
	require.NoError(t, w.Connect(workspace.PortRef{Handle: inlet, Port: idd.PortOutlet}, workspace.PortRef{Handle: outlet, Port: idd.PortInlet}))
	coil := create(t, w, idd.CoilHeatingElectric)
	_, err := Insert(w, Placement{Node: outlet, Component: coil, Stream: Supply})
	require.NoError(t, err)

	anchors := func(h handle.Handle) bool { return h == inlet || h == outlet }
	drop, err := Splice(w, coil, Supply, anchors)
	require.NoError(t, err)
	assert.Empty(t, drop)
	next, ok := w.ConnectedTo(workspace.PortRef{Handle: inlet, Port: idd.PortOutlet})
	require.True(t, ok)
	assert.Equal(t, outlet, next.Handle)
}
