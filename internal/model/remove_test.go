package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemove_DispatchesByType(t *testing.T) {
	m := New()
	loop, err := NewAirLoopHVAC(m)
	require.NoError(t, err)
	outlet, _ := loop.SupplyOutletNode()
	fan, err := NewFanConstantVolume(m)
	require.NoError(t, err)
	require.True(t, fan.AddToNode(outlet))

	_, err = Remove(outlet.ModelObject)
	assert.ErrorIs(t, err, ErrNodeRemoval)
	assert.True(t, outlet.Exists())

	records, err := Remove(fan.ModelObject)
	require.NoError(t, err)
	assert.NotEmpty(t, records)
	comps, err := loop.SupplyComponents()
	require.NoError(t, err)
	assert.Len(t, comps, 2, "the fan is spliced out and the loop closes")

	_, err = Remove(loop.ModelObject)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Workspace().Len())

	_, err = Remove(loop.ModelObject)
	assert.Error(t, err)
}
