package replication

import (
	"errors"
	"testing"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleStrategyString(t *testing.T) {
	assert.Equal(t, "{'class': 'SimpleStrategy', 'replication_factor': 3}", NewSimpleStrategy(3).String())
	assert.Equal(t, "{'class': 'SimpleStrategy', 'replication_factor': 0}", NewSimpleStrategy(0).String())
}

func TestNetworkTopologyStrategyString(t *testing.T) {
	strategy := NewNetworkTopologyStrategy(DC("dc1", 3), DC("dc2", 8))
	assert.Equal(t, "{'class': 'NetworkTopologyStrategy', 'dc1': 3, 'dc2': 8}", strategy.String())

	reversed := NewNetworkTopologyStrategy(DC("dc2", 8), DC("dc1", 3))
	assert.Equal(t, "{'class': 'NetworkTopologyStrategy', 'dc2': 8, 'dc1': 3}", reversed.String())
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Strategy
	}{
		{
			name: "upper case with spaces",
			text: "REPLICATION = { 'class' : 'SimpleStrategy', 'replication_factor' : 4}",
			want: NewSimpleStrategy(4),
		},
		{
			name: "lower case without space before the map",
			text: "replication  ={'class': 'SimpleStrategy', 'replication_factor' : 4}",
			want: NewSimpleStrategy(4),
		},
		{
			name: "network topology keeps the data center order",
			text: "REPLICATION = { 'class' : 'NetworkTopologyStrategy', 'DC1' : 2, 'DC2': 8}",
			want: NewNetworkTopologyStrategy(DC("DC1", 2), DC("DC2", 8)),
		},
		{
			name: "describe keyspace output",
			text: "\nCREATE KEYSPACE keyspace1 WITH replication = {'class': 'org.apache.cassandra.locator.NetworkTopologyStrategy', 'eu-west': '3', 'us-east': '2'} AND durable_writes = true;\n",
			want: NewNetworkTopologyStrategy(DC("eu-west", 3), DC("us-east", 2)),
		},
		{
			name: "multi line map",
			text: "replication = {\n  'class': 'SimpleStrategy',\n  'replication_factor': '1'\n}",
			want: NewSimpleStrategy(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := FromString(tt.text)
			require.NoError(t, err)
			assert.IsType(t, tt.want, strategy)
			assert.Equal(t, tt.want, strategy)
		})
	}
}

func TestFromStringRepeatedKeys(t *testing.T) {
	strategy, err := FromString("replication = {'class': 'NetworkTopologyStrategy', 'dc1': 3, 'dc2': 2, 'dc1': 5}")
	require.NoError(t, err)
	assert.Equal(t, NewNetworkTopologyStrategy(DC("dc1", 5), DC("dc2", 2)), strategy)
	assert.Equal(t, "{'class': 'NetworkTopologyStrategy', 'dc1': 5, 'dc2': 2}", strategy.String())

	simple, err := FromString("replication = {'class': 'SimpleStrategy', 'replication_factor': 1, 'replication_factor': 3}")
	require.NoError(t, err)
	assert.Equal(t, NewSimpleStrategy(3), simple)
}

func TestFromStringRoundTrip(t *testing.T) {
	for _, strategy := range []Strategy{
		NewSimpleStrategy(1),
		NewSimpleStrategy(5),
		NewNetworkTopologyStrategy(DC("dc1", 3)),
		NewNetworkTopologyStrategy(DC("dc1", 3), DC("dc2", 8), DC("dc3", 0)),
	} {
		t.Run(strategy.String(), func(t *testing.T) {
			parsed, err := FromString("replication = " + strategy.String())
			require.NoError(t, err)
			assert.True(t, Equal(strategy, parsed))
		})
	}
}

func TestFromStringErrors(t *testing.T) {
	for name, text := range map[string]string{
		"no assignment":           "CREATE KEYSPACE ks WITH durable_writes = true",
		"malformed literal":       "replication = {'class': 'SimpleStrategy', 'replication_factor': [}",
		"missing class":           "replication = {'replication_factor': 3}",
		"unknown class":           "replication = {'class': 'EverywhereStrategy'}",
		"invalid factor":          "replication = {'class': 'SimpleStrategy', 'replication_factor': 'three'}",
		"negative factor":         "replication = {'class': 'NetworkTopologyStrategy', 'dc1': -1}",
		"simple without factor":   "replication = {'class': 'SimpleStrategy'}",
		"simple with extra field": "replication = {'class': 'SimpleStrategy', 'replication_factor': 3, 'dc1': 3}",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromString(text)
			var parseErr cerrors.ReplicationParse
			assert.True(t, errors.As(err, &parseErr), "got %v", err)
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(NewSimpleStrategy(3), NewSimpleStrategy(3)))
	assert.False(t, Equal(NewSimpleStrategy(3), NewSimpleStrategy(4)))
	assert.False(t, Equal(NewNetworkTopologyStrategy(DC("dc1", 3), DC("dc2", 3)), NewNetworkTopologyStrategy(DC("dc2", 3), DC("dc1", 3))))
	assert.False(t, Equal(NewSimpleStrategy(3), nil))
	assert.True(t, Equal(nil, nil))
}

func TestParseAssignments(t *testing.T) {
	assignments, err := ParseAssignments(" ks=SimpleStrategy:3; ks2 = NetworkTopologyStrategy:dc1=3, dc2=2 ;")
	require.NoError(t, err)
	assert.Equal(t, []Assignment{
		Set("ks", NewSimpleStrategy(3)),
		Set("ks2", NewNetworkTopologyStrategy(DC("dc1", 3), DC("dc2", 2))),
	}, assignments)
}

func TestParseAssignmentsErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"ks",
		"=SimpleStrategy:3",
		"ks=SimpleStrategy",
		"ks=SimpleStrategy:x",
		"ks=NetworkTopologyStrategy:dc1",
		"ks=LocalStrategy:1",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseAssignments(text)
			assert.Error(t, err)
		})
	}
}
