package replication

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/stretchr/testify/require"
)

func FuzzFromString(f *testing.F) {
	testCases := []string{
		"REPLICATION = { 'class' : 'SimpleStrategy', 'replication_factor' : 4}",
		"replication = {'class': 'NetworkTopologyStrategy', 'dc1': '3'}",
		"CREATE KEYSPACE ks WITH durable_writes = true",
	}
	for _, tc := range testCases {
		f.Add(tc)
	}

	f.Fuzz(func(t *testing.T, text string) {
		strategy, err := FromString(text)
		if err != nil {
			var parseErr cerrors.ReplicationParse
			require.True(t, errors.As(err, &parseErr), "unexpected error type %T", err)
			return
		}
		require.Contains(t, []string{SimpleStrategyClass, NetworkTopologyStrategyClass}, strategy.Class())
	})
}

func FuzzParseAssignments(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		fuzzConsumer := fuzz.NewConsumer(data)
		target := &struct {
			Keyspace    string
			Datacenters []string
			Factor      uint16
		}{}
		if err := fuzzConsumer.GenerateStruct(target); err != nil {
			return
		}
		if strings.ContainsAny(target.Keyspace, ";=") {
			return
		}
		for _, dc := range target.Datacenters {
			if strings.ContainsAny(dc, ";,=") {
				return
			}
		}

		options := make([]string, 0, len(target.Datacenters))
		for _, dc := range target.Datacenters {
			options = append(options, dc+"="+strconv.Itoa(int(target.Factor)))
		}
		assignments, err := ParseAssignments(target.Keyspace + "=NetworkTopologyStrategy:" + strings.Join(options, ","))
		if err != nil {
			return
		}
		require.Len(t, assignments, 1)
		strategy, ok := assignments[0].Strategy.(NetworkTopologyStrategy)
		require.True(t, ok)
		for _, dc := range strategy.Datacenters {
			require.Equal(t, int(target.Factor), dc.ReplicationFactor)
		}
	})
}
