package replication

import (
	"strconv"
	"strings"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
)

// ParseAssignments reads assignments written as `<keyspace>=<class>:<options>` separated by `;`, e.g.
//
//	ks1=SimpleStrategy:3;ks2=NetworkTopologyStrategy:dc1=3,dc2=2
func ParseAssignments(text string) ([]Assignment, error) {
	var assignments []Assignment
	for _, entry := range strings.Split(text, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		keyspace, definition, ok := strings.Cut(entry, "=")
		keyspace = strings.TrimSpace(keyspace)
		if !ok || keyspace == "" {
			return nil, cerrors.ReplicationParse{Text: entry, Reason: "expected <keyspace>=<class>:<options>"}
		}
		class, options, ok := strings.Cut(definition, ":")
		if !ok {
			return nil, cerrors.ReplicationParse{Text: entry, Reason: "missing replication options"}
		}

		var strategy Strategy
		switch strings.TrimPrefix(strings.TrimSpace(class), qualifiedClassPrefix) {
		case SimpleStrategyClass:
			factor, err := strconv.Atoi(strings.TrimSpace(options))
			if err != nil || factor < 0 {
				return nil, cerrors.ReplicationParse{Text: entry, Reason: "invalid replication factor " + strconv.Quote(options)}
			}
			strategy = NewSimpleStrategy(factor)
		case NetworkTopologyStrategyClass:
			var factors []DatacenterFactor
			for _, option := range strings.Split(options, ",") {
				datacenter, value, ok := strings.Cut(option, "=")
				datacenter = strings.TrimSpace(datacenter)
				factor, err := strconv.Atoi(strings.TrimSpace(value))
				if !ok || datacenter == "" || err != nil || factor < 0 {
					return nil, cerrors.ReplicationParse{Text: entry, Reason: "invalid data center factor " + strconv.Quote(option)}
				}
				factors = append(factors, DC(datacenter, factor))
			}
			strategy = NewNetworkTopologyStrategy(factors...)
		default:
			return nil, cerrors.ReplicationParse{Text: entry, Reason: "unsupported replication class " + strconv.Quote(class)}
		}
		assignments = append(assignments, Set(keyspace, strategy))
	}
	if len(assignments) == 0 {
		return nil, cerrors.ReplicationParse{Text: text, Reason: "no keyspace assignment found"}
	}
	return assignments, nil
}
