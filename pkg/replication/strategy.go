// Package replication models keyspace replication strategies and changes them temporarily.
package replication

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"gopkg.in/yaml.v2"
)

const (
	SimpleStrategyClass          = "SimpleStrategy"
	NetworkTopologyStrategyClass = "NetworkTopologyStrategy"

	replicationFactorOption = "replication_factor"
	qualifiedClassPrefix    = "org.apache.cassandra.locator."
)

var replicationRegex = regexp.MustCompile(`(?i)replication\s*=\s*(\{[^}]*\})`)

// Strategy is the replication of a keyspace, rendered as a CQL map literal by String
type Strategy interface {
	Class() string
	// Options returns the strategy options in rendering order, the class excluded
	Options() yaml.MapSlice
	String() string
}

// SimpleStrategy places ReplicationFactor replicas in the cluster regardless of data centers
type SimpleStrategy struct {
	ReplicationFactor int
}

// NewSimpleStrategy returns a SimpleStrategy with the given replication factor
func NewSimpleStrategy(replicationFactor int) SimpleStrategy {
	return SimpleStrategy{ReplicationFactor: replicationFactor}
}

func (s SimpleStrategy) Class() string {
	return SimpleStrategyClass
}

func (s SimpleStrategy) Options() yaml.MapSlice {
	return yaml.MapSlice{{Key: replicationFactorOption, Value: s.ReplicationFactor}}
}

func (s SimpleStrategy) String() string {
	return render(s)
}

// DatacenterFactor is the replication factor of a single data center
type DatacenterFactor struct {
	Datacenter        string
	ReplicationFactor int
}

// DC returns the replication factor of the named data center
func DC(datacenter string, replicationFactor int) DatacenterFactor {
	return DatacenterFactor{Datacenter: datacenter, ReplicationFactor: replicationFactor}
}

// NetworkTopologyStrategy sets the replication factor per data center, in the given order
type NetworkTopologyStrategy struct {
	Datacenters []DatacenterFactor
}

// NewNetworkTopologyStrategy returns a NetworkTopologyStrategy keeping the order of the factors
func NewNetworkTopologyStrategy(factors ...DatacenterFactor) NetworkTopologyStrategy {
	return NetworkTopologyStrategy{Datacenters: factors}
}

func (s NetworkTopologyStrategy) Class() string {
	return NetworkTopologyStrategyClass
}

func (s NetworkTopologyStrategy) Options() yaml.MapSlice {
	options := make(yaml.MapSlice, 0, len(s.Datacenters))
	for _, dc := range s.Datacenters {
		options = append(options, yaml.MapItem{Key: dc.Datacenter, Value: dc.ReplicationFactor})
	}
	return options
}

func (s NetworkTopologyStrategy) String() string {
	return render(s)
}

// render prints the strategy the way cqlsh expects it: {'class': 'SimpleStrategy', 'replication_factor': 3}
func render(s Strategy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{'class': %s", quote(s.Class()))
	for _, option := range s.Options() {
		fmt.Fprintf(&b, ", %s: %s", quote(fmt.Sprint(option.Key)), renderValue(option.Value))
	}
	b.WriteString("}")
	return b.String()
}

func renderValue(value interface{}) string {
	switch typed := value.(type) {
	case int:
		return strconv.Itoa(typed)
	case string:
		return quote(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Equal reports whether both strategies render the same replication
func Equal(a, b Strategy) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// FromString extracts the `replication = {...}` assignment from text, e.g. a `describe keyspace` output.
// The match is case-insensitive and tolerates any whitespace around the equal sign.
func FromString(text string) (Strategy, error) {
	match := replicationRegex.FindStringSubmatch(text)
	if match == nil {
		return nil, cerrors.ReplicationParse{Text: text, Reason: "no replication assignment found"}
	}
	literal := match[1]

	var fields yaml.MapSlice
	if err := yaml.Unmarshal([]byte(literal), &fields); err != nil {
		return nil, cerrors.ReplicationParse{Text: literal, Reason: "malformed replication map: " + err.Error()}
	}

	// a repeated key keeps its first position and its last value, as a CQL map literal does
	class := ""
	options := yaml.MapSlice{}
	positions := map[string]int{}
	for _, field := range fields {
		key := fmt.Sprint(field.Key)
		if key == "class" {
			class = strings.TrimPrefix(fmt.Sprint(field.Value), qualifiedClassPrefix)
			continue
		}
		if index, seen := positions[key]; seen {
			options[index].Value = field.Value
			continue
		}
		positions[key] = len(options)
		options = append(options, yaml.MapItem{Key: key, Value: field.Value})
	}

	switch class {
	case SimpleStrategyClass:
		return simpleFromOptions(literal, options)
	case NetworkTopologyStrategyClass:
		return networkTopologyFromOptions(literal, options)
	case "":
		return nil, cerrors.ReplicationParse{Text: literal, Reason: "missing replication class"}
	default:
		return nil, cerrors.ReplicationParse{Text: literal, Reason: fmt.Sprintf("unsupported replication class %q", class)}
	}
}

func simpleFromOptions(literal string, options yaml.MapSlice) (Strategy, error) {
	if len(options) != 1 || options[0].Key != replicationFactorOption {
		return nil, cerrors.ReplicationParse{Text: literal, Reason: "SimpleStrategy takes exactly the replication_factor option"}
	}
	factor, err := replicationFactor(options[0].Value)
	if err != nil {
		return nil, cerrors.ReplicationParse{Text: literal, Reason: err.Error()}
	}
	return NewSimpleStrategy(factor), nil
}

func networkTopologyFromOptions(literal string, options yaml.MapSlice) (Strategy, error) {
	factors := make([]DatacenterFactor, 0, len(options))
	for _, option := range options {
		factor, err := replicationFactor(option.Value)
		if err != nil {
			return nil, cerrors.ReplicationParse{Text: literal, Reason: fmt.Sprintf("data center %v: %v", option.Key, err)}
		}
		factors = append(factors, DC(option.Key.(string), factor))
	}
	return NewNetworkTopologyStrategy(factors...), nil
}

// replicationFactor accepts both 3 and '3', describe prints the factors quoted
func replicationFactor(value interface{}) (int, error) {
	switch typed := value.(type) {
	case int:
		if typed < 0 {
			return 0, fmt.Errorf("negative replication factor %d", typed)
		}
		return typed, nil
	case string:
		factor, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, fmt.Errorf("invalid replication factor %q", typed)
		}
		return replicationFactor(factor)
	default:
		return 0, fmt.Errorf("invalid replication factor %v", value)
	}
}
