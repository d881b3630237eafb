package kube

import (
	"gopkg.in/yaml.v2"
)

// HelmValues is the nested values structure passed to a helm chart
type HelmValues map[string]interface{}

// Merge deep-merges the other values into a copy of v, values of other win on conflicts
func (v HelmValues) Merge(other HelmValues) HelmValues {
	merged := HelmValues{}
	for key, value := range v {
		merged[key] = value
	}
	for key, value := range other {
		existing, okExisting := asValues(merged[key])
		incoming, okIncoming := asValues(value)
		if okExisting && okIncoming {
			merged[key] = existing.Merge(incoming)
			continue
		}
		merged[key] = value
	}
	return merged
}

// Render marshals the values as a yaml document
func (v HelmValues) Render() ([]byte, error) {
	return yaml.Marshal(map[string]interface{}(v))
}

func asValues(value interface{}) (HelmValues, bool) {
	switch typed := value.(type) {
	case HelmValues:
		return typed, true
	case map[string]interface{}:
		return HelmValues(typed), true
	}
	return nil, false
}

// PoolAffinityValues returns the helm values pinning pods to the node pool labeled poolLabel=poolName
func PoolAffinityValues(poolLabel, poolName string) HelmValues {
	return HelmValues{
		"affinity": HelmValues{
			"nodeAffinity": HelmValues{
				"requiredDuringSchedulingIgnoredDuringExecution": HelmValues{
					"nodeSelectorTerms": []interface{}{
						HelmValues{
							"matchExpressions": []interface{}{
								HelmValues{
									"key":      poolLabel,
									"operator": "In",
									"values":   []string{poolName},
								},
							},
						},
					},
				},
			},
		},
	}
}
