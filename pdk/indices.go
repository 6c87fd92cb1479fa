package pdk

import (
	"encoding/json"
	"fmt"
	"sort"
)

/*
 * Convert "_cat/indices?format=json" response into index patterns,
 * sorted by name for the deterministic choice of the first match
 */
func ParseCatIndices(body []byte, title, timeField string) ([]IndexPattern, error) {
	var indices []struct {
		Index string `json:"index"`
	}

	err := json.Unmarshal(body, &indices)
	if err != nil {
		return nil, fmt.Errorf("Can't parse indices list: %s", err.Error())
	}

	patterns := make([]IndexPattern, 0, len(indices))
	for _, index := range indices {
		patterns = append(patterns, IndexPattern{
			Name:      index.Index,
			Title:     title,
			TimeField: timeField,
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		return patterns[i].Name < patterns[j].Name
	})

	return patterns, nil
}

/*
 * Collect all field names of the "_mapping" response,
 * nested objects are flattened with dots, like "geoip.city_name"
 */
func MappingFields(body []byte) ([]string, error) {
	data := make(map[string]struct {
		Mappings struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"mappings"`
	})

	err := json.Unmarshal(body, &data)
	if err != nil {
		return nil, fmt.Errorf("Can't parse mapping: %s", err.Error())
	}

	// Map for collecting unique fields only
	unique := make(map[string]bool)

	for _, index := range data {
		collectFields(index.Mappings.Properties, "", unique)
	}

	fields := make([]string, 0, len(unique))
	for field := range unique {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return fields, nil
}

func collectFields(properties map[string]interface{}, prefix string, fields map[string]bool) {
	for name, value := range properties {
		m, ok := value.(map[string]interface{})
		if !ok {
			continue
		}

		if nested, ok := m["properties"].(map[string]interface{}); ok {
			collectFields(nested, prefix+name+".", fields)
		} else {
			fields[prefix+name] = true
		}
	}
}
