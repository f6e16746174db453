package llm

import (
	"encoding/json"
	"sort"

	"github.com/invopop/jsonschema"
)

type moodRecordReply struct {
	Valence        float64  `json:"valence" jsonschema:"description=Mean valence echoed from the input"`
	Energy         float64  `json:"energy" jsonschema:"description=Mean energy echoed from the input"`
	Danceability   float64  `json:"danceability" jsonschema:"description=Mean danceability echoed from the input"`
	NumberOfTracks int      `json:"number_of_tracks" jsonschema:"description=Track count echoed from the input"`
	Words          []string `json:"words" jsonschema:"description=Exactly 8 emotion words"`
}

type wordListReply struct {
	Words []string `json:"words" jsonschema:"description=Exactly 8 emotion words"`
}

var (
	moodRecordSchema = generateSchema[moodRecordReply]()
	wordListSchema   = generateSchema[wordListReply]()
)

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}

	delete(m, "$schema")
	delete(m, "$id")
	requireAllProperties(m)
	return m
}

// requireAllProperties marks every property required and closes every object,
// which strict structured outputs demand.
func requireAllProperties(schema map[string]interface{}) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
			required := make([]string, 0, len(properties))
			for name := range properties {
				required = append(required, name)
			}
			sort.Strings(required)
			if len(required) > 0 {
				schema[requiredKey] = required
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				requireAllProperties(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		requireAllProperties(items)
	}
}
