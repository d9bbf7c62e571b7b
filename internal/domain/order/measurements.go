package order

import "strings"

// Measurements holds the nine named measurement fields captured per item.
// All fields are free-text strings and independently optional.
type Measurements struct {
	SleeveLength  string `json:"sleeve_length"`
	Forearm       string `json:"forearm"`
	ShoulderWidth string `json:"shoulder_width"`
	Cuffs         string `json:"cuffs"`
	Waist         string `json:"waist"`
	ChestLength   string `json:"chest_length"`
	TotalLength   string `json:"total_length"`
	Hip           string `json:"hip"`
	DressSize     string `json:"dress_size"`
}

// IsEmpty reports whether every field is blank
func (m Measurements) IsEmpty() bool {
	for _, v := range m.fields() {
		if strings.TrimSpace(v.value) != "" {
			return false
		}
	}
	return true
}

// Fields returns the non-empty measurement fields keyed by payload name
func (m Measurements) Fields() map[string]string {
	out := make(map[string]string)
	for _, v := range m.fields() {
		if val := strings.TrimSpace(v.value); val != "" {
			out[v.key] = val
		}
	}
	return out
}

type measurementField struct {
	key   string
	value string
}

func (m Measurements) fields() []measurementField {
	return []measurementField{
		{"sleeve_length", m.SleeveLength},
		{"forearm", m.Forearm},
		{"shoulder_width", m.ShoulderWidth},
		{"cuffs", m.Cuffs},
		{"waist", m.Waist},
		{"chest_length", m.ChestLength},
		{"total_length", m.TotalLength},
		{"hip", m.Hip},
		{"dress_size", m.DressSize},
	}
}
