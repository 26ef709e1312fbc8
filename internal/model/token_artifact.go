package model

import (
	"encoding/json"
)

// TokenArtifact records one patched coin module and its publish inputs.
type TokenArtifact struct {
	Symbol              string   `json:"symbol"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	IconURL             string   `json:"icon_url"`
	Decimals            int      `json:"decimals"`
	SchemaVersion       int      `json:"schema_version"`
	TemplateSize        int      `json:"template_size"`
	Encoding            string   `json:"encoding"`
	Module              string   `json:"module"`
	ContentKey          string   `json:"content_key"`
	Dependencies        []string `json:"dependencies"`
	UpgradeCapRecipient string   `json:"upgrade_cap_recipient,omitempty"`
	CreatedAt           string   `json:"created_at"`
}

// MarshalJSON keeps dependencies encoded as an array even when unset.
func (a TokenArtifact) MarshalJSON() ([]byte, error) {
	type Alias TokenArtifact
	if a.Dependencies == nil {
		a.Dependencies = []string{}
	}
	return json.Marshal(Alias(a))
}
