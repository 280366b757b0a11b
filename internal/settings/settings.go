package settings

// Setting groups: branding covers the provider's display identity,
// terminology covers the words the UI uses for clients and workers.
const (
	GroupBranding    = "branding"
	GroupTerminology = "terminology"
)

// knownKeys limits writes to the settings the application actually reads.
var knownKeys = map[string][]string{
	GroupBranding: {
		"branding.provider_name",
		"branding.logo_url",
		"branding.primary_color",
	},
	GroupTerminology: {
		"terminology.client_label",
		"terminology.worker_label",
		"terminology.shift_label",
	},
}

func KeysForGroup(group string) ([]string, bool) {
	keys, ok := knownKeys[group]
	return keys, ok
}

func IsKnownKey(group, key string) bool {
	keys, ok := knownKeys[group]
	if !ok {
		return false
	}
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// Repository defines the data access methods for app settings.
type Repository interface {
	GetAll(keys []string) (map[string]string, error)
	Upsert(key, value string) error
}
