package models

// Session identifies the logged user and the event editions they work on.
// It is written once per bootstrap and never on a failed one.
type Session struct {
	LoggedUser     User   `json:"logged_user"`
	CurrentEventID string `json:"current_event_id"`
	FormerEventID  string `json:"former_event_id,omitempty"`
}

// Configuration keys understood by the admin backend
const (
	ConfigKeyFormerEventID = "former_event_id"
)

// Configuration holds the key/value application configuration served to clients
type Configuration struct {
	Values map[string]string `json:"values"`
}

// NewConfiguration creates an empty configuration
func NewConfiguration() *Configuration {
	return &Configuration{Values: make(map[string]string)}
}

// Get returns the value for key, or "" when unset
func (c *Configuration) Get(key string) string {
	if c == nil || c.Values == nil {
		return ""
	}
	return c.Values[key]
}

// FormerEventID returns the configured previous event edition
func (c *Configuration) FormerEventID() string {
	return c.Get(ConfigKeyFormerEventID)
}
