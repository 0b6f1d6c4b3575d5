package domain

// CorpusDescription is the structured description of providers and routes.
type CorpusDescription struct {
	// Providers in source order.
	Providers []Provider
}

// Provider is a bus operator and the routes it runs.
type Provider struct {
	Name   string
	Routes []Route
}

// Route is a single origin/destination pair offered by a provider.
// Fare and Departure keep the scalar text exactly as written in the source.
type Route struct {
	Origin      string
	Destination string
	Fare        string
	Departure   string
}

// ProviderNames returns provider names in source order.
func (c *CorpusDescription) ProviderNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Providers))
	for _, p := range c.Providers {
		names = append(names, p.Name)
	}
	return names
}

// HasProvider reports whether a provider with the given name exists.
func (c *CorpusDescription) HasProvider(name string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Providers {
		if p.Name == name {
			return true
		}
	}
	return false
}

// ProviderFile is one free-text file about a provider.
type ProviderFile struct {
	// Name is the filename including extension, e.g. "greenline.txt".
	Name string

	// Content is the full file content.
	Content string
}
