package search

// Registry holds all registered search providers
type Registry struct {
	providers []Provider
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: []Provider{},
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(provider Provider) {
	r.providers = append(r.providers, provider)
}

// GetAll returns all registered providers
func (r *Registry) GetAll() []Provider {
	return r.providers
}

// Count returns the number of registered providers
func (r *Registry) Count() int {
	return len(r.providers)
}
