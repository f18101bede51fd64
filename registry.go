package hal

// Factory constructs a fresh hardware implementation.
type Factory func() Hardware

// Registry resolves the plugin names in hardware descriptions to
// factories. Plugins register in-process; there is no dynamic loading.
type Registry map[string]Factory
