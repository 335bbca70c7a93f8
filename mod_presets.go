package impactfx

import (
	"encoding/json"
	"fmt"
	"os"
)

// MaterialLibrary is the on-disk authoring format for material profiles:
// one fallback plus the ordered profile list fed to the registry.
type MaterialLibrary struct {
	Fallback MaterialProfile   `json:"fallback"`
	Profiles []MaterialProfile `json:"profiles"`
}

// Registry builds a validated MaterialRegistry from the library.
func (lib *MaterialLibrary) Registry() (*MaterialRegistry, error) {
	return NewMaterialRegistry(lib.Profiles, lib.Fallback)
}

func SaveMaterialLibrary(filename string, lib *MaterialLibrary) error {
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal material library: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write material library: %w", err)
	}
	return nil
}

// LoadMaterialLibrary reads and validates an authored library. The returned
// registry is the one built during validation, so the table is constructed
// exactly once per load.
func LoadMaterialLibrary(filename string) (*MaterialLibrary, *MaterialRegistry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read material library: %w", err)
	}

	var lib MaterialLibrary
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, nil, fmt.Errorf("failed to parse material library: %w", err)
	}

	// Reject malformed profiles at load time rather than at dispatch.
	registry, err := lib.Registry()
	if err != nil {
		return nil, nil, err
	}

	return &lib, registry, nil
}

// MaterialLibraryModule loads a material library from disk and installs its
// registry, for hosts that author materials as JSON instead of in code.
type MaterialLibraryModule struct {
	Filename string
}

func (m MaterialLibraryModule) Install(app *App, cmd *Commands) {
	_, registry, err := LoadMaterialLibrary(m.Filename)
	if err != nil {
		panic(fmt.Sprintf("material library %q rejected: %v", m.Filename, err))
	}
	cmd.AddResources(registry)
}
