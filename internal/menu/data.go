package menu

import _ "embed"

//go:embed menu.yaml
var menuAsset []byte

// Default loads the built-in Atithi Family Restaurant catalog.
func Default() (*Catalog, error) {
	return Load(menuAsset)
}
