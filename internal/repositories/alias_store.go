package repositories

// AliasStoreAdapter exposes an AliasRepository through the
// services.AliasStore seam consumed by the catalog.
type AliasStoreAdapter struct {
	repo *AliasRepository
}

func NewAliasStoreAdapter(repo *AliasRepository) *AliasStoreAdapter {
	return &AliasStoreAdapter{repo: repo}
}

// Load reads the alias table into a name to playlist ID map.
func (a *AliasStoreAdapter) Load() (map[string]string, error) {
	aliases, err := a.repo.List()
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(aliases))
	for _, alias := range aliases {
		result[alias.Name] = alias.PlaylistID
	}

	return result, nil
}

// Save replaces the alias table with the given map.
func (a *AliasStoreAdapter) Save(aliases map[string]string) error {
	return a.repo.ReplaceAll(aliases)
}
