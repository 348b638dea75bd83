package config

import (
	"sync"

	"terramesh/internal/world"
)

// WorldGenSettings holds world generation configuration
type WorldGenSettings struct {
	mu        sync.RWMutex
	seed      int64
	profile   string
	chunkSize int
	seaLevel  float64
	sandLevel float64
}

var globalWorldGenSettings = &WorldGenSettings{
	profile:   world.ProfileHigh.Name,
	chunkSize: world.DefaultChunkSize,
	seaLevel:  world.DefaultSeaLevel,
	sandLevel: world.DefaultSandLevel,
}

// GetSeed returns the world seed
func GetSeed() int64 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.seed
}

// SetSeed sets the world seed
func SetSeed(seed int64) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.seed = seed
}

// GetProfile returns the terrain profile name
func GetProfile() string {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.profile
}

// SetProfile sets the terrain profile name
func SetProfile(name string) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.profile = name
}

// GetChunkSize returns the chunk side length
func GetChunkSize() int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.chunkSize
}

// SetChunkSize sets the chunk side length
func SetChunkSize(n int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	if n < 2 {
		n = 2
	}
	if n > 64 {
		n = 64
	}
	globalWorldGenSettings.chunkSize = n
}

// GetSeaLevel returns the configured sea level
func GetSeaLevel() float64 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.seaLevel
}

// SetSeaLevel sets the sea level
func SetSeaLevel(level float64) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.seaLevel = level
}

// GetSandLevel returns the configured sand level
func GetSandLevel() float64 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.sandLevel
}

// SetSandLevel sets the sand level
func SetSandLevel(level float64) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.sandLevel = level
}

// TerrainConfig assembles the sampler configuration from the current settings.
func TerrainConfig() (world.TerrainConfig, error) {
	profile, err := world.ProfileByName(GetProfile())
	if err != nil {
		return world.TerrainConfig{}, err
	}
	cfg := world.DefaultTerrainConfig().WithWorldSeed(GetSeed())
	cfg.Profile = profile
	cfg.SeaLevel = GetSeaLevel()
	cfg.SandLevel = GetSandLevel()
	return cfg, nil
}
