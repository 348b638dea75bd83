package config

import "sync"

// RenderSettings holds render configuration
type RenderSettings struct {
	mu             sync.RWMutex
	renderDistance int // in chunk columns
	verticalChunks int // chunk layers below the top layer of each column
}

var globalRenderSettings = &RenderSettings{
	renderDistance: 4, // default value
	verticalChunks: 1,
}

// GetRenderDistance returns the current render distance in chunks
func GetRenderDistance() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.renderDistance
}

// SetRenderDistance sets the render distance in chunks
func SetRenderDistance(distance int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if distance < 1 {
		distance = 1
	}
	if distance > 32 {
		distance = 32
	}

	globalRenderSettings.renderDistance = distance
}

// GetVerticalChunks returns how many chunk layers below a column's top are loaded
func GetVerticalChunks() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.verticalChunks
}

// SetVerticalChunks sets the loaded depth per column
func SetVerticalChunks(n int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n > 16 {
		n = 16
	}
	globalRenderSettings.verticalChunks = n
}

// GetChunkLoadRadius returns radius for chunk loading
func GetChunkLoadRadius() int {
	return GetRenderDistance()
}

// GetChunkEvictRadius returns radius for chunk eviction (larger than load radius)
func GetChunkEvictRadius() int {
	return GetRenderDistance() * 2
}
