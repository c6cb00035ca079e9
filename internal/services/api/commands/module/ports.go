package module

import (
	"ganadero/internal/core/herd"
	commandsdom "ganadero/internal/services/api/commands/domain"
)

// Ports are what commands offers other modules
type Ports struct {
	Service commandsdom.ServicePort
	Intents []herd.OperationType
	// Store is the backend in use, StorePostgres or StoreMemory
	Store string
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
