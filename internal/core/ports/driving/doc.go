// Package driving defines the interfaces that external actors (CLI, MCP
// server, TUI) use to interact with core services. These are the "driving"
// ports in hexagonal architecture terminology - they drive the application.
//
// Ingestor runs the ingestion pipeline, Retriever answers queries, and
// SettingsService manages configuration. Implementations live in
// internal/core/services.
package driving
