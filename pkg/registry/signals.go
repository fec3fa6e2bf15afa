package registry

import "github.com/zoobzio/capitan"

// Registry signals.
var (
	// RegistryLoaded is emitted when a document is applied.
	RegistryLoaded = capitan.NewSignal(
		"ripple.registry.loaded",
		"Reserved-name registry loaded",
	)

	// RegistryFailed is emitted when a document is rejected.
	RegistryFailed = capitan.NewSignal(
		"ripple.registry.failed",
		"Reserved-name registry document rejected",
	)
)

// Field keys for registry events.
var (
	// KeySize is the number of reserved names after a load.
	KeySize = capitan.NewIntKey("size")

	// KeyContentType is the content type of the codec that decoded the document.
	KeyContentType = capitan.NewStringKey("content_type")
)

// KeySource is the index of the source a document came from.
var KeySource = capitan.NewIntKey("source")
