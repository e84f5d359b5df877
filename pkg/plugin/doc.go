// Package plugin defines the contract between the driver hub and the engine
// plugins it ships with.
//
// # Overview
//
// A plugin pairs a static Descriptor (identity, capability set, supported
// engine version band and the coordinates of the native driver library it
// needs) with the engine-specific pieces the core cannot guess: the SQL
// Dialect, the DSN assembly and the value-conversion table.
//
// DSN assembly that needs the vendor's own configuration types happens in
// the driver library, never in the host: such plugins set
// Descriptor.DSNSymbol and the library exports a function of type
// func(address string, props map[string]string) (string, error) under that
// name. Linking a vendor package into the host would make Go refuse any
// library built against a different release of it.
//
// Several plugins may serve the same engine, one per version band. Resolve
// returns them in declaration order and SelectBand picks the one matching a
// reported server version.
//
// # Registering a plugin
//
// Engine packages register from init(), so importing them is enough:
//
//	func init() {
//	    plugin.Register(&plugin.Definition{
//	        Desc:     descriptor80,
//	        SQL:      dialect,
//	        Values:   values,
//	        BuildDSN: buildDSN,
//	    })
//	}
//
// # Errors
//
// The package also carries the error taxonomy shared by the connection,
// execution and metadata layers: ConfigurationError, ConnectionError,
// UnsupportedOperationError, NotFoundError and DatabaseError. Use the Is*
// helpers rather than type assertions:
//
//	if plugin.IsUnsupported(err) {
//	    // the engine exists but lacks the feature
//	}
package plugin
