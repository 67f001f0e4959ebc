// Package project runs the generation pipeline.
//
// A project is created either from keyboard.toml and vial.json or from the
// answers of a wizard session. Both paths produce a DeviceModel that goes
// through the template engine, the optional template overlay and finally
// the emitter:
//
//	documents -> hardware/layout readers -> normalize -> reconcile --+
//	                                                                 +-> gen -> emit
//	wizard session ---------------------------------------------------+
package project
