// Package runtime wires a catalog backend into a runtime with a start and stop
// lifecycle. Commands and the web server obtain their catalog client from it.
package runtime
