// Package generator wires the schema loader, the block context builder and
// the template renderer into a single Generate call, prepending the
// auto-generation banner to the rendered body.
package generator
