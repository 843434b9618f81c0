// Package schema implements the field schema of an entity form: a compiled
// JSON Schema document that accepts or rejects candidate form values and
// reports failures as (field path, message) issues. Documents are usually
// embedded by the entity packages; FromOpenAPI compiles a component of the
// admin API's published OpenAPI contract instead.
package schema
