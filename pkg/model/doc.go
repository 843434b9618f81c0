// Package model describes the field layout of an entity form: names, kinds,
// labels, option sets and repeatable groups. Controllers use it to partition
// translation-immutable fields and to match server error paths, and the prompt
// driver walks it to collect input. Values never live here; see package form.
package model
