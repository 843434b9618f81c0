// Package form implements the framework-neutral entity form: per-mount state
// addressed by dotted paths, translation-aware field locking, slug
// auto-suggestion, local validation, and a dispatcher that chooses between the
// create and update mutations and redistributes server validation failures
// onto fields.
//
// A Definition describes one entity. A Controller mounts it:
//
//	ctrl := form.NewController(author.Definition(), env, initial, client.Authors())
//	_ = ctrl.SetValue("name", "Jane Austen")
//	record, err := ctrl.Submit(ctx)
package form
