package form

import (
	"strings"

	"github.com/goliatone/go-entityform/pkg/locale"
)

// Record is the contract persisted entities satisfy so the dispatcher can
// decide between create and update.
type Record interface {
	EntityID() string
	EntitySlug() string
	TranslatedLocales() []string
}

// Mode selects the mutation a submission invokes.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

func (m Mode) String() string { return string(m) }

// Plan carries the identifier bookkeeping of one submission.
type Plan struct {
	Mode Mode
	// ID is set for updates.
	ID string
	// Slug is the original slug carried over when a new translation of an
	// existing record is created.
	Slug string
}

// IsCreate reports whether the plan targets the create mutation.
func (p Plan) IsCreate() bool { return p.Mode == ModeCreate }

// PlanFor decides the mutation for a submission. Without an initial record, or
// when the record has no translation for the active locale, the create path is
// taken. Otherwise the update path is taken with the record's id.
func PlanFor[E Record](initial *E, loc locale.Context) Plan {
	if initial == nil {
		return Plan{Mode: ModeCreate}
	}
	record := *initial
	if !locale.Contains(record.TranslatedLocales(), loc.Active) {
		return Plan{Mode: ModeCreate, Slug: strings.TrimSpace(record.EntitySlug())}
	}
	return Plan{Mode: ModeUpdate, ID: record.EntityID(), Slug: strings.TrimSpace(record.EntitySlug())}
}
