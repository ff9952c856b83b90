package activities

import (
	"context"

	"github.com/pill/recipes-etl/internal/bus"
	"github.com/pill/recipes-etl/internal/identity"
	"github.com/pill/recipes-etl/internal/parsing/local"
	"github.com/pill/recipes-etl/internal/parsing/repair"
	"github.com/pill/recipes-etl/internal/pkg/dbctx"
	"github.com/pill/recipes-etl/internal/store"
)

// BusEventHandler adapts a store into the bus.Handler contract
// ConsumeBusBatch's underlying Consumer was built around: parse the
// event's text locally (the continuous feed path has no per-item use_model
// flag — spec §4.9 runs local parsing only), repair, identify, and dedup
// through the same Store.Create path extract_one/load_one use.
func BusEventHandler(st store.Store) bus.Handler {
	return func(ctx context.Context, ev bus.Event) (bool, error) {
		r := local.Parse(ev.Text)
		repair.Apply(r)
		if ev.Title != "" {
			r.Title = ev.Title
		}
		r.SourceAuthor = ev.Author
		if ev.NumComments > 0 {
			n := ev.NumComments
			r.SourceCommentCount = &n
		}
		r.Identifier = identity.For(r.Title, ev.Author+ev.Date)

		result, err := st.Create(dbctx.Context{Ctx: ctx}, r)
		if err == store.ErrValidation {
			return false, &ValidationError{Reason: "recipe failed store validation"}
		}
		if err != nil {
			return false, err
		}
		return result.AlreadyExisted, nil
	}
}
