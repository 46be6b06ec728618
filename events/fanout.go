package events

import (
	"context"
	"errors"

	"foodorder/services"
)

// Fanout sends every event to all publishers and joins their errors.
type Fanout []services.OrderEventPublisher

func (f Fanout) PublishOrder(ctx context.Context, evt services.OrderEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishOrder(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
