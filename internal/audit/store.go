package audit

import "context"

type Store interface {
	Append(ctx context.Context, event Event) error
	ListByPatron(ctx context.Context, patronID string) ([]Event, error)
}
