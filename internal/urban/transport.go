package urban

import "context"

// TransportService serves public transport points.
type TransportService struct {
	store Store
}

// NewTransportService creates a TransportService over the given store.
func NewTransportService(store Store) *TransportService {
	return &TransportService{store: store}
}

// List returns all transport stops.
func (s *TransportService) List(ctx context.Context) ([]TransportStop, error) {
	return s.store.ListTransport(ctx)
}
