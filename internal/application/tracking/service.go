package tracking

import "github.com/carhive/interaction-service/internal/domain"

type Service struct {
	reader  EventReader
	pub     Publisher
	cache   Cache
	catalog domain.CarCatalog
	clock   Clock
}

func New(reader EventReader, pub Publisher, catalog domain.CarCatalog, clock Clock) *Service {
	return &Service{
		reader:  reader,
		pub:     pub,
		catalog: catalog,
		clock:   clock,
	}
}

// WithCache enables first-page query caching. A nil cache leaves it off.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}
