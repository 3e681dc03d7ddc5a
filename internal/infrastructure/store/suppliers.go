package store

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
)

// SupplierFile reads the supplier directory from a JSON file holding a
// flat array of supplier records. The scraping core only consumes it
// through domain.SupplierRepository; a missing or corrupt file behaves as
// an empty directory.
type SupplierFile struct {
	path string
}

func NewSupplierFile(path string) *SupplierFile {
	return &SupplierFile{path: path}
}

// All returns every supplier record in file order.
func (s *SupplierFile) All(ctx context.Context) ([]domain.Supplier, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[SUPPLIERS] cannot read %s: %v", s.path, err)
		}
		return nil, nil
	}
	var suppliers []domain.Supplier
	if err := json.Unmarshal(data, &suppliers); err != nil {
		log.Printf("[SUPPLIERS] ignoring unreadable supplier file %s", s.path)
		return nil, nil
	}
	return suppliers, nil
}

// ByID returns the supplier with the given id or domain.ErrSupplierNotFound.
func (s *SupplierFile) ByID(ctx context.Context, id int) (*domain.Supplier, error) {
	suppliers, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range suppliers {
		if suppliers[i].ID == id {
			return &suppliers[i], nil
		}
	}
	return nil, domain.ErrSupplierNotFound
}
