package memory

import (
	"context"
	"sync"

	"github.com/medikart/order-service/internal/domain/prescription"
)

// PrescriptionRepository is an in-memory prescription.Repository.
type PrescriptionRepository struct {
	mu            sync.RWMutex
	prescriptions map[string]prescription.Prescription
}

var _ prescription.Repository = (*PrescriptionRepository)(nil)

// NewPrescriptionRepository returns an empty in-memory prescription store.
func NewPrescriptionRepository() *PrescriptionRepository {
	return &PrescriptionRepository{prescriptions: make(map[string]prescription.Prescription)}
}

// Create stores a new prescription.
func (r *PrescriptionRepository) Create(_ context.Context, p *prescription.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prescriptions[p.ID] = *p
	return nil
}

// GetByID returns a copy of the stored prescription.
func (r *PrescriptionRepository) GetByID(_ context.Context, id string) (*prescription.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.prescriptions[id]
	if !ok {
		return nil, prescription.ErrNotFound
	}
	return &p, nil
}

// Update replaces a stored prescription.
func (r *PrescriptionRepository) Update(_ context.Context, p *prescription.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prescriptions[p.ID]; !ok {
		return prescription.ErrNotFound
	}
	r.prescriptions[p.ID] = *p
	return nil
}

// Delete removes a stored prescription. Used to simulate dangling links.
func (r *PrescriptionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prescriptions[id]; !ok {
		return prescription.ErrNotFound
	}
	delete(r.prescriptions, id)
	return nil
}

// ConsultationRepository is an in-memory prescription.ConsultationRepository.
type ConsultationRepository struct {
	mu            sync.RWMutex
	consultations map[string]prescription.ConsultationRequest
}

var _ prescription.ConsultationRepository = (*ConsultationRepository)(nil)

// NewConsultationRepository returns an empty in-memory consultation store.
func NewConsultationRepository() *ConsultationRepository {
	return &ConsultationRepository{consultations: make(map[string]prescription.ConsultationRequest)}
}

// Create stores a new consultation request.
func (r *ConsultationRepository) Create(_ context.Context, c *prescription.ConsultationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consultations[c.ID] = *c
	return nil
}

// GetByID returns a copy of the stored consultation request.
func (r *ConsultationRepository) GetByID(_ context.Context, id string) (*prescription.ConsultationRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.consultations[id]
	if !ok {
		return nil, prescription.ErrConsultationNotFound
	}
	return &c, nil
}

// Update replaces a stored consultation request.
func (r *ConsultationRepository) Update(_ context.Context, c *prescription.ConsultationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.consultations[c.ID]; !ok {
		return prescription.ErrConsultationNotFound
	}
	r.consultations[c.ID] = *c
	return nil
}
