package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medikart/order-service/internal/domain/order"
	"github.com/medikart/order-service/internal/domain/prescription"
	"github.com/medikart/order-service/internal/domain/product"
	"github.com/medikart/order-service/internal/memory"
)

type fixture struct {
	gate              *Gate
	orders            *memory.OrderRepository
	prescriptions     *memory.PrescriptionRepository
	consultations     *memory.ConsultationRepository
	prescriptionLinks *memory.LinkRepository
	consultationLinks *memory.LinkRepository
}

func newFixture(t *testing.T, products ...product.Product) *fixture {
	t.Helper()
	f := &fixture{
		orders:            memory.NewOrderRepository(),
		prescriptions:     memory.NewPrescriptionRepository(),
		consultations:     memory.NewConsultationRepository(),
		prescriptionLinks: memory.NewLinkRepository(),
		consultationLinks: memory.NewLinkRepository(),
	}
	f.gate = NewGate(
		f.orders, memory.NewProductRepository(products...),
		f.prescriptions, f.consultations,
		f.prescriptionLinks, f.consultationLinks,
	)
	return f
}

func (f *fixture) addOrder(t *testing.T, id string, productIDs ...string) {
	t.Helper()
	items := make([]order.Item, 0, len(productIDs))
	for _, pid := range productIDs {
		items = append(items, order.Item{
			ProductID:   pid,
			ProductName: "Test " + pid,
			UnitPrice:   decimal.RequireFromString("9.99"),
			Currency:    "USD",
			Quantity:    1,
		})
	}
	require.NoError(t, f.orders.Create(context.Background(), &order.Order{
		ID:     id,
		UserID: "user-1",
		Status: order.StatusPaid,
		Items:  items,
	}))
}

func (f *fixture) addPrescription(t *testing.T, orderID, id string, status prescription.Status, reason string) {
	t.Helper()
	require.NoError(t, f.prescriptions.Create(context.Background(), &prescription.Prescription{
		ID:              id,
		UserID:          "user-1",
		FileReference:   "uploads/" + id + ".pdf",
		Status:          status,
		RejectionReason: reason,
		CreatedAt:       time.Now().UTC(),
	}))
	require.NoError(t, f.prescriptionLinks.Add(context.Background(), orderID, id))
}

func (f *fixture) addConsultation(t *testing.T, orderID, id string, status prescription.Status) {
	t.Helper()
	require.NoError(t, f.consultations.Create(context.Background(), &prescription.ConsultationRequest{
		ID:        id,
		UserID:    "user-1",
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, f.consultationLinks.Add(context.Background(), orderID, id))
}

func otcProduct(id string) product.Product {
	return product.Product{
		ID: id, Name: "OTC " + id, Price: decimal.RequireFromString("5.00"),
		Currency: "USD", Category: "otc", Active: true,
	}
}

func rxProduct(id string) product.Product {
	return product.Product{
		ID: id, Name: "RX " + id, Price: decimal.RequireFromString("20.00"),
		Currency: "USD", Category: "rx", RequiresPrescription: true, Active: true,
	}
}

func TestGate_NoRegulatedProducts(t *testing.T) {
	f := newFixture(t, otcProduct("prod-1"), otcProduct("prod-2"))
	f.addOrder(t, "o-1", "prod-1", "prod-2")

	status, err := f.gate.Status(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.ComplianceApproved, status)

	// No compliance section on detail views for unregulated orders.
	info, err := f.gate.Info(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestGate_RegulatedWithoutLinks(t *testing.T) {
	f := newFixture(t, otcProduct("prod-1"), rxProduct("prod-3"))
	f.addOrder(t, "o-1", "prod-1", "prod-3")

	status, err := f.gate.Status(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.CompliancePending, status)

	ok, err := f.gate.CanFulfil(context.Background(), "o-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGate_ApprovedPrescription(t *testing.T) {
	f := newFixture(t, rxProduct("prod-3"))
	f.addOrder(t, "o-1", "prod-3")
	f.addPrescription(t, "o-1", "rx-1", prescription.StatusApproved, "")

	status, err := f.gate.Status(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.ComplianceApproved, status)

	ok, err := f.gate.CanFulfil(context.Background(), "o-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGate_PendingPrescription(t *testing.T) {
	f := newFixture(t, rxProduct("prod-3"))
	f.addOrder(t, "o-1", "prod-3")
	f.addPrescription(t, "o-1", "rx-1", prescription.StatusPending, "")

	status, err := f.gate.Status(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.CompliancePending, status)
}

func TestGate_RejectedPrescription(t *testing.T) {
	f := newFixture(t, rxProduct("prod-3"))
	f.addOrder(t, "o-1", "prod-3")
	f.addPrescription(t, "o-1", "rx-1", prescription.StatusRejected, "illegible scan")

	status, err := f.gate.Status(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.ComplianceRejected, status)
}

func TestGate_ApprovalBeatsRejection(t *testing.T) {
	// A rejected prescription does not block the order when an approved
	// consultation exists on the other channel.
	f := newFixture(t, rxProduct("prod-3"))
	f.addOrder(t, "o-1", "prod-3")
	f.addPrescription(t, "o-1", "rx-1", prescription.StatusRejected, "expired")
	f.addConsultation(t, "o-1", "cons-1", prescription.StatusApproved)

	status, err := f.gate.Status(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.ComplianceApproved, status)
}

func TestGate_ApprovedConsultationAlone(t *testing.T) {
	f := newFixture(t, rxProduct("prod-3"))
	f.addOrder(t, "o-1", "prod-3")
	f.addConsultation(t, "o-1", "cons-1", prescription.StatusApproved)

	status, err := f.gate.Status(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.ComplianceApproved, status)
}

func TestGate_DanglingLinkSkipped(t *testing.T) {
	f := newFixture(t, rxProduct("prod-3"))
	f.addOrder(t, "o-1", "prod-3")
	f.addPrescription(t, "o-1", "rx-1", prescription.StatusApproved, "")
	f.addPrescription(t, "o-1", "rx-2", prescription.StatusPending, "")

	// Delete rx-1 behind the link table's back.
	require.NoError(t, f.prescriptions.Delete(context.Background(), "rx-1"))

	status, err := f.gate.Status(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.CompliancePending, status)

	info, err := f.gate.Info(context.Background(), "o-1")
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Len(t, info.Prescriptions, 1)
	assert.Equal(t, "rx-2", info.Prescriptions[0].ID)
}

func TestGate_MissingOrderDerivesPending(t *testing.T) {
	f := newFixture(t)

	status, err := f.gate.Status(context.Background(), "no-such-order")
	require.NoError(t, err)
	assert.Equal(t, order.CompliancePending, status)
}

func TestGate_EmptyOrderDerivesPending(t *testing.T) {
	f := newFixture(t)
	f.addOrder(t, "o-1")

	status, err := f.gate.Status(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.CompliancePending, status)
}

func TestGate_Info(t *testing.T) {
	f := newFixture(t, rxProduct("prod-3"))
	f.addOrder(t, "o-1", "prod-3")
	f.addPrescription(t, "o-1", "rx-1", prescription.StatusRejected, "wrong dosage on script")
	f.addConsultation(t, "o-1", "cons-1", prescription.StatusPending)

	info, err := f.gate.Info(context.Background(), "o-1")
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.True(t, info.RequiresPrescription)
	assert.Equal(t, order.ComplianceRejected, info.Status)
	require.Len(t, info.Prescriptions, 1)
	assert.Equal(t, "rx-1", info.Prescriptions[0].ID)
	assert.Equal(t, string(prescription.StatusRejected), info.Prescriptions[0].Status)
	assert.Equal(t, "wrong dosage on script", info.Prescriptions[0].RejectionReason)
	require.Len(t, info.Consultations, 1)
	assert.Equal(t, "cons-1", info.Consultations[0].ID)
}

func TestGate_DuplicateProductLinesCheckedOnce(t *testing.T) {
	f := newFixture(t, rxProduct("prod-3"))
	f.addOrder(t, "o-1", "prod-3", "prod-3")
	f.addPrescription(t, "o-1", "rx-1", prescription.StatusApproved, "")

	status, err := f.gate.Status(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, order.ComplianceApproved, status)
}
