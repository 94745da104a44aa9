package appointment

import "github.com/BruksfildServices01/barber-admin/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
)

// ===============================
// Validations
// ===============================

// CanCancel define se um agendamento pode ser cancelado
func CanCancel(current Status) error {
	if current == StatusCanceled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete define se um agendamento pode ser concluído
func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanOverrideTotal: só agendamentos concluídos têm total faturado
func CanOverrideTotal(current Status) error {
	if current != StatusCompleted {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}

// ===============================
// Payment
// ===============================

const (
	PaymentCash = "cash"
	PaymentPix  = "pix"
	PaymentCard = "card"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case "", PaymentCash, PaymentPix, PaymentCard:
		return true
	}
	return false
}
