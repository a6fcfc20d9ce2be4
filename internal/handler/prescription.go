package handler

import "net/http"

// SubmitPrescription uploads a prescription against an order. The file
// itself lives in the upload store; only its reference travels here.
func (h *Handler) SubmitPrescription(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	req, err := decodeSubmit(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	p, err := h.prescriptions.SubmitPrescription(r.Context(), uid, req.OrderID, req.FileReference)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, prescriptionBody{p: p})
}

// ReviewPrescription records the pharmacist's verdict. Exactly one
// review per prescription; rejections carry a reason.
func (h *Handler) ReviewPrescription(w http.ResponseWriter, r *http.Request) {
	req, err := decodeReview(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	p, err := h.prescriptions.ReviewPrescription(r.Context(), r.PathValue("id"), req.Approve, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prescriptionBody{p: p})
}

// SubmitConsultation requests a doctor consultation against an order.
func (h *Handler) SubmitConsultation(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	req, err := decodeSubmit(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	c, err := h.prescriptions.SubmitConsultation(r.Context(), uid, req.OrderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, consultationBody{c: c})
}

// ReviewConsultation records the doctor's verdict.
func (h *Handler) ReviewConsultation(w http.ResponseWriter, r *http.Request) {
	req, err := decodeReview(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	c, err := h.prescriptions.ReviewConsultation(r.Context(), r.PathValue("id"), req.Approve)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, consultationBody{c: c})
}
