package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookpost/internal/accounts"
	"github.com/cleared-dev/bookpost/internal/model"
)

// transactionRequest is the wire form of a posting. Amount may be a JSON
// number or a numeric string.
type transactionRequest struct {
	Type        string          `json:"type"`
	PartyName   string          `json:"partyName"`
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

type transactionResponse struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	JournalNumber string      `json:"journalNumber"`
	DebitAccount  string      `json:"debitAccount"`
	CreditAccount string      `json:"creditAccount"`
	Amount        json.Number `json:"amount"`
	Date          string      `json:"date"`
	PostingID     string      `json:"postingId"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type trialBalanceRow struct {
	Account string `json:"account"`
	Code    string `json:"code"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
}

type trialBalanceResponse struct {
	Rows     []trialBalanceRow `json:"rows"`
	Total    trialBalanceRow   `json:"total"`
	Balanced bool              `json:"balanced"`
}

// toRequest converts the wire form. Missing values are left zero so
// TransactionRequest.Validate reports them.
func (t transactionRequest) toRequest() (model.TransactionRequest, error) {
	req := model.TransactionRequest{
		Type:        model.TransactionType(t.Type),
		PartyName:   t.PartyName,
		Description: t.Description,
	}

	amount, err := parseAmount(t.Amount)
	if err != nil {
		return req, err
	}
	req.Amount = amount

	if t.Date != "" {
		d, err := model.ParseDate(t.Date)
		if err != nil {
			return req, err
		}
		req.Date = d
	}
	return req, nil
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}
	s := string(raw)
	if raw[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return decimal.Zero, model.ValidationError{Field: "amount", Reason: "must be a number"}
		}
		if unq == "" {
			return decimal.Zero, nil
		}
		s = unq
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, model.ValidationError{Field: "amount", Reason: "must be a number"}
	}
	return d, nil
}

func (s *Server) handleSubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	req, err := body.toRequest()
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		writeRequestError(w, err)
		return
	}

	res, err := s.cfg.Poster.Submit(r.Context(), req)
	if err != nil {
		var ve model.ValidationError
		if errors.As(err, &ve) || errors.Is(err, accounts.ErrInvalidTransactionType) {
			writeRequestError(w, err)
			return
		}
		s.log.Error().Err(err).Str("type", body.Type).Msg("posting failed")
		writeError(w, http.StatusInternalServerError, "Failed to process transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, transactionResponse{
		Success:       true,
		Message:       "Transaction posted successfully",
		JournalNumber: res.JournalNumber,
		DebitAccount:  res.DebitAccount,
		CreditAccount: res.CreditAccount,
		Amount:        json.Number(res.Amount.String()),
		Date:          model.FormatDisplayDate(res.Date),
		PostingID:     res.PostingID,
	})
}

// writeRequestError maps a rejected request onto a 400 response.
func writeRequestError(w http.ResponseWriter, err error) {
	if errors.Is(err, accounts.ErrInvalidTransactionType) {
		writeError(w, http.StatusBadRequest, "Invalid transaction type", err.Error())
		return
	}
	var ve model.ValidationError
	if errors.As(err, &ve) && ve.Reason == "required" {
		writeError(w, http.StatusBadRequest, "Missing required fields", err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
}

func (s *Server) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	rows, total, err := s.cfg.TrialBalance.Read(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("reading trial balance")
		writeError(w, http.StatusInternalServerError, "Failed to read trial balance", err.Error())
		return
	}

	resp := trialBalanceResponse{
		Rows:     make([]trialBalanceRow, len(rows)),
		Total:    wireRow(total),
		Balanced: total.Debit.Equal(total.Credit),
	}
	for i, row := range rows {
		resp.Rows[i] = wireRow(row)
	}
	writeJSON(w, http.StatusOK, resp)
}

func wireRow(r model.TrialBalanceRow) trialBalanceRow {
	return trialBalanceRow{
		Account: r.Name,
		Code:    r.Code,
		Debit:   model.FormatAmount(r.Debit),
		Credit:  model.FormatAmount(r.Credit),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"business": s.cfg.Business,
	})
}

func handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}
