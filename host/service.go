package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/holiman/uint256"

	"github.com/pflow-xyz/go-ledger/token"
)

// CallerHeader carries the environment-attributed caller identity. The
// deployment fronting this service authenticates the header; the service
// itself only translates it onto the context.
const CallerHeader = "X-Caller"

// Service exposes one deployed contract instance over HTTP. It is the host
// boundary of the system: entry points, caller attribution, and nothing of
// the ledger's semantics.
type Service struct {
	contract *Contract
	log      *slog.Logger
	started  time.Time
}

// NewService creates an HTTP facade for a deployed contract.
func NewService(contract *Contract, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		contract: contract,
		log:      logger,
		started:  time.Now(),
	}
}

// Handler returns the HTTP handler for the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /supply", s.handleSupply)
	mux.HandleFunc("GET /balance/{address}", s.handleBalance)
	mux.HandleFunc("POST /transfer", s.handleTransfer)

	return mux
}

// HealthResponse is the response for the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Instance string `json:"instance"`
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Uptime:   time.Since(s.started).String(),
		Instance: s.contract.ID(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// SupplyResponse reports the fixed total supply as a decimal string.
type SupplyResponse struct {
	TotalSupply string `json:"total_supply"`
}

func (s *Service) handleSupply(w http.ResponseWriter, r *http.Request) {
	resp := SupplyResponse{
		TotalSupply: s.contract.TotalSupply(r.Context()).Dec(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// BalanceResponse reports a single account balance.
type BalanceResponse struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}

func (s *Service) handleBalance(w http.ResponseWriter, r *http.Request) {
	account, err := token.ParseAddress(r.PathValue("address"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid address: %v", err), http.StatusBadRequest)
		return
	}

	resp := BalanceResponse{
		Account: account.String(),
		Balance: s.contract.BalanceOf(r.Context(), account).Dec(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// TransferRequest is the request body for a transfer.
type TransferRequest struct {
	To    string `json:"to"`
	Value string `json:"value"` // decimal
}

// TransferResponse is the response for a transfer.
type TransferResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *Service) handleTransfer(w http.ResponseWriter, r *http.Request) {
	caller, err := token.ParseAddress(r.Header.Get(CallerHeader))
	if err != nil || r.Header.Get(CallerHeader) == "" {
		http.Error(w, "missing or invalid caller identity", http.StatusUnauthorized)
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	to, err := token.ParseAddress(req.To)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid destination: %v", err), http.StatusBadRequest)
		return
	}
	amount, err := uint256.FromDecimal(req.Value)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid value: %v", err), http.StatusBadRequest)
		return
	}

	ctx := WithCaller(r.Context(), caller)
	err = s.contract.Transfer(ctx, to, amount)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, token.ErrInsufficientBalance) {
			status = http.StatusConflict
		}
		s.log.Info("transfer rejected",
			"instance", s.contract.ID(),
			"caller", caller.String(),
			"to", to.String(),
			"value", amount.Dec(),
			"err", err)
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(TransferResponse{OK: false, Error: err.Error()})
		return
	}

	s.log.Info("transfer applied",
		"instance", s.contract.ID(),
		"caller", caller.String(),
		"to", to.String(),
		"value", amount.Dec())
	json.NewEncoder(w).Encode(TransferResponse{OK: true})
}
