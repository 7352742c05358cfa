package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/oleal/shopbook/internal/core/domain"
	"github.com/oleal/shopbook/internal/core/metrics"
	"github.com/oleal/shopbook/internal/core/service"
)

// HTTPHandler exposes the inventory and client-tab operations as a JSON
// API for the web UI.
type HTTPHandler struct {
	inventory *service.InventoryService
	tabs      *service.TabService
}

func NewHTTPHandler(inventory *service.InventoryService, tabs *service.TabService) *HTTPHandler {
	return &HTTPHandler{inventory: inventory, tabs: tabs}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/items", h.Items)
	mux.HandleFunc("/api/items/sale", h.RecordSale)
	mux.HandleFunc("/api/items/stock", h.AddStock)
	mux.HandleFunc("/api/inventory/summary", h.InventorySummary)
	mux.HandleFunc("/api/clients", h.Clients)
	mux.HandleFunc("/api/clients/", h.ClientByID)
	mux.HandleFunc("/api/transactions", h.Transactions)
	mux.HandleFunc("/api/tabs/summary", h.TabSummary)
}

type itemResponse struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	BuyPrice           domain.Cents       `json:"buy_price"`
	SellPrice          domain.Cents       `json:"sell_price"`
	Stock              int                `json:"stock"`
	Sold               int                `json:"sold"`
	Profit             domain.Cents       `json:"profit"`
	BreakEvenReachable bool               `json:"break_even_reachable"`
	BreakEvenUnits     int                `json:"break_even_units"`
	Status             domain.StockStatus `json:"status"`
}

func toItemResponse(it domain.InventoryItem) itemResponse {
	breakEven := metrics.ItemBreakEven(it)
	return itemResponse{
		ID:                 it.ID,
		Name:               it.Name,
		BuyPrice:           it.BuyPrice,
		SellPrice:          it.SellPrice,
		Stock:              it.Stock,
		Sold:               it.Sold,
		Profit:             metrics.ItemProfit(it),
		BreakEvenReachable: breakEven.Reachable,
		BreakEvenUnits:     breakEven.Units,
		Status:             metrics.StatusOf(it.Stock),
	}
}

type addItemRequest struct {
	Name      string       `json:"name"`
	BuyPrice  domain.Cents `json:"buy_price"`
	SellPrice domain.Cents `json:"sell_price"`
	Stock     int          `json:"stock"`
}

func (h *HTTPHandler) Items(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := h.inventory.ListItems(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		out := make([]itemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toItemResponse(it))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req addItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeBadRequest(w, "invalid request body")
			return
		}
		item, err := h.inventory.AddItem(r.Context(), service.AddItemInput{
			Name:      req.Name,
			BuyPrice:  req.BuyPrice,
			SellPrice: req.SellPrice,
			Stock:     req.Stock,
		})
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toItemResponse(item))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type saleRequest struct {
	RequestID string `json:"request_id"`
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
}

type saleResponse struct {
	Item     itemResponse `json:"item"`
	Quantity int          `json:"quantity"`
	Revenue  domain.Cents `json:"revenue"`
}

func (h *HTTPHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}

	result, err := h.inventory.RecordSale(r.Context(), req.RequestID, req.ItemID, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saleResponse{
		Item:     toItemResponse(result.Item),
		Quantity: result.Quantity,
		Revenue:  result.Revenue,
	})
}

type stockRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (h *HTTPHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "invalid request body")
		return
	}

	item, err := h.inventory.AddStock(r.Context(), req.ItemID, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

type inventorySummaryResponse struct {
	TotalItems      int          `json:"total_items"`
	InventoryValue  domain.Cents `json:"inventory_value"`
	TotalInvestment domain.Cents `json:"total_investment"`
	TotalRevenue    domain.Cents `json:"total_revenue"`
	BreakEvenNeeded domain.Cents `json:"break_even_needed"`
}

func (h *HTTPHandler) InventorySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, err := h.inventory.Summary(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inventorySummaryResponse{
		TotalItems:      summary.TotalItems,
		InventoryValue:  summary.InventoryValue,
		TotalInvestment: summary.TotalInvestment,
		TotalRevenue:    summary.TotalRevenue,
		BreakEvenNeeded: summary.BreakEvenNeeded,
	})
}

type clientResponse struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Email   string       `json:"email,omitempty"`
	Phone   string       `json:"phone,omitempty"`
	Balance domain.Cents `json:"balance"`
}

type addClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *HTTPHandler) Clients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		clients, err := h.tabs.ListClients(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		out := make([]clientResponse, 0, len(clients))
		for _, c := range clients {
			out = append(out, clientResponse{
				ID:      c.Client.ID,
				Name:    c.Client.Name,
				Email:   c.Client.Email,
				Phone:   c.Client.Phone,
				Balance: c.Balance,
			})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req addClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeBadRequest(w, "invalid request body")
			return
		}
		client, err := h.tabs.AddClient(r.Context(), req.Name, req.Email, req.Phone)
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, clientResponse{
			ID:    client.ID,
			Name:  client.Name,
			Email: client.Email,
			Phone: client.Phone,
		})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *HTTPHandler) ClientByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/clients/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.tabs.DeleteClient(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type transactionResponse struct {
	ID          string                 `json:"id"`
	ClientID    string                 `json:"client_id"`
	Type        domain.TransactionType `json:"type"`
	Amount      domain.Cents           `json:"amount"`
	Description string                 `json:"description"`
	CreatedAt   string                 `json:"created_at"`
}

type addTransactionRequest struct {
	ClientID    string       `json:"client_id"`
	Type        string       `json:"type"`
	Amount      domain.Cents `json:"amount"`
	Description string       `json:"description"`
}

func (h *HTTPHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txns, err := h.tabs.ListTransactions(r.Context(), r.URL.Query().Get("client_id"))
		if err != nil {
			h.writeError(w, err)
			return
		}
		out := make([]transactionResponse, 0, len(txns))
		for _, tx := range txns {
			out = append(out, toTransactionResponse(tx))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req addTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeBadRequest(w, "invalid request body")
			return
		}
		tx, err := h.tabs.AddTransaction(r.Context(), req.ClientID, domain.TransactionType(req.Type), req.Amount, req.Description)
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toTransactionResponse(tx))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func toTransactionResponse(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		ClientID:    tx.ClientID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type tabSummaryResponse struct {
	TotalClients int          `json:"total_clients"`
	TotalOwed    domain.Cents `json:"total_owed"`
}

func (h *HTTPHandler) TabSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, err := h.tabs.Summary(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tabSummaryResponse{
		TotalClients: summary.TotalClients,
		TotalOwed:    summary.TotalOwed,
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors to HTTP statuses. Store failures pass
// their message through verbatim.
func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateRequest):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInsufficientStock):
		status = http.StatusGone
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *HTTPHandler) writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
