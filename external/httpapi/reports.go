package httpapi

import (
	"net/http"
	"time"

	"github.com/foxseedlab/kasirsuara/internal/repository"
	"github.com/shopspring/decimal"
)

type dailyTotalResponse struct {
	Date        string          `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type monthlyResponse struct {
	MerchantID int64                `json:"umkm_id"`
	Month      string               `json:"month"`
	Data       []dailyTotalResponse `json:"data"`
}

type periodSummaryResponse struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalTransactions int             `json:"total_transactions"`
}

type summaryResponse struct {
	MerchantID int64                 `json:"umkm_id"`
	Daily      periodSummaryResponse `json:"daily"`
	Monthly    periodSummaryResponse `json:"monthly"`
}

type recentItemResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type recentTransactionResponse struct {
	TransactionID   int64                `json:"transaction_id"`
	TransactionDate time.Time            `json:"transaction_date"`
	Status          string               `json:"status"`
	CustomerName    string               `json:"customer_name"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	Transcript      string               `json:"transcript"`
	Items           []recentItemResponse `json:"items"`
}

type lastTransactionsResponse struct {
	MerchantID int64                       `json:"umkm_id"`
	Data       []recentTransactionResponse `json:"data"`
}

func (s *Server) handleMonthlyTransaction(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := merchantIDFromQuery(w, r)
	if !ok {
		return
	}
	monthly, err := s.reports.MonthlyTransactions(r.Context(), merchantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := monthlyResponse{MerchantID: merchantID, Month: monthly.Month, Data: make([]dailyTotalResponse, 0, len(monthly.Days))}
	for _, d := range monthly.Days {
		resp.Data = append(resp.Data, dailyTotalResponse{Date: d.Date.Format(time.DateOnly), TotalAmount: d.TotalAmount})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransactionSummary(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := merchantIDFromQuery(w, r)
	if !ok {
		return
	}
	summary, err := s.reports.TransactionSummary(r.Context(), merchantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		MerchantID: merchantID,
		Daily:      toPeriodSummary(summary.Today),
		Monthly:    toPeriodSummary(summary.Month),
	})
}

func (s *Server) handleLastTransaction(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := merchantIDFromQuery(w, r)
	if !ok {
		return
	}
	list, err := s.reports.LastTransactions(r.Context(), merchantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := lastTransactionsResponse{MerchantID: merchantID, Data: make([]recentTransactionResponse, 0, len(list))}
	for _, t := range list {
		items := make([]recentItemResponse, 0, len(t.Items))
		for _, it := range t.Items {
			items = append(items, recentItemResponse{
				ProductID: it.ProductID,
				Name:      it.ProductName,
				Category:  it.Category,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}
		resp.Data = append(resp.Data, recentTransactionResponse{
			TransactionID:   t.TransactionID,
			TransactionDate: t.CreatedAt,
			Status:          string(t.Status),
			CustomerName:    t.CustomerName,
			TotalAmount:     t.TotalAmount,
			Transcript:      t.Transcript,
			Items:           items,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func toPeriodSummary(s repository.PeriodSummary) periodSummaryResponse {
	return periodSummaryResponse{TotalSales: s.TotalSales, TotalTransactions: s.TotalTransactions}
}
