package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/santty1906/finanzas-pro-plus/internal/charts"
	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/ledger"
	"github.com/santty1906/finanzas-pro-plus/internal/log"
	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
	"github.com/santty1906/finanzas-pro-plus/internal/report"
)

type moneyJSON struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

func money(m core.Money) moneyJSON {
	return moneyJSON{Cents: m.Cents, Formatted: m.Format()}
}

type transactionJSON struct {
	Date        string    `json:"date"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      moneyJSON `json:"amount"`
}

type summaryResponse struct {
	Period           string    `json:"period"`
	Transactions     int       `json:"transactions"`
	Income           moneyJSON `json:"income"`
	Expense          moneyJSON `json:"expense"`
	Net              moneyJSON `json:"net"`
	AvgMonthlyNet    moneyJSON `json:"avg_monthly_net"`
	BreakEven        moneyJSON `json:"break_even"`
	RunwayMonths     *float64  `json:"runway_months"` // null when not applicable
	TargetSavingsPct float64   `json:"target_savings_pct"`
	ActualSavingsPct float64   `json:"actual_savings_pct"`
	SavingsGapPct    float64   `json:"savings_gap_pct"`
	Alerts           []string  `json:"alerts"`
	Recommendations  []string  `json:"recommendations"`
}

type categoryResponse struct {
	Category     string    `json:"category"`
	Amount       moneyJSON `json:"amount"`
	PctOfExpense float64   `json:"pct_of_expense"`
}

type monthResponse struct {
	Month   string    `json:"month"`
	Income  moneyJSON `json:"income"`
	Expense moneyJSON `json:"expense"`
	Net     moneyJSON `json:"net"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", log.FieldError, err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func periodFromQuery(r *http.Request) (ledger.Period, error) {
	q := r.URL.Query()
	return ledger.ParsePeriod(q.Get("month"), q.Get("start"), q.Get("end"))
}

// snapshot loads the period's transactions and computes their metrics.
func (s *Server) snapshot(r *http.Request) ([]core.Transaction, metrics.Snapshot, ledger.Period, error) {
	p, err := periodFromQuery(r)
	if err != nil {
		return nil, metrics.Snapshot{}, ledger.Period{}, fmt.Errorf("%w: %s", errBadRequest, err)
	}
	txs, err := s.source.List(r.Context(), p)
	if err != nil {
		return nil, metrics.Snapshot{}, p, fmt.Errorf("list transactions: %w", err)
	}
	return txs, metrics.Compute(txs, s.settings.Metrics()), p, nil
}

var errBadRequest = errors.New("bad request")

func (s *Server) respondSnapshotErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBadRequest) {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	log.FromContext(r.Context()).Error("snapshot failed", log.FieldError, err.Error())
	s.writeError(w, http.StatusInternalServerError, err)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	_, snap, p, err := s.snapshot(r)
	if err != nil {
		s.respondSnapshotErr(w, r, err)
		return
	}

	resp := summaryResponse{
		Period:           p.Label(),
		Transactions:     snap.Transactions,
		Income:           money(snap.Income),
		Expense:          money(snap.Expense),
		Net:              money(snap.Net),
		AvgMonthlyNet:    money(snap.AvgMonthlyNet),
		BreakEven:        money(snap.BreakEven),
		TargetSavingsPct: snap.TargetSavingsPct,
		ActualSavingsPct: snap.ActualSavingsPct,
		SavingsGapPct:    snap.SavingsGapPct,
		Alerts:           make([]string, 0, len(snap.Alerts)),
		Recommendations:  append([]string{}, snap.Recommendations...),
	}
	if snap.Runway.Applicable {
		months := snap.Runway.Months
		resp.RunwayMonths = &months
	}
	for _, a := range snap.Alerts {
		resp.Alerts = append(resp.Alerts, a.Message)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	_, snap, _, err := s.snapshot(r)
	if err != nil {
		s.respondSnapshotErr(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(snap.Categories))
	for _, ct := range snap.Categories {
		pct := 0.0
		if snap.Expense.Cents > 0 {
			pct = float64(ct.Amount.Cents) / float64(snap.Expense.Cents) * 100
		}
		out = append(out, categoryResponse{
			Category:     ct.Category,
			Amount:       money(ct.Amount),
			PctOfExpense: pct,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	_, snap, _, err := s.snapshot(r)
	if err != nil {
		s.respondSnapshotErr(w, r, err)
		return
	}

	out := make([]monthResponse, 0, len(snap.Monthly))
	for _, m := range snap.Monthly {
		out = append(out, monthResponse{
			Month:   m.Month,
			Income:  money(m.Income),
			Expense: money(m.Expense),
			Net:     money(m.Net),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, _, _, err := s.snapshot(r)
	if err != nil {
		s.respondSnapshotErr(w, r, err)
		return
	}

	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionJSON{
			Date:        tx.Date.String(),
			Type:        string(tx.Type),
			Category:    tx.Category,
			Description: tx.Description,
			Amount:      money(tx.Amount),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type createTransactionRequest struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	tx, err := buildTransaction(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.source.Append(r.Context(), tx); err != nil {
		log.FromContext(r.Context()).Error("append failed", log.FieldError, err.Error())
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Cached charts no longer reflect the ledger.
	s.generation.Add(1)
	s.structured.LogTransactionAppended(r.Context(), tx.Category, tx.Amount.Cents)

	s.writeJSON(w, http.StatusCreated, transactionJSON{
		Date:        tx.Date.String(),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Description: tx.Description,
		Amount:      money(tx.Amount),
	})
}

// buildTransaction normalizes a request body into a signed transaction.
// Expense amounts may arrive as magnitudes; the type decides the sign. A
// negative amount on an income row is rejected rather than silently flipped.
func buildTransaction(req createTransactionRequest) (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", req.Date, err)
	}
	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	cents, err := core.ParseSignedCents(req.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", req.Amount, err)
	}
	if cents == 0 {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", req.Amount, core.ErrInvalidAmount)
	}
	switch typ {
	case core.Expense:
		if cents > 0 {
			cents = -cents
		}
	case core.Income:
		if cents < 0 {
			return core.Transaction{}, fmt.Errorf("negative amount on income: %w", core.ErrSignMismatch)
		}
	}

	tx := core.Transaction{
		Date:        date,
		Type:        typ,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Amount:      core.Money{Cents: cents},
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("chart")
	kindName, ok := strings.CutSuffix(name, ".png")
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown chart %q", name))
		return
	}
	kind := charts.Kind(kindName)
	if !kind.Valid() {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown chart kind %q", kindName))
		return
	}

	p, err := periodFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	key := fmt.Sprintf("%d|%s|%s", s.generation.Load(), kind, p.Label())
	if png, ok := s.chartCache.Get(key); ok {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(png)
		return
	}

	txs, err := s.source.List(r.Context(), p)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	snap := metrics.Compute(txs, s.settings.Metrics())
	png, err := s.renderer.Render(kind, txs, snap, charts.Options{
		Title:           p.Label(),
		TopN:            s.settings.ChartTopN,
		MovingAvgWindow: s.settings.MovingAvgWindow,
	})
	if err != nil {
		s.structured.LogError(r.Context(), "render chart failed", err,
			log.ComponentCharts, log.OpRender, log.LogFields{log.FieldChartKind: string(kind)})
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.chartCache.Set(key, png)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(png)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	_, snap, p, err := s.snapshot(r)
	if err != nil {
		s.respondSnapshotErr(w, r, err)
		return
	}

	md, err := report.Render(report.Data{
		PeriodLabel:    p.Label(),
		Snapshot:       snap,
		OpeningBalance: s.settings.Metrics().OpeningBalance,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(md))
}
