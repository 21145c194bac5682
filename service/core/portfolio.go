package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	ex "stockanalyzer/data/extensions"
	dm "stockanalyzer/data/models"
	"stockanalyzer/data/repos"
	m "stockanalyzer/service/models"
)

var hundred = decimal.NewFromInt(100)

// valuation is one holding priced at its current quote
type valuation struct {
	holding      *dm.Holding
	price        decimal.Decimal
	value        decimal.Decimal
	investment   decimal.Decimal
	pl           decimal.Decimal
	plPercentage decimal.Decimal
	dailyChange  decimal.Decimal
}

type valuations struct {
	items       []valuation
	investment  decimal.Decimal
	value       decimal.Decimal
	dailyChange decimal.Decimal
}

func (v valuations) pl() decimal.Decimal {
	return v.value.Sub(v.investment)
}

func (v valuations) plPercentage() decimal.Decimal {
	return percentOf(v.pl(), v.investment)
}

// percentOf is part/whole*100, zero unless whole is positive
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// value prices every holding through the quote cache. Holdings without any
// quote are valued at their average price and contribute no daily change.
func (sc *ServiceContext) value(ctx context.Context, holdings []*dm.Holding) valuations {
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}

	quotes := make(map[string]m.Quote)
	for _, q := range sc.Quotes.LookupMany(ctx, symbols) {
		quotes[q.Symbol] = q
	}

	res := valuations{items: make([]valuation, 0, len(holdings))}
	for _, h := range holdings {
		quantity := decimal.NewFromFloat(h.Quantity)
		price := decimal.NewFromFloat(h.AveragePrice)
		change := decimal.Zero
		if q, ok := quotes[h.Symbol]; ok {
			price = decimal.NewFromFloat(q.Price)
			change = decimal.NewFromFloat(q.Change)
		}

		v := valuation{
			holding:     h,
			price:       price,
			value:       price.Mul(quantity),
			investment:  decimal.NewFromFloat(h.TotalInvestment),
			dailyChange: change.Mul(quantity),
		}
		v.pl = v.value.Sub(v.investment)
		v.plPercentage = percentOf(v.pl, v.investment)

		res.items = append(res.items, v)
		res.investment = res.investment.Add(v.investment)
		res.value = res.value.Add(v.value)
		res.dailyChange = res.dailyChange.Add(v.dailyChange)
	}
	return res
}

func (sc *ServiceContext) Portfolio(ctx context.Context, userId string) (*m.Portfolio, error) {
	holdings, err := sc.Store.GetHoldings(ctx, userId)
	if err != nil {
		return nil, err
	}

	vs := sc.value(ctx, holdings)
	res := &m.Portfolio{
		TotalInvestment:   round2(vs.investment),
		CurrentValue:      round2(vs.value),
		TotalPL:           round2(vs.pl()),
		TotalPLPercentage: round2(vs.plPercentage()),
		TotalHoldings:     len(holdings),
		Holdings:          make([]m.Holding, 0, len(vs.items)),
		LastUpdated:       ex.FmtLong(sc.clock()),
	}

	for _, v := range vs.items {
		h := v.holding
		item := m.Holding{
			Id:              h.Id,
			Symbol:          h.Symbol,
			Name:            h.Name,
			Quantity:        h.Quantity,
			AveragePrice:    h.AveragePrice,
			CurrentPrice:    round2(v.price),
			TotalInvestment: h.TotalInvestment,
			CurrentValue:    round2(v.value),
			PL:              round2(v.pl),
			PLPercentage:    round2(v.plPercentage),
			DailyChange:     round2(v.dailyChange),
			Notes:           h.Notes,
			CreatedAt:       ex.FmtLong(h.CreatedAt),
		}
		if h.PurchaseDate.Valid {
			item.PurchaseDate = ex.FmtLong(h.PurchaseDate.Time)
		}
		res.Holdings = append(res.Holdings, item)
	}
	return res, nil
}

// Performance summarises the portfolio. Best and worst performer are the
// holdings with the highest and lowest average price, ties keep the first.
func (sc *ServiceContext) Performance(ctx context.Context, userId string) (*m.PortfolioPerformance, error) {
	holdings, err := sc.Store.GetHoldings(ctx, userId)
	if err != nil {
		return nil, err
	}

	vs := sc.value(ctx, holdings)
	res := &m.PortfolioPerformance{
		TotalInvestment:   round2(vs.investment),
		CurrentValue:      round2(vs.value),
		TotalPL:           round2(vs.pl()),
		TotalPLPercentage: round2(vs.plPercentage()),
		DailyChange:       round2(vs.dailyChange),
		// relative to the value before today's move
		DailyChangePercentage: round2(percentOf(vs.dailyChange, vs.value.Sub(vs.dailyChange))),
		TotalHoldings:         len(holdings),
	}

	var best, worst *dm.Holding
	for _, h := range holdings {
		if best == nil || h.AveragePrice > best.AveragePrice {
			best = h
		}
		if worst == nil || h.AveragePrice < worst.AveragePrice {
			worst = h
		}
	}
	res.BestPerformer = toPerformer(best)
	res.WorstPerformer = toPerformer(worst)

	return res, nil
}

func (sc *ServiceContext) AddHolding(ctx context.Context, userId string, req m.HoldingRequest) (*m.HoldingRecord, error) {
	switch {
	case req.Symbol == nil || ex.NormalizeSymbol(*req.Symbol) == "":
		return nil, badRequest("Missing required field: symbol")
	case req.Quantity == nil:
		return nil, badRequest("Missing required field: quantity")
	case req.AveragePrice == nil:
		return nil, badRequest("Missing required field: average_price")
	}
	if err := validateAmounts(req); err != nil {
		return nil, err
	}

	symbol := ex.NormalizeSymbol(*req.Symbol)
	now := sc.clock()
	h := &dm.Holding{
		Id:           ex.NewObjectID(),
		UserId:       userId,
		Symbol:       symbol,
		Name:         symbol,
		Quantity:     *req.Quantity,
		AveragePrice: *req.AveragePrice,
		PurchaseDate: null.TimeFrom(now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := applyHoldingDetails(h, req); err != nil {
		return nil, err
	}
	h.TotalInvestment = totalInvestment(h.Quantity, h.AveragePrice)

	if err := sc.Store.InsertHolding(ctx, h); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return nil, badRequest("Holding already exists for this symbol")
		}
		return nil, err
	}

	sc.logger().Info("holding added", "user_id", userId, "symbol", symbol)
	return toHoldingRecord(h), nil
}

// UpdateHolding applies the present fields, total investment follows quantity and price
func (sc *ServiceContext) UpdateHolding(ctx context.Context, userId, id string, req m.HoldingRequest) error {
	if !ex.IsObjectID(id) {
		return badRequest("Invalid holding id")
	}
	if req.Name == nil && req.Quantity == nil && req.AveragePrice == nil && req.PurchaseDate == nil && req.Notes == nil {
		return badRequest("No data provided")
	}
	if err := validateAmounts(req); err != nil {
		return err
	}

	h, err := sc.Store.GetHolding(ctx, userId, id)
	if errors.Is(err, repos.ErrNotFound) {
		return notFound("Holding not found")
	}
	if err != nil {
		return err
	}

	if req.Quantity != nil {
		h.Quantity = *req.Quantity
	}
	if req.AveragePrice != nil {
		h.AveragePrice = *req.AveragePrice
	}
	if err := applyHoldingDetails(h, req); err != nil {
		return err
	}
	h.TotalInvestment = totalInvestment(h.Quantity, h.AveragePrice)
	h.UpdatedAt = sc.clock()

	if err := sc.Store.UpdateHolding(ctx, h); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return notFound("Holding not found")
		}
		return err
	}
	return nil
}

func (sc *ServiceContext) DeleteHolding(ctx context.Context, userId, id string) error {
	if !ex.IsObjectID(id) {
		return badRequest("Invalid holding id")
	}

	deleted, err := sc.Store.DeleteHolding(ctx, userId, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Holding not found")
	}
	return nil
}

func validateAmounts(req m.HoldingRequest) error {
	if req.Quantity != nil && *req.Quantity <= 0 {
		return badRequest("quantity must be a positive number")
	}
	if req.AveragePrice != nil && *req.AveragePrice <= 0 {
		return badRequest("average_price must be a positive number")
	}
	return nil
}

func applyHoldingDetails(h *dm.Holding, req m.HoldingRequest) error {
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			h.Name = name
		}
	}
	if req.Notes != nil {
		h.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.PurchaseDate != nil {
		t, err := parseDate(*req.PurchaseDate)
		if err != nil {
			return badRequest("Invalid purchase_date")
		}
		h.PurchaseDate = null.TimeFrom(t)
	}
	return nil
}

// parseDate accepts RFC 3339 timestamps and plain dates
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q: %w", raw, err)
	}
	return t, nil
}

func totalInvestment(quantity, averagePrice float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(averagePrice)).InexactFloat64()
}

func toHoldingRecord(h *dm.Holding) *m.HoldingRecord {
	res := &m.HoldingRecord{
		Id:              h.Id,
		UserId:          h.UserId,
		Symbol:          h.Symbol,
		Name:            h.Name,
		Quantity:        h.Quantity,
		AveragePrice:    h.AveragePrice,
		TotalInvestment: h.TotalInvestment,
		Notes:           h.Notes,
	}
	if h.PurchaseDate.Valid {
		res.PurchaseDate = ex.FmtLong(h.PurchaseDate.Time)
	}
	return res
}

func toPerformer(h *dm.Holding) *m.Performer {
	if h == nil {
		return nil
	}
	return &m.Performer{Symbol: h.Symbol, Name: h.Name, AveragePrice: h.AveragePrice}
}
