package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ex "stockanalyzer/data/extensions"
	dm "stockanalyzer/data/models"
	"stockanalyzer/data/repos"
	m "stockanalyzer/service/models"
)

func (sc *ServiceContext) Watchlist(ctx context.Context, userId string) ([]m.WatchlistItem, error) {
	items, err := sc.Store.GetWatchlist(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]m.WatchlistItem, 0, len(items))
	for _, item := range items {
		res = append(res, m.WatchlistItem{
			Symbol:  item.Symbol,
			Name:    item.Name,
			AddedAt: ex.FmtLong(item.AddedAt),
		})
	}
	return res, nil
}

func (sc *ServiceContext) AddToWatchlist(ctx context.Context, userId string, req m.WatchlistAddRequest) (*m.WatchlistItem, string, error) {
	symbol := ex.NormalizeSymbol(req.Symbol)
	name := strings.TrimSpace(req.Name)
	if symbol == "" || name == "" {
		return nil, "", badRequest("Symbol and name are required")
	}

	item := &dm.WatchlistItem{UserId: userId, Symbol: symbol, Name: name, AddedAt: sc.clock()}
	if err := sc.Store.InsertWatchlistItem(ctx, item); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return nil, "", badRequest("Stock already in watchlist")
		}
		return nil, "", err
	}

	return &m.WatchlistItem{
		Symbol:  item.Symbol,
		Name:    item.Name,
		AddedAt: ex.FmtLong(item.AddedAt),
	}, fmt.Sprintf("%s added to watchlist", symbol), nil
}

func (sc *ServiceContext) RemoveFromWatchlist(ctx context.Context, userId, symbol string) (string, error) {
	symbol = ex.NormalizeSymbol(symbol)
	if symbol == "" {
		return "", badRequest("Symbol is required")
	}

	removed, err := sc.Store.DeleteWatchlistItem(ctx, userId, symbol)
	if err != nil {
		return "", err
	}
	if !removed {
		return "", badRequest("Stock not found in watchlist")
	}
	return fmt.Sprintf("%s removed from watchlist", symbol), nil
}

func (sc *ServiceContext) CheckWatchlist(ctx context.Context, userId, symbol string) (*m.WatchlistCheck, error) {
	symbol = ex.NormalizeSymbol(symbol)
	in, err := sc.Store.IsInWatchlist(ctx, userId, symbol)
	if err != nil {
		return nil, err
	}
	return &m.WatchlistCheck{Symbol: symbol, InWatchlist: in}, nil
}
