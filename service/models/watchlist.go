package models

type WatchlistAddRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type WatchlistItem struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	AddedAt string `json:"added_at"`
}

type WatchlistCheck struct {
	Symbol      string `json:"symbol"`
	InWatchlist bool   `json:"in_watchlist"`
}
