// Package model defines domain entities for the application.
package model

import "sort"

// Gamepass is a purchasable pass listed by a user.
// Identity is ID; two passes with the same ID are the same pass.
type Gamepass struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// IsForSale reports whether the pass has a usable positive price.
func (g Gamepass) IsForSale() bool {
	return g.Price > 0
}

// AggregationResult is the response for a single user lookup.
type AggregationResult struct {
	OK     bool       `json:"ok"`
	UserID uint64     `json:"userId"`
	Count  int        `json:"count"`
	Passes []Gamepass `json:"passes"`

	// Source names the source that produced the passes. Logging only.
	Source string `json:"-"`
}

// NewAggregationResult builds a result for userID. Passes is never nil so
// the JSON body always carries an array.
func NewAggregationResult(userID uint64, passes []Gamepass) AggregationResult {
	if passes == nil {
		passes = []Gamepass{}
	}
	return AggregationResult{
		OK:     true,
		UserID: userID,
		Count:  len(passes),
		Passes: passes,
	}
}

// IsEmpty returns true if no passes were found.
func (r AggregationResult) IsEmpty() bool {
	return len(r.Passes) == 0
}

// SortByPrice orders passes ascending by price. Ties keep discovery order.
func SortByPrice(passes []Gamepass) {
	sort.SliceStable(passes, func(i, j int) bool {
		return passes[i].Price < passes[j].Price
	})
}
