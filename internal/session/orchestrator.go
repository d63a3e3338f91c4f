// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/nutrilens/internal/backend"
	"github.com/jeranaias/nutrilens/internal/model"
)

// Analyzer is the part of the backend a round needs. *backend.Client
// implements it.
type Analyzer interface {
	Simplify(ctx context.Context, rec model.NutritionRecord) (*model.Simplification, error)
	HealthGoal(ctx context.Context, rec model.NutritionRecord, goal model.HealthGoal) (*model.GoalFit, error)
	DietCompatibility(ctx context.Context, rec model.NutritionRecord, diet model.DietType) (*model.DietFit, error)
	Warnings(ctx context.Context, rec model.NutritionRecord) (*model.WarningReport, error)
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator runs analysis rounds.
type Orchestrator struct {
	analyzer Analyzer
}

// NewOrchestrator creates an orchestrator backed by a.
func NewOrchestrator(a Analyzer) *Orchestrator {
	return &Orchestrator{analyzer: a}
}

// RunAll validates rec, then issues the four analysis requests concurrently
// and waits for all of them. Either all four results are returned or none:
// the first failure cancels the others and is returned as a *Failure.
func (o *Orchestrator) RunAll(ctx context.Context, rec model.NutritionRecord, sel model.Selector) (model.ResultSet, error) {
	if err := ValidateForAnalysis(rec); err != nil {
		return model.ResultSet{}, err
	}

	var (
		simp *model.Simplification
		goal *model.GoalFit
		diet *model.DietFit
		warn *model.WarningReport
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := o.analyzer.Simplify(gctx, rec)
		if err != nil {
			return NewFailure(backend.OpSimplify, err)
		}
		simp = r
		return nil
	})
	g.Go(func() error {
		r, err := o.analyzer.HealthGoal(gctx, rec, sel.HealthGoal)
		if err != nil {
			return NewFailure(backend.OpHealthGoal, err)
		}
		goal = r
		return nil
	})
	g.Go(func() error {
		r, err := o.analyzer.DietCompatibility(gctx, rec, sel.DietType)
		if err != nil {
			return NewFailure(backend.OpDietCompatibility, err)
		}
		diet = r
		return nil
	})
	g.Go(func() error {
		r, err := o.analyzer.Warnings(gctx, rec)
		if err != nil {
			return NewFailure(backend.OpWarnings, err)
		}
		warn = r
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Printf("session: round for %q failed after %v: %v", rec.FoodName, time.Since(start), err)
		return model.ResultSet{}, err
	}

	log.Printf("session: round for %q completed in %v", rec.FoodName, time.Since(start))
	return model.ResultSet{
		Simplification:    simp,
		HealthGoal:        goal,
		DietCompatibility: diet,
		Warnings:          warn,
	}, nil
}
