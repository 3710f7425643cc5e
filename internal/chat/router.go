package chat

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"adpilot/internal/reporting"
)

// routeResult is the router verdict for one turn: either the target
// level is fully resolved and ready to dispatch, or an outcome
// (selection or clarification) must go back to the user first.
type routeResult struct {
	ready   bool
	ids     []string
	outcome Outcome
}

// advance walks the hierarchy from CAMPAIGN toward the target level,
// resolving each unresolved level from entities the user already named
// or suspending with a selection round.
func (o *Orchestrator) advance(ctx context.Context, sess *Session, target Level, question string, params ResolvedParams) (routeResult, error) {
	if target == LevelAccount {
		return routeResult{ready: true}, nil
	}
	for level := LevelCampaign; level <= target; level++ {
		if _, ok := sess.Resolved(level); ok {
			continue
		}
		options, err := o.listOptions(ctx, sess, level)
		if err != nil {
			return routeResult{}, errors.Wrapf(err, "list %s", level.Plural())
		}
		if len(options) == 0 {
			return routeResult{outcome: clarificationOutcome(noOptionsMessage(sess, level))}, nil
		}
		if ids, label := matchEntities(options, params.Entities); len(ids) > 0 {
			if err := sess.Extend(level, ids, label); err != nil {
				return routeResult{}, err
			}
			continue
		}
		pending := newPendingSelection(level, options)
		pending.Target = target
		pending.Question = question
		pending.Params = params
		sess.Pending = pending
		return routeResult{outcome: selectionOutcome(pending)}, nil
	}
	ids, _ := sess.Resolved(target)
	return routeResult{ready: true, ids: ids}, nil
}

// listOptions fetches the candidate entities for a level, scoped by
// the resolved parent chain.
func (o *Orchestrator) listOptions(ctx context.Context, sess *Session, level Level) ([]Option, error) {
	var (
		entities []reporting.Entity
		err      error
	)
	switch level {
	case LevelCampaign:
		entities, err = o.backend.ListCampaigns(ctx, sess.Context.AccountID)
	case LevelAdset:
		ids, ok := sess.Resolved(LevelCampaign)
		if !ok {
			return nil, ErrChainGap
		}
		entities, err = o.backend.ListAdsets(ctx, ids)
	case LevelAd:
		ids, ok := sess.Resolved(LevelAdset)
		if !ok {
			return nil, ErrChainGap
		}
		entities, err = o.backend.ListAds(ctx, ids)
	default:
		return nil, errors.Errorf("chat: no options at level %s", level)
	}
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(entities))
	for _, e := range entities {
		options = append(options, Option{ID: e.ID, Name: e.Name, Status: e.Status, Extra: e.Extra})
	}
	return options, nil
}

func noOptionsMessage(sess *Session, level Level) string {
	scope := "this account"
	if level > LevelCampaign {
		parent := level - 1
		if _, ok := sess.Resolved(parent); ok {
			for _, e := range sess.Chain {
				if e.Level == parent && e.Label != "" {
					scope = fmt.Sprintf("%s %q", parent.String(), e.Label)
				}
			}
		}
	}
	return fmt.Sprintf("I couldn't find any %s under %s. You can name a different %s or ask at a higher level.",
		level.Plural(), scope, level.String())
}
